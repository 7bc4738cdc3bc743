package render

import (
	"github.com/gin-gonic/gin"

	"musicwebsite/internal/session"
	"musicwebsite/internal/transport/http/middleware"
)

// Renderer renders HTML pages with the data every page needs: the current
// user and any pending flash messages.
type Renderer struct {
	sessions *session.Manager
}

func New(sessions *session.Manager) *Renderer {
	return &Renderer{sessions: sessions}
}

func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.UserFrom(c)
	data["Flashes"] = r.sessions.TakeFlashes(c)
	c.HTML(status, name, data)
}
