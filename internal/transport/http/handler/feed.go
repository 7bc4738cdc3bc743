package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musicwebsite/internal/app"
	"musicwebsite/internal/transport/http/render"
)

type FeedHandler struct {
	feedService *app.FeedService
	render      *render.Renderer
}

func NewFeedHandler(feedService *app.FeedService, render *render.Renderer) *FeedHandler {
	return &FeedHandler{feedService: feedService, render: render}
}

// Index is the home page: every post, newest first.
func (h *FeedHandler) Index(c *gin.Context) {
	posts, err := h.feedService.ListPosts()
	if err != nil {
		h.render.HTML(c, http.StatusInternalServerError, "index.html", gin.H{
			"FormError": "The news feed is unavailable right now.",
		})
		return
	}
	h.render.HTML(c, http.StatusOK, "index.html", gin.H{
		"Posts": posts,
	})
}
