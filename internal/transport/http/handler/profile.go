package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"musicwebsite/internal/app"
	"musicwebsite/internal/session"
	"musicwebsite/internal/transport/http/middleware"
	"musicwebsite/internal/transport/http/render"
)

type ProfileHandler struct {
	profileService *app.ProfileService
	sessions       *session.Manager
	render         *render.Renderer
}

type EditProfileForm struct {
	Username string `form:"username" binding:"omitempty,min=3,max=64"`
	Email    string `form:"email" binding:"omitempty,email,max=128"`
}

func NewProfileHandler(profileService *app.ProfileService, sessions *session.Manager, render *render.Renderer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, sessions: sessions, render: render}
}

func (h *ProfileHandler) Show(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "profile.html", nil)
}

func (h *ProfileHandler) ShowEdit(c *gin.Context) {
	user := middleware.UserFrom(c)
	h.render.HTML(c, http.StatusOK, "edit_profile.html", gin.H{
		"Username": user.Username,
		"Email":    user.Email,
	})
}

func (h *ProfileHandler) Edit(c *gin.Context) {
	user := middleware.UserFrom(c)

	var form EditProfileForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusOK, "edit_profile.html", gin.H{
			"Errors":   bindingFieldErrors(err),
			"Username": c.PostForm("username"),
			"Email":    c.PostForm("email"),
		})
		return
	}

	changed, err := h.profileService.UpdateProfile(user, app.EditProfileInput{
		Username: form.Username,
		Email:    form.Email,
	})
	if err != nil {
		var fields app.FieldErrors
		if errors.As(err, &fields) {
			h.render.HTML(c, http.StatusOK, "edit_profile.html", gin.H{
				"Errors":   fields,
				"Username": form.Username,
				"Email":    form.Email,
			})
			return
		}
		h.render.HTML(c, http.StatusInternalServerError, "edit_profile.html", gin.H{
			"FormError": "Something went wrong. Please try again.",
			"Username":  user.Username,
			"Email":     user.Email,
		})
		return
	}

	if changed {
		h.sessions.Flash(c, "Your changes have been saved.")
	}
	c.Redirect(http.StatusFound, "/profile")
}
