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

type AuthHandler struct {
	authService *app.AuthService
	sessions    *session.Manager
	render      *render.Renderer
}

type LoginForm struct {
	Identifier string `form:"identifier" binding:"required,max=128"`
	Password   string `form:"password" binding:"required,max=128"`
	RememberMe bool   `form:"remember_me"`
}

type RegisterForm struct {
	Username        string `form:"username" binding:"required,min=3,max=64"`
	Email           string `form:"email" binding:"required,email,max=128"`
	Password        string `form:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

func NewAuthHandler(authService *app.AuthService, sessions *session.Manager, render *render.Renderer) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, render: render}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "login.html", gin.H{
		"Next": c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.sessions.Flash(c, "Invalid username/email or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.authService.Login(app.LoginInput{
		Identifier: form.Identifier,
		Password:   form.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredential) {
			// One message for both unknown user and wrong password.
			h.sessions.Flash(c, "Invalid username/email or password")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		h.render.HTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"FormError": "Something went wrong. Please try again.",
		})
		return
	}

	if err := h.sessions.Issue(c, user, form.RememberMe); err != nil {
		h.render.HTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"FormError": "Something went wrong. Please try again.",
		})
		return
	}

	h.sessions.Flash(c, "Welcome back, "+user.Username+"!")
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.sessions.Clear(c)
	h.sessions.Flash(c, "You have been logged out successfully.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render.HTML(c, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	if middleware.UserFrom(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.HTML(c, http.StatusOK, "register.html", gin.H{
			"Errors":   bindingFieldErrors(err),
			"Username": c.PostForm("username"),
			"Email":    c.PostForm("email"),
		})
		return
	}

	user, err := h.authService.Register(app.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		var fields app.FieldErrors
		if errors.As(err, &fields) {
			h.render.HTML(c, http.StatusOK, "register.html", gin.H{
				"Errors":   fields,
				"Username": form.Username,
				"Email":    form.Email,
			})
			return
		}
		h.render.HTML(c, http.StatusInternalServerError, "register.html", gin.H{
			"FormError": "Something went wrong. Please try again.",
		})
		return
	}

	h.sessions.Flash(c, "Welcome to MusicWebsite, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/")
}
