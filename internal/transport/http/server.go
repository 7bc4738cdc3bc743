package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "musicwebsite/internal/app"
	"musicwebsite/internal/bootstrap"
	"musicwebsite/internal/repository"
	"musicwebsite/internal/session"
	"musicwebsite/internal/transport/http/handler"
	"musicwebsite/internal/transport/http/middleware"
	"musicwebsite/internal/transport/http/render"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.LoadHTMLGlob("web/templates/*.html")

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	authService := appsvc.NewAuthService(userRepo)
	profileService := appsvc.NewProfileService(userRepo)
	feedService := appsvc.NewFeedService(postRepo)

	store := session.NewRedisStore(app.Redis, time.Duration(app.Config.Redis.FlashTTLSeconds)*time.Second)
	sessions := session.NewManager(session.Options{
		Secret:          app.Config.Auth.SessionSecret,
		SessionTTL:      time.Duration(app.Config.Auth.SessionTTLMinute) * time.Minute,
		RememberTTL:     time.Duration(app.Config.Auth.RememberTTLMinute) * time.Minute,
		CookieName:      app.Config.Auth.SessionCookie,
		FlashCookieName: app.Config.Auth.FlashCookie,
		CookieSecure:    app.Config.Auth.CookieSecure,
	}, store, store)
	renderer := render.New(sessions)

	feedHandler := handler.NewFeedHandler(feedService, renderer)
	authHandler := handler.NewAuthHandler(authService, sessions, renderer)
	profileHandler := handler.NewProfileHandler(profileService, sessions, renderer)
	healthHandler := handler.NewHealthHandler(app)

	router.Use(middleware.CurrentUser(sessions, userRepo))

	router.GET("/", feedHandler.Index)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)

	authed := router.Group("/", middleware.RequireAuth())
	authed.GET("/profile", profileHandler.Show)
	authed.GET("/edit_profile", profileHandler.ShowEdit)
	authed.POST("/edit_profile", profileHandler.Edit)

	router.GET("/healthz", healthHandler.Check)

	return router
}
