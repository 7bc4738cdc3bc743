package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"musicwebsite/internal/app"
	"musicwebsite/internal/repository"
	"musicwebsite/internal/session"
	"musicwebsite/internal/transport/http/middleware"
	"musicwebsite/internal/transport/http/render"
)

// Stripped-down stand-ins for the real pages, enough to assert on.
const testTemplates = `
{{define "index.html"}}{{range .Flashes}}[flash:{{.}}]{{end}}{{with .FormError}}[error:{{.}}]{{end}}{{range .Posts}}<h2>{{.Title}}</h2>{{end}}{{end}}
{{define "login.html"}}login-page{{with .FormError}}[error:{{.}}]{{end}}{{end}}
{{define "register.html"}}register-page{{with .Errors}}{{range $f, $msg := .}}[{{$f}}:{{$msg}}]{{end}}{{end}}{{end}}
{{define "profile.html"}}profile:{{.CurrentUser.Username}}{{end}}
{{define "edit_profile.html"}}edit-page{{with .Errors}}{{range $f, $msg := .}}[{{$f}}:{{$msg}}]{{end}}{{end}}{{end}}
`

type memStore struct {
	revoked map[string]bool
	flashes map[string][]string
}

func newMemStore() *memStore {
	return &memStore{revoked: map[string]bool{}, flashes: map[string][]string{}}
}

func (s *memStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *memStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func (s *memStore) Push(_ context.Context, id, message string) error {
	s.flashes[id] = append(s.flashes[id], message)
	return nil
}

func (s *memStore) Pop(_ context.Context, id string) ([]string, error) {
	messages := s.flashes[id]
	delete(s.flashes, id)
	return messages, nil
}

func (s *memStore) allFlashes() []string {
	var all []string
	for _, messages := range s.flashes {
		all = append(all, messages...)
	}
	return all
}

type testSite struct {
	router   *gin.Engine
	mock     sqlmock.Sqlmock
	store    *memStore
	sessions *session.Manager
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	authService := app.NewAuthService(userRepo)
	profileService := app.NewProfileService(userRepo)
	feedService := app.NewFeedService(postRepo)

	store := newMemStore()
	sessions := session.NewManager(session.Options{
		Secret:          "test-secret",
		SessionTTL:      30 * time.Minute,
		RememberTTL:     30 * 24 * time.Hour,
		CookieName:      "mw_session",
		FlashCookieName: "mw_flash",
	}, store, store)
	renderer := render.New(sessions)

	feedHandler := NewFeedHandler(feedService, renderer)
	authHandler := NewAuthHandler(authService, sessions, renderer)
	profileHandler := NewProfileHandler(profileService, sessions, renderer)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("pages").Parse(testTemplates)))
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

	return &testSite{router: router, mock: mock, store: store, sessions: sessions}
}

func (s *testSite) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testSite) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
