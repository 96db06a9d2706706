package handlers_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"blog-go/src/config"
	"blog-go/src/database"
	"blog-go/src/handlers"
	"blog-go/src/middleware"
	"blog-go/src/server"
	"blog-go/src/services"
	"blog-go/src/utils"

	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"
)

var testSecret = []byte("test-secret")

// newTestServer wires a router the same way main does, against a temp
// database, a temp uploads directory and the given weather endpoint.
func newTestServer(t *testing.T, weatherURL string) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, err := utils.NewLogger(t.TempDir())
	require.NoError(t, err)

	tmpl, err := server.LoadTemplates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	weather := services.NewWeatherServiceWithBaseURL(weatherURL)
	location := config.WeatherConfig{Latitude: 51.5072, Longitude: -0.1276, Location: "London"}

	web := handlers.NewWebHandler(db, weather, location, logger)
	admin := handlers.NewAdminHandler(db, testSecret, t.TempDir(), "/uploads", logger)

	r.GET("/", web.Home)
	r.GET("/post/:id", web.ShowPost)
	r.POST("/post/:id/comment", web.CreateComment)
	r.POST("/search", web.Search)
	r.GET("/about", web.About)
	r.GET("/contact", web.Contact)

	r.GET("/admin", admin.ShowLogin)
	r.POST("/admin", admin.HandleLogin)
	r.POST("/register", admin.HandleRegister)
	r.GET("/logout", admin.Logout)

	authorized := r.Group("/", middleware.RequireAuth(testSecret))
	authorized.GET("/dashboard", admin.Dashboard)
	authorized.GET("/add-post", admin.ShowAddPost)
	authorized.POST("/add-post", admin.HandleAddPost)
	authorized.GET("/edit-post/:id", admin.ShowEditPost)
	authorized.PUT("/edit-post/:id", admin.HandleEditPost)
	authorized.DELETE("/delete-post/:id", admin.HandleDeletePost)

	return r, db
}

// deadWeatherURL points at a server that refuses connections, so the weather
// fetch always fails.
func deadWeatherURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	return srv.URL
}

// liveWeatherURL serves a fixed forecast payload.
func liveWeatherURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"current": {"time": "2026-01-05T14:00", "temperature_2m": 6.3, "weather_code": 3},
			"hourly": {
				"time": ["2026-01-05T00:00", "2026-01-05T01:00"],
				"temperature_2m": [4.0, 4.5]
			}
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an admin account and returns its session cookie.
func registerAndLogin(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()

	w := postForm(r, "/register", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postForm(r, "/admin", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusFound, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookieName {
			return c
		}
	}
	t.Fatal("login did not set a token cookie")
	return nil
}
