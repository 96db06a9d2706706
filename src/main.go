package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-go/src/config"
	"blog-go/src/database"
	"blog-go/src/handlers"
	"blog-go/src/middleware"
	"blog-go/src/models"
	"blog-go/src/server"
	"blog-go/src/services"
	"blog-go/src/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	appLogger, err := utils.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if cfg.SessionSecret == "" {
		if cfg.Mode == "production" {
			appLogger.Fatal("SESSION_SECRET must be set")
		}
		// Development fallback; every restart invalidates old sessions.
		cfg.SessionSecret = "development-secret"
		appLogger.Info("SESSION_SECRET not set, using a development secret")
	}
	secret := []byte(cfg.SessionSecret)

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		appLogger.Fatal("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		appLogger.Fatal("failed to create uploads directory: %v", err)
	}

	userModel := &models.UserModel{DB: db}
	if count, err := userModel.Count(); err == nil && count == 0 {
		appLogger.Info("No users found - create an admin account via POST /register")
	}

	switch cfg.Mode {
	case "development", "dev":
		gin.SetMode(gin.DebugMode)
	case "test", "testing":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLogger(appLogger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	tmpl, err := server.LoadTemplates()
	if err != nil {
		appLogger.Fatal("failed to load templates: %v", err)
	}
	r.SetHTMLTemplate(tmpl)

	staticSubFS, err := server.GetStaticSubFS()
	if err != nil {
		appLogger.Fatal("failed to load static assets: %v", err)
	}
	r.StaticFS("/static", http.FS(staticSubFS))
	r.Static(cfg.UploadsPrefix, cfg.UploadsDir)

	weatherService := services.NewWeatherService()

	web := handlers.NewWebHandler(db, weatherService, cfg.Weather, appLogger)
	admin := handlers.NewAdminHandler(db, secret, cfg.UploadsDir, cfg.UploadsPrefix, appLogger)

	// Public routes
	r.GET("/", web.Home)
	r.GET("/post/:id", web.ShowPost)
	r.POST("/post/:id/comment", web.CreateComment)
	r.POST("/search", web.Search)
	r.GET("/about", web.About)
	r.GET("/contact", web.Contact)

	// Login, registration and logout are reachable without a session
	r.GET("/admin", admin.ShowLogin)
	r.POST("/admin", admin.HandleLogin)
	r.POST("/register", admin.HandleRegister)
	r.GET("/logout", admin.Logout)

	// Everything else in the admin surface requires a valid token cookie
	authorized := r.Group("/", middleware.RequireAuth(secret))
	authorized.GET("/dashboard", admin.Dashboard)
	authorized.GET("/add-post", admin.ShowAddPost)
	authorized.POST("/add-post", admin.HandleAddPost)
	authorized.GET("/edit-post/:id", admin.ShowEditPost)
	authorized.PUT("/edit-post/:id", admin.HandleEditPost)
	authorized.DELETE("/delete-post/:id", admin.HandleDeletePost)

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Server("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Server("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown: %v", err)
	}
}
