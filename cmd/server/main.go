package main

import (
	"log"

	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/config"
	"github.com/deltanitt/clubs-api/internal/constants"
	"github.com/deltanitt/clubs-api/internal/database"
	"github.com/deltanitt/clubs-api/internal/handlers"
	"github.com/deltanitt/clubs-api/internal/middleware"
	"github.com/deltanitt/clubs-api/internal/repository"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/deltanitt/clubs-api/internal/storage"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed the privilege catalogs
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Media storage for uploaded images
	blobs, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories, gate, and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	gate := authz.NewGate(membershipRepo)
	sessionService := services.NewSessionService(sessionRepo)
	authService := services.NewAuthService(userRepo, sessionService)
	clubService := services.NewClubService(clubRepo, projectRepo, userRepo, membershipRepo, gate)
	projectService := services.NewProjectService(projectRepo, clubRepo, userRepo, membershipRepo, gate)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessionService, blobs)
	clubHandler := handlers.NewClubHandler(clubService, blobs)
	projectHandler := handlers.NewProjectHandler(projectService, blobs)
	adminHandler := handlers.NewAdminHandler(clubService)

	requireAuth := middleware.RequireAuth(sessionService, userRepo)

	// Uploaded media
	r.Static(cfg.MediaBaseURL, blobs.Dir())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Clubs Directory API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		// Club routes (reads public, mutations protected)
		clubs := api.Group("/clubs")
		{
			clubs.GET("", clubHandler.List)
			clubs.GET("/search", clubHandler.Search)
			clubs.GET("/:name", clubHandler.Detail)
			clubs.POST("", requireAuth, clubHandler.Create)
			clubs.PUT("/:name", requireAuth, clubHandler.Edit)
			clubs.DELETE("/:name", requireAuth, clubHandler.Delete)
		}

		// Project routes (reads public, mutations protected)
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/search", projectHandler.Search)
			projects.GET("/:name", projectHandler.Detail)
			projects.POST("", requireAuth, projectHandler.Create)
			projects.PUT("/:name", requireAuth, projectHandler.Edit)
			projects.DELETE("/:name", requireAuth, projectHandler.Delete)
		}

		// Overall admin console
		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireGlobalAdmin())
		{
			admin.POST("/clubs/assign-head", adminHandler.AssignClubHead)
			admin.POST("/clubs/remove-head", adminHandler.RemoveClubHead)
			admin.GET("/clubs", adminHandler.ListClubs)
			admin.GET("/clubs/:name", adminHandler.ClubDetail)
		}

		// Club head endpoints: same operations, gated per club by the
		// authorization gate instead of the global flag
		clubHead := api.Group("/club-head")
		clubHead.Use(requireAuth)
		{
			clubHead.POST("/assign-head", adminHandler.AssignClubHead)
			clubHead.POST("/remove-head", adminHandler.RemoveClubHead)
			clubHead.GET("/dashboard", adminHandler.Dashboard)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
