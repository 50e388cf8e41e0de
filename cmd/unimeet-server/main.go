package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/unimeet/unimeet/pkg/unimeet/admin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/database"
	"github.com/unimeet/unimeet/pkg/unimeet/groups"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/posts"
	"github.com/unimeet/unimeet/pkg/unimeet/profile"
	"github.com/unimeet/unimeet/pkg/unimeet/reports"
	"gorm.io/gorm"
)

// @title UniMeet API
// @version 1.0
// @description A university community platform with posts, groups, and moderation.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// .env is a development convenience; the environment itself wins
	_ = godotenv.Load()

	dbPath := os.Getenv("UNIMEET_DB_PATH")
	if dbPath == "" {
		dbPath = "unimeet.db"
	}

	// DATABASE_URL selects postgres; otherwise sqlite at dbPath
	if err := database.Connect(dbPath, os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := seedAllowedDomains(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed allowed email domains: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(corsConfig()))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "unimeet",
			})
		})

		db := database.GetDB()

		// Auth routes (register/login/init-admin public, /me protected)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Posts routes (protected)
		postsHandler := posts.NewHandler(db)
		postsGroup := api.Group("/posts")
		postsGroup.Use(auth.AuthMiddleware())
		postsHandler.RegisterRoutes(postsGroup)
		postsHandler.RegisterCommentRoutes(postsGroup)
		postsHandler.RegisterInterestRoutes(postsGroup)

		// Groups routes (protected)
		groupsHandler := groups.NewHandler(db)
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterModerationRoutes(groupsGroup)
		groupsHandler.RegisterRequestRoutes(groupsGroup)

		// Reports routes (protected)
		reportsHandler := reports.NewHandler(db)
		reportsHandler.RegisterRoutes(api.Group("/reports", auth.AuthMiddleware()))

		// Profile routes (protected)
		profileHandler := profile.NewHandler(db)
		profileHandler.RegisterRoutes(api.Group("/profile", auth.AuthMiddleware()))

		// Admin routes (JWT plus a live admin-flag check per request)
		adminHandler := admin.NewHandler(db)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin(db))
		adminHandler.RegisterRoutes(adminGroup)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting UniMeet server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsConfig builds the CORS policy from UNIMEET_CORS_ORIGINS, a
// comma-separated origin list. Unset means all origins (development).
func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")

	origins := os.Getenv("UNIMEET_CORS_ORIGINS")
	if origins == "" {
		config.AllowAllOrigins = true
		return config
	}

	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.AllowOrigins = append(config.AllowOrigins, origin)
		}
	}
	return config
}

// seedAllowedDomains loads UNIMEET_ALLOWED_DOMAINS (comma-separated) into the
// registration allowlist. An empty table allows any email domain.
func seedAllowedDomains(db *gorm.DB) error {
	domains := os.Getenv("UNIMEET_ALLOWED_DOMAINS")
	if domains == "" {
		return nil
	}

	for _, domain := range strings.Split(domains, ",") {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}

		var count int64
		if err := db.Model(&models.AllowedEmailDomain{}).
			Where("domain = ?", domain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.AllowedEmailDomain{Domain: domain}).Error; err != nil {
			return err
		}
		log.Printf("Allowed registration domain: %s", domain)
	}
	return nil
}
