package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"partnerhub/config"
	"partnerhub/database"
	"partnerhub/handlers"
	auth_handlers "partnerhub/handlers/auth"
	contact_handlers "partnerhub/handlers/contact"
	event_handlers "partnerhub/handlers/event"
	partner_handlers "partnerhub/handlers/partner"
	user_handlers "partnerhub/handlers/user"
	"partnerhub/model"
	"partnerhub/services/storage"
	"partnerhub/utils/auth"
	"partnerhub/utils/cache"
	"partnerhub/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}

	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "partnerhub-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: auth.SessionDuration,
		Issuer: jwtIssuer,
	})

	db := store.GetDB()

	// Redis backs login lockouts; without it the API still runs, just unprotected
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache, err := cache.NewRedisCache(redisURL); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	} else {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Document storage is optional in the same way
	var spacesClient *storage.SpacesClient
	spacesConfig := storage.SpacesConfig{
		AccessKey: env.SPACES_ACCESS_KEY,
		SecretKey: env.SPACES_SECRET_KEY,
		Bucket:    env.SPACES_BUCKET,
		Region:    env.SPACES_REGION,
		Endpoint:  env.SPACES_ENDPOINT,
		CDNURL:    env.SPACES_CDN_URL,
	}
	if spacesConfig.IsConfigured() {
		spacesClient, err = storage.NewSpacesClient(spacesConfig)
		if err != nil {
			log.Printf("Warning: Failed to initialize document storage: %v. Uploads will be disabled.", err)
		}
	} else {
		log.Println("Document storage not configured. Uploads will be disabled.")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	userHandler := user_handlers.NewUserHandler(db)
	contactHandler := contact_handlers.NewContactHandler(db)
	partnerHandler := partner_handlers.NewPartnerHandler(db)
	eventHandler := event_handlers.NewEventHandler(db, spacesClient)

	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: rateLimitFromEnv(),
		RateLimitWindow:   1 * time.Minute,
	})

	app.Get("/health", handlers.HandleCheckHealth(store))

	api := app.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Users
	userGroup := api.Group("/user", authMiddleware.Required())
	userGroup.Post("/list", userHandler.List)
	userGroup.Post("/", middleware.RequireRoles(model.RoleAdmin), userHandler.Create)
	userGroup.Get("/:userId", userHandler.Get)
	userGroup.Put("/:id", userHandler.Update)
	userGroup.Patch("/:id/status", userHandler.UpdateStatus)

	// Contacts
	contactGroup := api.Group("/contact", authMiddleware.Required())
	contactGroup.Post("/list", contactHandler.List)
	contactGroup.Post("/", contactHandler.Create)
	contactGroup.Put("/:id", contactHandler.Update)

	// Partners
	partnerGroup := api.Group("/partner", authMiddleware.Required())
	partnerGroup.Post("/list", partnerHandler.List)
	partnerGroup.Post("/", partnerHandler.Create)
	partnerGroup.Get("/:id", partnerHandler.Get)
	partnerGroup.Put("/:id", partnerHandler.Update)
	partnerGroup.Patch("/:id/status", partnerHandler.UpdateStatus)
	partnerGroup.Delete("/:id", middleware.RequireRoles(model.RoleAdmin), partnerHandler.Delete)

	// Events
	eventGroup := api.Group("/event", authMiddleware.Required())
	eventGroup.Post("/list", eventHandler.List)
	eventGroup.Post("/", eventHandler.Create)
	eventGroup.Get("/:id", eventHandler.Get)
	eventGroup.Put("/:id", eventHandler.Update)
	eventGroup.Post("/:id/documents/upload", eventHandler.UploadDocument)
}

func rateLimitFromEnv() int {
	if os.Getenv("GO_ENV") == "test" {
		return 0
	}
	return 100
}
