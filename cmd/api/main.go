package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-news-api/internal/handler"
	"go-news-api/internal/middleware"
	"go-news-api/internal/model"
	"go-news-api/internal/repository"
	"go-news-api/internal/service"
	"go-news-api/internal/storage"
	"go-news-api/internal/ws"
	"go-news-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Role{}, &model.User{}, &model.Post{}, &model.Comment{})

	// 3. Seed canonical roles. Registration reads the default role, so a
	// failed seed is fatal, not a warning.
	roleRepo := repository.NewRoleRepo(db)
	if err := roleRepo.Seed(); err != nil {
		log.Fatal("Failed to seed roles: ", err)
	}
	log.Println("Roles seeded")

	// 4. Blob storage for uploaded images
	postsDir := getenv("UPLOAD_DIR_POSTS", "./uploads/posts")
	avatarsDir := getenv("UPLOAD_DIR_AVATARS", "./uploads/avatars")
	blobs, err := storage.NewLocalStore(postsDir, avatarsDir)
	if err != nil {
		log.Fatal("Failed to set up upload storage: ", err)
	}

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	adminEmail := os.Getenv("ADMIN_EMAIL")

	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	commentRepo := repository.NewCommentRepo(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, roleRepo, blobs, wsHub, adminEmail)
	contentService := service.NewContentService(postRepo, commentRepo, blobs, wsHub)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, adminEmail)
	contentHandler := handler.NewContentHandler(contentService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "News Platform API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Uploaded images
	app.Static(storage.PostImagePrefix, postsDir)
	app.Static(storage.AvatarPrefix, avatarsDir)

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/posts/main", contentHandler.MainPage)
	api.Get("/posts/news", contentHandler.News)
	api.Get("/posts/:id", contentHandler.GetPost)
	api.Get("/roles", roleHandler.GetRoles)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/reset-password", authHandler.ResetPassword)
	protected.Get("/profile", userHandler.Profile)
	protected.Put("/profile", userHandler.UpdateProfile)

	// Content routes (permission-gated)
	protected.Post("/posts", middleware.RequirePermission(model.PermModerate), contentHandler.CreatePost)
	protected.Post("/posts/:id/comments", middleware.RequirePermission(model.PermWrite), contentHandler.AddComment)
	protected.Delete("/posts/:id", middleware.RequirePermission(model.PermAdmin), contentHandler.DeletePost)
	protected.Delete("/comments/:id", middleware.RequirePermission(model.PermModerate), contentHandler.DeleteComment)

	// User administration (Admin only)
	protected.Get("/users", middleware.RequirePermission(model.PermAdmin), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePermission(model.PermAdmin), userHandler.GetUser)
	protected.Put("/users/:id/role", middleware.RequirePermission(model.PermAdmin), userHandler.ChangeRole)
	protected.Delete("/users/:id", middleware.RequirePermission(model.PermAdmin), userHandler.DeleteUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := getenv("PORT", "3000")
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
