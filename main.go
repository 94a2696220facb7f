package main

import (
	"fmt"
	"log"
	"os"

	"marksync/config"
	"marksync/database"
	"marksync/handlers"
	"marksync/logger"
	"marksync/middleware"
	"marksync/repositories"
	"marksync/services"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting marksync service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Server.LogLevel)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		log.Fatalf("create data dir failed: %v", err)
	}

	if err := database.InitUsersDB(&cfg.Storage); err != nil {
		log.Fatalf("init users registry failed: %v", err)
	}

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(cfg.Storage.DataDir, database.UsersDB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer)
	handlers.SetServices(serviceContainer)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.GET("/login", handlers.Login)
		auth.GET("/callback", handlers.Callback)
		auth.GET("/success", handlers.Success)
		auth.POST("/token", handlers.Token)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
	}

	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/bookmarks", handlers.ListBookmarks)
		protected.POST("/bookmarks", handlers.CreateBookmark)
		protected.GET("/bookmarks/:id", handlers.GetBookmark)
		protected.PUT("/bookmarks/:id", handlers.ReplaceBookmark)
		protected.PATCH("/bookmarks/:id", handlers.PatchBookmark)
		protected.DELETE("/bookmarks/:id", handlers.DeleteBookmark)

		protected.GET("/folders", handlers.ListFolders)
		protected.POST("/folders", handlers.CreateFolder)
		protected.GET("/folders/:id", handlers.GetFolder)
		protected.PUT("/folders/:id", handlers.ReplaceFolder)
		protected.PATCH("/folders/:id", handlers.PatchFolder)
		protected.DELETE("/folders/:id", handlers.DeleteFolder)

		protected.PATCH("/reorder", handlers.Reorder)

		protected.GET("/settings", handlers.GetSettings)
		protected.PATCH("/settings", handlers.PatchSettings)

		protected.GET("/changes", handlers.GetChanges)

		protected.GET("/export", handlers.ExportSnapshot)
		protected.POST("/import", handlers.ImportSnapshot)
	}
}
