package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/AahilGazali/cloud-drive-backend/internal/admin"
	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"github.com/AahilGazali/cloud-drive-backend/internal/controllers"
	"github.com/AahilGazali/cloud-drive-backend/internal/database"
	"github.com/AahilGazali/cloud-drive-backend/internal/mailer"
	"github.com/AahilGazali/cloud-drive-backend/internal/middleware"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	"github.com/AahilGazali/cloud-drive-backend/internal/routes"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/AahilGazali/cloud-drive-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	store, localStore := buildStorage(cfg)
	db := database.GetDB()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	loginSessionRepo := repositories.NewLoginSessionRepository(db)

	// Services
	shareMailer := mailer.New(cfg.Email)
	authService := services.NewAuthService(userRepo, loginSessionRepo, cfg)
	folderService := services.NewFolderService(db)
	fileService := services.NewFileService(db, store)
	shareService := services.NewShareService(db, userRepo, shareMailer, cfg.Email.LinkBase)
	trashService := services.NewTrashService(db, store)
	searchService := services.NewSearchService(db)

	// Controllers
	ctrl := routes.Controllers{
		Auth:   controllers.NewAuthController(authService),
		Folder: controllers.NewFolderController(folderService),
		File:   controllers.NewFileController(fileService),
		Share:  controllers.NewShareController(shareService),
		Trash:  controllers.NewTrashController(trashService),
		Search: controllers.NewSearchController(searchService),
	}
	if localStore != nil {
		ctrl.Storage = controllers.NewStorageController(localStore)
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	router.Use(corsMiddleware())

	authMiddleware := middleware.AuthMiddleware(cfg)
	routes.SetupRoutes(router, ctrl, authMiddleware)
	admin.Setup(router, db, store, cfg, authMiddleware, middleware.AdminOnly())

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		log.Printf("Server running on %s (storage=%T)", addr, store)
		if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	waitForShutdown()
}

// buildStorage prefers the configured cloud backend but degrades to local
// disk when it is disabled or fails to initialize. The second return value
// is non-nil only for local storage, which needs a serving route for its
// signed URLs.
func buildStorage(cfg *config.Config) (storage.Storage, *storage.LocalStorage) {
	if cfg.CloudStorage.Enabled {
		azStorage, err := storage.NewAzureBlobStorage(
			cfg.CloudStorage.Endpoint,
			cfg.CloudStorage.AccessKey,
			cfg.CloudStorage.SecretKey,
			cfg.CloudStorage.Container,
		)
		if err != nil {
			log.Printf("Azure Blob init failed, falling back to LocalStorage: %v", err)
		} else {
			return azStorage, nil
		}
	}

	basePath := cfg.Storage.Path
	if basePath == "" {
		basePath = "./storage/uploads"
	}
	local := storage.NewLocalStorage(basePath, cfg.Server.BaseURL, cfg.Storage.SignedURLKey)
	return local, local
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down server...")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Cron-Secret")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
