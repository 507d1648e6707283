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

	"github.com/gin-gonic/gin"
	"github.com/sangkips/rajtiles-api/internal/application/service"
	"github.com/sangkips/rajtiles-api/internal/config"
	domainRepo "github.com/sangkips/rajtiles-api/internal/domain/repository"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/database"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/repository"
	"github.com/sangkips/rajtiles-api/internal/infrastructure/storage"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/handler"
	"github.com/sangkips/rajtiles-api/internal/presentation/http/routes"
	"github.com/sangkips/rajtiles-api/internal/quotedoc"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/imagesource"
	"github.com/sangkips/rajtiles-api/internal/quotedoc/layout"
	"github.com/sangkips/rajtiles-api/pkg/utils"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles, permissions and the first admin
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize object storage; image uploads are disabled without it
	var objectStore storage.ObjectStore
	if cfg.Storage.Enabled() {
		minioStore, err := storage.NewMinIOStore(cfg.Storage)
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v", err)
		} else if err := minioStore.EnsureBucketExists(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure bucket %s: %v", cfg.Storage.Bucket, err)
		} else {
			objectStore = minioStore
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	itemRepo := repository.NewItemRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize the quotation document generator
	generator := quotedoc.NewGenerator(newAcquirer(cfg.Document, objectStore), loadLetterhead(cfg.Document), quotedoc.Options{
		Concurrency:    cfg.Document.ImageConcurrency,
		LogoCandidates: cfg.Document.LogoCandidates,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo)
	itemService := service.NewItemService(itemRepo, objectStore)
	quotationService := service.NewQuotationService(quotationRepo, itemRepo)
	documentService := service.NewDocumentService(quotationRepo, generator)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Item:      handler.NewItemHandler(itemService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Document:  handler.NewDocumentHandler(documentService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, idempotencyRepo)

	srv := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newAcquirer orders the image sources: remote URLs, stored objects, then
// local files
func newAcquirer(cfg config.DocumentConfig, store storage.ObjectStore) *imagesource.Acquirer {
	opts := imagesource.DefaultRemoteOptions()
	if cfg.FetchTimeout > 0 {
		opts.Timeout = cfg.FetchTimeout
	}
	if cfg.FetchAttempts > 0 {
		opts.Attempts = cfg.FetchAttempts
	}
	if cfg.FetchBackoff > 0 {
		opts.InitialBackoff = cfg.FetchBackoff
	}
	if cfg.MaxRedirects > 0 {
		opts.MaxRedirects = cfg.MaxRedirects
	}

	sources := []imagesource.Source{imagesource.NewRemoteSource(nil, opts)}
	if store != nil {
		sources = append(sources, imagesource.NewObjectSource(store))
	}
	sources = append(sources, imagesource.NewLocalSource(cfg.AssetDirs...))
	return imagesource.NewAcquirer(sources...)
}

func loadLetterhead(cfg config.DocumentConfig) *layout.Letterhead {
	if cfg.LetterheadPath == "" {
		return layout.DefaultLetterhead()
	}
	letterhead, err := layout.LoadLetterhead(cfg.LetterheadPath)
	if err != nil {
		log.Printf("Warning: Failed to load letterhead %s, using default: %v", cfg.LetterheadPath, err)
		return layout.DefaultLetterhead()
	}
	return letterhead
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Printf("Warning: Failed to delete expired idempotency keys: %v", err)
			}
		}
	}
}
