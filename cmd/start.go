package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-rental/core/cache"
	"library-rental/core/config"
	"library-rental/core/database"
	"library-rental/core/loader"
	"library-rental/core/logger"
	"library-rental/core/middleware/auth"
	"library-rental/core/middleware/rayid"
	"library-rental/core/storage"

	"library-rental/feature/account"
	accountmodels "library-rental/feature/account/models"
	"library-rental/feature/catalog"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/favorite"
	favoritemodels "library-rental/feature/favorite/models"
	"library-rental/feature/gateway"
	"library-rental/feature/rental"
	rentalmodels "library-rental/feature/rental/models"
	"library-rental/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the library rental server",
	Long:  `Starts the GraphQL server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(
			&accountmodels.User{},
			&catalogmodels.Book{},
			&rentalmodels.Rental{},
			&favoritemodels.Favorite{},
		); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}

		// 4. Connect to Cache
		// The cache is best-effort: an unreachable Redis degrades reads to
		// the store, so a failed ping is a warning, not a fatal.
		cacheStore, err := cache.New(cfg.Cache)
		if err != nil {
			logg.Warn("Cache unreachable, serving from store until it recovers", zap.Error(err))
		}
		defer cacheStore.Close()

		// 5. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		ensureBucket(store, cfg.Storage.Bucket, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Build Services
		accounts := account.NewService(db, logg)
		services := &gateway.Services{
			Accounts:  accounts,
			Catalog:   catalog.NewService(db, cacheStore, store, cfg.Storage.Bucket, logg),
			Rentals:   rental.NewService(db, cacheStore, logg),
			Favorites: favorite.NewService(db, logg),
			Sync:      sync.NewService(db, cacheStore, logg),
		}

		// 8. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(gateway.NewFeature(services, logg))
		mgr.Register(catalog.NewFeature(services.Catalog))

		// Middleware Registration
		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth resolves the bearer token into a user. Unauthenticated
		// requests pass through; resolvers decide what needs a user.
		app.Use(auth.New(auth.Config{
			Verifier: auth.NewHTTPVerifier(cfg.Server.IdentityURL),
			Logger:   logg,
		}))

		// 9. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 10. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 11. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// ensureBucket creates the cover bucket if it does not exist yet.
func ensureBucket(store storage.Client, bucket string, logg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		logg.Warn("Failed to check cover bucket", zap.String("bucket", bucket), zap.Error(err))
		return
	}
	if exists {
		return
	}
	if err := store.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logg.Warn("Failed to create cover bucket", zap.String("bucket", bucket), zap.Error(err))
		return
	}
	logg.Info("Created cover bucket", zap.String("bucket", bucket))
}

func init() {
	RootCmd.AddCommand(startCmd)
}
