package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"geckoland/internal/cache"
	"geckoland/internal/geo"
	"geckoland/internal/handlers"
	"geckoland/internal/middleware"
	"geckoland/internal/models"
	"geckoland/internal/repositories"
	"geckoland/internal/services"
	"geckoland/internal/store"
	"geckoland/pkg/rabbitmq"
)

// NewApp wires configuration, storage, messaging, the query cache and all
// routes into a Fiber app. Settings come from the environment via viper;
// with an empty DATABASE_DSN the in-memory repositories are used, which is
// also how the integration tests run.
func NewApp() (*fiber.App, error) {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("GEOCODER_URL", geo.DefaultNominatimURL)
	viper.AutomaticEnv()

	// --- Repositories ---
	var (
		userRepo    repositories.UserRepository
		feedRepo    repositories.FeedRepository
		commentRepo repositories.CommentRepository
	)
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		var dialector gorm.Dialector
		if viper.GetString("DB_DRIVER") == "sqlite" {
			dialector = sqlite.Open(dsn)
		} else {
			dialector = postgres.Open(dsn)
		}
		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&models.User{}, &models.Feed{}, &models.Comment{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		userRepo = repositories.NewGORMUserRepository(db)
		feedRepo = repositories.NewGORMFeedRepository(db)
		commentRepo = repositories.NewGORMCommentRepository(db)
	} else {
		log.Println("DATABASE_DSN is empty, using in-memory repositories")
		userRepo = repositories.NewMockUserRepository()
		feedRepo = repositories.NewMockFeedRepository()
		commentRepo = repositories.NewMockCommentRepository()
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, feed events disabled: %v", err)
		} else {
			publisher = mqClient
			if consumerErr := mqClient.ConsumeFeedEvents(func(msg amqp.Delivery) error {
				log.Printf("Received feed event (Tag: %d, Type: %s): %s", msg.DeliveryTag, msg.Type, string(msg.Body))
				return nil
			}); consumerErr != nil {
				log.Printf("Failed to start feed event consumer: %v", consumerErr)
			}
		}
	}

	// --- Services ---
	geocoder := geo.NewNominatimGeocoder(viper.GetString("GEOCODER_URL"))
	authService := services.NewAuthService(viper.GetString("JWT_SECRET"))
	userService := services.NewUserService(userRepo, feedRepo, geocoder)
	feedService := services.NewFeedService(feedRepo, commentRepo, userRepo, publisher)
	commentService := services.NewCommentService(commentRepo, feedRepo, userRepo, publisher)

	// --- Query cache and store ---
	qc := cache.New()
	qc.StartGC(time.Minute)
	feedStore := store.NewFeedStore(feedService, commentService, qc)

	// --- Fiber app and routes ---
	app := fiber.New()
	app.Use(logger.New())

	authRequired := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, userService).RegisterRoutes(apiV1, authRequired)
	handlers.NewFeedHandler(feedStore).RegisterRoutes(apiV1, authRequired)
	handlers.NewCommentHandler(feedStore).RegisterRoutes(apiV1, authRequired)
	handlers.NewUserHandler(userService, feedStore).RegisterRoutes(apiV1, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":         "healthy",
			"time":           time.Now().Format(time.RFC3339),
			"cached_queries": qc.Len(),
		})
	})

	return app, nil
}

func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
