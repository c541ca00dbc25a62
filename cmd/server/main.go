package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/aviaclub/internal/config"
	"github.com/example/aviaclub/internal/database"
	"github.com/example/aviaclub/internal/otp"
	"github.com/example/aviaclub/internal/queue"
	"github.com/example/aviaclub/internal/routes"
	"github.com/example/aviaclub/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	smsService := services.NewSMSService(cfg)
	authenticator := otp.NewAuthenticator(newCodeStore(cfg), smsService, cfg.CodeTTL)

	go queue.StartNotificationConsumer(cfg.RabbitMQURL, db)

	app := fiber.New(fiber.Config{
		AppName:      "AviaClub Backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Static("/uploads", cfg.UploadDir)

	routes.Register(app, db, cfg, authenticator)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// newCodeStore picks the OTP backend: Redis when configured, otherwise
// a process-local map that does not survive restarts.
func newCodeStore(cfg *config.Config) otp.CodeStore {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory OTP store")
		return otp.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	return otp.NewRedisStore(client)
}

// errorHandler maps handler errors to the JSON error envelope. Store
// and gateway failures surface as a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
