package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"

	"chiyasathi/internal/config"
	"chiyasathi/internal/handlers"
	"chiyasathi/internal/middleware"
	"chiyasathi/internal/proxy"
	"chiyasathi/internal/services"
	"chiyasathi/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	app := NewApp(cfg)

	// Order status events published by watch clients are optional.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ disabled: %v", err)
		} else {
			defer mqClient.Close()
			if err := mqClient.ConsumeOrderEvents(logOrderEvent); err != nil {
				log.Printf("Failed to start order event consumer: %v", err)
			}
		}
	}

	log.Printf("Starting server on port %s, forwarding to %s", cfg.AppPort, cfg.APIBaseURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp builds the forwarding server for cfg.
func NewApp(cfg config.Config) *fiber.App {
	backend := proxy.NewBackend(cfg.APIBaseURL, cfg.BackendTimeout)

	app := fiber.New(fiber.Config{
		AppName:   "chiyasathi",
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))

	handlers.Mount(app.Group("/api"), backend, cfg.Production())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"backend": backend.BaseURL(),
		})
	})

	return app
}

// logOrderEvent logs an order status notification published by a client.
func logOrderEvent(msg amqp.Delivery) error {
	var n services.Notification
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		return fmt.Errorf("malformed order event: %w", err)
	}
	if n.Transition != nil {
		log.Printf("Order %s %s: %s", n.OrderID, n.Transition, n.Message)
		return nil
	}
	log.Printf("Order %s: %s", n.OrderID, n.Message)
	return nil
}
