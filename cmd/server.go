package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/matchbox-hr/matchbox/board/alert/alertapi"
	"github.com/matchbox-hr/matchbox/board/application/applicationapi"
	"github.com/matchbox-hr/matchbox/board/candidate/candidateapi"
	"github.com/matchbox-hr/matchbox/board/job/jobapi"
	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

func main() {
	// 1. Initialize Logger and Environment
	logx.SetLevel(logx.LevelInfo)
	if err := godotenv.Load(); err != nil {
		logx.Info("No .env file found, using process environment")
	}
	logx.Info("Starting Matchbox API Server...")

	// 2. Initialize Dependency Container
	container := NewContainer()
	defer container.DB.Close()
	defer container.Redis.Close()

	// 3. Start Alert Worker Pool
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.Worker.Start(workerCtx)

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Matchbox Job Board API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	// 5. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 6. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})

	// 7. Register Routes
	authMiddleware := auth.Middleware(container.TokenService)

	// Jobs: /api/jobs
	jobapi.RegisterRoutes(app, container.JobHandlers, authMiddleware)

	// Candidates: /api/candidates
	candidateapi.RegisterRoutes(app, container.CandidateHandlers, authMiddleware)

	// Alerts: /api/alerts
	alertapi.RegisterRoutes(app, container.AlertHandlers, authMiddleware)

	// Applications: /api/applications
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, authMiddleware)

	// 8. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")
	stopWorkers()

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  e.Code,
		})
	}

	// If it's our custom errx.Error
	if e, ok := err.(*errx.Error); ok {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
