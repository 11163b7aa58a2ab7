package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/alert/alertapi"
	"github.com/matchbox-hr/matchbox/board/alert/alertinfra"
	"github.com/matchbox-hr/matchbox/board/alert/alertsrv"
	"github.com/matchbox-hr/matchbox/board/alert/worker"
	"github.com/matchbox-hr/matchbox/board/application/applicationapi"
	"github.com/matchbox-hr/matchbox/board/application/applicationinfra"
	"github.com/matchbox-hr/matchbox/board/application/applicationsrv"
	"github.com/matchbox-hr/matchbox/board/candidate/candidateapi"
	"github.com/matchbox-hr/matchbox/board/candidate/candidateinfra"
	"github.com/matchbox-hr/matchbox/board/candidate/candidatesrv"
	"github.com/matchbox-hr/matchbox/board/job/jobapi"
	"github.com/matchbox-hr/matchbox/board/job/jobinfra"
	"github.com/matchbox-hr/matchbox/board/job/jobsrv"
	"github.com/matchbox-hr/matchbox/pkg/iam/auth"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

const alertQueueName = "alert_events"

// Container holds all application dependencies
type Container struct {
	// Config
	AuthConfig auth.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client

	// Services
	TokenService       *auth.TokenService
	JobService         *jobsrv.JobService
	CandidateService   *candidatesrv.CandidateService
	AlertService       *alertsrv.AlertService
	ApplicationService *applicationsrv.ApplicationService

	// Alert pipeline
	EventQueue alert.EventQueue
	Dispatcher *alertsrv.Dispatcher
	Worker     *worker.AlertWorker

	// API Handlers
	JobHandlers         *jobapi.Handlers
	CandidateHandlers   *candidateapi.Handlers
	AlertHandlers       *alertapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPass := os.Getenv("REDIS_PASS")
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. Auth Config
	c.AuthConfig = auth.DefaultConfig()
	c.AuthConfig.JWT.SecretKey = os.Getenv("JWT_SECRET")
	if c.AuthConfig.JWT.SecretKey == "" {
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		c.AuthConfig.JWT.SecretKey = "super-secret-key-please-change-me-in-production"
	}
}

func (c *Container) initServices() {
	// --- Repositories ---
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	alertRepo := alertinfra.NewPostgresAlertRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)

	// --- Alert pipeline ---
	c.EventQueue = alertinfra.NewRedisEventQueue(c.Redis, alertQueueName)
	contacts := alertinfra.NewPostgresContactDirectory(c.DB)

	gateway := newNotificationGateway()

	c.Dispatcher = alertsrv.NewDispatcher(alertRepo, jobRepo, candidateRepo, contacts, gateway)
	c.Worker = worker.NewAlertWorker(c.Dispatcher, c.EventQueue, alertWorkerCount())

	// --- Token Service ---
	c.TokenService = auth.NewTokenService(
		c.AuthConfig.JWT.SecretKey,
		c.AuthConfig.JWT.AccessTokenTTL,
		c.AuthConfig.JWT.Issuer,
	)

	// --- Domain Services ---
	c.JobService = jobsrv.NewJobService(jobRepo, c.EventQueue)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo, c.EventQueue)
	c.AlertService = alertsrv.NewAlertService(alertRepo)
	c.ApplicationService = applicationsrv.NewApplicationService(applicationRepo, jobRepo, candidateRepo)

	// --- Handlers ---
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.CandidateHandlers = candidateapi.NewHandlers(c.CandidateService)
	c.AlertHandlers = alertapi.NewHandlers(c.AlertService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
}

func alertWorkerCount() int {
	count := 4
	if raw := os.Getenv("ALERT_WORKERS"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &count); err != nil || count < 1 {
			count = 4
		}
	}
	return count
}
