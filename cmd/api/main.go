package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/application/delivery"
	"github.com/go-otp-auth/internal/application/otp"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	"github.com/go-otp-auth/internal/infrastructure/queue"
	redisinfra "github.com/go-otp-auth/internal/infrastructure/redis"
	s3infra "github.com/go-otp-auth/internal/infrastructure/s3"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
	"github.com/go-otp-auth/internal/infrastructure/sns"
	transporthttp "github.com/go-otp-auth/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx := context.Background()

	redisClient, err := redisinfra.NewClient(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	store := redisinfra.NewStore(redisClient, "")
	otps := redisinfra.NewOTPRepo(store)
	registrations := redisinfra.NewRegistrationTokenRepo(store)

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	users := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}

	queueClient, err := queue.NewClient(cfg)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}
	defer queueClient.Close()

	var queueStats *queue.Inspector
	if ins, err := queue.NewInspector(cfg); err == nil {
		queueStats = ins
		defer ins.Close()
	} else {
		log.Printf("WARN: queue inspector not available: %v", err)
	}

	// SNS event publisher (optional, graceful fallback).
	var events sns.EventPublisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		events = p
	} else {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	var runner *queue.Runner
	if cfg.WorkerEmbedded {
		runner, err = newRunner(cfg, otps)
		if err != nil {
			log.Fatalf("worker: %v", err)
		}
		if err := runner.Start(); err != nil {
			log.Fatalf("worker start: %v", err)
		}
		log.Printf("Embedded delivery worker started (queue=%s)", cfg.QueueName)
	}

	mgr := otp.NewManager(otps, registrations, users, queueClient, tokens, cfg.OTPTTL, cfg.RegisterTokenTTL)
	deps := &transporthttp.Deps{
		Auth:          authapp.NewService(mgr, users, tokens, events),
		Tokens:        tokens,
		Registrations: registrations,
		Cache:         store,
	}
	if queueStats != nil {
		deps.Queue = queueStats
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if runner != nil {
		runner.Shutdown()
	}
	log.Println("Server stopped")
}

// newRunner wires a delivery worker pool. Mail templates come from S3 when a
// bucket is configured.
func newRunner(cfg *config.Config, otps *redisinfra.OTPRepo) (*queue.Runner, error) {
	mailer, err := smtp.NewMailer(cfg)
	if err != nil {
		return nil, err
	}
	var templates delivery.TemplateLoader
	if cfg.MailTemplateBucket != "" {
		s3Client, err := s3infra.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		templates = s3infra.NewTemplateStore(s3Client, cfg.MailTemplateBucket)
	}
	return queue.NewRunner(cfg, delivery.NewWorker(otps, mailer, templates, cfg.OTPTTL))
}
