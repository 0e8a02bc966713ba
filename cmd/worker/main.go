package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-otp-auth/internal/application/delivery"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/infrastructure/queue"
	redisinfra "github.com/go-otp-auth/internal/infrastructure/redis"
	s3infra "github.com/go-otp-auth/internal/infrastructure/s3"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
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

	redisClient, err := redisinfra.NewClient(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	otps := redisinfra.NewOTPRepo(redisinfra.NewStore(redisClient, ""))

	mailer, err := smtp.NewMailer(cfg)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}

	// Mail templates from S3 (optional, built-in bodies otherwise).
	var templates delivery.TemplateLoader
	if cfg.MailTemplateBucket != "" {
		s3Client, err := s3infra.NewClient(cfg)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		templates = s3infra.NewTemplateStore(s3Client, cfg.MailTemplateBucket)
	}

	runner, err := queue.NewRunner(cfg, delivery.NewWorker(otps, mailer, templates, cfg.OTPTTL))
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
	if err := runner.Start(); err != nil {
		log.Fatalf("worker start: %v", err)
	}
	log.Printf("Delivery worker started (queue=%s, concurrency=%d)", cfg.QueueName, cfg.WorkerConcurrency)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Draining delivery worker...")
	runner.Shutdown()
	log.Println("Worker stopped")
}
