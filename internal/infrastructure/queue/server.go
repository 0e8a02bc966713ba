package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/hibiken/asynq"
)

// Deliverer executes one delivery job.
type Deliverer interface {
	Deliver(ctx context.Context, job domain.DeliveryJob) error
}

// maxBackoff caps the delay between retries.
const maxBackoff = 10 * time.Minute

// NewMux routes delivery tasks to d. Malformed payloads are not retried.
func NewMux(d Deliverer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOTPDelivery, func(ctx context.Context, t *asynq.Task) error {
		job, err := parseOTPDelivery(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return d.Deliver(ctx, job)
	})
	return mux
}

// Runner owns the worker pool draining the delivery queue.
type Runner struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewRunner builds a worker pool for cfg.QueueName that hands jobs to d.
func NewRunner(cfg *config.Config, d Deliverer) (*Runner, error) {
	opt, err := asynq.ParseRedisURI(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse queue redis url: %w", err)
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		Queues:          map[string]int{cfg.QueueName: 1},
		RetryDelayFunc:  backoff(cfg.QueueBackoff),
		ErrorHandler:    asynq.ErrorHandlerFunc(logFailure),
		Logger:          newLogger(slog.Default()),
		ShutdownTimeout: 30 * time.Second,
	})
	return &Runner{srv: srv, mux: NewMux(d)}, nil
}

// Start begins processing in background goroutines.
func (r *Runner) Start() error {
	return r.srv.Start(r.mux)
}

// Shutdown stops fetching new jobs and waits for in-flight jobs to finish.
func (r *Runner) Shutdown() {
	r.srv.Shutdown()
}

// backoff returns an exponential retry delay starting at base.
func backoff(base time.Duration) asynq.RetryDelayFunc {
	if base <= 0 {
		return asynq.DefaultRetryDelayFunc
	}
	return func(n int, _ error, _ *asynq.Task) time.Duration {
		d := base
		for i := 0; i < n && d < maxBackoff; i++ {
			d *= 2
		}
		return min(d, maxBackoff)
	}
}

func logFailure(ctx context.Context, t *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)
	email := ""
	if job, perr := parseOTPDelivery(t); perr == nil {
		email = job.Email
	}
	slog.Error("job failed",
		"task_id", taskID,
		"type", t.Type(),
		"email", email,
		"retried", retried,
		"max_retry", maxRetry,
		"err", err,
	)
}
