package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/hibiken/asynq"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Client puts delivery jobs on the queue. It never waits for delivery.
type Client struct {
	enq      taskEnqueuer
	closer   func() error
	queue    string
	maxRetry int
	unique   time.Duration
}

// NewClient connects to the queue backend at cfg.QueueRedisURL.
func NewClient(cfg *config.Config) (*Client, error) {
	opt, err := asynq.ParseRedisURI(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse queue redis url: %w", err)
	}
	c := asynq.NewClient(opt)
	return &Client{
		enq:      c,
		closer:   c.Close,
		queue:    cfg.QueueName,
		maxRetry: cfg.QueueMaxRetry,
		unique:   cfg.OTPTTL,
	}, nil
}

// EnqueueOTPDelivery schedules a code delivery for email. A job for the same
// email that is still pending within the OTP lifetime absorbs the request.
func (c *Client) EnqueueOTPDelivery(ctx context.Context, email string) error {
	task, err := newOTPDeliveryTask(domain.DeliveryJob{Email: email})
	if err != nil {
		return err
	}
	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(time.Minute),
	}
	if c.unique > 0 {
		opts = append(opts, asynq.Unique(c.unique))
	}
	info, err := c.enq.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		slog.Info("delivery already queued", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeOTPDelivery, err)
	}
	slog.Debug("delivery queued", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
