package queue

import (
	"fmt"

	"github.com/go-otp-auth/internal/config"
	"github.com/hibiken/asynq"
)

// Stats is a point-in-time view of the delivery queue.
type Stats struct {
	Queue     string `json:"queue"`
	Size      int    `json:"size"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Processed int    `json:"processed_today"`
	Failed    int    `json:"failed_today"`
	Paused    bool   `json:"paused"`
}

type queueInfoGetter interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// Inspector reads delivery queue statistics.
type Inspector struct {
	ins   queueInfoGetter
	close func() error
	queue string
}

func NewInspector(cfg *config.Config) (*Inspector, error) {
	opt, err := asynq.ParseRedisURI(cfg.QueueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse queue redis url: %w", err)
	}
	ins := asynq.NewInspector(opt)
	return &Inspector{ins: ins, close: ins.Close, queue: cfg.QueueName}, nil
}

func (i *Inspector) Stats() (*Stats, error) {
	qi, err := i.ins.GetQueueInfo(i.queue)
	if err != nil {
		return nil, fmt.Errorf("queue info: %w", err)
	}
	return &Stats{
		Queue:     qi.Queue,
		Size:      qi.Size,
		Pending:   qi.Pending,
		Active:    qi.Active,
		Scheduled: qi.Scheduled,
		Retry:     qi.Retry,
		Archived:  qi.Archived,
		Processed: qi.Processed,
		Failed:    qi.Failed,
		Paused:    qi.Paused,
	}, nil
}

func (i *Inspector) Close() error {
	if i.close == nil {
		return nil
	}
	return i.close()
}
