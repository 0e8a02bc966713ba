package queue

import (
	"encoding/json"
	"fmt"

	"github.com/go-otp-auth/internal/domain"
	"github.com/hibiken/asynq"
)

// TypeOTPDelivery is the task type for "generate a code and mail it".
const TypeOTPDelivery = "otp:deliver"

func newOTPDeliveryTask(job domain.DeliveryJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal delivery job: %w", err)
	}
	return asynq.NewTask(TypeOTPDelivery, payload), nil
}

func parseOTPDelivery(t *asynq.Task) (domain.DeliveryJob, error) {
	var job domain.DeliveryJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return job, fmt.Errorf("decode %s payload: %w", t.Type(), err)
	}
	if job.Email == "" {
		return job, fmt.Errorf("%s payload has no email", t.Type())
	}
	return job, nil
}
