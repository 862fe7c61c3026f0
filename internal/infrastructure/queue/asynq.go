package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

const (
	QueueName  = "portal"
	MaxRetries = 5
)

// EventTypes lists the task types the worker registers.
var EventTypes = []domain.EventType{
	domain.EventRequestCreated,
	domain.EventRequestUpdated,
	domain.EventCommentAdded,
	domain.EventDocumentUploaded,
}

// AsynqPublisher enqueues domain events as Asynq tasks. The event ID is the task ID,
// so a retried publish of the same event is enqueued once.
type AsynqPublisher struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqPublisher(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *AsynqPublisher {
	return &AsynqPublisher{client: asynq.NewClient(redisOpt), log: log}
}

func (q *AsynqPublisher) Close() error {
	return q.client.Close()
}

func (q *AsynqPublisher) Publish(ctx context.Context, ev domain.Event) error {
	task, err := newEventTask(ev)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task,
		asynq.TaskID(ev.ID),
		asynq.Queue(QueueName),
		asynq.MaxRetry(MaxRetries),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		q.log.Debug().Str("event_id", ev.ID).Msg("event already enqueued")
		return nil
	}
	if err != nil {
		q.log.Warn().Err(err).Str("event", string(ev.Type)).Str("event_id", ev.ID).Msg("enqueue event failed")
		return err
	}
	return nil
}

func newEventTask(ev domain.Event) (*asynq.Task, error) {
	if ev.ID == "" {
		return nil, errors.New("event id is required")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return asynq.NewTask(string(ev.Type), payload), nil
}

var _ ports.EventPublisher = (*AsynqPublisher)(nil)
