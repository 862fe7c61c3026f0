package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// Worker runs the Asynq server that feeds queued events to an EventHandler.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers a handler per event type. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, handler ports.EventHandler, concurrency int, log zerolog.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	h := eventTaskHandler(handler, log)
	for _, typ := range EventTypes {
		mux.HandleFunc(string(typ), h)
	}
	return &Worker{srv: srv, mux: mux, log: log}
}

// eventTaskHandler decodes the task payload. A malformed payload is skipped rather than retried.
func eventTaskHandler(handler ports.EventHandler, log zerolog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var ev domain.Event
		if err := json.Unmarshal(t.Payload(), &ev); err != nil {
			log.Error().Err(err).Str("type", t.Type()).Msg("event task payload invalid")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := handler.Handle(ctx, ev); err != nil {
			log.Warn().Err(err).Str("event_id", ev.ID).Str("type", t.Type()).Msg("event handling failed")
			return err
		}
		return nil
	}
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
