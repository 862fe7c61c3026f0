package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// InlinePublisher runs the handler in the caller's goroutine. Used when Redis is not
// configured; handler failures are logged and not returned.
type InlinePublisher struct {
	handler ports.EventHandler
	log     zerolog.Logger
}

func NewInlinePublisher(handler ports.EventHandler, log zerolog.Logger) *InlinePublisher {
	return &InlinePublisher{handler: handler, log: log}
}

func (p *InlinePublisher) Publish(ctx context.Context, ev domain.Event) error {
	if err := p.handler.Handle(ctx, ev); err != nil {
		p.log.Warn().Err(err).Str("event", string(ev.Type)).Str("event_id", ev.ID).Msg("inline event handling failed")
	}
	return nil
}

var _ ports.EventPublisher = (*InlinePublisher)(nil)
