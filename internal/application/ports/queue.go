package ports

import (
	"context"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

// EventPublisher hands domain events to background processing.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventHandler processes a published event.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}
