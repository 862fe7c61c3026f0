package webhook

import (
	"context"
	"errors"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
)

// NoopEmitter discards audit events when no sink is configured.
type NoopEmitter struct{}

func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

func (e *NoopEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	return nil
}

// MultiEmitter fans one audit event out to several sinks. Every sink is attempted.
type MultiEmitter []ports.WebhookEmitter

// NewMultiEmitter drops nil sinks and returns a NoopEmitter when none remain.
func NewMultiEmitter(sinks ...ports.WebhookEmitter) ports.WebhookEmitter {
	var m MultiEmitter
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	switch len(m) {
	case 0:
		return NewNoopEmitter()
	case 1:
		return m[0]
	}
	return m
}

func (m MultiEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ ports.WebhookEmitter = (*NoopEmitter)(nil)
	_ ports.WebhookEmitter = MultiEmitter(nil)
)
