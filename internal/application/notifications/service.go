package notifications

import (
	"context"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// Service reads and updates the caller's own notifications. Other users' notifications
// are reported as not found.
type Service struct {
	repo ports.NotificationRepository
}

func NewService(repo ports.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, caller *domain.Claims, includeRead bool) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, caller.Subject, includeRead)
}

func (s *Service) Get(ctx context.Context, caller *domain.Claims, id domain.NotificationID) (*domain.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || !policy.CanAccessNotification(caller.Subject, n.UserID) {
		return nil, domerrors.ErrNotFound
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, caller *domain.Claims, id domain.NotificationID) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) UnreadCount(ctx context.Context, caller *domain.Claims) (int, error) {
	return s.repo.CountUnread(ctx, caller.Subject)
}
