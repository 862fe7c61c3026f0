package auth

import (
	"context"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// Me loads the profile behind a validated token.
type Me struct {
	users ports.UserRepository
}

func NewMe(users ports.UserRepository) *Me {
	return &Me{users: users}
}

func (uc *Me) Execute(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrNotFound
	}
	return user, nil
}
