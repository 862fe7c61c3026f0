package auth

import (
	"context"
	"time"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type UpdateUserInput struct {
	UserID   domain.UserID
	Role     *string
	IsActive *bool
}

// UpdateUser lets an Admin change a role between Staff and Admin, or (de)activate an account.
// Users are never hard-deleted.
type UpdateUser struct {
	users ports.UserRepository
	now   func() time.Time
}

func NewUpdateUser(users ports.UserRepository) *UpdateUser {
	return &UpdateUser{users: users, now: time.Now}
}

func (uc *UpdateUser) Execute(ctx context.Context, actor *domain.Claims, input UpdateUserInput) (*domain.User, error) {
	if actor == nil || !policy.CanManageUsers(actor.Role) {
		return nil, domerrors.ErrForbidden
	}
	user, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrNotFound
	}
	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		// Moving across the Client boundary would change the token's tenant scope.
		if role.Internal() != user.Role.Internal() {
			return nil, domerrors.Invalid("role", "cannot move a user between Client and internal roles")
		}
		if user.ID == actor.Subject && role != user.Role {
			return nil, domerrors.Invalid("role", "cannot change your own role")
		}
		user.Role = role
	}
	if input.IsActive != nil {
		if user.ID == actor.Subject && !*input.IsActive {
			return nil, domerrors.Invalid("is_active", "cannot deactivate yourself")
		}
		user.IsActive = *input.IsActive
	}
	user.UpdatedAt = uc.now().UTC()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
