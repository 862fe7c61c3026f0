package requests

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/ids"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxCommentLength     = 2000
)

type CreateInput struct {
	ClientOrganisationID *domain.ClientOrganisationID
	Title                string
	Description          string
	Priority             string
	DueDate              *time.Time
}

// Detail is a request with the comments visible to the caller, plus the display names
// of its organisation, creator and comment authors. Unknown users map to "".
type Detail struct {
	Request          *domain.Request
	Comments         []*domain.RequestComment
	OrganisationName string
	UserNames        map[domain.UserID]string
}

type Service struct {
	requests ports.RequestRepository
	comments ports.CommentRepository
	orgs     ports.OrganisationRepository
	users    ports.UserRepository
	tx       ports.TxManager
	events   ports.EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(requests ports.RequestRepository, comments ports.CommentRepository, orgs ports.OrganisationRepository, users ports.UserRepository, tx ports.TxManager, events ports.EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		requests: requests,
		comments: comments,
		orgs:     orgs,
		users:    users,
		tx:       tx,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Create opens a request. A Client always files against its own organisation; Staff and Admin must name one.
func (s *Service) Create(ctx context.Context, caller *domain.Claims, in CreateInput) (*domain.Request, error) {
	tenant, err := s.creationTenant(ctx, caller, in.ClientOrganisationID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, domerrors.Invalid("title", "must be between 1 and 200 characters")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" || utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, domerrors.Invalid("description", "must be between 1 and 5000 characters")
	}
	priority := domain.PriorityMedium
	if in.Priority != "" {
		if priority, err = domain.ParseRequestPriority(in.Priority); err != nil {
			return nil, err
		}
	}
	now := s.now().UTC()
	if in.DueDate != nil && !in.DueDate.After(now) {
		return nil, domerrors.Invalid("due_date", "must be in the future")
	}
	req := &domain.Request{
		ID:                   domain.NewRequestID(uuid.New()),
		ClientOrganisationID: tenant,
		CreatedByUserID:      caller.Subject,
		Title:                title,
		Description:          description,
		Status:               domain.StatusNew,
		Priority:             priority,
		DueDate:              in.DueDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.publish(ctx, domain.EventRequestCreated, caller, req, false, req.Title)
	return req, nil
}

func (s *Service) creationTenant(ctx context.Context, caller *domain.Claims, requested *domain.ClientOrganisationID) (domain.ClientOrganisationID, error) {
	if caller.Role == domain.RoleClient {
		if caller.ClientOrganisationID == nil {
			return domain.ClientOrganisationID{}, domerrors.ErrForbidden
		}
		return *caller.ClientOrganisationID, nil
	}
	if !caller.Role.Internal() {
		return domain.ClientOrganisationID{}, domerrors.ErrForbidden
	}
	if requested == nil {
		return domain.ClientOrganisationID{}, domerrors.Invalid("client_organisation_id", "is required")
	}
	org, err := s.orgs.GetByID(ctx, *requested)
	if err != nil {
		return domain.ClientOrganisationID{}, err
	}
	if org == nil || !org.IsActive {
		return domain.ClientOrganisationID{}, domerrors.Invalid("client_organisation_id", "must reference an active organisation")
	}
	return org.ID, nil
}

// List applies the effective tenant filter, so a Client can never list another tenant.
func (s *Service) List(ctx context.Context, caller *domain.Claims, requestedTenant *domain.ClientOrganisationID, status string) ([]*domain.Request, error) {
	tenant, err := policy.EffectiveTenantFilter(caller.Role, caller.ClientOrganisationID, requestedTenant)
	if err != nil {
		return nil, err
	}
	filter := ports.RequestFilter{ClientOrganisationID: tenant}
	if status != "" {
		st, err := domain.ParseRequestStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	return s.requests.List(ctx, filter)
}

// Get returns ErrNotFound both for missing requests and for requests in another tenant.
func (s *Service) Get(ctx context.Context, caller *domain.Claims, id domain.RequestID) (*Detail, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil || !policy.CanViewResource(caller.Role, caller.ClientOrganisationID, req.ClientOrganisationID) {
		return nil, domerrors.ErrNotFound
	}
	all, err := s.comments.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	visible := make([]*domain.RequestComment, 0, len(all))
	for _, c := range all {
		if policy.CanViewComment(caller.Role, c.IsInternal) {
			visible = append(visible, c)
		}
	}
	detail := &Detail{Request: req, Comments: visible, UserNames: make(map[domain.UserID]string)}
	org, err := s.orgs.GetByID(ctx, req.ClientOrganisationID)
	if err != nil {
		return nil, err
	}
	if org != nil {
		detail.OrganisationName = org.Name
	}
	ids := []domain.UserID{req.CreatedByUserID}
	for _, c := range visible {
		ids = append(ids, c.AuthorUserID)
	}
	for _, uid := range ids {
		if _, ok := detail.UserNames[uid]; ok {
			continue
		}
		u, err := s.users.GetByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		detail.UserNames[uid] = ""
		if u != nil {
			detail.UserNames[uid] = u.DisplayName
		}
	}
	return detail, nil
}

// AddComment stores the comment and bumps the request's updated_at in one transaction.
func (s *Service) AddComment(ctx context.Context, caller *domain.Claims, id domain.RequestID, message string, internal bool) (*domain.RequestComment, error) {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > MaxCommentLength {
		return nil, domerrors.Invalid("message", "must be between 1 and 2000 characters")
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domerrors.ErrNotFound
	}
	if !policy.CanViewResource(caller.Role, caller.ClientOrganisationID, req.ClientOrganisationID) {
		return nil, domerrors.ErrForbidden
	}
	now := s.now().UTC()
	comment := &domain.RequestComment{
		ID:           domain.NewRequestCommentID(uuid.New()),
		RequestID:    req.ID,
		AuthorUserID: caller.Subject,
		Message:      message,
		IsInternal:   policy.EffectiveInternalFlag(caller.Role, internal),
		CreatedAt:    now,
	}
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		return s.requests.Touch(ctx, req.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	s.publish(ctx, domain.EventCommentAdded, caller, req, comment.IsInternal, req.Title)
	return comment, nil
}

// UpdateStatus is reserved to Staff and Admin.
func (s *Service) UpdateStatus(ctx context.Context, caller *domain.Claims, id domain.RequestID, status string) (*domain.Request, error) {
	if !policy.CanMutateStatus(caller.Role) {
		return nil, domerrors.ErrForbidden
	}
	st, err := domain.ParseRequestStatus(status)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domerrors.ErrNotFound
	}
	now := s.now().UTC()
	if err := s.requests.UpdateStatus(ctx, id, st, now); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	req.Status = st
	req.UpdatedAt = now
	s.publish(ctx, domain.EventRequestUpdated, caller, req, false, string(st))
	return req, nil
}

// publish never fails the caller; the state change has already committed.
func (s *Service) publish(ctx context.Context, typ domain.EventType, caller *domain.Claims, req *domain.Request, internal bool, summary string) {
	if s.events == nil {
		return
	}
	reqID := req.ID
	ev := domain.Event{
		ID:                   ids.NewEventID(),
		Type:                 typ,
		ClientOrganisationID: req.ClientOrganisationID,
		ActorID:              caller.Subject,
		RequestID:            &reqID,
		Internal:             internal,
		Summary:              summary,
		OccurredAt:           s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(typ)).Str("request_id", req.ID.String()).Msg("publish event failed")
	}
}
