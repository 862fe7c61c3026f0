package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/policy"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

const (
	DefaultCacheTTL = 30 * time.Second
	RecentWindow    = 7 * 24 * time.Hour
)

// Stats is the dashboard summary for one caller.
type Stats struct {
	OpenRequests        int       `json:"open_requests"`
	RecentlyUpdated     int       `json:"recently_updated"`
	NewDocuments        int       `json:"new_documents"`
	UnreadNotifications int       `json:"unread_notifications"`
	GeneratedAt         time.Time `json:"generated_at"`
}

type Service struct {
	requests      ports.RequestRepository
	documents     ports.DocumentRepository
	notifications ports.NotificationRepository
	cache         ports.Cache
	ttl           time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// NewService builds the dashboard. cache may be nil; ttl <= 0 uses DefaultCacheTTL.
func NewService(requests ports.RequestRepository, documents ports.DocumentRepository, notifications ports.NotificationRepository, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		requests:      requests,
		documents:     documents,
		notifications: notifications,
		cache:         cache,
		ttl:           ttl,
		log:           log,
		now:           time.Now,
	}
}

// Stats counts over the caller's tenant; Staff and Admin may pass a tenant or nil for all.
func (s *Service) Stats(ctx context.Context, caller *domain.Claims, requested *domain.ClientOrganisationID) (*Stats, error) {
	tenant, err := policy.EffectiveTenantFilter(caller.Role, caller.ClientOrganisationID, requested)
	if err != nil {
		return nil, err
	}
	key := cacheKey(caller.Subject, tenant)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	now := s.now().UTC()
	since := now.Add(-RecentWindow)
	st := &Stats{GeneratedAt: now}
	if st.OpenRequests, err = s.requests.CountOpen(ctx, tenant); err != nil {
		return nil, fmt.Errorf("count open requests: %w", err)
	}
	if st.RecentlyUpdated, err = s.requests.CountUpdatedSince(ctx, tenant, since); err != nil {
		return nil, fmt.Errorf("count updated requests: %w", err)
	}
	if st.NewDocuments, err = s.documents.CountUploadedSince(ctx, tenant, since); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if st.UnreadNotifications, err = s.notifications.CountUnread(ctx, caller.Subject); err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	s.toCache(ctx, key, st)
	return st, nil
}

func (s *Service) fromCache(ctx context.Context, key string) *Stats {
	if s.cache == nil {
		return nil
	}
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		}
		return nil
	}
	var st Stats
	if err := json.Unmarshal(b, &st); err != nil {
		return nil
	}
	return &st
}

func (s *Service) toCache(ctx context.Context, key string, st *Stats) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
}

func cacheKey(user domain.UserID, tenant *domain.ClientOrganisationID) string {
	scope := "all"
	if tenant != nil {
		scope = tenant.String()
	}
	return "portal:dashboard:" + scope + ":" + user.String()
}
