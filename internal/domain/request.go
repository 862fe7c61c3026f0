package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

type RequestID struct{ uuid.UUID }

func NewRequestID(id uuid.UUID) RequestID { return RequestID{UUID: id} }

func ParseRequestID(s string) (RequestID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RequestID{}, domerrors.Invalid("request_id", "must be a UUID")
	}
	return RequestID{UUID: id}, nil
}

func (r RequestID) String() string { return r.UUID.String() }

type RequestCommentID struct{ uuid.UUID }

func NewRequestCommentID(id uuid.UUID) RequestCommentID { return RequestCommentID{UUID: id} }

func (c RequestCommentID) String() string { return c.UUID.String() }

// RequestStatus is the lifecycle state of a support request.
type RequestStatus string

const (
	StatusNew             RequestStatus = "New"
	StatusInProgress      RequestStatus = "InProgress"
	StatusWaitingOnClient RequestStatus = "WaitingOnClient"
	StatusResolved        RequestStatus = "Resolved"
	StatusClosed          RequestStatus = "Closed"
)

var requestStatuses = []RequestStatus{StatusNew, StatusInProgress, StatusWaitingOnClient, StatusResolved, StatusClosed}

// ParseRequestStatus accepts any casing and returns the canonical status.
func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, st := range requestStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", domerrors.Invalid("status", "must be one of New, InProgress, WaitingOnClient, Resolved, Closed")
}

// Open reports whether the request still needs work.
func (s RequestStatus) Open() bool { return s != StatusResolved && s != StatusClosed }

type RequestPriority string

const (
	PriorityLow      RequestPriority = "Low"
	PriorityMedium   RequestPriority = "Medium"
	PriorityHigh     RequestPriority = "High"
	PriorityCritical RequestPriority = "Critical"
)

var requestPriorities = []RequestPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func ParseRequestPriority(s string) (RequestPriority, error) {
	for _, p := range requestPriorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", domerrors.Invalid("priority", "must be one of Low, Medium, High, Critical")
}

// Request is a support ticket raised for a client organisation.
type Request struct {
	ID                   RequestID
	ClientOrganisationID ClientOrganisationID
	CreatedByUserID      UserID
	Title                string
	Description          string
	Status               RequestStatus
	Priority             RequestPriority
	DueDate              *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RequestComment belongs to a request; its tenant is the request's tenant.
type RequestComment struct {
	ID           RequestCommentID
	RequestID    RequestID
	AuthorUserID UserID
	Message      string
	IsInternal   bool
	CreatedAt    time.Time
}
