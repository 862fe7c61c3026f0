package domain

import "time"

// EventType names a portal domain event. Values double as queue task types.
type EventType string

const (
	EventRequestCreated   EventType = "portal:request_created"
	EventRequestUpdated   EventType = "portal:request_updated"
	EventCommentAdded     EventType = "portal:comment_added"
	EventDocumentUploaded EventType = "portal:document_uploaded"
)

// Event is published after a state change commits. ID is a ULID.
type Event struct {
	ID                   string               `json:"id"`
	Type                 EventType            `json:"type"`
	ClientOrganisationID ClientOrganisationID `json:"client_organisation_id"`
	ActorID              UserID               `json:"actor_id"`
	RequestID            *RequestID           `json:"request_id,omitempty"`
	DocumentID           *DocumentID          `json:"document_id,omitempty"`
	Internal             bool                 `json:"internal,omitempty"`
	Summary              string               `json:"summary,omitempty"`
	OccurredAt           time.Time            `json:"occurred_at"`
}
