package domain

import "time"

// Claims is the verified identity carried by a session token. Never persisted.
type Claims struct {
	Subject              UserID
	Email                string
	DisplayName          string
	Role                 Role
	ClientOrganisationID *ClientOrganisationID
	IssuedAt             time.Time
	ExpiresAt            time.Time
	Issuer               string
	Audience             string
}
