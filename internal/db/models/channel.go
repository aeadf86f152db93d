// Package models defines the persistent entities of the idea pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel is a user-registered YouTube channel to poll for videos.
// ExternalID is empty until the first sync resolves it against the platform.
type Channel struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OwnerID    string    `db:"user_id" json:"owner_id"`
	Name       string    `db:"name" json:"name"`
	ExternalID string    `db:"channel_id" json:"channel_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// NewChannel creates a Channel owned by ownerID.
func NewChannel(ownerID, name string) *Channel {
	now := time.Now()
	return &Channel{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
