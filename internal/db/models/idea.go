package models

import (
	"time"

	"github.com/google/uuid"
)

// Idea is a content idea derived from a claimed comment.
type Idea struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   string    `db:"user_id" json:"owner_id"`
	CommentID uuid.UUID `db:"comment_id" json:"comment_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewIdea creates an Idea for ownerID derived from the given comment row.
func NewIdea(ownerID string, commentID uuid.UUID, content string) *Idea {
	return &Idea{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CommentID: commentID,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
