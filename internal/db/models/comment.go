package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a single top-level comment pulled from a stored video.
// OwnerID is denormalized from the parent video for per-owner queries.
// Consumed flips false→true exactly once when idea generation claims the
// comment; it is never reverted.
type Comment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	VideoRowID  uuid.UUID `db:"video_id" json:"video_id"`
	OwnerID     string    `db:"user_id" json:"owner_id"`
	CommentID   string    `db:"comment_id" json:"comment_id"`
	Text        string    `db:"comment_text" json:"text"`
	LikeCount   int64     `db:"like_count" json:"like_count"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	Consumed    bool      `db:"consumed" json:"consumed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewComment creates an unconsumed Comment for the given video row.
func NewComment(videoRowID uuid.UUID, ownerID, commentID string) *Comment {
	now := time.Now()
	return &Comment{
		ID:         uuid.New(),
		VideoRowID: videoRowID,
		OwnerID:    ownerID,
		CommentID:  commentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
