package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is a YouTube video stored for an owner. (OwnerID, VideoID) is the
// dedup key; identity fields never change after first sight, only the
// engagement counters are refreshed on re-sync.
type Video struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OwnerID      string    `db:"user_id" json:"owner_id"`
	VideoID      string    `db:"video_id" json:"video_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description,omitempty"`
	PublishedAt  time.Time `db:"published_at" json:"published_at"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	ChannelID    string    `db:"channel_id" json:"channel_id"`
	ChannelTitle string    `db:"channel_title" json:"channel_title"`
	ViewCount    int64     `db:"view_count" json:"view_count"`
	LikeCount    int64     `db:"like_count" json:"like_count"`
	DislikeCount int64     `db:"dislike_count" json:"dislike_count"`
	CommentCount int64     `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewVideo creates a Video owned by ownerID with a fresh row id.
func NewVideo(ownerID, videoID string) *Video {
	now := time.Now()
	return &Video{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		VideoID:   videoID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
