// Package service implements the channel sync and idea generation pipeline.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
)

// PlatformClient is the read-only remote platform surface the pipeline
// depends on. Implemented by platform/youtube.Client.
type PlatformClient interface {
	ResolveChannelID(ctx context.Context, name string) (string, error)
	ListVideos(ctx context.Context, channelID string, cursor youtube.PageToken) (*youtube.VideoPage, error)
	ListComments(ctx context.Context, videoID string, cursor youtube.PageToken) (*youtube.CommentPage, error)
}

// ChannelStore persists registered channels.
type ChannelStore interface {
	Create(ctx context.Context, channel *models.Channel) error
	DeleteOwned(ctx context.Context, ownerID string, channelID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Channel, error)
	SetExternalID(ctx context.Context, channelID uuid.UUID, externalID string) error
}

// VideoStore persists synced videos.
type VideoStore interface {
	InsertIfAbsent(ctx context.Context, video *models.Video) (bool, error)
	RefreshStats(ctx context.Context, ownerID, videoID string, view, like, dislike, comment int64) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Video, error)
}

// CommentStore persists ingested comments and performs the claim.
type CommentStore interface {
	InsertIfAbsent(ctx context.Context, comment *models.Comment) (bool, error)
	ClaimUnconsumed(ctx context.Context, ownerID string, limit int) ([]*models.Comment, error)
}

// IdeaStore persists derived ideas.
type IdeaStore interface {
	Create(ctx context.Context, idea *models.Idea) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Idea, error)
}

// EventPublisher emits pipeline events to the message broker. Implementations
// must be safe for concurrent use. A nil publisher disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// IdeaDeriver turns one claimed comment into idea text. The derivation
// heuristic is pluggable; the pipeline only depends on this contract.
type IdeaDeriver interface {
	Derive(ctx context.Context, comment *models.Comment) (string, error)
}
