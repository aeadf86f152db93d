package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

// ChannelService is the channel registry: CRUD over an owner's tracked
// channels with per-owner uniqueness.
type ChannelService struct {
	channels ChannelStore
}

// NewChannelService creates a new ChannelService.
func NewChannelService(channels ChannelStore) *ChannelService {
	return &ChannelService{channels: channels}
}

// AddChannel registers a channel name for the owner.
func (s *ChannelService) AddChannel(ctx context.Context, ownerID, name string) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyChannelName
	}

	channel := models.NewChannel(ownerID, name)
	if err := s.channels.Create(ctx, channel); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrDuplicateChannel)
		}
		return nil, fmt.Errorf("add channel: %w", err)
	}

	logger.Log.Info("channel registered",
		zap.String("ownerId", ownerID),
		zap.String("name", name),
	)

	return channel, nil
}

// RemoveChannel deletes the owner's channel. A valid-looking foreign id
// fails with ErrNotFound, never touching another owner's data.
func (s *ChannelService) RemoveChannel(ctx context.Context, ownerID string, channelID uuid.UUID) error {
	if err := s.channels.DeleteOwned(ctx, ownerID, channelID); err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
		}
		return fmt.Errorf("remove channel: %w", err)
	}

	logger.Log.Info("channel removed",
		zap.String("ownerId", ownerID),
		zap.String("channelId", channelID.String()),
	)

	return nil
}

// ListChannels returns the owner's channels in insertion order.
func (s *ChannelService) ListChannels(ctx context.Context, ownerID string) ([]*models.Channel, error) {
	channels, err := s.channels.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}
