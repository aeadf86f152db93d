// Package repository implements PostgreSQL persistence for the idea pipeline.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

// ChannelRepository defines operations for managing registered channels.
type ChannelRepository interface {
	// Create inserts a new channel. Returns db.ErrDuplicateKey when the
	// owner already registered a channel with the same name.
	Create(ctx context.Context, channel *models.Channel) error

	// DeleteOwned removes a channel only if it belongs to ownerID.
	// Returns db.ErrNotFound otherwise.
	DeleteOwned(ctx context.Context, ownerID string, channelID uuid.UUID) error

	// ListByOwner returns the owner's channels in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Channel, error)

	// SetExternalID records the resolved platform channel id.
	SetExternalID(ctx context.Context, channelID uuid.UUID, externalID string) error
}

type channelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepository{pool: pool}
}

func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO youtube_channels (id, user_id, name, channel_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		channel.ID,
		channel.OwnerID,
		channel.Name,
		channel.ExternalID,
		channel.CreatedAt,
		channel.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create channel")
	}

	return nil
}

func (r *channelRepository) DeleteOwned(ctx context.Context, ownerID string, channelID uuid.UUID) error {
	// The ownership predicate is part of the statement so a foreign id can
	// never delete another owner's channel.
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM youtube_channels WHERE id = $1 AND user_id = $2`,
		channelID, ownerID,
	)
	if err != nil {
		return db.WrapError(err, "delete channel")
	}
	if tag.RowsAffected() == 0 {
		return db.WrapError(db.ErrNotFound, "delete channel")
	}

	return nil
}

func (r *channelRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Channel, error) {
	query := `
		SELECT id, user_id, name, COALESCE(channel_id, ''), created_at, updated_at
		FROM youtube_channels
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, db.WrapError(err, "list channels")
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel := &models.Channel{}
		err := rows.Scan(
			&channel.ID,
			&channel.OwnerID,
			&channel.Name,
			&channel.ExternalID,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		)
		if err != nil {
			return nil, db.WrapError(err, "scan channel")
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate channels")
	}

	return channels, nil
}

func (r *channelRepository) SetExternalID(ctx context.Context, channelID uuid.UUID, externalID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE youtube_channels SET channel_id = $1, updated_at = now() WHERE id = $2`,
		externalID, channelID,
	)
	if err != nil {
		return db.WrapError(err, "set channel external id")
	}

	return nil
}
