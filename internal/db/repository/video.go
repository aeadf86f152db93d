package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

// VideoRepository defines operations for managing stored videos.
type VideoRepository interface {
	// InsertIfAbsent inserts the video unless a row with the same
	// (owner, external video id) already exists. Returns true when the row
	// was inserted. A lost insert race is reported as inserted=false, never
	// as an error.
	InsertIfAbsent(ctx context.Context, video *models.Video) (bool, error)

	// RefreshStats updates the engagement counters of an existing video.
	// Identity fields are left untouched.
	RefreshStats(ctx context.Context, ownerID, videoID string, view, like, dislike, comment int64) error

	// GetByRowID retrieves a single video by row id.
	GetByRowID(ctx context.Context, id uuid.UUID) (*models.Video, error)

	// ListByOwner returns the owner's videos newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) InsertIfAbsent(ctx context.Context, video *models.Video) (bool, error) {
	query := `
		INSERT INTO videos (id, user_id, video_id, title, description, published_at,
		                    thumbnail_url, channel_id, channel_title,
		                    view_count, like_count, dislike_count, comment_count,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_id, video_id) DO NOTHING
		RETURNING id
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoID,
		video.Title,
		video.Description,
		video.PublishedAt,
		video.ThumbnailURL,
		video.ChannelID,
		video.ChannelTitle,
		video.ViewCount,
		video.LikeCount,
		video.DislikeCount,
		video.CommentCount,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: the video was already stored, possibly by a concurrent
		// sync run. Success-by-another-writer.
		return false, nil
	}
	if err != nil {
		return false, db.WrapError(err, "insert video")
	}

	return true, nil
}

func (r *videoRepository) RefreshStats(ctx context.Context, ownerID, videoID string, view, like, dislike, comment int64) error {
	query := `
		UPDATE videos
		SET view_count = $3, like_count = $4, dislike_count = $5, comment_count = $6,
		    updated_at = now()
		WHERE user_id = $1 AND video_id = $2
	`

	_, err := r.pool.Exec(ctx, query, ownerID, videoID, view, like, dislike, comment)
	if err != nil {
		return db.WrapError(err, "refresh video stats")
	}

	return nil
}

func (r *videoRepository) GetByRowID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := selectVideoColumns + ` WHERE id = $1`

	video := &models.Video{}
	err := r.pool.QueryRow(ctx, query, id).Scan(videoScanTargets(video)...)
	if err != nil {
		return nil, db.WrapError(err, "get video by row id")
	}

	return video, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Video, error) {
	query := selectVideoColumns + `
		WHERE user_id = $1
		ORDER BY published_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		if err := rows.Scan(videoScanTargets(video)...); err != nil {
			return nil, db.WrapError(err, "scan video")
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate videos")
	}

	return videos, nil
}

const selectVideoColumns = `
	SELECT id, user_id, video_id, title, description, published_at,
	       thumbnail_url, channel_id, channel_title,
	       view_count, like_count, dislike_count, comment_count,
	       created_at, updated_at
	FROM videos`

func videoScanTargets(v *models.Video) []any {
	return []any{
		&v.ID,
		&v.OwnerID,
		&v.VideoID,
		&v.Title,
		&v.Description,
		&v.PublishedAt,
		&v.ThumbnailURL,
		&v.ChannelID,
		&v.ChannelTitle,
		&v.ViewCount,
		&v.LikeCount,
		&v.DislikeCount,
		&v.CommentCount,
		&v.CreatedAt,
		&v.UpdatedAt,
	}
}
