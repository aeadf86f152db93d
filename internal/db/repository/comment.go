package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

// CommentRepository defines operations for managing video comments.
type CommentRepository interface {
	// InsertIfAbsent inserts the comment unless a row with the same
	// (video row id, external comment id) already exists. Returns true when
	// the row was inserted, making re-ingestion idempotent.
	InsertIfAbsent(ctx context.Context, comment *models.Comment) (bool, error)

	// ClaimUnconsumed atomically marks up to limit of the owner's unconsumed
	// comments as consumed, newest published first, and returns the claimed
	// rows. Rows locked by a concurrent claim are skipped, so two
	// simultaneous runs never both claim the same comment.
	ClaimUnconsumed(ctx context.Context, ownerID string, limit int) ([]*models.Comment, error)

	// CountUnconsumed returns the number of claimable comments for an owner.
	CountUnconsumed(ctx context.Context, ownerID string) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) InsertIfAbsent(ctx context.Context, comment *models.Comment) (bool, error) {
	query := `
		INSERT INTO video_comments (id, video_id, user_id, comment_id, comment_text,
		                            like_count, published_at, consumed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
		ON CONFLICT (video_id, comment_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.VideoRowID,
		comment.OwnerID,
		comment.CommentID,
		comment.Text,
		comment.LikeCount,
		comment.PublishedAt,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return false, db.WrapError(err, "insert comment")
	}

	return tag.RowsAffected() > 0, nil
}

func (r *commentRepository) ClaimUnconsumed(ctx context.Context, ownerID string, limit int) ([]*models.Comment, error) {
	// Single-statement claim: the subquery locks candidate rows with SKIP
	// LOCKED so a concurrent claimant sees fewer rows instead of blocking or
	// double-claiming, and the UPDATE flips consumed under the same lock.
	query := `
		UPDATE video_comments
		SET consumed = TRUE, updated_at = now()
		WHERE id IN (
			SELECT id FROM video_comments
			WHERE user_id = $1 AND consumed = FALSE
			ORDER BY published_at DESC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, video_id, user_id, comment_id, comment_text,
		          like_count, published_at, consumed, created_at, updated_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, db.WrapError(err, "claim comments")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.VideoRowID,
			&comment.OwnerID,
			&comment.CommentID,
			&comment.Text,
			&comment.LikeCount,
			&comment.PublishedAt,
			&comment.Consumed,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, db.WrapError(err, "scan claimed comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate claimed comments")
	}

	return comments, nil
}

func (r *commentRepository) CountUnconsumed(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM video_comments WHERE user_id = $1 AND consumed = FALSE`,
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count unconsumed comments")
	}

	return count, nil
}
