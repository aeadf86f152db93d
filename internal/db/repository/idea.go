package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

// IdeaRepository defines operations for managing derived ideas.
type IdeaRepository interface {
	// Create inserts a new idea.
	Create(ctx context.Context, idea *models.Idea) error

	// ListByOwner returns the owner's ideas newest first.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Idea, error)
}

type ideaRepository struct {
	pool *pgxpool.Pool
}

// NewIdeaRepository creates a new IdeaRepository.
func NewIdeaRepository(pool *pgxpool.Pool) IdeaRepository {
	return &ideaRepository{pool: pool}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	query := `
		INSERT INTO ideas (id, user_id, comment_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		idea.ID,
		idea.OwnerID,
		idea.CommentID,
		idea.Content,
		idea.CreatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create idea")
	}

	return nil
}

func (r *ideaRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Idea, error) {
	query := `
		SELECT id, user_id, comment_id, content, created_at
		FROM ideas
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list ideas")
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea := &models.Idea{}
		err := rows.Scan(
			&idea.ID,
			&idea.OwnerID,
			&idea.CommentID,
			&idea.Content,
			&idea.CreatedAt,
		)
		if err != nil {
			return nil, db.WrapError(err, "scan idea")
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate ideas")
	}

	return ideas, nil
}
