package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/metrics"
	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

// RoutingKeyIdeaGenerated is the broker routing key for new-idea events.
const RoutingKeyIdeaGenerated = "idea.generated"

// IdeaGeneratedEvent is published for every persisted idea.
type IdeaGeneratedEvent struct {
	OwnerID string    `json:"owner_id"`
	IdeaID  uuid.UUID `json:"idea_id"`
	Content string    `json:"content"`
}

// DerivationFailure reports a claimed comment whose derivation failed. The
// comment stays consumed: consumed means attempted, so a poisoned comment is
// never reprocessed forever.
type DerivationFailure struct {
	CommentID uuid.UUID `json:"comment_id"`
	Reason    string    `json:"reason"`
}

// GenerateResult is the outcome of one generation run.
type GenerateResult struct {
	Ideas    []*models.Idea      `json:"ideas"`
	Failures []DerivationFailure `json:"failures"`
}

// IdeaService selects unconsumed comments across an owner's videos, claims
// them exactly once, and turns them into idea records.
type IdeaService struct {
	comments         CommentStore
	ideas            IdeaStore
	deriver          IdeaDeriver
	publisher        EventPublisher
	defaultBatchSize int
	maxBatchSize     int
}

// NewIdeaService creates a new IdeaService. publisher may be nil.
func NewIdeaService(
	comments CommentStore,
	ideas IdeaStore,
	deriver IdeaDeriver,
	publisher EventPublisher,
	defaultBatchSize, maxBatchSize int,
) *IdeaService {
	if defaultBatchSize < 1 {
		defaultBatchSize = 1
	}
	if maxBatchSize < defaultBatchSize {
		maxBatchSize = defaultBatchSize
	}
	return &IdeaService{
		comments:         comments,
		ideas:            ideas,
		deriver:          deriver,
		publisher:        publisher,
		defaultBatchSize: defaultBatchSize,
		maxBatchSize:     maxBatchSize,
	}
}

// GenerateIdeas claims up to batchSize of the owner's unconsumed comments,
// most recently published first, and derives one idea per comment. The claim
// is atomic: two concurrent runs never act on the same comment. An empty
// candidate set yields an empty result, not an error.
func (s *IdeaService) GenerateIdeas(ctx context.Context, ownerID string, batchSize int) (*GenerateResult, error) {
	if batchSize <= 0 {
		batchSize = s.defaultBatchSize
	}
	if batchSize > s.maxBatchSize {
		batchSize = s.maxBatchSize
	}

	claimed, err := s.comments.ClaimUnconsumed(ctx, ownerID, batchSize)
	if err != nil {
		return nil, fmt.Errorf("claim comments: %w", err)
	}

	result := &GenerateResult{}
	for _, comment := range claimed {
		content, err := s.deriver.Derive(ctx, comment)
		if err != nil {
			// The claim stands; the failure is reported, not fatal.
			result.Failures = append(result.Failures, DerivationFailure{
				CommentID: comment.ID,
				Reason:    err.Error(),
			})
			continue
		}

		idea := models.NewIdea(ownerID, comment.ID, content)
		if err := s.ideas.Create(ctx, idea); err != nil {
			result.Failures = append(result.Failures, DerivationFailure{
				CommentID: comment.ID,
				Reason:    fmt.Sprintf("store idea: %v", err),
			})
			continue
		}

		result.Ideas = append(result.Ideas, idea)
		metrics.IdeasGenerated.Inc()
		s.publishGenerated(ctx, idea)
	}

	logger.Log.Info("idea generation completed",
		zap.String("ownerId", ownerID),
		zap.Int("claimed", len(claimed)),
		zap.Int("ideas", len(result.Ideas)),
		zap.Int("failures", len(result.Failures)),
	)

	return result, nil
}

// ListIdeas returns the owner's ideas newest first.
func (s *IdeaService) ListIdeas(ctx context.Context, ownerID string, limit int) ([]*models.Idea, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	ideas, err := s.ideas.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

func (s *IdeaService) publishGenerated(ctx context.Context, idea *models.Idea) {
	if s.publisher == nil {
		return
	}

	event := IdeaGeneratedEvent{
		OwnerID: idea.OwnerID,
		IdeaID:  idea.ID,
		Content: idea.Content,
	}
	if err := s.publisher.Publish(ctx, RoutingKeyIdeaGenerated, event); err != nil {
		logger.Log.Warn("failed to publish idea.generated event",
			zap.String("ideaId", idea.ID.String()),
			zap.Error(err),
		)
	}
}
