package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/metrics"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

// IngestService pulls a stored video's comments from the platform and
// persists them unconsumed. Re-running for the same video is idempotent:
// the (video, external comment id) key absorbs duplicates.
type IngestService struct {
	client   PlatformClient
	comments CommentStore
	maxPages int
}

// NewIngestService creates a new IngestService. maxPages bounds pagination
// per video.
func NewIngestService(client PlatformClient, comments CommentStore, maxPages int) *IngestService {
	if maxPages < 1 {
		maxPages = 1
	}
	return &IngestService{
		client:   client,
		comments: comments,
		maxPages: maxPages,
	}
}

// IngestComments pulls up to maxPages of comments for the video and returns
// the number of comments newly inserted.
func (s *IngestService) IngestComments(ctx context.Context, video *models.Video) (int, error) {
	inserted := 0
	cursor := youtube.PageToken("")

	for page := 0; page < s.maxPages; page++ {
		commentPage, err := s.client.ListComments(ctx, video.VideoID, cursor)
		if err != nil {
			return inserted, fmt.Errorf("list comments for %s: %w", video.VideoID, err)
		}

		for _, remote := range commentPage.Comments {
			comment := models.NewComment(video.ID, video.OwnerID, remote.CommentID)
			comment.Text = remote.Text
			comment.LikeCount = remote.LikeCount
			comment.PublishedAt = remote.PublishedAt

			ok, err := s.comments.InsertIfAbsent(ctx, comment)
			if err != nil {
				return inserted, fmt.Errorf("store comment %s: %w", remote.CommentID, err)
			}
			if ok {
				inserted++
				metrics.CommentsIngested.Inc()
			}
		}

		if commentPage.NextPage == "" {
			break
		}
		cursor = commentPage.NextPage
	}

	logger.Log.Debug("comments ingested",
		zap.String("videoId", video.VideoID),
		zap.Int("inserted", inserted),
	)

	return inserted, nil
}
