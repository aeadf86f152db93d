package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/idea-gen/youtube-idea-generator-go/internal/config"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/metrics"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
	"github.com/idea-gen/youtube-idea-generator-go/pkg/logger"
)

// RoutingKeyVideoSynced is the broker routing key for new-video events.
const RoutingKeyVideoSynced = "video.synced"

// VideoSyncedEvent is published for every newly stored video.
type VideoSyncedEvent struct {
	OwnerID   string `json:"owner_id"`
	VideoID   string `json:"video_id"`
	Title     string `json:"title"`
	ChannelID string `json:"channel_id"`
}

// ChannelFailure is an isolated per-channel sync failure, reported alongside
// the successfully synced videos.
type ChannelFailure struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	Kind      string `json:"kind"`
}

// SyncResult is the outcome of one sync run: partial success is the normal
// case, not an exception.
type SyncResult struct {
	NewVideos        []*models.Video  `json:"new_videos"`
	CommentsIngested int              `json:"comments_ingested"`
	Failures         []ChannelFailure `json:"failures"`
}

// SyncService pulls each registered channel's videos from the platform,
// deduplicates against stored videos, and triggers comment ingestion for
// every video confirmed new.
type SyncService struct {
	client    PlatformClient
	channels  ChannelStore
	videos    VideoStore
	ingest    *IngestService
	publisher EventPublisher
	cfg       config.SyncConfig
}

// NewSyncService creates a new SyncService. publisher may be nil.
func NewSyncService(
	client PlatformClient,
	channels ChannelStore,
	videos VideoStore,
	ingest *IngestService,
	publisher EventPublisher,
	cfg config.SyncConfig,
) *SyncService {
	if cfg.MaxPagesPerChannel < 1 {
		cfg.MaxPagesPerChannel = 1
	}
	if cfg.MaxConcurrentFetches < 1 {
		cfg.MaxConcurrentFetches = 1
	}
	return &SyncService{
		client:    client,
		channels:  channels,
		videos:    videos,
		ingest:    ingest,
		publisher: publisher,
		cfg:       cfg,
	}
}

// SyncVideos runs one sync for the owner. Channels are fetched concurrently
// under a bounded semaphore; one channel's failure never aborts the others.
// The result holds exactly the videos inserted by this run.
func (s *SyncService) SyncVideos(ctx context.Context, ownerID string) (*SyncResult, error) {
	channels, err := s.channels.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	if len(channels) == 0 {
		return nil, ErrNoChannelsRegistered
	}

	logger.Log.Info("sync starting",
		zap.String("ownerId", ownerID),
		zap.Int("channels", len(channels)),
	)

	result := &SyncResult{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(s.cfg.MaxConcurrentFetches))

	for _, channel := range channels {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				// Caller cancelled; already-committed work stays valid.
				return err
			}
			defer sem.Release(1)

			newVideos, ingested, err := s.syncChannel(ctx, channel)

			mu.Lock()
			defer mu.Unlock()
			result.NewVideos = append(result.NewVideos, newVideos...)
			result.CommentsIngested += ingested
			if err != nil {
				failure := newChannelFailure(channel, err)
				result.Failures = append(result.Failures, failure)
				metrics.ChannelSyncFailures.WithLabelValues(failure.Kind).Inc()
				logger.Log.Warn("channel sync failed",
					zap.String("ownerId", ownerID),
					zap.String("channel", channel.Name),
					zap.String("kind", failure.Kind),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Only context cancellation reaches here; per-channel errors are
		// collected in the result.
		return result, err
	}

	logger.Log.Info("sync completed",
		zap.String("ownerId", ownerID),
		zap.Int("newVideos", len(result.NewVideos)),
		zap.Int("commentsIngested", result.CommentsIngested),
		zap.Int("failures", len(result.Failures)),
	)

	return result, nil
}

// ListVideos returns the owner's stored videos newest first.
func (s *SyncService) ListVideos(ctx context.Context, ownerID string, limit int) ([]*models.Video, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	videos, err := s.videos.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// syncChannel pulls one channel's videos page by page in cursor order and
// stores the unseen ones. Returns the videos inserted by this call.
func (s *SyncService) syncChannel(ctx context.Context, channel *models.Channel) ([]*models.Video, int, error) {
	externalID := channel.ExternalID
	if externalID == "" {
		resolved, err := s.client.ResolveChannelID(ctx, channel.Name)
		if err != nil {
			return nil, 0, fmt.Errorf("resolve %q: %w", channel.Name, err)
		}
		externalID = resolved
		if err := s.channels.SetExternalID(ctx, channel.ID, resolved); err != nil {
			// Resolution is re-done next run; the sync itself can proceed.
			logger.Log.Warn("failed to persist resolved channel id",
				zap.String("channel", channel.Name),
				zap.Error(err),
			)
		}
	}

	var newVideos []*models.Video
	ingested := 0
	cursor := youtube.PageToken("")

	for page := 0; page < s.cfg.MaxPagesPerChannel; page++ {
		videoPage, err := s.client.ListVideos(ctx, externalID, cursor)
		if err != nil {
			return newVideos, ingested, fmt.Errorf("list videos: %w", err)
		}

		for _, remote := range videoPage.Videos {
			video := s.buildVideo(channel.OwnerID, remote)

			inserted, err := s.videos.InsertIfAbsent(ctx, video)
			if err != nil {
				return newVideos, ingested, fmt.Errorf("store video %s: %w", remote.VideoID, err)
			}

			if !inserted {
				// Seen before: refresh counters, identity stays immutable.
				if err := s.videos.RefreshStats(ctx, channel.OwnerID, remote.VideoID,
					remote.ViewCount, remote.LikeCount, remote.DislikeCount, remote.CommentCount); err != nil {
					return newVideos, ingested, fmt.Errorf("refresh video %s: %w", remote.VideoID, err)
				}
				continue
			}

			newVideos = append(newVideos, video)
			metrics.VideosSynced.Inc()

			// The insert above is committed, so ingesting its comments can
			// never reference a rolled-back video.
			count, err := s.ingest.IngestComments(ctx, video)
			ingested += count
			if err != nil {
				// Ingestion is idempotent and safely re-runnable; the video
				// itself synced fine.
				logger.Log.Warn("comment ingestion incomplete",
					zap.String("videoId", video.VideoID),
					zap.Error(err),
				)
			}

			s.publishSynced(ctx, video)
		}

		if videoPage.NextPage == "" {
			break
		}
		cursor = videoPage.NextPage
	}

	return newVideos, ingested, nil
}

func (s *SyncService) buildVideo(ownerID string, remote youtube.Video) *models.Video {
	video := models.NewVideo(ownerID, remote.VideoID)
	video.Title = remote.Title
	video.Description = remote.Description
	video.PublishedAt = remote.PublishedAt
	video.ThumbnailURL = remote.ThumbnailURL
	video.ChannelID = remote.ChannelID
	video.ChannelTitle = remote.ChannelTitle
	video.ViewCount = remote.ViewCount
	video.LikeCount = remote.LikeCount
	video.DislikeCount = remote.DislikeCount
	video.CommentCount = remote.CommentCount
	return video
}

func (s *SyncService) publishSynced(ctx context.Context, video *models.Video) {
	if s.publisher == nil {
		return
	}

	event := VideoSyncedEvent{
		OwnerID:   video.OwnerID,
		VideoID:   video.VideoID,
		Title:     video.Title,
		ChannelID: video.ChannelID,
	}
	if err := s.publisher.Publish(ctx, RoutingKeyVideoSynced, event); err != nil {
		logger.Log.Warn("failed to publish video.synced event",
			zap.String("videoId", video.VideoID),
			zap.Error(err),
		)
	}
}

func newChannelFailure(channel *models.Channel, err error) ChannelFailure {
	kind := "internal"
	switch {
	case youtube.IsRemoteRejected(err):
		kind = "remote_rejected"
	case youtube.IsRemoteUnavailable(err):
		kind = "remote_unavailable"
	}

	return ChannelFailure{
		ChannelID: channel.ID.String(),
		Name:      channel.Name,
		Reason:    err.Error(),
		Kind:      kind,
	}
}
