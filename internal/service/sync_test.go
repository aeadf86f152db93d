package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idea-gen/youtube-idea-generator-go/internal/config"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
)

type syncFixture struct {
	platform  *fakePlatform
	channels  *fakeChannelStore
	videos    *fakeVideoStore
	comments  *fakeCommentStore
	publisher *fakePublisher
	svc       *SyncService
}

func newSyncFixture(cfg config.SyncConfig) *syncFixture {
	f := &syncFixture{
		platform:  newFakePlatform(),
		channels:  newFakeChannelStore(),
		videos:    newFakeVideoStore(),
		comments:  newFakeCommentStore(),
		publisher: &fakePublisher{},
	}
	ingest := NewIngestService(f.platform, f.comments, cfg.MaxCommentPagesPerVideo)
	f.svc = NewSyncService(f.platform, f.channels, f.videos, ingest, f.publisher, cfg)
	return f
}

func defaultSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		MaxPagesPerChannel:      3,
		MaxCommentPagesPerVideo: 2,
		MaxConcurrentFetches:    2,
	}
}

func (f *syncFixture) registerChannel(t *testing.T, ownerID, name, externalID string) *models.Channel {
	t.Helper()
	channel := models.NewChannel(ownerID, name)
	channel.ExternalID = externalID
	require.NoError(t, f.channels.Create(context.Background(), channel))
	return channel
}

func remoteVideo(id string) youtube.Video {
	return youtube.Video{
		VideoID:      id,
		Title:        "title " + id,
		ChannelID:    "UCtech",
		ChannelTitle: "Tech",
		PublishedAt:  time.Now().Add(-time.Hour),
		ViewCount:    10,
	}
}

func remoteComment(id string, age time.Duration) youtube.Comment {
	return youtube.Comment{
		CommentID:   id,
		Text:        "text " + id,
		PublishedAt: time.Now().Add(-age),
	}
}

func TestSyncVideos_NoChannels(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())

	_, err := f.svc.SyncVideos(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoChannelsRegistered)
}

func TestSyncVideos_NewChannelWithThreeVideos(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Tech", "UCtech")
	f.platform.videoPages["UCtech"] = [][]youtube.Video{
		{remoteVideo("v1"), remoteVideo("v2"), remoteVideo("v3")},
	}
	for _, id := range []string{"v1", "v2", "v3"} {
		f.platform.commentPages[id] = [][]youtube.Comment{
			{remoteComment(id+"-c1", time.Minute), remoteComment(id+"-c2", 2*time.Minute)},
		}
	}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)

	assert.Len(t, result.NewVideos, 3)
	assert.Equal(t, 6, result.CommentsIngested)
	assert.Empty(t, result.Failures)
	assert.Len(t, f.publisher.events, 3, "one video.synced event per new video")

	// Every ingested comment is unconsumed and owned by the video's owner.
	for _, c := range f.comments.comments {
		assert.False(t, c.Consumed)
		assert.Equal(t, "user-1", c.OwnerID)
	}

	// Identical remote data again: idempotent, zero new videos.
	rerun, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, rerun.NewVideos)
	assert.Zero(t, rerun.CommentsIngested)
	assert.Empty(t, rerun.Failures)
}

func TestSyncVideos_RefreshesCountersForKnownVideos(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Tech", "UCtech")
	f.platform.videoPages["UCtech"] = [][]youtube.Video{{remoteVideo("v1")}}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, result.NewVideos, 1)

	bumped := remoteVideo("v1")
	bumped.ViewCount = 999
	bumped.Title = "renamed upstream"
	f.platform.videoPages["UCtech"] = [][]youtube.Video{{bumped}}

	rerun, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, rerun.NewVideos)

	stored := f.videos.videos[videoKey("user-1", "v1")]
	require.NotNil(t, stored)
	assert.Equal(t, int64(999), stored.ViewCount, "counters refreshed")
	assert.Equal(t, "title v1", stored.Title, "identity immutable")
}

func TestSyncVideos_IsolatesChannelFailures(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Broken", "UCbroken")
	f.registerChannel(t, "user-1", "Tech", "UCtech")

	f.platform.videoErrs["UCbroken"] = fmt.Errorf("list videos: %w", youtube.ErrRemoteRejected)
	f.platform.videoPages["UCtech"] = [][]youtube.Video{{remoteVideo("v1")}}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)

	assert.Len(t, result.NewVideos, 1)
	assert.Equal(t, "v1", result.NewVideos[0].VideoID)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Broken", result.Failures[0].Name)
	assert.Equal(t, "remote_rejected", result.Failures[0].Kind)
}

func TestSyncVideos_ClassifiesUnavailable(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Flaky", "UCflaky")
	f.platform.videoErrs["UCflaky"] = fmt.Errorf("list videos: %w", youtube.ErrRemoteUnavailable)

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "remote_unavailable", result.Failures[0].Kind)
}

func TestSyncVideos_ResolvesMissingExternalID(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	channel := f.registerChannel(t, "user-1", "Tech", "")
	f.platform.channelIDs["Tech"] = "UCtech"
	f.platform.videoPages["UCtech"] = [][]youtube.Video{{remoteVideo("v1")}}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, result.NewVideos, 1)
	assert.Equal(t, "UCtech", f.channels.external[channel.ID], "resolved id persisted")
}

func TestSyncVideos_UnresolvableChannelIsReported(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Ghost", "")

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, result.NewVideos)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "remote_rejected", result.Failures[0].Kind)
}

func TestSyncVideos_BoundsPagination(t *testing.T) {
	cfg := defaultSyncConfig()
	cfg.MaxPagesPerChannel = 1
	f := newSyncFixture(cfg)
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Tech", "UCtech")
	f.platform.videoPages["UCtech"] = [][]youtube.Video{
		{remoteVideo("v1")},
		{remoteVideo("v2")},
	}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, result.NewVideos, 1, "second page is beyond the bound")
	assert.Equal(t, "v1", result.NewVideos[0].VideoID)
}

func TestSyncVideos_FollowsCursorAcrossPages(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Tech", "UCtech")
	f.platform.videoPages["UCtech"] = [][]youtube.Video{
		{remoteVideo("v1")},
		{remoteVideo("v2")},
		{remoteVideo("v3")},
	}

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, result.NewVideos, 3)
}

func TestSyncVideos_IngestionFailureDoesNotFailSync(t *testing.T) {
	f := newSyncFixture(defaultSyncConfig())
	ctx := context.Background()

	f.registerChannel(t, "user-1", "Tech", "UCtech")
	f.platform.videoPages["UCtech"] = [][]youtube.Video{{remoteVideo("v1")}}
	f.platform.commentErrs["v1"] = fmt.Errorf("list comments: %w", youtube.ErrRemoteRejected)

	result, err := f.svc.SyncVideos(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, result.NewVideos, 1, "video sync survives ingestion failure")
	assert.Empty(t, result.Failures)
	assert.Zero(t, result.CommentsIngested)
}
