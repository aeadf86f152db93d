package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/platform/youtube"
)

// pageIndex decodes the fake cursor scheme: "" is the first page, "p<n>"
// is page n.
func pageIndex(cursor youtube.PageToken) int {
	if cursor == "" {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(string(cursor), "p"))
	return n
}

func nextToken(index, total int) youtube.PageToken {
	if index+1 >= total {
		return ""
	}
	return youtube.PageToken(fmt.Sprintf("p%d", index+1))
}

type fakePlatform struct {
	mu           sync.Mutex
	channelIDs   map[string]string            // name → external id
	videoPages   map[string][][]youtube.Video // external id → pages
	commentPages map[string][][]youtube.Comment
	videoErrs    map[string]error // external id → error
	commentErrs  map[string]error // video id → error
	resolveErrs  map[string]error
	listCalls    int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channelIDs:   map[string]string{},
		videoPages:   map[string][][]youtube.Video{},
		commentPages: map[string][][]youtube.Comment{},
		videoErrs:    map[string]error{},
		commentErrs:  map[string]error{},
		resolveErrs:  map[string]error{},
	}
}

func (f *fakePlatform) ResolveChannelID(_ context.Context, name string) (string, error) {
	if err := f.resolveErrs[name]; err != nil {
		return "", err
	}
	id, ok := f.channelIDs[name]
	if !ok {
		return "", fmt.Errorf("resolve %q: %w", name, youtube.ErrRemoteRejected)
	}
	return id, nil
}

func (f *fakePlatform) ListVideos(_ context.Context, channelID string, cursor youtube.PageToken) (*youtube.VideoPage, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if err := f.videoErrs[channelID]; err != nil {
		return nil, err
	}

	pages := f.videoPages[channelID]
	idx := pageIndex(cursor)
	if idx >= len(pages) {
		return &youtube.VideoPage{}, nil
	}
	return &youtube.VideoPage{
		Videos:   pages[idx],
		NextPage: nextToken(idx, len(pages)),
	}, nil
}

func (f *fakePlatform) ListComments(_ context.Context, videoID string, cursor youtube.PageToken) (*youtube.CommentPage, error) {
	if err := f.commentErrs[videoID]; err != nil {
		return nil, err
	}

	pages := f.commentPages[videoID]
	idx := pageIndex(cursor)
	if idx >= len(pages) {
		return &youtube.CommentPage{}, nil
	}
	return &youtube.CommentPage{
		Comments: pages[idx],
		NextPage: nextToken(idx, len(pages)),
	}, nil
}

type fakeChannelStore struct {
	mu       sync.Mutex
	channels []*models.Channel
	external map[uuid.UUID]string
}

func newFakeChannelStore() *fakeChannelStore {
	return &fakeChannelStore{external: map[uuid.UUID]string{}}
}

func (f *fakeChannelStore) Create(_ context.Context, channel *models.Channel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.channels {
		if c.OwnerID == channel.OwnerID && c.Name == channel.Name {
			return db.ErrDuplicateKey
		}
	}
	f.channels = append(f.channels, channel)
	return nil
}

func (f *fakeChannelStore) DeleteOwned(_ context.Context, ownerID string, channelID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.channels {
		if c.ID == channelID && c.OwnerID == ownerID {
			f.channels = append(f.channels[:i], f.channels[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeChannelStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Channel
	for _, c := range f.channels {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelStore) SetExternalID(_ context.Context, channelID uuid.UUID, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.external[channelID] = externalID
	for _, c := range f.channels {
		if c.ID == channelID {
			c.ExternalID = externalID
		}
	}
	return nil
}

type fakeVideoStore struct {
	mu     sync.Mutex
	videos map[string]*models.Video // owner|videoID
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: map[string]*models.Video{}}
}

func videoKey(ownerID, videoID string) string { return ownerID + "|" + videoID }

func (f *fakeVideoStore) InsertIfAbsent(_ context.Context, video *models.Video) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := videoKey(video.OwnerID, video.VideoID)
	if _, exists := f.videos[key]; exists {
		return false, nil
	}
	f.videos[key] = video
	return true, nil
}

func (f *fakeVideoStore) RefreshStats(_ context.Context, ownerID, videoID string, view, like, dislike, comment int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoKey(ownerID, videoID)]
	if !ok {
		return db.ErrNotFound
	}
	v.ViewCount, v.LikeCount, v.DislikeCount, v.CommentCount = view, like, dislike, comment
	return nil
}

func (f *fakeVideoStore) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Video
	for _, v := range f.videos {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments []*models.Comment
}

func newFakeCommentStore() *fakeCommentStore { return &fakeCommentStore{} }

func (f *fakeCommentStore) InsertIfAbsent(_ context.Context, comment *models.Comment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.VideoRowID == comment.VideoRowID && c.CommentID == comment.CommentID {
			return false, nil
		}
	}
	f.comments = append(f.comments, comment)
	return true, nil
}

func (f *fakeCommentStore) ClaimUnconsumed(_ context.Context, ownerID string, limit int) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var candidates []*models.Comment
	for _, c := range f.comments {
		if c.OwnerID == ownerID && !c.Consumed {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		c.Consumed = true
	}
	return candidates, nil
}

type fakeIdeaStore struct {
	mu        sync.Mutex
	ideas     []*models.Idea
	createErr error
}

func newFakeIdeaStore() *fakeIdeaStore { return &fakeIdeaStore{} }

func (f *fakeIdeaStore) Create(_ context.Context, idea *models.Idea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.ideas = append(f.ideas, idea)
	return nil
}

func (f *fakeIdeaStore) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Idea
	for _, i := range f.ideas {
		if i.OwnerID == ownerID {
			out = append(out, i)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

// poisonDeriver fails for comments containing the word "poison".
type poisonDeriver struct{}

func (poisonDeriver) Derive(_ context.Context, comment *models.Comment) (string, error) {
	if strings.Contains(comment.Text, "poison") {
		return "", fmt.Errorf("derivation failed for %s", comment.ID)
	}
	return "idea from " + comment.CommentID, nil
}
