// Package youtube wraps the YouTube Data API v3 as the external platform
// client of the pipeline: paginated video and comment listings normalized
// into internal records.
package youtube

import (
	"context"
	"fmt"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"google.golang.org/api/option"
)

// PageToken is an opaque pagination cursor. The zero value requests the
// first page; an absent NextPage means the listing is exhausted.
type PageToken string

const maxPageSize = 50

// Video is a normalized remote video record.
type Video struct {
	VideoID      string
	Title        string
	Description  string
	PublishedAt  time.Time
	ThumbnailURL string
	ChannelID    string
	ChannelTitle string
	ViewCount    int64
	LikeCount    int64
	DislikeCount int64
	CommentCount int64
}

// Comment is a normalized remote top-level comment record.
type Comment struct {
	CommentID   string
	Text        string
	LikeCount   int64
	PublishedAt time.Time
}

// VideoPage is one page of a channel's video listing.
type VideoPage struct {
	Videos   []Video
	NextPage PageToken
}

// CommentPage is one page of a video's comment listing.
type CommentPage struct {
	Comments []Comment
	NextPage PageToken
}

// Client wraps the YouTube Data API v3 service. It holds no local state;
// every call is a pure read against the remote platform.
type Client struct {
	service *yt.Service
}

// NewClient creates a YouTube API client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// ResolveChannelID finds the platform channel id for a channel name.
// Returns ErrRemoteRejected when no channel matches.
func (c *Client) ResolveChannelID(ctx context.Context, name string) (string, error) {
	call := c.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return "", classify(err, "resolve channel")
	}

	if len(response.Items) == 0 || response.Items[0].Snippet == nil {
		return "", fmt.Errorf("resolve channel %q: no match: %w", name, ErrRemoteRejected)
	}

	return response.Items[0].Snippet.ChannelId, nil
}

// ListVideos returns one page of the channel's videos, newest first.
// The listing is a two-step read: a search for ids in date order, then a
// videos.list for snippet and statistics of those ids.
func (c *Client) ListVideos(ctx context.Context, channelID string, cursor PageToken) (*VideoPage, error) {
	searchCall := c.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(maxPageSize).
		Context(ctx)
	if cursor != "" {
		searchCall = searchCall.PageToken(string(cursor))
	}

	searchResp, err := searchCall.Do()
	if err != nil {
		return nil, classify(err, "list videos")
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}

	page := &VideoPage{NextPage: PageToken(searchResp.NextPageToken)}
	if len(ids) == 0 {
		return page, nil
	}

	detailResp, err := c.service.Videos.
		List([]string{"snippet", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err, "list video details")
	}

	page.Videos = make([]Video, 0, len(detailResp.Items))
	for _, item := range detailResp.Items {
		page.Videos = append(page.Videos, mapVideo(item))
	}

	return page, nil
}

// ListComments returns one page of the video's top-level comments.
func (c *Client) ListComments(ctx context.Context, videoID string, cursor PageToken) (*CommentPage, error) {
	call := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		TextFormat("plainText").
		Order("time").
		MaxResults(maxPageSize).
		Context(ctx)
	if cursor != "" {
		call = call.PageToken(string(cursor))
	}

	response, err := call.Do()
	if err != nil {
		return nil, classify(err, "list comments")
	}

	page := &CommentPage{NextPage: PageToken(response.NextPageToken)}
	page.Comments = make([]Comment, 0, len(response.Items))
	for _, thread := range response.Items {
		if comment, ok := mapCommentThread(thread); ok {
			page.Comments = append(page.Comments, comment)
		}
	}

	return page, nil
}

func mapVideo(item *yt.Video) Video {
	video := Video{VideoID: item.Id}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.PublishedAt = parseTimestamp(item.Snippet.PublishedAt)
		video.ThumbnailURL = pickThumbnail(item.Snippet.Thumbnails)
	}

	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
		video.LikeCount = int64(item.Statistics.LikeCount)
		video.DislikeCount = int64(item.Statistics.DislikeCount)
		video.CommentCount = int64(item.Statistics.CommentCount)
	}

	return video
}

func mapCommentThread(thread *yt.CommentThread) (Comment, bool) {
	if thread.Snippet == nil ||
		thread.Snippet.TopLevelComment == nil ||
		thread.Snippet.TopLevelComment.Snippet == nil {
		return Comment{}, false
	}

	snippet := thread.Snippet.TopLevelComment.Snippet
	return Comment{
		CommentID:   thread.Snippet.TopLevelComment.Id,
		Text:        snippet.TextDisplay,
		LikeCount:   snippet.LikeCount,
		PublishedAt: parseTimestamp(snippet.PublishedAt),
	}, true
}

func pickThumbnail(thumbnails *yt.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	switch {
	case thumbnails.High != nil:
		return thumbnails.High.Url
	case thumbnails.Medium != nil:
		return thumbnails.Medium.Url
	case thumbnails.Default != nil:
		return thumbnails.Default.Url
	}
	return ""
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
