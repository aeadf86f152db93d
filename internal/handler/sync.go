package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/middleware"
	"github.com/idea-gen/youtube-idea-generator-go/internal/service"
)

// videoSyncer is the slice of the service layer the sync endpoints need.
// Implemented by service.SyncService.
type videoSyncer interface {
	SyncVideos(ctx context.Context, ownerID string) (*service.SyncResult, error)
	ListVideos(ctx context.Context, ownerID string, limit int) ([]*models.Video, error)
}

// SyncHandler serves the sync and video listing endpoints.
type SyncHandler struct {
	syncer videoSyncer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncer videoSyncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// Sync runs one sync across the owner's channels. Partial failure is a 200:
// the per-channel failures ride along in the body.
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.syncer.SyncVideos(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if result.NewVideos == nil {
		result.NewVideos = []*models.Video{}
	}
	if result.Failures == nil {
		result.Failures = []service.ChannelFailure{}
	}
	c.JSON(http.StatusOK, result)
}

// ListVideos returns the owner's stored videos newest first.
func (h *SyncHandler) ListVideos(c *gin.Context) {
	videos, err := h.syncer.ListVideos(c.Request.Context(), middleware.OwnerID(c), parseLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if videos == nil {
		videos = []*models.Video{}
	}
	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"count":  len(videos),
	})
}
