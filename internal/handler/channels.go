package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/middleware"
)

// channelRegistry is the slice of the service layer the channel endpoints
// need. Implemented by service.ChannelService.
type channelRegistry interface {
	AddChannel(ctx context.Context, ownerID, name string) (*models.Channel, error)
	RemoveChannel(ctx context.Context, ownerID string, channelID uuid.UUID) error
	ListChannels(ctx context.Context, ownerID string) ([]*models.Channel, error)
}

// ChannelHandler serves the channel registry endpoints.
type ChannelHandler struct {
	registry channelRegistry
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(registry channelRegistry) *ChannelHandler {
	return &ChannelHandler{registry: registry}
}

// CreateChannelRequest is the body for POST /channels.
type CreateChannelRequest struct {
	Name string `json:"name"`
}

// Create registers a channel for the authenticated owner.
func (h *ChannelHandler) Create(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	channel, err := h.registry.AddChannel(c.Request.Context(), middleware.OwnerID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, channel)
}

// Delete removes one of the owner's channels by id.
func (h *ChannelHandler) Delete(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel id must be a valid UUID"})
		return
	}

	if err := h.registry.RemoveChannel(c.Request.Context(), middleware.OwnerID(c), channelID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List returns the owner's registered channels.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.registry.ListChannels(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if channels == nil {
		channels = []*models.Channel{}
	}
	c.JSON(http.StatusOK, gin.H{
		"channels": channels,
		"count":    len(channels),
	})
}
