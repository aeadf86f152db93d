package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/middleware"
	"github.com/idea-gen/youtube-idea-generator-go/internal/service"
)

// ideaGenerator is the slice of the service layer the idea endpoints need.
// Implemented by service.IdeaService.
type ideaGenerator interface {
	GenerateIdeas(ctx context.Context, ownerID string, batchSize int) (*service.GenerateResult, error)
	ListIdeas(ctx context.Context, ownerID string, limit int) ([]*models.Idea, error)
}

// IdeaHandler serves the idea generation and listing endpoints.
type IdeaHandler struct {
	ideas ideaGenerator
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(ideas ideaGenerator) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

// GenerateIdeasRequest is the body for POST /ideas/generate. A zero or
// missing batch size falls back to the configured default.
type GenerateIdeasRequest struct {
	BatchSize int `json:"batch_size"`
}

// Generate claims a batch of unconsumed comments and derives ideas from
// them. An empty body is fine.
func (h *IdeaHandler) Generate(c *gin.Context) {
	var req GenerateIdeasRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	result, err := h.ideas.GenerateIdeas(c.Request.Context(), middleware.OwnerID(c), req.BatchSize)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Ideas == nil {
		result.Ideas = []*models.Idea{}
	}
	if result.Failures == nil {
		result.Failures = []service.DerivationFailure{}
	}
	c.JSON(http.StatusOK, result)
}

// List returns the owner's ideas newest first.
func (h *IdeaHandler) List(c *gin.Context) {
	ideas, err := h.ideas.ListIdeas(c.Request.Context(), middleware.OwnerID(c), parseLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if ideas == nil {
		ideas = []*models.Idea{}
	}
	c.JSON(http.StatusOK, gin.H{
		"ideas": ideas,
		"count": len(ideas),
	})
}

// parseLimit reads the limit query parameter; zero means service default.
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
