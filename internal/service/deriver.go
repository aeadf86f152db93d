package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

// HeadlineDeriver is the default IdeaDeriver: it turns a comment into a
// one-line video idea prompt. Deployments wanting model-backed derivation
// plug their own IdeaDeriver into the IdeaService.
type HeadlineDeriver struct {
	// MaxLen truncates the quoted comment text, measured in runes.
	// Zero means 120.
	MaxLen int
}

func (d *HeadlineDeriver) Derive(_ context.Context, comment *models.Comment) (string, error) {
	text := strings.TrimSpace(strings.Join(strings.Fields(comment.Text), " "))
	if text == "" {
		return "", fmt.Errorf("comment %s has no usable text", comment.ID)
	}

	maxLen := d.MaxLen
	if maxLen <= 0 {
		maxLen = 120
	}
	// Truncate by rune, not byte, so a multi-byte character is never split.
	if runes := []rune(text); len(runes) > maxLen {
		text = string(runes[:maxLen]) + "…"
	}

	return fmt.Sprintf("Video idea: answer the viewer question %q", text), nil
}
