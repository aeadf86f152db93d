package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
)

func derivable(text string) *models.Comment {
	comment := models.NewComment(uuid.New(), "user-1", "c1")
	comment.Text = text
	return comment
}

func TestHeadlineDeriver(t *testing.T) {
	ctx := context.Background()
	deriver := &HeadlineDeriver{}

	t.Run("quotes the comment", func(t *testing.T) {
		content, err := deriver.Derive(ctx, derivable("how did you light this scene?"))
		require.NoError(t, err)
		assert.Equal(t, `Video idea: answer the viewer question "how did you light this scene?"`, content)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		content, err := deriver.Derive(ctx, derivable("  what\n\tmicrophone   is that? "))
		require.NoError(t, err)
		assert.Contains(t, content, `"what microphone is that?"`)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := deriver.Derive(ctx, derivable("   \n\t  "))
		assert.Error(t, err)
	})

	t.Run("truncates long text", func(t *testing.T) {
		short := &HeadlineDeriver{MaxLen: 10}
		content, err := short.Derive(ctx, derivable(strings.Repeat("x", 50)))
		require.NoError(t, err)
		assert.Contains(t, content, strings.Repeat("x", 10)+"…")
		assert.NotContains(t, content, strings.Repeat("x", 11))
	})

	t.Run("truncates on rune boundaries", func(t *testing.T) {
		short := &HeadlineDeriver{MaxLen: 3}
		content, err := short.Derive(ctx, derivable("héllo wörld"))
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(content))
		assert.Contains(t, content, `"hél…"`)
	})
}
