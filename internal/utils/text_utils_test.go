package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 100))
	assert.Equal(t, "short", tp.TruncateText("short", 0))

	long := strings.Repeat("a", 100)
	truncated := tp.TruncateText(long, 10)
	assert.True(t, strings.HasPrefix(truncated, strings.Repeat("a", 10)))
	assert.Contains(t, truncated, "truncated")
}

func TestSnippet(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "one two three", tp.Snippet("one\n two\t\tthree\n", 100))
	assert.Equal(t, "one tw...", tp.Snippet("one two three", 6))
	assert.Equal(t, "", tp.Snippet("", 10))

	// Truncation never splits a multi-byte rune.
	got := tp.Snippet("héllo wörld", 7)
	assert.Equal(t, "héllo w...", got)
}
