package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	t.Parallel()

	r := New(Options{})

	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"heading", "# Title", "<h1 id=\"title\">Title</h1>"},
		{"emphasis", "some *emphasis*", "<em>emphasis</em>"},
		{"strikethrough", "~~gone~~", "<del>gone</del>"},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
		{"link", "[docs](https://example.com)", `<a href="https://example.com">docs</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.HTML(tt.source)
			require.NoError(t, err)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestHTML_Empty(t *testing.T) {
	t.Parallel()

	got, err := New(Options{}).HTML("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestHTML_RawHTML(t *testing.T) {
	t.Parallel()

	src := "before <script>alert(1)</script> after"

	safe, err := New(Options{}).HTML(src)
	require.NoError(t, err)
	assert.False(t, strings.Contains(safe, "<script>"))

	unsafe, err := New(Options{AllowRawHTML: true}).HTML(src)
	require.NoError(t, err)
	assert.Contains(t, unsafe, "<script>")
}
