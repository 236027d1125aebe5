package mailer

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer()
	require.NoError(t, err)

	t.Run("markdown to html and text", func(t *testing.T) {
		t.Parallel()

		res, err := r.Render("Quick check", "Hey, just *checking* this.", nil)
		require.NoError(t, err)
		require.Contains(t, res.HTML, "<title>Quick check</title>")
		require.Contains(t, res.HTML, "<p>Hey, just <em>checking</em> this.</p>")
		require.Equal(t, "Hey, just *checking* this.\n", res.Text)
	})

	t.Run("template data", func(t *testing.T) {
		t.Parallel()

		res, err := r.Render("s", "Hi {{.Receiver}}", map[string]string{"Receiver": "bob@example.com"})
		require.NoError(t, err)
		require.Equal(t, "Hi bob@example.com\n", res.Text)
	})

	t.Run("missing keys render empty", func(t *testing.T) {
		t.Parallel()

		res, err := r.Render("s", "Hi {{.Nobody}}!", map[string]string{})
		require.NoError(t, err)
		require.Equal(t, "Hi !\n", res.Text)
	})

	t.Run("scripts are stripped", func(t *testing.T) {
		t.Parallel()

		res, err := r.Render("s", "ok <script>alert(1)</script>", nil)
		require.NoError(t, err)
		require.NotContains(t, res.HTML, "<script>")
	})

	t.Run("subject is escaped in layout", func(t *testing.T) {
		t.Parallel()

		res, err := r.Render("<b>hi</b>", "body", nil)
		require.NoError(t, err)
		require.Contains(t, res.HTML, "&lt;b&gt;hi&lt;/b&gt;")
	})

	t.Run("parsed bodies are cached", func(t *testing.T) {
		t.Parallel()

		rr, err := NewRenderer()
		require.NoError(t, err)
		_, err = rr.Render("s", "cached body", nil)
		require.NoError(t, err)
		_, err = rr.Render("s", "cached body", nil)
		require.NoError(t, err)

		rr.mu.RLock()
		defer rr.mu.RUnlock()
		require.Len(t, rr.cache, 1)
	})
}

func TestRenderer_Options(t *testing.T) {
	t.Parallel()

	t.Run("custom layout", func(t *testing.T) {
		t.Parallel()

		r, err := NewRenderer(WithLayout(`<div class="mail">{{.Content}}</div>`))
		require.NoError(t, err)

		res, err := r.Render("s", "hello", nil)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(res.HTML, `<div class="mail"><p>hello</p>`))
	})

	t.Run("invalid layout", func(t *testing.T) {
		t.Parallel()

		_, err := NewRenderer(WithLayout(`{{.Content`))
		require.ErrorIs(t, err, ErrRenderFailed)
	})

	t.Run("strict policy", func(t *testing.T) {
		t.Parallel()

		r, err := NewRenderer(WithPolicy(bluemonday.StrictPolicy()))
		require.NoError(t, err)

		res, err := r.Render("s", "**bold**", nil)
		require.NoError(t, err)
		require.NotContains(t, res.HTML, "<strong>")
		require.Contains(t, res.HTML, "bold")
	})
}
