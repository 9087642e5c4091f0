package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))
	return p
}

func TestResolveDirect(t *testing.T) {
	t.Run("recorded path as-is", func(t *testing.T) {
		dir := t.TempDir()
		p := writeFile(t, dir, "report.pdf")

		r := New(nil)
		res, err := r.Resolve(context.Background(), p, "report.pdf")

		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, p, res.Path)
		assert.Equal(t, StrategyDirect, res.Strategy)
		assert.Equal(t, ConfidenceHigh, res.Confidence)
	})

	t.Run("relative path re-rooted under a search root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads"), 0o755))
		p := writeFile(t, filepath.Join(root, "uploads"), "report.pdf")

		r := New([]string{root})
		res, err := r.Resolve(context.Background(), "uploads/report.pdf", "report.pdf")

		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, p, res.Path)
		assert.Equal(t, StrategyDirect, res.Strategy)
	})

	t.Run("basename alone under a search root", func(t *testing.T) {
		root := t.TempDir()
		p := writeFile(t, root, "report.pdf")

		r := New([]string{root})
		res, err := r.Resolve(context.Background(), "/decommissioned/share/report.pdf", "report.pdf")

		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, p, res.Path)
		assert.Equal(t, StrategyDirect, res.Strategy)
		assert.Equal(t, ConfidenceHigh, res.Confidence)
	})

	t.Run("directory with matching name is not a hit", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "report.pdf"), 0o755))

		r := New([]string{root})
		res, err := r.Resolve(context.Background(), "/gone/report.pdf", "")

		require.NoError(t, err)
		assert.False(t, res.Found)
	})
}

func TestResolveIdentifierBeatsWeakerStrategies(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "8f14e45f-ceea-4672-950f-fab3779025d7_term_sheet.pdf")

	r := New([]string{root})
	res, err := r.Resolve(context.Background(),
		"legacy/term_sheet_8f14e45f-ceea-4672-950f-fab3779025d7.pdf",
		"term_sheet_8f14e45f-ceea-4672-950f-fab3779025d7.pdf")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, p, res.Path)
	assert.Equal(t, StrategyIdentifier, res.Strategy)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
}

func TestResolveSimilarityAcrossRoots(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "meeting_notes_2019.txt")
	p := writeFile(t, second, "term-sheet-v2-final.pdf")

	r := New([]string{first, second})
	res, err := r.Resolve(context.Background(), "uploads/term_sheet_v2.pdf", "term_sheet_v2.pdf")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, p, res.Path)
	assert.Equal(t, StrategySimilarity, res.Strategy)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}

func TestResolveKeywordFallback(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "term_acme_sheet_2019.pdf")

	r := New([]string{root})
	res, err := r.Resolve(context.Background(), "docs/acme_term_sheet.pdf", "acme_term_sheet.pdf")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, p, res.Path)
	assert.Equal(t, StrategyKeyword, res.Strategy)
	assert.Equal(t, ConfidenceLow, res.Confidence)
}

func TestResolveMiss(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "completely_unrelated_inventory_list.xlsx")

	r := New([]string{root})
	res, err := r.Resolve(context.Background(), "uploads/term_sheet_v2.pdf", "term_sheet_v2.pdf")

	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
}

func TestResolveNoRoots(t *testing.T) {
	r := New([]string{"", ""})
	res, err := r.Resolve(context.Background(), "uploads/term_sheet_v2.pdf", "term_sheet_v2.pdf")

	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestResolveSkipsUnreadableRoot(t *testing.T) {
	good := t.TempDir()
	p := writeFile(t, good, "report_q3.pdf")

	r := New([]string{"/nonexistent/root/path", good})
	res, err := r.Resolve(context.Background(), "/stale/dir/report_q3.pdf", "report_q3.pdf")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, p, res.Path)
}

func TestResolveCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New([]string{root})
	res, err := r.Resolve(ctx, "/stale/report.pdf", "report.pdf")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Found)
}

func TestResolveTieBreaksLexically(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "project_alpha_deck_a.pdf")
	writeFile(t, root, "project_alpha_deck_b.pdf")

	r := New([]string{root})
	res, err := r.Resolve(context.Background(), "old/project alpha deck.pdf", "project alpha deck.pdf")

	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, a, res.Path)
}

func TestListingCacheHoldsForResolverLifetime(t *testing.T) {
	root := t.TempDir()

	cached := New([]string{root}, WithListingCache())
	res, err := cached.Resolve(context.Background(), "", "quarterly_report_acme.pdf")
	require.NoError(t, err)
	require.False(t, res.Found)

	// File appears after the listing was cached: this instance keeps seeing
	// the old listing, a fresh instance sees the file.
	p := writeFile(t, root, "quarterly_report_acme.pdf")

	res, err = cached.Resolve(context.Background(), "", "quarterly_report_acme.pdf")
	require.NoError(t, err)
	assert.False(t, res.Found)

	fresh := New([]string{root})
	res, err = fresh.Resolve(context.Background(), "", "quarterly_report_acme.pdf")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, p, res.Path)
}
