package history

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "trialmatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Run{
		Kind: KindMatch, Query: "type 2 diabetes", Studies: 87, Results: 10,
		Duration: 1200 * time.Millisecond,
	}))
	require.NoError(t, s.Record(ctx, Run{
		Kind: KindTrends, Query: "asthma", Studies: 412, Results: 3,
		Duration: 4 * time.Second,
	}))

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, KindTrends, runs[0].Kind)
	assert.Equal(t, "asthma", runs[0].Query)
	assert.Equal(t, 412, runs[0].Studies)
	assert.Equal(t, 4*time.Second, runs[0].Duration)
	assert.False(t, runs[0].CreatedAt.IsZero())

	assert.Equal(t, KindMatch, runs[1].Kind)
}

func TestRecentHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, Run{Kind: KindMatch, Query: "q"}))
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestFormatTable(t *testing.T) {
	runs := []Run{{
		ID: 1, Kind: KindMatch, Query: "type 2 diabetes", Studies: 87, Results: 10,
		Duration: 1200 * time.Millisecond, CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	FormatTable(runs, &buf)
	s := buf.String()

	assert.Contains(t, s, "type 2 diabetes")
	assert.Contains(t, s, "match")
	assert.Contains(t, s, "2026-03-01 09:30")
}

func TestFormatTableTruncatesQueryOnRunes(t *testing.T) {
	runs := []Run{{
		ID: 1, Kind: KindMatch, Query: strings.Repeat("ü", 50),
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	FormatTable(runs, &buf)
	s := buf.String()

	require.True(t, utf8.ValidString(s), "table output contains invalid UTF-8:\n%s", s)
	assert.Contains(t, s, strings.Repeat("ü", 37)+"...")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No recorded runs") {
		t.Error("empty history should say so")
	}
}
