package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackVisitorCountsUniqueIPs(t *testing.T) {
	s, err := NewStatistics(t.TempDir())
	require.NoError(t, err)

	s.TrackVisitor("203.0.113.10")
	s.TrackVisitor("203.0.113.10")
	s.TrackVisitor("203.0.113.20")

	assert.Equal(t, 2, s.UniqueVisitorCount())
}

func TestTrackAnalysisAggregates(t *testing.T) {
	s, err := NewStatistics(t.TempDir())
	require.NoError(t, err)

	s.TrackAnalysis("https://example.com/page", 100, false)
	s.TrackAnalysis("https://example.com/page", 200, true)

	assert.Equal(t, 2, s.AnalysisRequests)
	assert.Equal(t, 50.0, s.ErrorRate())
	assert.Equal(t, 150.0, s.AverageLoadTime)

	top := s.TopURLs(5)
	require.Len(t, top, 1)
	assert.Equal(t, "https://example.com/page", top[0].URL)
	assert.Equal(t, 2, top[0].Count)
}

func TestCleanURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"strips query and fragment", "https://example.com/page?q=1#top", "https://example.com/page"},
		{"strips trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"bare host", "https://example.com/", "https://example.com"},
		{"localhost filtered", "http://localhost:8082/foo", ""},
		{"loopback filtered", "http://127.0.0.1/foo", ""},
		{"api path filtered", "https://example.com/api/analyze", ""},
		{"unparsable kept as-is", "http://[", "http://["},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanURL(tc.in))
		})
	}
}

func TestTopURLsOrdering(t *testing.T) {
	s, err := NewStatistics(t.TempDir())
	require.NoError(t, err)

	s.TrackAnalysis("https://b.example", 10, false)
	s.TrackAnalysis("https://a.example", 10, false)
	s.TrackAnalysis("https://a.example", 10, false)
	s.TrackAnalysis("https://c.example", 10, false)

	top := s.TopURLs(5)
	require.Len(t, top, 3)
	assert.Equal(t, "https://a.example", top[0].URL)
	assert.Equal(t, 2, top[0].Count)
	// Ties sort by URL.
	assert.Equal(t, "https://b.example", top[1].URL)
	assert.Equal(t, "https://c.example", top[2].URL)

	assert.Len(t, s.TopURLs(1), 1)
}

func TestStatisticsPersistence(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStatistics(dir)
	require.NoError(t, err)
	s1.TrackVisitor("203.0.113.10")
	s1.TrackAnalysis("https://example.com/page", 100, false)
	s1.TrackAnalysis("https://example.com/page", 200, true)
	require.NoError(t, s1.Save())

	s2, err := NewStatistics(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, s2.UniqueVisitorCount())
	assert.Equal(t, 2, s2.AnalysisRequests)
	assert.Equal(t, 50.0, s2.ErrorRate())
	assert.Equal(t, 150.0, s2.AverageLoadTime)

	// The running totals survive the reload, so the average stays exact.
	s2.TrackAnalysis("https://example.com/page", 300, false)
	assert.Equal(t, 200.0, s2.AverageLoadTime)
}

func TestSnapshotHidesPopularURLsOutsideDevMode(t *testing.T) {
	s, err := NewStatistics(t.TempDir())
	require.NoError(t, err)

	s.TrackVisitor("203.0.113.10")
	s.TrackAnalysis("https://example.com/page", 100, false)

	snapshot := s.Snapshot(false)
	assert.Equal(t, 1, snapshot["uniqueVisitors24h"])
	assert.Equal(t, 1, snapshot["totalRequests"])
	assert.Equal(t, 0.0, snapshot["errorRate"])
	assert.NotContains(t, snapshot, "popularUrls")

	dev := s.Snapshot(true)
	require.Contains(t, dev, "popularUrls")
	urls := dev["popularUrls"].([]URLCount)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.com/page", urls[0].URL)
}
