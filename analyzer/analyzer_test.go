package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-insight/backend/fetcher"
)

// richPage builds a page that does almost everything right: full meta and
// social tags, one H1, descriptive links, alt text on every image, a small
// resource footprint, and thirty paragraphs of 15-word sentences.
func richPage() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en" class="no-js">
<head>
<title>Technical SEO Audit Guide for Modern Marketing Teams</title>
<meta name="description" content="Learn how to audit crawlability, rendering, and page speed with a repeatable checklist your marketing team can run before every major site release.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://example.com/guides/seo-audit">
<link rel="stylesheet" href="/css/site.css">
<meta property="og:title" content="Technical SEO Audit Guide">
<meta property="og:description" content="A field guide to auditing crawlability, rendering, and page speed.">
<meta property="og:image" content="https://example.com/img/audit-cover.png">
<meta name="twitter:card" content="summary_large_image">
<style>@media (max-width: 600px) { nav { display: none; } }</style>
<script src="/js/app.js"></script>
</head>
<body class="responsive">
<nav>
<a href="/guides/crawling">Crawling guide</a>
<a href="/guides/rendering">Rendering guide</a>
<a href="/guides/speed">Speed guide</a>
<a href="/guides/sitemaps">Sitemap guide</a>
<a href="/guides/robots">Robots guide</a>
</nav>
<h1>Technical SEO Audit Guide</h1>
<img src="/img/crawl-diagram.png" alt="Crawler request flow diagram">
<img src="/img/render-tree.png" alt="Render tree construction">
<img src="/img/speed-waterfall.png" alt="Resource loading waterfall">
<img src="/img/sitemap-graph.png" alt="Sitemap link graph">
<img src="/img/robots-flow.png" alt="Robots directive decision flow">
<h2>Crawling and Indexing</h2>
`)
	paragraph := "<p>Crawl budget wasted on duplicate pages delays discovery of the content you actually want ranked.</p>\n"
	b.WriteString(strings.Repeat(paragraph, 15))
	b.WriteString("<h2>Rendering and Speed</h2>\n")
	b.WriteString(strings.Repeat(paragraph, 15))
	b.WriteString(`<a href="/checklists/prelaunch">Prelaunch checklist</a>
<a href="/checklists/monthly">Monthly checklist</a>
<a href="/tools/crawler">Crawler tool</a>
<a href="/tools/validator">Markup validator</a>
<a href="/about">About this guide</a>
<a href="https://developers.google.com/search" rel="noopener">Search documentation</a>
<a href="https://web.dev/learn" rel="noreferrer">Performance lessons</a>
<script src="/js/analytics.js"></script>
</body>
</html>`)
	return b.String()
}

func findingTitles(findings []Finding) []string {
	titles := make([]string, 0, len(findings))
	for _, f := range findings {
		titles = append(titles, f.Title)
	}
	return titles
}

func TestAnalyzeRichPage(t *testing.T) {
	report, err := Analyze(richPage(), "https://example.com/guides/seo-audit")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/guides/seo-audit", report.URL)
	assert.Equal(t, "Technical SEO Audit Guide for Modern Marketing Teams", report.Title)

	assert.Equal(t, 100, report.MetaTags.Score)
	assert.Equal(t, StatusGood, report.MetaTags.Title.Status)
	assert.Equal(t, StatusGood, report.MetaTags.Description.Status)

	assert.Equal(t, 1, report.Headings.Analysis.H1Count)
	assert.Equal(t, StatusGood, report.Headings.Analysis.Status)

	assert.Equal(t, 5, report.Images.Analysis.TotalImages)
	assert.Equal(t, 100, report.Images.Analysis.AltTextPercentage)
	assert.Equal(t, StatusGood, report.Images.Analysis.Status)

	assert.Equal(t, 10, report.Links.Analysis.InternalLinks)
	assert.Equal(t, 2, report.Links.Analysis.ExternalLinks)
	assert.Equal(t, 0, report.Links.Analysis.GenericInternalLinks)
	assert.Equal(t, StatusGood, report.Links.Analysis.Status)

	// 2 scripts, 1 stylesheet, 5 images.
	assert.Equal(t, 8, report.Performance.Resources.Total)
	assert.Equal(t, "1.3", report.Performance.Metrics.EstimatedLoadTime)
	assert.Equal(t, 95, report.Performance.Score)

	assert.Equal(t, 100, report.Mobile.Score)

	// 450 paragraph words plus 35 from headings and anchors, 31 sentence
	// segments including the trailing link block.
	assert.Equal(t, 485, report.Content.Metrics.WordCount)
	assert.Equal(t, 30, report.Content.Metrics.ParagraphCount)
	assert.InDelta(t, 15.645, report.Content.Metrics.AvgWordsPerSentence, 0.01)
	assert.Equal(t, 98, report.Content.Metrics.ReadabilityScore)
	assert.Equal(t, 79, report.Content.Score)

	// 20 meta + 10 headings + 10 images + 12 links + 19 performance
	// + 15 mobile + 7.9 content, rounded.
	assert.Equal(t, 94, report.SEOScore)

	assert.Empty(t, report.CriticalIssues)
	assert.Empty(t, report.ImprovementAreas)

	strengths := findingTitles(report.Strengths)
	assert.Contains(t, strengths, "Good meta tag implementation")
	assert.Contains(t, strengths, "Proper heading structure")
	assert.Contains(t, strengths, "Proper image alt text")
	assert.Contains(t, strengths, "Good link structure")
	assert.Contains(t, strengths, "Mobile responsive design")
}

func TestAnalyzeEmptyPage(t *testing.T) {
	report, err := Analyze("<html><head></head><body></body></html>", "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, 0, report.MetaTags.Score)
	assert.Equal(t, StatusMissing, report.MetaTags.Title.Status)
	assert.Equal(t, StatusMissing, report.MetaTags.Description.Status)
	assert.Equal(t, StatusPoor, report.Headings.Analysis.Status)
	assert.Equal(t, StatusPoor, report.Links.Analysis.Status)
	assert.Equal(t, 100, report.Images.Analysis.AltTextPercentage)
	assert.Equal(t, 100, report.Performance.Score)
	assert.Equal(t, 0, report.Mobile.Score)
	assert.Equal(t, 0, report.Content.Metrics.WordCount)

	// 5 headings + 10 images + 6 links + 20 performance + 2.8 content.
	assert.Equal(t, 44, report.SEOScore)

	assert.Equal(t, []string{
		"Missing title tag",
		"Missing meta description",
		"Missing H1 heading",
	}, findingTitles(report.CriticalIssues))
}

func TestAnalyzeDeterministic(t *testing.T) {
	html := richPage()
	first, err := Analyze(html, "https://example.com/guides/seo-audit")
	require.NoError(t, err)
	second, err := Analyze(html, "https://example.com/guides/seo-audit")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeGarbageMarkup(t *testing.T) {
	report, err := Analyze("<<<not html>>>", "https://example.com/")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.SEOScore, 0)
	assert.LessOrEqual(t, report.SEOScore, 100)

	critical := findingTitles(report.CriticalIssues)
	assert.Contains(t, critical, "Missing title tag")
	assert.Contains(t, critical, "Missing H1 heading")
}

func TestAnalyzeScoreRangesAcrossDocuments(t *testing.T) {
	docs := map[string]string{
		"empty":          "<html><head></head><body></body></html>",
		"rich":           richPage(),
		"garbage":        "<<<not html>>>",
		"heading soup":   "<html><body><h1>a</h1><h1>b</h1><h3>c</h3><h6>d</h6></body></html>",
		"resource heavy": pageWithResources(20, 10, 40, 6),
		"endless text":   "<html><body><p>" + strings.TrimSpace(strings.Repeat("word ", 2000)) + "</p></body></html>",
	}

	for name, html := range docs {
		t.Run(name, func(t *testing.T) {
			report, err := Analyze(html, "https://example.com/page")
			require.NoError(t, err)

			for label, score := range map[string]int{
				"overall":     report.SEOScore,
				"meta":        report.MetaTags.Score,
				"performance": report.Performance.Score,
				"mobile":      report.Mobile.Score,
				"content":     report.Content.Score,
				"altText":     report.Images.Analysis.AltTextPercentage,
				"readability": report.Content.Metrics.ReadabilityScore,
			} {
				assert.GreaterOrEqual(t, score, 0, label)
				assert.LessOrEqual(t, score, 100, label)
			}
		})
	}
}

func TestAnalyzeInvalidSourceURL(t *testing.T) {
	report, err := Analyze("<html></html>", "http://[")
	require.Error(t, err)
	assert.Nil(t, report)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "http://[", parseErr.URL)
}

// pageServer serves html on every path except /robots.txt, which 404s, and
// counts page fetches.
func pageServer(t *testing.T, html string, delay time.Duration) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var fetches atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &fetches
}

func newTestAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()

	if cfg.Fetcher == nil {
		cfg.Fetcher = fetcher.New(5*time.Second, "seo-insight-test", 1<<20)
	}
	cfg.DataDir = t.TempDir()

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Shutdown())
	})
	return a
}

func TestNewRequiresFetcher(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestAnalyzeURLCachesResults(t *testing.T) {
	srv, fetches := pageServer(t, richPage(), 0)
	a := newTestAnalyzer(t, Config{CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := a.AnalyzeURL(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetches.Load())
	assert.Equal(t, 94, first.SEOScore)
	assert.True(t, a.IsCached(srv.URL))

	require.NotNil(t, first.Robots)
	assert.False(t, first.Robots.HasRobotsTxt)
	assert.True(t, first.Robots.Allowed)
	assert.Equal(t, "/", first.Robots.CheckedPath)

	second, err := a.AnalyzeURL(ctx, srv.URL)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), fetches.Load())

	cacheStats := a.CacheStats()
	assert.Equal(t, 1, cacheStats.Entries)
	assert.Equal(t, 1, cacheStats.Hits)
	assert.Equal(t, 1, cacheStats.Misses)
	assert.Equal(t, time.Minute, cacheStats.TTL)
}

func TestAnalyzeURLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	a := newTestAnalyzer(t, Config{})
	report, err := a.AnalyzeURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Nil(t, report)

	var fetchErr *fetcher.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, fetcher.KindHTTPStatus, fetchErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), srv.URL)

	assert.False(t, a.IsCached(srv.URL))
	assert.Equal(t, 0, a.CacheStats().Entries)
}

func TestAnalyzeURLCacheExpiry(t *testing.T) {
	srv, fetches := pageServer(t, richPage(), 0)
	a := newTestAnalyzer(t, Config{CacheTTL: time.Minute})
	ctx := context.Background()

	_, err := a.AnalyzeURL(ctx, srv.URL)
	require.NoError(t, err)
	require.True(t, a.IsCached(srv.URL))

	a.SetCacheTTL(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.False(t, a.IsCached(srv.URL))

	a.SetCacheTTL(time.Minute)
	_, err = a.AnalyzeURL(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetches.Load())

	a.ClearCache()
	assert.False(t, a.IsCached(srv.URL))
}

func TestAnalyzeURLSharesConcurrentFetches(t *testing.T) {
	srv, fetches := pageServer(t, richPage(), 100*time.Millisecond)
	a := newTestAnalyzer(t, Config{CacheTTL: time.Minute})

	const callers = 8
	reports := make([]*AnalysisReport, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = a.AnalyzeURL(context.Background(), srv.URL)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, reports[0], reports[i])
	}
	assert.Equal(t, int64(1), fetches.Load())
	assert.Equal(t, 1, a.CacheStats().Misses)
}
