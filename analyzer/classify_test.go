package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietReport returns a report whose sub-scores trip no rules, so each test
// can flip one condition at a time.
func quietReport() *AnalysisReport {
	report := &AnalysisReport{}
	report.MetaTags.Title.Status = StatusGood
	report.MetaTags.Description.Status = StatusGood
	report.MetaTags.Score = 70
	report.MetaTags.OpenGraph.Image.Status = StatusPresent
	report.MetaTags.Twitter.Card.Status = StatusPresent
	report.Headings.Analysis.H1Count = 1
	report.Headings.Analysis.HasProperH1 = true
	report.Images.Analysis.AltTextPercentage = 80
	report.Links.Analysis.Status = StatusNeedsImprovement
	report.Performance.Score = 85
	report.Mobile.Score = 85
	report.Content.Score = 70
	report.Content.Metrics.WordCount = 500
	return report
}

func findByTitle(findings []Finding, title string) (Finding, bool) {
	for _, f := range findings {
		if f.Title == title {
			return f, true
		}
	}
	return Finding{}, false
}

func TestClassifyQuietReportHasNoCritical(t *testing.T) {
	critical, _, _ := classifyFindings(quietReport())
	assert.Empty(t, critical)
	assert.NotNil(t, critical)
}

func TestClassifyMissingTagCriticals(t *testing.T) {
	report := quietReport()
	report.MetaTags.Title.Status = StatusMissing
	report.MetaTags.Description.Status = StatusMissing

	critical, _, _ := classifyFindings(report)

	_, hasTitle := findByTitle(critical, "Missing title tag")
	_, hasDescription := findByTitle(critical, "Missing meta description")
	assert.True(t, hasTitle)
	assert.True(t, hasDescription)
}

func TestClassifyHeadingFindings(t *testing.T) {
	t.Run("missing h1 is critical", func(t *testing.T) {
		report := quietReport()
		report.Headings.Analysis.H1Count = 0
		report.Headings.Analysis.HasProperH1 = false

		critical, _, _ := classifyFindings(report)
		f, ok := findByTitle(critical, "Missing H1 heading")
		require.True(t, ok)
		assert.Equal(t, SeverityCritical, f.Severity)
	})

	t.Run("multiple h1 is a warning with the count", func(t *testing.T) {
		report := quietReport()
		report.Headings.Analysis.H1Count = 3
		report.Headings.Analysis.HasProperH1 = false

		critical, _, _ := classifyFindings(report)
		f, ok := findByTitle(critical, "Multiple H1 headings")
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.Contains(t, f.Description, "3 H1 headings")
	})
}

func TestClassifyImageFindings(t *testing.T) {
	report := quietReport()
	report.Images.Analysis.TotalImages = 5
	report.Images.Analysis.MissingAltCount = 3

	critical, _, improvements := classifyFindings(report)

	f, ok := findByTitle(critical, "Images missing alt text")
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Contains(t, f.Description, "3 of 5 images")

	_, ok = findByTitle(improvements, "Add alt text to images")
	assert.True(t, ok)
}

func TestClassifyPerformanceFindings(t *testing.T) {
	t.Run("very low score is critical", func(t *testing.T) {
		report := quietReport()
		report.Performance.Score = 40

		critical, _, _ := classifyFindings(report)
		f, ok := findByTitle(critical, "Slow page performance")
		require.True(t, ok)
		assert.Equal(t, SeverityCritical, f.Severity)
	})

	t.Run("slow load with passable score is a warning", func(t *testing.T) {
		report := quietReport()
		report.Performance.Score = 60
		report.Performance.Metrics.EstimatedLoadTimeValue = 3.4

		critical, _, _ := classifyFindings(report)
		f, ok := findByTitle(critical, "Slow loading resources")
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, f.Severity)

		_, ok = findByTitle(critical, "Slow page performance")
		assert.False(t, ok)
	})
}

func TestClassifyStrengths(t *testing.T) {
	report := quietReport()
	report.MetaTags.Score = 85
	report.Headings.Analysis.HasLogicalStructure = true
	report.Images.Analysis.AltTextPercentage = 95
	report.Links.Analysis.Status = StatusGood
	report.Performance.Score = 90
	report.Mobile.Score = 90
	report.Content.Score = 85

	_, strengths, _ := classifyFindings(report)

	titles := make([]string, 0, len(strengths))
	for _, f := range strengths {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{
		"Good meta tag implementation",
		"Proper heading structure",
		"Proper image alt text",
		"Good link structure",
		"Good page performance",
		"Mobile responsive design",
		"High-quality content",
	}, titles)

	for _, f := range strengths {
		assert.Empty(t, f.Severity)
	}
}

func TestClassifyTitleStrengthFallback(t *testing.T) {
	report := quietReport()

	// Meta score below 80 with a good title credits the title alone.
	_, strengths, _ := classifyFindings(report)
	_, hasFallback := findByTitle(strengths, "Proper title tag")
	_, hasFull := findByTitle(strengths, "Good meta tag implementation")
	assert.True(t, hasFallback)
	assert.False(t, hasFull)
}

func TestClassifyImprovementAreas(t *testing.T) {
	report := quietReport()
	report.MetaTags.OpenGraph.Image.Status = StatusMissing
	report.MetaTags.Twitter.Card.Status = StatusMissing
	report.Links.Analysis.GenericInternalLinks = 2
	report.Performance.Score = 70
	report.Mobile.Score = 60
	report.Content.Metrics.WordCount = 150

	_, _, improvements := classifyFindings(report)

	for _, title := range []string{
		"Add an Open Graph image",
		"Add a Twitter card",
		"Improve anchor text",
		"Optimize page load speed",
		"Improve mobile friendliness",
		"Add more content",
	} {
		_, ok := findByTitle(improvements, title)
		assert.True(t, ok, "expected improvement %q", title)
	}

	f, _ := findByTitle(improvements, "Improve anchor text")
	assert.Contains(t, f.Description, "2 internal link(s)")
}
