package analyzer

import (
	"math"
	"strconv"
)

// cumulativeLayoutShift is a fixed placeholder; layout shift cannot be
// estimated from static markup.
const cumulativeLayoutShift = "0.12"

// estimatePerformance derives a synthetic load estimate from resource tag
// counts. No network timing is involved.
func estimatePerformance(doc *Document) PerformanceFacts {
	resources := ResourceCounts{
		Scripts: doc.ScriptCount(),
		Styles:  doc.StylesheetCount(),
		Images:  doc.ImageCount(),
		Iframes: doc.IframeCount(),
	}
	resources.Total = resources.Scripts + resources.Styles + resources.Images + resources.Iframes

	loadTime := round1(0.5 + float64(resources.Total)*0.1)

	return PerformanceFacts{
		Resources: resources,
		Metrics: PerformanceMetrics{
			EstimatedLoadTime:      formatSeconds(loadTime),
			EstimatedLoadTimeValue: loadTime,
			FirstContentfulPaint:   formatSeconds(loadTime * 0.6),
			LargestContentfulPaint: formatSeconds(loadTime * 0.8),
			CumulativeLayoutShift:  cumulativeLayoutShift,
		},
		Score: performanceScore(resources, loadTime),
	}
}

func performanceScore(resources ResourceCounts, loadTime float64) int {
	score := 100

	switch {
	case resources.Total > 50:
		score -= 30
	case resources.Total > 30:
		score -= 20
	case resources.Total > 15:
		score -= 10
	}

	switch {
	case loadTime > 3:
		score -= 30
	case loadTime > 2:
		score -= 15
	case loadTime > 1:
		score -= 5
	}

	switch {
	case resources.Scripts > 15:
		score -= 15
	case resources.Scripts > 10:
		score -= 10
	case resources.Scripts > 5:
		score -= 5
	}

	return clampScore(score)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
