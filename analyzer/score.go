package analyzer

import "math"

// scoreWeights is how much each category contributes to the overall score.
// The weights sum to 1.0.
var scoreWeights = map[string]float64{
	"metaTags":    0.20,
	"headings":    0.10,
	"images":      0.10,
	"links":       0.15,
	"performance": 0.20,
	"mobile":      0.15,
	"content":     0.10,
}

// calculateOverallScore blends the seven sub-scores into one 0-100 value.
// Headings and links contribute through fixed proxies of their qualitative
// results rather than a numeric sub-score of their own.
func calculateOverallScore(report *AnalysisReport) int {
	headingsProxy := 50.0
	if report.Headings.Analysis.HasProperH1 {
		headingsProxy = 100.0
	}

	var linksProxy float64
	switch report.Links.Analysis.Status {
	case StatusGood:
		linksProxy = 80.0
	case StatusNeedsImprovement:
		linksProxy = 60.0
	default:
		linksProxy = 40.0
	}

	score := float64(report.MetaTags.Score)*scoreWeights["metaTags"] +
		headingsProxy*scoreWeights["headings"] +
		float64(report.Images.Analysis.AltTextPercentage)*scoreWeights["images"] +
		linksProxy*scoreWeights["links"] +
		float64(report.Performance.Score)*scoreWeights["performance"] +
		float64(report.Mobile.Score)*scoreWeights["mobile"] +
		float64(report.Content.Score)*scoreWeights["content"]

	return int(math.Round(score))
}
