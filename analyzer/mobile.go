package analyzer

import "strings"

// analyzeMobile checks the responsive signals available in static markup:
// the viewport meta tag, "@media" in inline styles, and a "responsive"
// class on html or body. Linked stylesheets are not inspected.
func analyzeMobile(doc *Document) MobileFacts {
	features := MobileFeatures{
		HasViewport: doc.MetaName("viewport") != "",
	}

	for _, css := range doc.InlineStyles() {
		if strings.Contains(css, "@media") {
			features.HasMediaQueries = true
			break
		}
	}

	features.HasResponsiveIndicators = strings.Contains(doc.RootClasses(), "responsive")

	return MobileFacts{
		Features: features,
		Score:    mobileScore(features),
	}
}

// mobileScore sums fixed weights. The fallback bonus only triggers when the
// viewport is the sole signal, so the total never exceeds 100.
func mobileScore(features MobileFeatures) int {
	score := 0
	if features.HasViewport {
		score += 50
	}
	if features.HasMediaQueries {
		score += 25
	}
	if features.HasResponsiveIndicators {
		score += 25
	}
	if features.HasViewport && !features.HasMediaQueries && !features.HasResponsiveIndicators {
		score += 20
	}
	return score
}
