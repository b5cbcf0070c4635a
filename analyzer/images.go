package analyzer

import (
	"math"
	"strings"
)

// analyzeImages resolves every <img> src against the source URL and measures
// alt-text coverage. Byte sizes are never probed, so Size stays null.
func analyzeImages(doc *Document) ImageFacts {
	refs := doc.Images()
	facts := ImageFacts{Images: make([]ImageFact, 0, len(refs))}

	withAlt := 0
	for _, ref := range refs {
		src := ref.Src
		if resolved, err := doc.Resolve(ref.Src); err == nil {
			src = resolved
		}

		hasAlt := strings.TrimSpace(ref.Alt) != ""
		if hasAlt {
			withAlt++
		}

		facts.Images = append(facts.Images, ImageFact{
			Src:    src,
			Alt:    ref.Alt,
			HasAlt: hasAlt,
		})
	}

	total := len(refs)
	missing := total - withAlt

	// A page with no images passes vacuously.
	percentage := 100
	if total > 0 {
		percentage = int(math.Round(float64(withAlt) / float64(total) * 100))
	}

	facts.Analysis = ImageAnalysis{
		TotalImages:       total,
		ImagesWithAlt:     withAlt,
		MissingAltCount:   missing,
		AltTextPercentage: percentage,
		Status:            imageStatus(total, missing),
	}
	return facts
}

func imageStatus(total, missing int) string {
	if total == 0 || missing == 0 {
		return StatusGood
	}
	if float64(missing)/float64(total) < 0.2 {
		return StatusNeedsImprovement
	}
	return StatusPoor
}
