package analyzer

import "strings"

// genericLinkPhrases is the fixed set of anchor texts that carry no
// descriptive value for search engines.
var genericLinkPhrases = []string{
	"click here",
	"read more",
	"learn more",
	"more info",
	"details",
	"here",
}

// analyzeLinks classifies every usable <a> as internal or external.
// Internal means the resolved URL string starts with the source origin.
// That is a plain prefix test, so a host that extends the source host
// character-for-character would be counted internal as well.
func analyzeLinks(doc *Document) LinkFacts {
	facts := LinkFacts{
		Internal: []InternalLink{},
		External: []ExternalLink{},
	}
	origin := doc.Origin()

	for _, anchor := range doc.Anchors() {
		href := strings.TrimSpace(anchor.Href)
		if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			continue
		}

		resolved, err := doc.Resolve(href)
		if err != nil {
			continue
		}

		text := strings.TrimSpace(anchor.Text)
		if strings.HasPrefix(resolved, origin) {
			facts.Internal = append(facts.Internal, InternalLink{
				Text:      text,
				URL:       resolved,
				IsGeneric: isGenericAnchor(text),
			})
		} else {
			facts.External = append(facts.External, ExternalLink{
				Text:   text,
				URL:    resolved,
				HasRel: hasSafeRel(anchor.Rel),
			})
		}
	}

	generic := 0
	for _, link := range facts.Internal {
		if link.IsGeneric {
			generic++
		}
	}
	missingRel := 0
	for _, link := range facts.External {
		if !link.HasRel {
			missingRel++
		}
	}

	internal := len(facts.Internal)
	external := len(facts.External)
	facts.Analysis = LinkAnalysis{
		TotalLinks:              internal + external,
		InternalLinks:           internal,
		ExternalLinks:           external,
		GenericInternalLinks:    generic,
		ExternalLinksWithoutRel: missingRel,
		Status:                  linkStatus(internal, external, generic, missingRel),
	}
	return facts
}

func linkStatus(internal, external, generic, missingRel int) string {
	if internal == 0 {
		return StatusPoor
	}
	if float64(generic)/float64(internal) > 0.2 {
		return StatusNeedsImprovement
	}
	if external > 0 && float64(missingRel)/float64(external) > 0.2 {
		return StatusNeedsImprovement
	}
	return StatusGood
}

func isGenericAnchor(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range genericLinkPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func hasSafeRel(rel string) bool {
	lower := strings.ToLower(rel)
	return strings.Contains(lower, "noopener") || strings.Contains(lower, "noreferrer")
}
