package analyzer

// analyzeHeadings collects h1-h6 texts in document order and judges the
// heading structure.
func analyzeHeadings(doc *Document) HeadingFacts {
	facts := HeadingFacts{
		H1: []HeadingEntry{},
		H2: []HeadingEntry{},
		H3: []HeadingEntry{},
		H4: []HeadingEntry{},
		H5: []HeadingEntry{},
		H6: []HeadingEntry{},
	}

	for _, h := range doc.Headings() {
		entry := HeadingEntry{Text: h.Text, Count: 1}
		switch h.Level {
		case 1:
			facts.H1 = append(facts.H1, entry)
		case 2:
			facts.H2 = append(facts.H2, entry)
		case 3:
			facts.H3 = append(facts.H3, entry)
		case 4:
			facts.H4 = append(facts.H4, entry)
		case 5:
			facts.H5 = append(facts.H5, entry)
		case 6:
			facts.H6 = append(facts.H6, entry)
		}
	}

	h1Count := len(facts.H1)
	hasProperH1 := h1Count == 1
	logical := hasLogicalStructure(h1Count, len(facts.H2), len(facts.H3), len(facts.H4))

	facts.Analysis = HeadingAnalysis{
		H1Count:             h1Count,
		HasProperH1:         hasProperH1,
		HasLogicalStructure: logical,
		Status:              headingStatus(hasProperH1, logical),
	}
	return facts
}

// hasLogicalStructure is an approximate nesting check: exactly one h1, and
// no h3/h4 skipping past a missing h2. Levels h5-h6 are not checked.
func hasLogicalStructure(h1, h2, h3, h4 int) bool {
	if h1 != 1 {
		return false
	}
	if h3 > 0 && h2 == 0 {
		return false
	}
	if (h3 > 0 || h4 > 0) && h2 == 0 {
		return false
	}
	return true
}

func headingStatus(hasProperH1, logical bool) string {
	switch {
	case hasProperH1 && logical:
		return StatusGood
	case hasProperH1 != logical:
		return StatusNeedsImprovement
	default:
		return StatusPoor
	}
}
