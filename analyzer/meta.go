package analyzer

import "unicode/utf8"

// Optimal length windows in characters.
const (
	titleMinLength       = 30
	titleMaxLength       = 70
	descriptionMinLength = 120
	descriptionMaxLength = 160
)

// twitterCardValues are the card types that earn the full card bonus.
var twitterCardValues = map[string]bool{
	"summary":             true,
	"summary_large_image": true,
}

// analyzeMetaTags extracts title, description, canonical, viewport, robots,
// OpenGraph and Twitter card tags and scores their presence and lengths.
func analyzeMetaTags(doc *Document) MetaTagFacts {
	facts := MetaTagFacts{
		Title:       textCheck(doc.Title(), titleMinLength, titleMaxLength),
		Description: textCheck(doc.MetaName("description"), descriptionMinLength, descriptionMaxLength),
		Canonical:   presenceCheck(doc.LinkHref("canonical")),
		Viewport:    presenceCheck(doc.MetaName("viewport")),
		Robots:      presenceCheck(doc.MetaName("robots")),
		OpenGraph: OpenGraphFacts{
			Title:       presenceCheck(doc.MetaProperty("og:title")),
			Description: presenceCheck(doc.MetaProperty("og:description")),
			URL:         presenceCheck(doc.MetaProperty("og:url")),
			Image:       presenceCheck(doc.MetaProperty("og:image")),
			Type:        presenceCheck(doc.MetaProperty("og:type")),
		},
		Twitter: TwitterFacts{
			Card:        presenceCheck(doc.MetaName("twitter:card")),
			Title:       presenceCheck(doc.MetaName("twitter:title")),
			Description: presenceCheck(doc.MetaName("twitter:description")),
			Image:       presenceCheck(doc.MetaName("twitter:image")),
		},
	}

	facts.Score = metaTagScore(&facts)
	return facts
}

// metaTagScore applies the fixed point table. The maximum is exactly 100.
func metaTagScore(facts *MetaTagFacts) int {
	score := 0

	if facts.Title.Status != StatusMissing {
		score += 10
		if facts.Title.Status == StatusGood {
			score += 10
		} else {
			score += 5
		}
	}

	if facts.Description.Status != StatusMissing {
		score += 10
		if facts.Description.Status == StatusGood {
			score += 10
		} else {
			score += 5
		}
	}

	if facts.Canonical.Status == StatusPresent {
		score += 10
	}
	if facts.Viewport.Status == StatusPresent {
		score += 10
	}

	if facts.OpenGraph.Title.Status == StatusPresent {
		score += 5
	}
	if facts.OpenGraph.Description.Status == StatusPresent {
		score += 5
	}
	if facts.OpenGraph.Image.Status == StatusPresent {
		score += 10
	}

	if facts.Twitter.Card.Status == StatusPresent {
		score += 10
		if twitterCardValues[facts.Twitter.Card.Content] {
			score += 10
		}
	}

	return score
}

func textCheck(text string, minLen, maxLen int) TextCheck {
	length := utf8.RuneCountInString(text)
	check := TextCheck{Text: text, Length: length}

	switch {
	case length == 0:
		check.Status = StatusMissing
	case length < minLen:
		check.Status = StatusTooShort
	case length > maxLen:
		check.Status = StatusTooLong
	default:
		check.Status = StatusGood
	}
	return check
}

func presenceCheck(content string) PresenceCheck {
	status := StatusMissing
	if content != "" {
		status = StatusPresent
	}
	return PresenceCheck{Content: content, Status: status}
}
