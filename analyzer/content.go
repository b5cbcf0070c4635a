package analyzer

import (
	"math"
	"regexp"
	"strings"
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Readability peaks at this many words per sentence and decays linearly
// on both sides.
const idealWordsPerSentence = 15.0

// analyzeContent measures body text volume, paragraph density, and a
// triangular readability heuristic.
func analyzeContent(doc *Document) ContentFacts {
	text := doc.BodyText()
	wordCount := len(strings.Fields(text))
	paragraphCount := doc.ParagraphCount()
	sentenceCount := countSentences(text)

	avgWords := float64(wordCount) / float64(sentenceCount)
	readability := clampFloat(100-math.Abs(avgWords-idealWordsPerSentence)*3, 0, 100)

	return ContentFacts{
		Metrics: ContentMetrics{
			WordCount:           wordCount,
			ParagraphCount:      paragraphCount,
			ReadabilityScore:    int(math.Round(readability)),
			AvgWordsPerSentence: avgWords,
		},
		Score: contentScore(wordCount, paragraphCount, readability),
	}
}

// countSentences counts segments between runs of sentence punctuation,
// never less than 1.
func countSentences(text string) int {
	count := 0
	for _, segment := range sentenceSplitter.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

func contentScore(wordCount, paragraphCount int, readability float64) int {
	score := 0.0

	switch {
	case wordCount > 1000:
		score += 30
	case wordCount > 500:
		score += 20
	case wordCount > 300:
		score += 10
	}

	if paragraphCount > 0 {
		if float64(wordCount)/float64(paragraphCount) < 150 {
			score += 20
		} else {
			score += 10
		}
	}

	score += readability * 0.5
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
