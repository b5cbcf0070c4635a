package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeImagesNoImages(t *testing.T) {
	doc := mustParse(t, "<html><body><p>no pictures</p></body></html>")

	facts := analyzeImages(doc)

	assert.Equal(t, 0, facts.Analysis.TotalImages)
	assert.Equal(t, 100, facts.Analysis.AltTextPercentage)
	assert.Equal(t, StatusGood, facts.Analysis.Status)
	assert.NotNil(t, facts.Images)
	assert.Empty(t, facts.Images)
}

func TestAnalyzeImagesAllDescribed(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<img src="/a.png" alt="A diagram">
		<img src="/b.png" alt="A chart">
	</body></html>`)

	facts := analyzeImages(doc)

	assert.Equal(t, 2, facts.Analysis.TotalImages)
	assert.Equal(t, 2, facts.Analysis.ImagesWithAlt)
	assert.Equal(t, 0, facts.Analysis.MissingAltCount)
	assert.Equal(t, 100, facts.Analysis.AltTextPercentage)
	assert.Equal(t, StatusGood, facts.Analysis.Status)
}

func TestAnalyzeImagesWhitespaceAltIsMissing(t *testing.T) {
	doc := mustParse(t, `<html><body><img src="/a.png" alt="   "></body></html>`)

	facts := analyzeImages(doc)

	require.Len(t, facts.Images, 1)
	assert.False(t, facts.Images[0].HasAlt)
	assert.Equal(t, 1, facts.Analysis.MissingAltCount)
	assert.Equal(t, StatusPoor, facts.Analysis.Status)
}

func TestAnalyzeImagesStatusThreshold(t *testing.T) {
	t.Run("under a fifth missing", func(t *testing.T) {
		html := "<html><body>"
		for i := 0; i < 9; i++ {
			html += `<img src="/ok.png" alt="described">`
		}
		html += `<img src="/bad.png"></body></html>`
		doc := mustParse(t, html)

		facts := analyzeImages(doc)
		assert.Equal(t, 90, facts.Analysis.AltTextPercentage)
		assert.Equal(t, StatusNeedsImprovement, facts.Analysis.Status)
	})

	t.Run("a fifth or more missing", func(t *testing.T) {
		doc := mustParse(t, `<html><body>
			<img src="/a.png" alt="described">
			<img src="/b.png">
		</body></html>`)

		facts := analyzeImages(doc)
		assert.Equal(t, 50, facts.Analysis.AltTextPercentage)
		assert.Equal(t, StatusPoor, facts.Analysis.Status)
	})
}

func TestAnalyzeImagesPercentageRounds(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<img src="/a.png" alt="one">
		<img src="/b.png" alt="two">
		<img src="/c.png">
	</body></html>`)

	facts := analyzeImages(doc)
	assert.Equal(t, 67, facts.Analysis.AltTextPercentage)
}

func TestAnalyzeImagesResolvesSources(t *testing.T) {
	doc := mustParseAt(t, `<html><body><img src="/img/logo.png" alt="logo"></body></html>`,
		"https://example.com/blog/post")

	facts := analyzeImages(doc)
	require.Len(t, facts.Images, 1)
	assert.Equal(t, "https://example.com/img/logo.png", facts.Images[0].Src)
	assert.Nil(t, facts.Images[0].Size)
}
