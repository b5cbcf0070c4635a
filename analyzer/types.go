package analyzer

import "github.com/seo-insight/backend/fetcher"

// Qualitative statuses attached to facts and fact bundles.
const (
	StatusMissing          = "missing"
	StatusPresent          = "present"
	StatusTooShort         = "too_short"
	StatusTooLong          = "too_long"
	StatusGood             = "good"
	StatusNeedsImprovement = "needs_improvement"
	StatusPoor             = "poor"
)

// Finding severities. Strengths and improvement areas carry no severity.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// AnalysisReport is the complete analysis of a webpage.
type AnalysisReport struct {
	URL              string           `json:"url"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	SEOScore         int              `json:"seoScore"`
	MetaTags         MetaTagFacts     `json:"metaTags"`
	Headings         HeadingFacts     `json:"headings"`
	Images           ImageFacts       `json:"images"`
	Links            LinkFacts        `json:"links"`
	Performance      PerformanceFacts `json:"performance"`
	Mobile           MobileFacts      `json:"mobile"`
	Content          ContentFacts     `json:"content"`
	CriticalIssues   []Finding        `json:"criticalIssues"`
	Strengths        []Finding        `json:"strengths"`
	ImprovementAreas []Finding        `json:"improvementAreas"`

	// Robots is filled in by the service after analysis and takes no part
	// in scoring.
	Robots *fetcher.RobotsFacts `json:"robots,omitempty"`
}

// Finding is one classified observation about the page.
type Finding struct {
	Type        string `json:"type"`
	Severity    string `json:"severity,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TextCheck is a tag whose text is judged by length.
type TextCheck struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
	Status string `json:"status"`
}

// PresenceCheck is a tag judged only by having non-empty content.
type PresenceCheck struct {
	Content string `json:"content"`
	Status  string `json:"status"`
}

// OpenGraphFacts covers the og:* properties the analysis cares about.
type OpenGraphFacts struct {
	Title       PresenceCheck `json:"title"`
	Description PresenceCheck `json:"description"`
	URL         PresenceCheck `json:"url"`
	Image       PresenceCheck `json:"image"`
	Type        PresenceCheck `json:"type"`
}

// TwitterFacts covers the twitter:* card tags.
type TwitterFacts struct {
	Card        PresenceCheck `json:"card"`
	Title       PresenceCheck `json:"title"`
	Description PresenceCheck `json:"description"`
	Image       PresenceCheck `json:"image"`
}

// MetaTagFacts is the meta tag extraction result.
type MetaTagFacts struct {
	Title       TextCheck      `json:"title"`
	Description TextCheck      `json:"description"`
	Canonical   PresenceCheck  `json:"canonical"`
	Viewport    PresenceCheck  `json:"viewport"`
	Robots      PresenceCheck  `json:"robots"`
	OpenGraph   OpenGraphFacts `json:"openGraph"`
	Twitter     TwitterFacts   `json:"twitter"`
	Score       int            `json:"score"`
}

// HeadingEntry is one heading element. Count is always 1; every heading is
// its own record rather than being aggregated by text.
type HeadingEntry struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// HeadingAnalysis summarizes the heading structure.
type HeadingAnalysis struct {
	H1Count             int    `json:"h1Count"`
	HasProperH1         bool   `json:"hasProperH1"`
	HasLogicalStructure bool   `json:"hasLogicalStructure"`
	Status              string `json:"status"`
}

// HeadingFacts is the heading extraction result.
type HeadingFacts struct {
	H1       []HeadingEntry  `json:"h1"`
	H2       []HeadingEntry  `json:"h2"`
	H3       []HeadingEntry  `json:"h3"`
	H4       []HeadingEntry  `json:"h4"`
	H5       []HeadingEntry  `json:"h5"`
	H6       []HeadingEntry  `json:"h6"`
	Analysis HeadingAnalysis `json:"analysis"`
}

// ImageFact is one <img> with its alt-text verdict. Size is never probed
// and stays null.
type ImageFact struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"hasAlt"`
	Size   *int64 `json:"size"`
}

// ImageAnalysis summarizes alt-text coverage.
type ImageAnalysis struct {
	TotalImages       int    `json:"totalImages"`
	ImagesWithAlt     int    `json:"imagesWithAlt"`
	MissingAltCount   int    `json:"missingAltCount"`
	AltTextPercentage int    `json:"altTextPercentage"`
	Status            string `json:"status"`
}

// ImageFacts is the image extraction result.
type ImageFacts struct {
	Images   []ImageFact   `json:"images"`
	Analysis ImageAnalysis `json:"analysis"`
}

// InternalLink is a link staying on the source origin.
type InternalLink struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	IsGeneric bool   `json:"isGeneric"`
}

// ExternalLink is a link leaving the source origin.
type ExternalLink struct {
	Text   string `json:"text"`
	URL    string `json:"url"`
	HasRel bool   `json:"hasRel"`
}

// LinkAnalysis summarizes link classification.
type LinkAnalysis struct {
	TotalLinks              int    `json:"totalLinks"`
	InternalLinks           int    `json:"internalLinks"`
	ExternalLinks           int    `json:"externalLinks"`
	GenericInternalLinks    int    `json:"genericInternalLinks"`
	ExternalLinksWithoutRel int    `json:"externalLinksWithoutRel"`
	Status                  string `json:"status"`
}

// LinkFacts is the link extraction result.
type LinkFacts struct {
	Internal []InternalLink `json:"internal"`
	External []ExternalLink `json:"external"`
	Analysis LinkAnalysis   `json:"analysis"`
}

// ResourceCounts are the tag counts behind the synthetic load estimate.
type ResourceCounts struct {
	Scripts int `json:"scripts"`
	Styles  int `json:"styles"`
	Images  int `json:"images"`
	Iframes int `json:"iframes"`
	Total   int `json:"total"`
}

// PerformanceMetrics are synthetic estimates derived from resource counts,
// not measured timings.
type PerformanceMetrics struct {
	EstimatedLoadTime      string  `json:"estimatedLoadTime"`
	EstimatedLoadTimeValue float64 `json:"estimatedLoadTimeValue"`
	FirstContentfulPaint   string  `json:"firstContentfulPaint"`
	LargestContentfulPaint string  `json:"largestContentfulPaint"`
	CumulativeLayoutShift  string  `json:"cumulativeLayoutShift"`
}

// PerformanceFacts is the performance estimation result.
type PerformanceFacts struct {
	Resources ResourceCounts     `json:"resources"`
	Metrics   PerformanceMetrics `json:"metrics"`
	Score     int                `json:"score"`
}

// MobileFeatures are the responsive signals the page exposes.
type MobileFeatures struct {
	HasViewport             bool `json:"hasViewport"`
	HasMediaQueries         bool `json:"hasMediaQueries"`
	HasResponsiveIndicators bool `json:"hasResponsiveIndicators"`
}

// MobileFacts is the mobile friendliness result.
type MobileFacts struct {
	Features MobileFeatures `json:"features"`
	Score    int            `json:"score"`
}

// ContentMetrics are the raw text measurements.
type ContentMetrics struct {
	WordCount           int     `json:"wordCount"`
	ParagraphCount      int     `json:"paragraphCount"`
	ReadabilityScore    int     `json:"readabilityScore"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence"`
}

// ContentFacts is the content analysis result.
type ContentFacts struct {
	Metrics ContentMetrics `json:"metrics"`
	Score   int            `json:"score"`
}
