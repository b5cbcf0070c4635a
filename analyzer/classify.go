package analyzer

import "fmt"

// findingRule pairs a predicate over the assembled facts with the finding
// it produces. Rules are evaluated in table order and fire independently.
type findingRule struct {
	match func(*AnalysisReport) bool
	build func(*AnalysisReport) Finding
}

func staticFinding(f Finding) func(*AnalysisReport) Finding {
	return func(*AnalysisReport) Finding { return f }
}

var criticalRules = []findingRule{
	{
		match: func(r *AnalysisReport) bool { return r.MetaTags.Title.Status == StatusMissing },
		build: staticFinding(Finding{
			Type:        "meta",
			Severity:    SeverityCritical,
			Title:       "Missing title tag",
			Description: "The page has no title tag. Search engines use it as the headline of your result, so add one between 30 and 70 characters.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.MetaTags.Description.Status == StatusMissing },
		build: staticFinding(Finding{
			Type:        "meta",
			Severity:    SeverityCritical,
			Title:       "Missing meta description",
			Description: "The page has no meta description. Add one between 120 and 160 characters to control the snippet shown in search results.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Headings.Analysis.H1Count == 0 },
		build: staticFinding(Finding{
			Type:        "headings",
			Severity:    SeverityCritical,
			Title:       "Missing H1 heading",
			Description: "The page has no H1 heading. Add exactly one H1 that states the main topic of the page.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Headings.Analysis.H1Count > 1 },
		build: func(r *AnalysisReport) Finding {
			return Finding{
				Type:        "headings",
				Severity:    SeverityWarning,
				Title:       "Multiple H1 headings",
				Description: fmt.Sprintf("The page has %d H1 headings. Keep a single H1 and demote the others to H2.", r.Headings.Analysis.H1Count),
			}
		},
	},
	{
		match: func(r *AnalysisReport) bool { return r.Images.Analysis.MissingAltCount > 0 },
		build: func(r *AnalysisReport) Finding {
			return Finding{
				Type:        "images",
				Severity:    SeverityCritical,
				Title:       "Images missing alt text",
				Description: fmt.Sprintf("%d of %d images have no alt text. Alt text is required for accessibility and image search.", r.Images.Analysis.MissingAltCount, r.Images.Analysis.TotalImages),
			}
		},
	},
	{
		match: func(r *AnalysisReport) bool { return r.Performance.Score < 50 },
		build: staticFinding(Finding{
			Type:        "performance",
			Severity:    SeverityCritical,
			Title:       "Slow page performance",
			Description: "The page carries far too many resources. Cut scripts and images, and defer what cannot be removed.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool {
			return r.Performance.Score >= 50 && r.Performance.Metrics.EstimatedLoadTimeValue > 3
		},
		build: staticFinding(Finding{
			Type:        "performance",
			Severity:    SeverityWarning,
			Title:       "Slow loading resources",
			Description: "The estimated load time exceeds 3 seconds. Reduce the number of resources or lazy-load the ones below the fold.",
		}),
	},
}

var strengthRules = []findingRule{
	{
		match: func(r *AnalysisReport) bool { return r.MetaTags.Score >= 80 },
		build: staticFinding(Finding{
			Type:        "meta",
			Title:       "Good meta tag implementation",
			Description: "Title, description, and social sharing tags are in place and well sized.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool {
			return r.MetaTags.Score < 80 && r.MetaTags.Title.Status == StatusGood
		},
		build: staticFinding(Finding{
			Type:        "meta",
			Title:       "Proper title tag",
			Description: "The title tag is present and within the recommended length.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool {
			return r.Headings.Analysis.HasProperH1 && r.Headings.Analysis.HasLogicalStructure
		},
		build: staticFinding(Finding{
			Type:        "headings",
			Title:       "Proper heading structure",
			Description: "The page has a single H1 and headings descend without skipping levels.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Images.Analysis.AltTextPercentage >= 90 },
		build: staticFinding(Finding{
			Type:        "images",
			Title:       "Proper image alt text",
			Description: "Nearly all images describe themselves with alt text.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Links.Analysis.Status == StatusGood },
		build: staticFinding(Finding{
			Type:        "links",
			Title:       "Good link structure",
			Description: "Internal links use descriptive anchors and external links carry safe rel attributes.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Performance.Score >= 80 },
		build: staticFinding(Finding{
			Type:        "performance",
			Title:       "Good page performance",
			Description: "The resource footprint is small enough for a fast load.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Mobile.Score >= 80 },
		build: staticFinding(Finding{
			Type:        "mobile",
			Title:       "Mobile responsive design",
			Description: "The page declares a viewport and adapts its layout for small screens.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Content.Score >= 80 },
		build: staticFinding(Finding{
			Type:        "content",
			Title:       "High-quality content",
			Description: "The page offers substantial, readable text.",
		}),
	},
}

var improvementRules = []findingRule{
	{
		match: func(r *AnalysisReport) bool { return r.MetaTags.OpenGraph.Image.Status == StatusMissing },
		build: staticFinding(Finding{
			Type:        "meta",
			Title:       "Add an Open Graph image",
			Description: "Pages without an og:image render as bare text when shared. Add an og:image tag pointing at a representative picture.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.MetaTags.Twitter.Card.Status == StatusMissing },
		build: staticFinding(Finding{
			Type:        "meta",
			Title:       "Add a Twitter card",
			Description: "Add a twitter:card tag (summary or summary_large_image) so shares on X/Twitter get a rich preview.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Images.Analysis.MissingAltCount > 0 },
		build: func(r *AnalysisReport) Finding {
			return Finding{
				Type:        "images",
				Title:       "Add alt text to images",
				Description: fmt.Sprintf("Describe the %d image(s) currently missing alt text.", r.Images.Analysis.MissingAltCount),
			}
		},
	},
	{
		match: func(r *AnalysisReport) bool { return r.Links.Analysis.GenericInternalLinks > 0 },
		build: func(r *AnalysisReport) Finding {
			return Finding{
				Type:        "links",
				Title:       "Improve anchor text",
				Description: fmt.Sprintf("%d internal link(s) use generic phrases like \"click here\". Rewrite them to describe the destination.", r.Links.Analysis.GenericInternalLinks),
			}
		},
	},
	{
		match: func(r *AnalysisReport) bool { return r.Performance.Score < 80 },
		build: staticFinding(Finding{
			Type:        "performance",
			Title:       "Optimize page load speed",
			Description: "Trim scripts and stylesheets, compress images, and lazy-load embeds to bring the load estimate down.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Mobile.Score < 80 },
		build: staticFinding(Finding{
			Type:        "mobile",
			Title:       "Improve mobile friendliness",
			Description: "Declare a viewport meta tag and add responsive styles so the page adapts to small screens.",
		}),
	},
	{
		match: func(r *AnalysisReport) bool { return r.Content.Metrics.WordCount < 300 },
		build: staticFinding(Finding{
			Type:        "content",
			Title:       "Add more content",
			Description: "The page has thin content. Aim for at least 300 words of useful text.",
		}),
	},
}

// classifyFindings runs the three rule tables against the assembled report.
// Slices are always non-nil so the API serializes them as empty arrays.
func classifyFindings(report *AnalysisReport) (critical, strengths, improvements []Finding) {
	critical = applyRules(criticalRules, report)
	strengths = applyRules(strengthRules, report)
	improvements = applyRules(improvementRules, report)
	return critical, strengths, improvements
}

func applyRules(rules []findingRule, report *AnalysisReport) []Finding {
	findings := []Finding{}
	for _, rule := range rules {
		if rule.match(report) {
			findings = append(findings, rule.build(report))
		}
	}
	return findings
}
