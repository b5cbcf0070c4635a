package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseError indicates that the fetched markup could not be parsed into a
// document at all. Malformed-but-parsable HTML never produces this; the
// extractors handle degraded documents on their own.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is a read-only view of one parsed HTML page. It exposes the few
// lookups the extractors need, so the underlying parsing library stays an
// implementation detail.
type Document struct {
	doc    *goquery.Document
	source string
	base   *url.URL
}

// Heading is a single h1-h6 element in document order.
type Heading struct {
	Level int
	Text  string
}

// ImageRef is a raw <img> reference before resolution.
type ImageRef struct {
	Src string
	Alt string
}

// AnchorRef is a raw <a> reference before classification.
type AnchorRef struct {
	Href string
	Text string
	Rel  string
}

// ParseDocument parses raw HTML into a Document anchored at sourceURL.
func ParseDocument(htmlText, sourceURL string) (*Document, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, &ParseError{URL: sourceURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, &ParseError{URL: sourceURL, Err: err}
	}

	return &Document{doc: doc, source: sourceURL, base: base}, nil
}

// SourceURL returns the URL the document was fetched from, as supplied.
func (d *Document) SourceURL() string {
	return d.source
}

// Origin returns scheme://host[:port] of the source URL.
func (d *Document) Origin() string {
	return d.base.Scheme + "://" + d.base.Host
}

// Resolve resolves a possibly relative reference against the source URL.
func (d *Document) Resolve(ref string) (string, error) {
	u, err := d.base.Parse(ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Title returns the text of the first <title> element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaName returns the content attribute of <meta name="...">.
func (d *Document) MetaName(name string) string {
	return strings.TrimSpace(d.doc.Find(fmt.Sprintf("meta[name='%s']", name)).AttrOr("content", ""))
}

// MetaProperty returns the content attribute of <meta property="...">.
func (d *Document) MetaProperty(property string) string {
	return strings.TrimSpace(d.doc.Find(fmt.Sprintf("meta[property='%s']", property)).AttrOr("content", ""))
}

// LinkHref returns the href of the first <link rel="..."> element.
func (d *Document) LinkHref(rel string) string {
	return strings.TrimSpace(d.doc.Find(fmt.Sprintf("link[rel='%s']", rel)).AttrOr("href", ""))
}

// Headings returns every h1-h6 element in document order.
func (d *Document) Headings() []Heading {
	var headings []Heading
	d.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		level := headingLevel(sel.Get(0))
		if level == 0 {
			return
		}
		headings = append(headings, Heading{
			Level: level,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})
	return headings
}

func headingLevel(node *html.Node) int {
	if node == nil || node.Type != html.ElementNode {
		return 0
	}
	switch node.Data {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// Images returns every <img> element in document order.
func (d *Document) Images() []ImageRef {
	var images []ImageRef
	d.doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		images = append(images, ImageRef{
			Src: sel.AttrOr("src", ""),
			Alt: sel.AttrOr("alt", ""),
		})
	})
	return images
}

// Anchors returns every <a> element in document order.
func (d *Document) Anchors() []AnchorRef {
	var anchors []AnchorRef
	d.doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		anchors = append(anchors, AnchorRef{
			Href: sel.AttrOr("href", ""),
			Text: sel.Text(),
			Rel:  sel.AttrOr("rel", ""),
		})
	})
	return anchors
}

// ScriptCount returns the number of <script> elements.
func (d *Document) ScriptCount() int {
	return d.doc.Find("script").Length()
}

// StylesheetCount returns the number of <link rel="stylesheet"> elements.
func (d *Document) StylesheetCount() int {
	return d.doc.Find("link[rel='stylesheet']").Length()
}

// ImageCount returns the number of <img> elements.
func (d *Document) ImageCount() int {
	return d.doc.Find("img").Length()
}

// IframeCount returns the number of <iframe> elements.
func (d *Document) IframeCount() int {
	return d.doc.Find("iframe").Length()
}

// ParagraphCount returns the number of <p> elements.
func (d *Document) ParagraphCount() int {
	return d.doc.Find("p").Length()
}

// InlineStyles returns the text of every inline <style> element. Externally
// linked stylesheets are not fetched or inspected.
func (d *Document) InlineStyles() []string {
	var styles []string
	d.doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		styles = append(styles, sel.Text())
	})
	return styles
}

// RootClasses returns the class attributes of the html and body elements,
// joined with a space.
func (d *Document) RootClasses() string {
	htmlClass := d.doc.Find("html").AttrOr("class", "")
	bodyClass := d.doc.Find("body").AttrOr("class", "")
	return strings.TrimSpace(htmlClass + " " + bodyClass)
}

// BodyText returns all text inside <body> with whitespace collapsed to
// single spaces.
func (d *Document) BodyText() string {
	return strings.Join(strings.Fields(d.doc.Find("body").Text()), " ")
}
