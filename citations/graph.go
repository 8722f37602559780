// Package citations extracts the outbound-link citation graph of a page
// and derives domain authority, opportunity and quality views from it.
package citations

import (
	"log/slog"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkType classifies an extracted link.
type LinkType string

const (
	LinkInternal  LinkType = "internal"
	LinkExternal  LinkType = "external"
	LinkCitation  LinkType = "citation"
	LinkReference LinkType = "reference"
)

// Citation is one outbound link with its placement metadata. Position is
// the link's normalized offset into the body text, 0-100.
type Citation struct {
	URL         string   `json:"url"`
	Domain      string   `json:"domain"`
	AnchorText  string   `json:"anchorText"`
	Position    int      `json:"position"`
	IsTargetURL bool     `json:"isTargetUrl"`
	LinkType    LinkType `json:"linkType"`
	Context     string   `json:"context,omitempty"`
}

// Graph is the extracted citation graph with its aggregate counts.
type Graph struct {
	TargetDomain       string     `json:"targetDomain"`
	Citations          []Citation `json:"citations"`
	TotalLinks         int        `json:"totalLinks"`
	InternalLinks      int        `json:"internalLinks"`
	ExternalLinks      int        `json:"externalLinks"`
	CitationLinks      int        `json:"citationLinks"`
	TargetURLCitations int        `json:"targetUrlCitations"`
}

// Keywords that promote a link to a citation regardless of its
// internal/external classification.
var citationKeywords = []string{"참고", "출처", "reference", "citation", "source", "인용"}

const contextWindow = 100

// ExtractGraph walks every anchor of the document and builds the citation
// graph relative to the page's own URL. A malformed source URL is logged
// and treated as an empty target domain, never as a failure.
func ExtractGraph(doc *goquery.Document, sourceURL string, logger *slog.Logger) Graph {
	targetDomain := domainOf(sourceURL)
	if targetDomain == "" && logger != nil {
		logger.Warn("could not parse source url, citations carry no target domain", "url", sourceURL)
	}

	bodyText := normalizeSpace(doc.Find("body").Text())
	anchors := doc.Find("a[href]")
	total := anchors.Length()

	g := Graph{TargetDomain: targetDomain}
	anchors.Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs := resolveURL(sourceURL, strings.TrimSpace(href))
		if abs == nil {
			return
		}

		anchorText := normalizeSpace(sel.Text())
		position, context := locate(bodyText, anchorText, i, total)

		domain := abs.Hostname()
		isTarget := targetDomain != "" && domain == targetDomain

		linkType := classify(sel, anchorText, context, isTarget)

		g.Citations = append(g.Citations, Citation{
			URL:         abs.String(),
			Domain:      domain,
			AnchorText:  anchorText,
			Position:    position,
			IsTargetURL: isTarget,
			LinkType:    linkType,
			Context:     context,
		})

		g.TotalLinks++
		switch linkType {
		case LinkInternal:
			g.InternalLinks++
		case LinkCitation, LinkReference:
			g.CitationLinks++
		default:
			g.ExternalLinks++
		}
		if isTarget {
			g.TargetURLCitations++
		}
	})
	return g
}

// resolveURL turns an href into an absolute http(s) URL, or nil when the
// link does not lead to a web page (mailto:, tel:, fragments, javascript:).
func resolveURL(sourceURL, href string) *url.URL {
	if href == "" || href == "#" || strings.HasPrefix(href, "#") {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return nil
	}
	base, err := url.Parse(sourceURL)
	if err != nil || base.Host == "" {
		// No usable base: only already-absolute links survive.
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil
	}
	return abs
}

// classify picks the link type. Citation keywords in the anchor text or its
// surrounding context override the internal/external split; footnote-style
// anchors (inside sup/cite) are references.
func classify(sel *goquery.Selection, anchorText, context string, isTarget bool) LinkType {
	haystack := strings.ToLower(anchorText + " " + context)
	for _, kw := range citationKeywords {
		if strings.Contains(haystack, kw) {
			return LinkCitation
		}
	}
	if sel.ParentsFiltered("sup, cite").Length() > 0 {
		return LinkReference
	}
	if isTarget {
		return LinkInternal
	}
	return LinkExternal
}

// locate finds the anchor text in the body and returns its normalized
// position plus the surrounding context window. When the text cannot be
// found verbatim the position falls back to the link's index among all
// links, with no context.
func locate(bodyText, anchorText string, linkIndex, totalLinks int) (int, string) {
	if anchorText != "" && len(bodyText) > 0 {
		if idx := strings.Index(bodyText, anchorText); idx >= 0 {
			position := int(math.Round(float64(idx) / float64(len(bodyText)) * 100))
			start := idx - contextWindow
			if start < 0 {
				start = 0
			}
			end := idx + len(anchorText) + contextWindow
			if end > len(bodyText) {
				end = len(bodyText)
			}
			return clampPosition(position), bodyText[start:end]
		}
	}
	if totalLinks <= 0 {
		return 0, ""
	}
	return clampPosition(int(math.Round(float64(linkIndex) / float64(totalLinks) * 100))), ""
}

func clampPosition(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
