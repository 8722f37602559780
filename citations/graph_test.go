package citations

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return doc
}

const sourceURL = "https://myblog.example/posts/1"

func TestExtractGraphClassifiesLinks(t *testing.T) {
	// Padding keeps each link's context window free of the neighbors'
	// citation keywords.
	pad := "<p>" + strings.Repeat("pad ", 60) + "</p>"
	html := `<html><body>
		<p>Intro text. <a href="/about">About us</a> explains more.</p>` + pad + `
		<p>See <a href="https://research.example/paper">the study</a> for details.</p>` + pad + `
		<p>Source: <a href="https://data.example/report">annual report</a></p>` + pad + `
		<p><sup><a href="https://notes.example/fn1">footnote-one</a></sup></p>
		<p><a href="mailto:hi@myblog.example">email</a> and <a href="#top">top</a></p>
	</body></html>`

	g := ExtractGraph(parseDoc(t, html), sourceURL, nil)

	if g.TargetDomain != "myblog.example" {
		t.Errorf("Wrong target domain: %s", g.TargetDomain)
	}
	if g.TotalLinks != 4 {
		t.Fatalf("mailto and fragment links should be skipped, got %d links", g.TotalLinks)
	}
	if g.InternalLinks != 1 || g.ExternalLinks != 1 || g.CitationLinks != 2 {
		t.Errorf("Counts wrong: internal=%d external=%d citation=%d",
			g.InternalLinks, g.ExternalLinks, g.CitationLinks)
	}

	byURL := make(map[string]Citation)
	for _, c := range g.Citations {
		byURL[c.URL] = c
	}

	if c := byURL["https://myblog.example/about"]; c.LinkType != LinkInternal || !c.IsTargetURL {
		t.Errorf("Relative link should resolve to an internal citation, got %+v", c)
	}
	if c := byURL["https://research.example/paper"]; c.LinkType != LinkExternal {
		t.Errorf("Plain outbound link should be external, got %s", c.LinkType)
	}
	if c := byURL["https://data.example/report"]; c.LinkType != LinkCitation {
		t.Errorf("'Source:' context should promote the link to a citation, got %s", c.LinkType)
	}
	if c := byURL["https://notes.example/fn1"]; c.LinkType != LinkReference {
		t.Errorf("Footnote anchor should be a reference, got %s", c.LinkType)
	}
}

func TestExtractGraphKoreanCitationKeywords(t *testing.T) {
	html := `<html><body>
		<p>출처: <a href="https://news.example/a">기사</a></p>
		<p>참고: <a href="https://docs.example/b">문서</a></p>
	</body></html>`

	g := ExtractGraph(parseDoc(t, html), sourceURL, nil)

	if g.CitationLinks != 2 {
		t.Errorf("Korean citation markers should classify both links, got %d", g.CitationLinks)
	}
}

func TestExtractGraphPositionAndContext(t *testing.T) {
	html := `<html><body>
		<p>` + strings.Repeat("filler ", 100) + `</p>
		<p>Finally <a href="https://late.example/x">the late anchor</a> appears.</p>
	</body></html>`

	g := ExtractGraph(parseDoc(t, html), sourceURL, nil)

	if len(g.Citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(g.Citations))
	}
	c := g.Citations[0]
	if c.Position < 80 {
		t.Errorf("Anchor near the end should have a high position, got %d", c.Position)
	}
	if !strings.Contains(c.Context, "the late anchor") {
		t.Errorf("Context should include the anchor text, got %q", c.Context)
	}
}

func TestExtractGraphPositionFallback(t *testing.T) {
	// Image-only anchors have no text to find in the body, so the position
	// falls back to the link index.
	html := `<html><body>
		<a href="https://a.example/1"><img src="x.png"></a>
		<a href="https://b.example/2"><img src="y.png"></a>
	</body></html>`

	g := ExtractGraph(parseDoc(t, html), sourceURL, nil)

	if len(g.Citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(g.Citations))
	}
	if g.Citations[0].Position != 0 || g.Citations[1].Position != 50 {
		t.Errorf("Expected index-based fallback positions 0 and 50, got %d and %d",
			g.Citations[0].Position, g.Citations[1].Position)
	}
	if g.Citations[0].Context != "" {
		t.Errorf("Fallback should carry no context, got %q", g.Citations[0].Context)
	}
}

func TestExtractGraphUnparseableSourceURL(t *testing.T) {
	html := `<html><body>
		<a href="https://abs.example/x">absolute</a>
		<a href="/relative">relative</a>
	</body></html>`

	g := ExtractGraph(parseDoc(t, html), "://not a url", nil)

	if g.TargetDomain != "" {
		t.Errorf("Broken source URL should yield empty target domain, got %q", g.TargetDomain)
	}
	// Only the absolute link survives without a base to resolve against.
	if g.TotalLinks != 1 || g.Citations[0].Domain != "abs.example" {
		t.Errorf("Expected only the absolute link, got %+v", g.Citations)
	}
}
