package signals

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	yearPattern      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	statisticPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent|million|billion|만|억|배)`)
)

// Hosts and TLD suffixes that count as primary sources.
var primarySourceMarkers = []string{
	"doi.org", "pubmed", "arxiv.org", ".edu", ".gov", ".ac.kr", "scholar.google",
}

var updateKeywords = []string{
	"updated", "last modified", "revised", "업데이트", "최종 수정", "수정일",
}

var credentialKeywords = []string{
	"phd", "ph.d", "md", "prof", "professor", "dr.", "박사", "교수", "전문의",
	"years of experience", "certified", "경력",
}

// Extract derives a SignalSet from a parsed document. Missing elements
// simply yield zero values; this function never fails.
func Extract(doc *goquery.Document) SignalSet {
	return ExtractAt(doc, time.Now())
}

// ExtractAt is Extract with an explicit clock, so recency checks are
// testable against fixed dates.
func ExtractAt(doc *goquery.Document, now time.Time) SignalSet {
	var s SignalSet

	title := strings.TrimSpace(doc.Find("title").First().Text())
	s.TitleLength = len(title)
	s.HasTitle = s.TitleLength > 0

	desc, _ := doc.Find("meta[name='description']").Attr("content")
	s.MetaDescriptionLength = len(desc)
	s.HasMetaDescription = s.MetaDescriptionLength > 0

	s.H1Count = doc.Find("h1").Length()
	s.H2Count = doc.Find("h2").Length()
	s.H3Count = doc.Find("h3").Length()
	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if isQuestionHeading(sel.Text()) {
			s.QuestionHeadingCount++
		}
	})
	s.HasHeadingListFlow = headingListFlow(doc)

	bodyText := doc.Find("body").Text()
	s.WordCount = len(strings.Fields(bodyText))

	paragraphs := doc.Find("p")
	totalParaWords := 0
	paragraphs.Each(func(_ int, sel *goquery.Selection) {
		words := len(strings.Fields(sel.Text()))
		if words == 0 {
			return
		}
		s.ParagraphCount++
		totalParaWords += words
	})
	if s.ParagraphCount > 0 {
		s.AvgParagraphWords = totalParaWords / s.ParagraphCount
	}

	s.StatisticCount = len(statisticPattern.FindAllString(bodyText, -1))
	s.QuotationCount = doc.Find("blockquote").Length() + doc.Find("q").Length()

	s.ListCount = doc.Find("ul").Length() + doc.Find("ol").Length()
	s.OrderedListCount = doc.Find("ol").Length()
	s.TableCount = doc.Find("table").Length()

	images := doc.Find("img")
	s.ImageCount = images.Length()
	images.Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			s.ImagesWithAlt++
		}
	})
	s.VideoCount = doc.Find("video").Length() + doc.Find("iframe[src*='youtube']").Length() + doc.Find("iframe[src*='vimeo']").Length()

	extractStructuredData(doc, &s)

	og := doc.Find("meta[property^='og:']").Length()
	s.HasOpenGraph = og > 0

	extractAuthorship(doc, &s)
	extractFreshness(doc, bodyText, now, &s)
	extractLinks(doc, &s)

	return s
}

func isQuestionHeading(text string) bool {
	t := strings.TrimSpace(strings.ToLower(text))
	if t == "" {
		return false
	}
	if strings.HasSuffix(t, "?") {
		return true
	}
	for _, prefix := range []string{"how ", "what ", "why ", "when ", "where ", "who ", "can ", "should ", "is ", "are ", "do ", "does "} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	// Korean interrogative endings common in answer-oriented posts.
	for _, suffix := range []string{"까", "까요", "나요", "하는 법", "방법"} {
		if strings.HasSuffix(t, suffix) {
			return true
		}
	}
	return false
}

// headingListFlow reports whether the document contains, in order, an h2
// followed by an h3 followed by a list.
func headingListFlow(doc *goquery.Document) bool {
	const (
		wantH2 = iota
		wantH3
		wantList
	)
	state := wantH2
	found := false
	doc.Find("h2, h3, ul, ol").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		tag := goquery.NodeName(sel)
		switch state {
		case wantH2:
			if tag == "h2" {
				state = wantH3
			}
		case wantH3:
			if tag == "h3" {
				state = wantList
			}
		case wantList:
			if tag == "ul" || tag == "ol" {
				found = true
				return false
			}
			if tag == "h2" {
				state = wantH3
			}
		}
		return true
	})
	return found
}

func extractStructuredData(doc *goquery.Document, s *SignalSet) {
	doc.Find("script[type='application/ld+json']").Each(func(_ int, sel *goquery.Selection) {
		s.JSONLDCount++
		raw := sel.Text()
		if hasSchemaType(raw, "FAQPage") {
			s.HasFAQSchema = true
		}
		if hasSchemaType(raw, "Article") || hasSchemaType(raw, "NewsArticle") {
			s.HasArticleSchema = true
		}
		if hasSchemaType(raw, "BlogPosting") {
			s.HasBlogPostingSchema = true
		}
		if hasSchemaType(raw, "HowTo") {
			s.HasHowToSchema = true
		}
		if hasSchemaType(raw, "Organization") {
			s.HasOrganizationSchema = true
		}
		if hasSchemaType(raw, "Person") {
			s.HasPersonSchema = true
		}
	})
}

// hasSchemaType checks a raw JSON-LD block for an @type value without
// requiring the block to be valid JSON; malformed markup still counts for
// the type it names, matching how AI crawlers read it.
func hasSchemaType(raw, typ string) bool {
	idx := strings.Index(raw, "\"@type\"")
	for idx >= 0 {
		rest := raw[idx:]
		if colon := strings.Index(rest, ":"); colon >= 0 {
			value := rest[colon+1:]
			if quoted := strings.Index(value, "\""+typ+"\""); quoted >= 0 && quoted < 40 {
				return true
			}
		}
		next := strings.Index(raw[idx+1:], "\"@type\"")
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func extractAuthorship(doc *goquery.Document, s *SignalSet) {
	authorText := ""
	if content, ok := doc.Find("meta[name='author']").Attr("content"); ok && strings.TrimSpace(content) != "" {
		s.HasAuthor = true
		authorText = content
	}
	doc.Find("[rel='author'], .author, .byline, [itemprop='author']").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			s.HasAuthor = true
			authorText += " " + text
		}
	})
	lower := strings.ToLower(authorText)
	for _, kw := range credentialKeywords {
		if strings.Contains(lower, kw) {
			s.HasAuthorCredentials = true
			break
		}
	}
}

func extractFreshness(doc *goquery.Document, bodyText string, now time.Time, s *SignalSet) {
	dateText := ""
	doc.Find("time").Each(func(_ int, sel *goquery.Selection) {
		s.HasDateElement = true
		if dt, ok := sel.Attr("datetime"); ok {
			dateText += " " + dt
		}
		dateText += " " + sel.Text()
	})
	for _, selector := range []string{"meta[property='article:published_time']", "meta[property='article:modified_time']", "meta[name='date']"} {
		if content, ok := doc.Find(selector).Attr("content"); ok && content != "" {
			s.HasDateElement = true
			dateText += " " + content
		}
	}

	// A year within the last two calendar years counts as recent, whether it
	// appears in a date element or in the prose.
	for _, match := range yearPattern.FindAllString(dateText+" "+bodyText, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year >= now.Year()-2 && year <= now.Year()+1 {
			s.HasRecentDate = true
			break
		}
	}

	lower := strings.ToLower(bodyText + " " + dateText)
	for _, kw := range updateKeywords {
		if strings.Contains(lower, kw) {
			s.HasUpdateSignal = true
			break
		}
	}
}

func extractLinks(doc *goquery.Document, s *SignalSet) {
	base := ""
	if href, ok := doc.Find("link[rel='canonical']").Attr("href"); ok {
		if u, err := url.Parse(href); err == nil {
			base = u.Hostname()
		}
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			u, err := url.Parse(href)
			if err != nil {
				return
			}
			host := u.Hostname()
			if base != "" && host == base {
				s.InternalLinkCount++
			} else {
				s.ExternalLinkCount++
			}
			if isPrimarySource(host, u.Path) {
				s.PrimarySourceLinkCount++
			}
			return
		}
		// Relative links stay on the page's own site.
		s.InternalLinkCount++
	})
}

func isPrimarySource(host, path string) bool {
	target := strings.ToLower(host + path)
	for _, marker := range primarySourceMarkers {
		if strings.Contains(target, marker) {
			return true
		}
	}
	return false
}
