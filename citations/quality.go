package citations

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueType classifies a citation quality problem.
type IssueType string

const (
	IssueOutdated IssueType = "outdated"
	IssueNegative IssueType = "negative"
)

// QualityIssue flags one problematic citation.
type QualityIssue struct {
	Citation       Citation  `json:"citation"`
	Type           IssueType `json:"type"`
	Severity       string    `json:"severity"`
	Recommendation string    `json:"recommendation"`
}

// Years before 2021 appearing in a cited URL mark the source as outdated.
var outdatedYearPattern = regexp.MustCompile(`\b(19\d{2}|200\d|201\d|2020)\b`)

var negativeKeywords = []string{"scam", "fraud", "fake", "hoax", "사기", "허위"}

// DetectQualityIssues scans every citation for outdated or negative
// sources. Negative matches rank high severity, outdated ones medium.
func DetectQualityIssues(g Graph) []QualityIssue {
	var out []QualityIssue
	for _, c := range g.Citations {
		haystack := strings.ToLower(c.URL + " " + c.AnchorText)
		negative := false
		for _, kw := range negativeKeywords {
			if strings.Contains(haystack, kw) {
				negative = true
				break
			}
		}
		if negative {
			out = append(out, QualityIssue{
				Citation: c,
				Type:     IssueNegative,
				Severity: "high",
				Recommendation: fmt.Sprintf(
					"Remove or re-evaluate the link to %s; its wording suggests a negative or untrustworthy source.", c.Domain),
			})
			continue
		}
		if outdatedYearPattern.MatchString(c.URL) {
			out = append(out, QualityIssue{
				Citation: c,
				Type:     IssueOutdated,
				Severity: "medium",
				Recommendation: fmt.Sprintf(
					"Replace the link to %s with a more recent source; its URL points at pre-2021 material.", c.Domain),
			})
		}
	}
	return out
}
