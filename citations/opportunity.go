package citations

import (
	"fmt"
	"math"
)

// Opportunity flags an authoritative external domain worth pursuing for
// backlinks or co-citation.
type Opportunity struct {
	Domain           string   `json:"domain"`
	AuthorityScore   float64  `json:"authorityScore"`
	OpportunityScore float64  `json:"opportunityScore"`
	Reasons          []string `json:"reasons"`
	Recommendation   string   `json:"recommendation"`
}

const opportunityAuthorityFloor = 50.0

// FindOpportunities selects domains with authority of at least 50,
// excluding the analyzed page's own domain regardless of its score.
func FindOpportunities(authorities []DomainAuthority, targetDomain string) []Opportunity {
	var out []Opportunity
	for _, a := range authorities {
		if a.Domain == targetDomain || a.Factors.TargetURLCitation {
			continue
		}
		if a.AuthorityScore < opportunityAuthorityFloor {
			continue
		}

		var reasons []string
		if a.Factors.AveragePosition <= 30 {
			reasons = append(reasons, "cited near the top of the page")
		}
		if a.Factors.CitationTypeRatio >= 50 {
			reasons = append(reasons, "high citation-link ratio")
		}
		if a.Factors.CitationCount >= 5 {
			reasons = append(reasons, fmt.Sprintf("cited %d times", a.Factors.CitationCount))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "consistently referenced authoritative domain")
		}

		out = append(out, Opportunity{
			Domain:           a.Domain,
			AuthorityScore:   a.AuthorityScore,
			OpportunityScore: math.Min(100, a.AuthorityScore+20),
			Reasons:          reasons,
			Recommendation: fmt.Sprintf(
				"Reach out to %s for a backlink or cite it more prominently; it already carries authority in this content space.",
				a.Domain),
		})
	}
	return out
}
