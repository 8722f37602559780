package citations

import (
	"math"
	"sort"
)

// DomainStatistics aggregates the citations pointing at one domain.
type DomainStatistics struct {
	Domain          string           `json:"domain"`
	CitationCount   int              `json:"citationCount"`
	AveragePosition float64          `json:"averagePosition"`
	TypeCounts      map[LinkType]int `json:"typeCounts"`
	IsTargetURL     bool             `json:"isTargetUrl"`
}

// AuthorityFactors breaks a domain's authority score into its inputs.
type AuthorityFactors struct {
	CitationCount     int     `json:"citationCount"`
	AveragePosition   float64 `json:"averagePosition"`
	CitationTypeRatio float64 `json:"citationTypeRatio"` // percent
	TargetURLCitation bool    `json:"targetUrlCitation"`
}

// DomainAuthority is the derived 0-100 authority of one cited domain,
// recomputed from scratch every analysis.
type DomainAuthority struct {
	Domain         string           `json:"domain"`
	AuthorityScore float64          `json:"authorityScore"`
	Factors        AuthorityFactors `json:"factors"`
}

// AggregateDomains groups a graph's citations per domain.
func AggregateDomains(g Graph) []DomainStatistics {
	byDomain := make(map[string]*DomainStatistics)
	positionSums := make(map[string]int)
	order := make([]string, 0)

	for _, c := range g.Citations {
		if c.Domain == "" {
			continue
		}
		stats, ok := byDomain[c.Domain]
		if !ok {
			stats = &DomainStatistics{
				Domain:     c.Domain,
				TypeCounts: make(map[LinkType]int),
			}
			byDomain[c.Domain] = stats
			order = append(order, c.Domain)
		}
		stats.CitationCount++
		stats.TypeCounts[c.LinkType]++
		positionSums[c.Domain] += c.Position
		if c.IsTargetURL {
			stats.IsTargetURL = true
		}
	}

	out := make([]DomainStatistics, 0, len(order))
	for _, domain := range order {
		stats := byDomain[domain]
		stats.AveragePosition = float64(positionSums[domain]) / float64(stats.CitationCount)
		out = append(out, *stats)
	}
	return out
}

// EvaluateAuthority scores every cited domain and returns the list sorted
// by descending authority. Components: citation count up to 40, position
// tier 30/20/10, citation-type ratio up to 20, own-domain bonus 10.
func EvaluateAuthority(domains []DomainStatistics) []DomainAuthority {
	out := make([]DomainAuthority, 0, len(domains))
	for _, d := range domains {
		countScore := math.Min(40, float64(d.CitationCount)/10*40)

		positionScore := 10.0
		switch {
		case d.AveragePosition <= 30:
			positionScore = 30
		case d.AveragePosition <= 60:
			positionScore = 20
		}

		citationRatio := 0.0
		if d.CitationCount > 0 {
			citationLinks := d.TypeCounts[LinkCitation] + d.TypeCounts[LinkReference]
			citationRatio = float64(citationLinks) / float64(d.CitationCount)
		}
		typeScore := citationRatio * 20

		targetScore := 0.0
		if d.IsTargetURL {
			targetScore = 10
		}

		score := math.Max(0, math.Min(100, countScore+positionScore+typeScore+targetScore))
		out = append(out, DomainAuthority{
			Domain:         d.Domain,
			AuthorityScore: score,
			Factors: AuthorityFactors{
				CitationCount:     d.CitationCount,
				AveragePosition:   d.AveragePosition,
				CitationTypeRatio: citationRatio * 100,
				TargetURLCitation: d.IsTargetURL,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AuthorityScore > out[j].AuthorityScore
	})
	return out
}
