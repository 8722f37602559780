package scoring

import (
	"math"
	"testing"

	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

func defaultRubricWeights() (weights.Map, weights.Map, weights.Map) {
	return weights.Defaults(weights.RubricSEO, false),
		weights.Defaults(weights.RubricAEO, false),
		weights.Defaults(weights.RubricGEO, false)
}

// richSignals describes a page passing essentially every check.
func richSignals() signals.SignalSet {
	return signals.SignalSet{
		HasTitle: true, TitleLength: 45,
		HasMetaDescription: true, MetaDescriptionLength: 140,
		H1Count: 1, H2Count: 4, H3Count: 3,
		QuestionHeadingCount: 3,
		WordCount:            2400, ParagraphCount: 12, AvgParagraphWords: 50,
		StatisticCount: 5, QuotationCount: 3,
		ListCount: 3, OrderedListCount: 1, TableCount: 2,
		ImageCount: 4, ImagesWithAlt: 4, VideoCount: 1,
		JSONLDCount: 2, HasFAQSchema: true, HasArticleSchema: true,
		HasHowToSchema: true, HasPersonSchema: true,
		HasOpenGraph: true,
		HasAuthor:    true, HasAuthorCredentials: true,
		HasDateElement: true, HasRecentDate: true, HasUpdateSignal: true,
		HasHeadingListFlow: true,
		InternalLinkCount:  6, ExternalLinkCount: 7, PrimarySourceLinkCount: 2,
	}
}

func TestScoreRubricsEmptySignals(t *testing.T) {
	seoW, aeoW, geoW := defaultRubricWeights()
	scores := ScoreRubrics(signals.SignalSet{}, seoW, aeoW, geoW)

	for name, v := range map[string]float64{"seo": scores.SEO, "aeo": scores.AEO, "geo": scores.GEO} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			t.Errorf("%s score out of range for empty signals: %v", name, v)
		}
		if v != 0 {
			t.Errorf("Empty page should score 0 on %s, got %v", name, v)
		}
	}
}

func TestScoreRubricsRichSignals(t *testing.T) {
	seoW, aeoW, geoW := defaultRubricWeights()
	scores := ScoreRubrics(richSignals(), seoW, aeoW, geoW)

	if scores.SEO < 90 {
		t.Errorf("Rich page should score high on SEO, got %v", scores.SEO)
	}
	if scores.AEO < 90 {
		t.Errorf("Rich page should score high on AEO, got %v", scores.AEO)
	}
	if scores.GEO < 90 {
		t.Errorf("Rich page should score high on GEO, got %v", scores.GEO)
	}
	for _, v := range []float64{scores.SEO, scores.AEO, scores.GEO} {
		if v > 100 {
			t.Errorf("Score exceeds 100: %v", v)
		}
	}
}

func TestScoringIsDeterministic(t *testing.T) {
	seoW, aeoW, geoW := defaultRubricWeights()
	s := richSignals()

	first := ScoreRubrics(s, seoW, aeoW, geoW)
	second := ScoreRubrics(s, seoW, aeoW, geoW)

	if first != second {
		t.Errorf("Same inputs produced different scores: %+v vs %+v", first, second)
	}
}

func TestSEOIgnoresFreshness(t *testing.T) {
	seoW := weights.Defaults(weights.RubricSEO, false)

	stale := richSignals()
	stale.HasDateElement = false
	stale.HasRecentDate = false
	stale.HasUpdateSignal = false

	if ScoreSEO(richSignals(), seoW) != ScoreSEO(stale, seoW) {
		t.Error("Freshness signals must not move the SEO score")
	}
}

func TestAEOEvidenceBonusIsCapped(t *testing.T) {
	aeoW := weights.Defaults(weights.RubricAEO, false)

	few := signals.SignalSet{StatisticCount: 1, QuotationCount: 1}
	many := signals.SignalSet{StatisticCount: 50, QuotationCount: 50}

	if got := ScoreAEO(few, aeoW); got != 4 {
		t.Errorf("Expected evidence bonus 4, got %v", got)
	}
	if got := ScoreAEO(many, aeoW); got != 10 {
		t.Errorf("Evidence bonus should cap at 10, got %v", got)
	}
}

func TestGEOWordCountBonusTiers(t *testing.T) {
	geoW := weights.Defaults(weights.RubricGEO, false)

	cases := []struct {
		words int
		want  float64
	}{
		{0, 0},
		{499, 0},
		{500, 3},
		{999, 3},
		{1000, 6},
		{2000, 10},
	}
	for _, tc := range cases {
		got := ScoreGEO(signals.SignalSet{WordCount: tc.words}, geoW)
		// Below 1500 words only the bonus contributes; at 2000 the
		// comprehensive_length check adds its 15 points too.
		want := tc.want
		if tc.words >= 1500 {
			want += geoW["comprehensive_length"]
		}
		if got != want {
			t.Errorf("Words %d: got %v, want %v", tc.words, got, want)
		}
	}
}

func TestRubricAverage(t *testing.T) {
	r := RubricScores{SEO: 60, AEO: 90, GEO: 30}
	if avg := r.Average(); avg != 60 {
		t.Errorf("Expected average 60, got %v", avg)
	}
}
