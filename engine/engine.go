// Package engine runs the full content-scoring pipeline over one document
// and assembles the analysis result. The pipeline itself is pure compute;
// persistence happens fire-and-forget after the result is built.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/citelens/backend/citations"
	"github.com/citelens/backend/insights"
	"github.com/citelens/backend/learning"
	"github.com/citelens/backend/scoring"
	"github.com/citelens/backend/signals"
	"github.com/citelens/backend/weights"
)

// AnalysisResult is the complete JSON-serializable output of one analysis.
type AnalysisResult struct {
	AnalysisID      string                                 `json:"analysisId"`
	URL             string                                 `json:"url"`
	Profile         string                                 `json:"profile"`
	Signals         signals.SignalSet                      `json:"signals"`
	Rubrics         scoring.RubricScores                   `json:"rubrics"`
	Models          []scoring.ModelScore                   `json:"models"`
	Visibility      scoring.VisibilityScore                `json:"visibility"`
	Citations       citations.Graph                        `json:"citations"`
	DomainAuthority []citations.DomainAuthority            `json:"domainAuthority"`
	Opportunities   []citations.Opportunity                `json:"opportunities"`
	QualityIssues   []citations.QualityIssue               `json:"qualityIssues"`
	Insights        []insights.Insight                     `json:"insights"`
	Recommendations []string                               `json:"recommendations"`
	Rewards         map[weights.RubricType]learning.Reward `json:"rewards"`
	Warnings        []string                               `json:"warnings,omitempty"`
	AnalyzedAt      time.Time                              `json:"analyzedAt"`
}

// Persistence is the fire-and-forget storage collaborator. Every method
// failure is logged and swallowed; none may delay or fail an analysis.
type Persistence interface {
	SaveCitations(ctx context.Context, analysisID string, list []citations.Citation) error
	SaveReward(ctx context.Context, analysisID string, rubric weights.RubricType, r learning.Reward) error
	RecordLearningMetric(ctx context.Context, rubric weights.RubricType, url string, r learning.Reward) error
	Benchmark(ctx context.Context, rubric weights.RubricType) float64
	PreviousScore(ctx context.Context, url string, rubric weights.RubricType) (float64, bool)
}

// MetricsRecorder receives pipeline observations.
type MetricsRecorder interface {
	RecordAnalysis(outcome string, duration time.Duration, scores map[string]float64)
	RecordPersistenceFailure()
}

// RewardObserver consumes the rubric rewards of completed analyses.
type RewardObserver interface {
	Observe(ctx context.Context, rewards map[weights.RubricType]learning.Reward)
}

// Engine wires the scoring pipeline to its collaborators.
type Engine struct {
	resolver    *weights.Resolver
	persistence Persistence
	metrics     MetricsRecorder
	observer    RewardObserver
	logger      *slog.Logger
}

func New(resolver *weights.Resolver, persistence Persistence, metrics MetricsRecorder, observer RewardObserver, logger *slog.Logger) *Engine {
	return &Engine{
		resolver:    resolver,
		persistence: persistence,
		metrics:     metrics,
		observer:    observer,
		logger:      logger,
	}
}

// Analyze scores raw HTML against every rubric and assembles the result.
// The only error path is unparseable input; missing page features always
// degrade to zero-valued signals instead.
func (e *Engine) Analyze(ctx context.Context, html, sourceURL string) (*AnalysisResult, error) {
	return e.AnalyzeWithOverrides(ctx, html, sourceURL, nil)
}

// AnalyzeWithOverrides additionally merges caller AIO weight overrides.
// Invalid overrides are dropped with warnings carried on the result.
func (e *Engine) AnalyzeWithOverrides(ctx context.Context, html, sourceURL string, overrides weights.Map) (*AnalysisResult, error) {
	start := time.Now()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordAnalysis("parse_error", time.Since(start), nil)
		}
		return nil, fmt.Errorf("parse document: %w", err)
	}

	signalSet := signals.Extract(doc)
	profile := signals.ClassifyProfile(signalSet)

	seoW, _ := e.resolver.Resolve(weights.RubricSEO, profile, nil)
	aeoW, _ := e.resolver.Resolve(weights.RubricAEO, profile, nil)
	geoW, _ := e.resolver.Resolve(weights.RubricGEO, profile, nil)
	aioW, warnings := e.resolver.Resolve(weights.RubricAIO, profile, overrides)

	rubric := scoring.ScoreRubrics(signalSet, seoW, aeoW, geoW)
	models := scoring.ScoreModels(signalSet, profile, rubric, aioW)
	visibility := scoring.Visibility(models, rubric, signalSet)

	graph := citations.ExtractGraph(doc, sourceURL, e.logger)
	domains := citations.AggregateDomains(graph)
	authority := citations.EvaluateAuthority(domains)
	opportunities := citations.FindOpportunities(authority, graph.TargetDomain)
	issues := citations.DetectQualityIssues(graph)

	insightList := insights.Generate(rubric, signalSet)

	result := &AnalysisResult{
		AnalysisID:      uuid.NewString(),
		URL:             sourceURL,
		Profile:         profile.String(),
		Signals:         signalSet,
		Rubrics:         rubric,
		Models:          models,
		Visibility:      visibility,
		Citations:       graph,
		DomainAuthority: authority,
		Opportunities:   opportunities,
		QualityIssues:   issues,
		Insights:        insightList,
		Recommendations: insights.Recommendations(insightList),
		Rewards:         e.calculateRewards(ctx, sourceURL, rubric, models),
		Warnings:        warnings,
		AnalyzedAt:      time.Now().UTC(),
	}

	if e.metrics != nil {
		e.metrics.RecordAnalysis("ok", time.Since(start), map[string]float64{
			"seo":        rubric.SEO,
			"aeo":        rubric.AEO,
			"geo":        rubric.GEO,
			"aio":        scoring.AverageModelScore(models),
			"visibility": visibility.Score,
		})
	}

	go e.persist(result)

	return result, nil
}

// calculateRewards builds one reward per rubric from the fresh scores, the
// URL's prior scores and the rolling benchmark. A nil persistence layer
// yields rewards against the default benchmark with no history.
func (e *Engine) calculateRewards(ctx context.Context, sourceURL string, rubric scoring.RubricScores, models []scoring.ModelScore) map[weights.RubricType]learning.Reward {
	current := map[weights.RubricType]float64{
		weights.RubricSEO: rubric.SEO,
		weights.RubricAEO: rubric.AEO,
		weights.RubricGEO: rubric.GEO,
		weights.RubricAIO: scoring.AverageModelScore(models),
	}

	out := make(map[weights.RubricType]learning.Reward, len(current))
	for _, rt := range weights.RubricTypes {
		benchmark := learning.DefaultBenchmark
		var previous *float64
		if e.persistence != nil {
			benchmark = e.persistence.Benchmark(ctx, rt)
			if prev, ok := e.persistence.PreviousScore(ctx, sourceURL, rt); ok {
				previous = &prev
			}
		}
		out[rt] = learning.CalculateReward(current[rt], previous, benchmark)
	}
	return out
}

// persist writes citations, rewards and learning metrics after the result
// has been returned. Failures are counted and logged, never surfaced.
func (e *Engine) persist(result *AnalysisResult) {
	if e.persistence == nil {
		if e.observer != nil {
			e.observer.Observe(context.Background(), result.Rewards)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.persistence.SaveCitations(ctx, result.AnalysisID, result.Citations.Citations); err != nil {
		e.notePersistFailure("citations", err)
	}
	for rubric, reward := range result.Rewards {
		if err := e.persistence.SaveReward(ctx, result.AnalysisID, rubric, reward); err != nil {
			e.notePersistFailure("reward", err)
		}
		if err := e.persistence.RecordLearningMetric(ctx, rubric, result.URL, reward); err != nil {
			e.notePersistFailure("learning_metric", err)
		}
	}
	if e.observer != nil {
		e.observer.Observe(ctx, result.Rewards)
	}
}

func (e *Engine) notePersistFailure(kind string, err error) {
	if e.logger != nil {
		e.logger.Warn("persistence failure swallowed", "kind", kind, "error", err)
	}
	if e.metrics != nil {
		e.metrics.RecordPersistenceFailure()
	}
}
