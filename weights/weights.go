// Package weights resolves the weight maps used by every scorer. Defaults
// live here as immutable constants; resolution always builds a fresh map,
// optionally starting from a learned version supplied by a Provider.
package weights

import "maps"

// RubricType names one of the four scoring rubrics.
type RubricType string

const (
	RubricSEO RubricType = "seo"
	RubricAEO RubricType = "aeo"
	RubricGEO RubricType = "geo"
	RubricAIO RubricType = "aio"
)

// RubricTypes lists every rubric in scoring order.
var RubricTypes = []RubricType{RubricSEO, RubricAEO, RubricGEO, RubricAIO}

// Model identifies one of the AI assistants scored by the AIO rubric.
type Model string

const (
	ModelChatGPT    Model = "chatgpt"
	ModelPerplexity Model = "perplexity"
	ModelClaude     Model = "claude"
	ModelGemini     Model = "gemini"
	ModelGrok       Model = "grok"
)

// Models lists every scored assistant in output order.
var Models = []Model{ModelChatGPT, ModelPerplexity, ModelClaude, ModelGemini, ModelGrok}

// Map is a factor-to-weight mapping for one rubric.
type Map map[string]float64

// Clone returns an independent copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// SEOKey, AEOKey and GEOKey build the per-model group keys of the AIO map.
func SEOKey(m Model) string { return string(m) + "_seo_weight" }
func AEOKey(m Model) string { return string(m) + "_aeo_weight" }
func GEOKey(m Model) string { return string(m) + "_geo_weight" }

// GroupKeys returns the three AIO keys of one model's weight group.
func GroupKeys(m Model) [3]string {
	return [3]string{SEOKey(m), AEOKey(m), GEOKey(m)}
}
