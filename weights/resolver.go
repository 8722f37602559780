package weights

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/citelens/backend/signals"
)

// Provider supplies the currently-active learned weight map for a rubric.
// The learning loop implements this; the resolver never depends on how
// versions are stored. A miss of any kind falls back to defaults.
type Provider interface {
	ActiveWeights(rubric RubricType) (Map, bool)
}

// DefaultTTL bounds how long a resolved base map may be served without
// re-reading the provider.
const DefaultTTL = 5 * time.Minute

// Resolver merges default, learned and override weights into the map a
// scorer consumes. AIO maps additionally go through per-model group
// normalization so each model's three weights sum to exactly 1.0.
type Resolver struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
}

func NewResolver(provider Provider, cache Cache, ttl time.Duration, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{provider: provider, cache: cache, ttl: ttl, logger: logger}
}

// Resolve returns the weight map for a rubric plus warnings for any
// overrides that were dropped. Only AIO honors overrides; the profile
// selects the enhanced base preset for general websites.
func (r *Resolver) Resolve(rubric RubricType, profile signals.ContentProfile, overrides Map) (Map, []string) {
	base := r.baseWeights(rubric, profile)

	resolved := base.Clone()
	var warnings []string
	if rubric == RubricAIO {
		warnings = mergeOverrides(resolved, overrides)
		for _, w := range warnings {
			if r.logger != nil {
				r.logger.Warn("weight override dropped", "rubric", string(rubric), "reason", w)
			}
		}
		normalizeGroups(resolved)
	}
	return resolved, warnings
}

// baseWeights fetches the active learned map through the cache, falling
// back to the built-in defaults when no version is active or the provider
// is absent. The fallback is silent by design: a learning-store outage
// must never fail an analysis.
func (r *Resolver) baseWeights(rubric RubricType, profile signals.ContentProfile) Map {
	enhanced := rubric == RubricAIO && profile == signals.ProfileGeneralSite
	cacheKey := fmt.Sprintf("%s/%s", rubric, profile)

	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached
	}

	base := Defaults(rubric, enhanced)
	if r.provider != nil {
		if learned, ok := r.provider.ActiveWeights(rubric); ok {
			// Learned keys overlay the preset; unknown keys are ignored so a
			// stale version cannot smuggle factors into a rubric.
			for key, value := range learned {
				if _, known := base[key]; known && isValidWeight(value) {
					base[key] = value
				}
			}
		}
	}

	r.cache.Set(cacheKey, base, r.ttl)
	return base
}

// mergeOverrides applies caller overrides in place. A key is accepted only
// if it already exists in the map and carries a finite, non-negative
// number; everything else is dropped with a warning and the default kept.
func mergeOverrides(resolved Map, overrides Map) []string {
	var warnings []string
	for key, value := range overrides {
		if _, known := resolved[key]; !known {
			warnings = append(warnings, fmt.Sprintf("unknown weight key %q", key))
			continue
		}
		if !isValidWeight(value) {
			warnings = append(warnings, fmt.Sprintf("invalid value %v for weight key %q", value, key))
			continue
		}
		resolved[key] = value
	}
	return warnings
}

func isValidWeight(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// normalizeGroups rescales each model's three AIO weights to sum to 1.0.
// A group whose sum is not positive falls back to an equal three-way split.
func normalizeGroups(m Map) {
	for _, model := range Models {
		keys := GroupKeys(model)
		sum := m[keys[0]] + m[keys[1]] + m[keys[2]]
		if sum <= 0 {
			for _, k := range keys {
				m[k] = 1.0 / 3.0
			}
			continue
		}
		for _, k := range keys {
			m[k] = m[k] / sum
		}
	}
}
