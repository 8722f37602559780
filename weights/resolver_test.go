package weights

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/citelens/backend/signals"
)

type stubProvider struct {
	weights Map
	ok      bool
	calls   int
}

func (p *stubProvider) ActiveWeights(rubric RubricType) (Map, bool) {
	p.calls++
	return p.weights, p.ok
}

func assertGroupsNormalized(t *testing.T, m Map) {
	t.Helper()
	for _, model := range Models {
		keys := GroupKeys(model)
		sum := m[keys[0]] + m[keys[1]] + m[keys[2]]
		if math.Abs(sum-1.0) >= 1e-9 {
			t.Errorf("Group %s sums to %v, want 1.0", model, sum)
		}
	}
}

func TestResolveNormalizesEveryGroup(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)

	for _, profile := range []signals.ContentProfile{signals.ProfileBlog, signals.ProfileGeneralSite} {
		resolved, warnings := r.Resolve(RubricAIO, profile, nil)
		if len(warnings) != 0 {
			t.Errorf("Unexpected warnings: %v", warnings)
		}
		assertGroupsNormalized(t, resolved)
	}
}

func TestResolveDropsNegativeOverride(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)

	resolved, warnings := r.Resolve(RubricAIO, signals.ProfileBlog, Map{"chatgpt_seo_weight": -5})

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "chatgpt_seo_weight") {
		t.Errorf("Warning should name the key, got %q", warnings[0])
	}

	// The default survives, so the group still normalizes from the preset.
	want, _ := r.Resolve(RubricAIO, signals.ProfileBlog, nil)
	if resolved["chatgpt_seo_weight"] != want["chatgpt_seo_weight"] {
		t.Errorf("Negative override leaked: got %v, want default %v",
			resolved["chatgpt_seo_weight"], want["chatgpt_seo_weight"])
	}
	assertGroupsNormalized(t, resolved)
}

func TestResolveDropsUnknownAndNonFiniteOverrides(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)

	resolved, warnings := r.Resolve(RubricAIO, signals.ProfileBlog, Map{
		"made_up_weight":     1,
		"claude_geo_weight":  math.NaN(),
		"chatgpt_aeo_weight": math.Inf(1),
	})

	if len(warnings) != 3 {
		t.Fatalf("Expected 3 warnings, got %v", warnings)
	}
	assertGroupsNormalized(t, resolved)
	for key, value := range resolved {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			t.Errorf("Non-finite weight survived for %s", key)
		}
	}
}

func TestResolveZeroGroupFallsBackToEqualSplit(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)

	resolved, _ := r.Resolve(RubricAIO, signals.ProfileBlog, Map{
		"grok_seo_weight": 0,
		"grok_aeo_weight": 0,
		"grok_geo_weight": 0,
	})

	for _, key := range GroupKeys(ModelGrok) {
		if math.Abs(resolved[key]-1.0/3.0) >= 1e-9 {
			t.Errorf("Expected equal split for %s, got %v", key, resolved[key])
		}
	}
	assertGroupsNormalized(t, resolved)
}

func TestResolveUsesEnhancedPresetForGeneralSites(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)

	blog, _ := r.Resolve(RubricAIO, signals.ProfileBlog, nil)
	site, _ := r.Resolve(RubricAIO, signals.ProfileGeneralSite, nil)

	if blog["gemini_seo_weight"] >= site["gemini_seo_weight"] {
		t.Errorf("Enhanced preset should weight SEO higher for general sites: blog=%v site=%v",
			blog["gemini_seo_weight"], site["gemini_seo_weight"])
	}
}

func TestResolveOverlaysLearnedWeights(t *testing.T) {
	provider := &stubProvider{
		weights: Map{
			"title_length": 25,
			"not_a_factor": 99, // must be ignored
		},
		ok: true,
	}
	r := NewResolver(provider, NopCache{}, 0, nil)

	resolved, _ := r.Resolve(RubricSEO, signals.ProfileBlog, nil)

	if resolved["title_length"] != 25 {
		t.Errorf("Learned weight not applied: got %v", resolved["title_length"])
	}
	if _, exists := resolved["not_a_factor"]; exists {
		t.Error("Unknown learned key leaked into the rubric")
	}
}

func TestResolveSurvivesProviderMiss(t *testing.T) {
	provider := &stubProvider{ok: false}
	r := NewResolver(provider, NopCache{}, 0, nil)

	resolved, _ := r.Resolve(RubricSEO, signals.ProfileBlog, nil)

	defaults := Defaults(RubricSEO, false)
	for key, want := range defaults {
		if resolved[key] != want {
			t.Errorf("Expected default for %s, got %v", key, resolved[key])
		}
	}
}

func TestResolveCachesBaseWeights(t *testing.T) {
	provider := &stubProvider{weights: Map{"title_length": 20}, ok: true}
	r := NewResolver(provider, NewTTLCache(), time.Minute, nil)

	r.Resolve(RubricSEO, signals.ProfileBlog, nil)
	r.Resolve(RubricSEO, signals.ProfileBlog, nil)

	if provider.calls != 1 {
		t.Errorf("Expected 1 provider call within the TTL window, got %d", provider.calls)
	}
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", Map{"a": 1}, time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("Expected cache hit")
	}
	c.Invalidate()
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after invalidation")
	}
}

func TestResolveDoesNotMutateDefaults(t *testing.T) {
	r := NewResolver(nil, NopCache{}, 0, nil)
	first, _ := r.Resolve(RubricAIO, signals.ProfileBlog, Map{"chatgpt_seo_weight": 0.9})
	second, _ := r.Resolve(RubricAIO, signals.ProfileBlog, nil)

	if first["chatgpt_seo_weight"] == second["chatgpt_seo_weight"] {
		t.Error("Override from a previous resolve leaked into defaults")
	}
	if second["chatgpt_seo_weight"] != aioDefaults["chatgpt_seo_weight"]/(aioDefaults["chatgpt_seo_weight"]+aioDefaults["chatgpt_aeo_weight"]+aioDefaults["chatgpt_geo_weight"]) {
		t.Errorf("Defaults drifted: got %v", second["chatgpt_seo_weight"])
	}
}
