package weights

// Default factor weights per rubric. These maps are shared constants and
// must never be handed out directly; Defaults returns a copy.
//
// SEO/AEO/GEO factor weights are checklist points summing to 100 minus the
// continuous bonuses the scorers add on top. AIO weights are per-model
// rubric blends; each model's three keys are normalized to sum to 1.0 at
// resolve time.
var (
	seoDefaults = Map{
		"title_length":      15,
		"meta_description":  15,
		"single_h1":         10,
		"heading_hierarchy": 10,
		"word_count":        10,
		"image_alt":         10,
		"internal_links":    5,
		"external_links":    5,
		"open_graph":        5,
		"structured_data":   10,
		"images_present":    5,
	}

	aeoDefaults = Map{
		"question_headings":      15,
		"faq_schema":             20,
		"direct_answers":         10,
		"list_content":           10,
		"heading_list_structure": 10,
		"howto_schema":           10,
		"date_visible":           5,
		"scannable_structure":    10,
	}

	geoDefaults = Map{
		"comprehensive_length": 15,
		"primary_sources":      15,
		"author_attribution":   10,
		"author_credentials":   5,
		"multimedia":           10,
		"data_tables":          5,
		"fresh_date":           10,
		"update_signal":        5,
		"heading_depth":        10,
		"external_references":  5,
	}

	// Blog preset: answer-oriented models lean on AEO, long-form models on GEO.
	aioDefaults = Map{
		"chatgpt_seo_weight":    0.35,
		"chatgpt_aeo_weight":    0.40,
		"chatgpt_geo_weight":    0.25,
		"perplexity_seo_weight": 0.25,
		"perplexity_aeo_weight": 0.45,
		"perplexity_geo_weight": 0.30,
		"claude_seo_weight":     0.30,
		"claude_aeo_weight":     0.30,
		"claude_geo_weight":     0.40,
		"gemini_seo_weight":     0.40,
		"gemini_aeo_weight":     0.30,
		"gemini_geo_weight":     0.30,
		"grok_seo_weight":       0.35,
		"grok_aeo_weight":       0.35,
		"grok_geo_weight":       0.30,
	}

	// Enhanced preset for general websites: classic SEO signals carry more
	// of the citation probability when the page is not a blog post.
	aioEnhancedDefaults = Map{
		"chatgpt_seo_weight":    0.45,
		"chatgpt_aeo_weight":    0.30,
		"chatgpt_geo_weight":    0.25,
		"perplexity_seo_weight": 0.35,
		"perplexity_aeo_weight": 0.35,
		"perplexity_geo_weight": 0.30,
		"claude_seo_weight":     0.40,
		"claude_aeo_weight":     0.25,
		"claude_geo_weight":     0.35,
		"gemini_seo_weight":     0.50,
		"gemini_aeo_weight":     0.25,
		"gemini_geo_weight":     0.25,
		"grok_seo_weight":       0.45,
		"grok_aeo_weight":       0.25,
		"grok_geo_weight":       0.30,
	}
)

// Defaults returns a copy of the built-in weight map for the rubric.
// For AIO, enhanced selects the general-website preset.
func Defaults(rubric RubricType, enhanced bool) Map {
	switch rubric {
	case RubricSEO:
		return seoDefaults.Clone()
	case RubricAEO:
		return aeoDefaults.Clone()
	case RubricGEO:
		return geoDefaults.Clone()
	case RubricAIO:
		if enhanced {
			return aioEnhancedDefaults.Clone()
		}
		return aioDefaults.Clone()
	default:
		return Map{}
	}
}
