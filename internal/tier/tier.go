// Package tier assigns a confidence-weighted quality tier to conversation
// content. Downstream report generation uses the tier to decide how deep an
// analysis to run; tier3 content never triggers deep analysis at all.
package tier

import (
	"strings"

	"mindscribe/internal/core"
	"mindscribe/internal/logger"
	"mindscribe/internal/normalize"
)

// scoreRule is one (predicate, weight) entry of a scoring policy. Policies
// are folded left-to-right into a confidence value and then clamped once,
// so the scoring rules stay data instead of scattered arithmetic.
type scoreRule struct {
	Name   string
	Fires  bool
	Weight int
}

func foldRules(base int, rules []scoreRule) (int, []string) {
	confidence := base
	var triggers []string
	for _, rule := range rules {
		if rule.Fires {
			confidence += rule.Weight
			triggers = append(triggers, rule.Name)
		}
	}
	return normalize.ClampConfidence(confidence), triggers
}

// Analyze classifies the user-contributed text of a transcript into one of
// three content tiers with a 0-100 confidence and a fixed per-tier analysis
// recommendation. The decision procedure is deterministic and ordered:
// structured-exercise cues first, then contextual validation.
func Analyze(msgs []core.Message) core.ContentTierAnalysis {
	var parts []string
	for _, msg := range msgs {
		if msg.Role == core.RoleUser && strings.TrimSpace(msg.Content) != "" {
			parts = append(parts, msg.Content)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))

	if text == "" {
		return core.ContentTierAnalysis{
			Tier:                  core.Tier3Minimal,
			Confidence:            100,
			Triggers:              []string{},
			Recommendation:        minimalRecommendation(),
			UserSelfAssessment:    false,
			SchemaReflectionDepth: core.SchemaDepthNone,
		}
	}

	structure := collectStructure(text)

	tier1Rules := []scoreRule{
		{"strong_cbt_signature", structure.CBTSignature >= 0.7, 10},
		{"schema_reflection_present", structure.SchemaReflection, 8},
		{"self_assessment_with_schema_depth", structure.SelfAssessment && structure.SchemaDepth != core.SchemaDepthNone, 7},
		{"partial_signature_with_self_assessment", structure.CBTSignature >= 0.4 && structure.SelfAssessment, 5},
	}
	if anyFires(tier1Rules) {
		confidence, triggers := foldRules(85, tier1Rules)
		analysis := core.ContentTierAnalysis{
			Tier:                  core.Tier1Premium,
			Confidence:            confidence,
			Triggers:              triggers,
			Recommendation:        premiumRecommendation(),
			UserSelfAssessment:    structure.SelfAssessment,
			SchemaReflectionDepth: structure.SchemaDepth,
		}
		logTier(analysis)
		return analysis
	}

	ctx := collectContext(text)

	tier3 := (ctx.BriefRequest && !ctx.ValidContext && ctx.Intensity < 2 && !structure.SelfAssessment) ||
		(!ctx.ValidContext && ctx.Intensity < 3 && ctx.Relevance < 3 && !structure.SelfAssessment)
	if tier3 {
		confidence, triggers := foldRules(60, []scoreRule{
			{"brief_request", ctx.BriefRequest, 10},
			{"neutral_context", ctx.NeutralContext, 8},
			{"low_emotional_intensity", ctx.Intensity < 2, 5},
			{"explicit_exclusion", ctx.ExclusionReason != "", 7},
			// A user who bothers to self-rate is never silently dropped to
			// minimal with low confidence.
			{"self_assessment_present", structure.SelfAssessment, 20},
		})
		analysis := core.ContentTierAnalysis{
			Tier:                  core.Tier3Minimal,
			Confidence:            confidence,
			Triggers:              triggers,
			Recommendation:        minimalRecommendation(),
			UserSelfAssessment:    structure.SelfAssessment,
			SchemaReflectionDepth: structure.SchemaDepth,
		}
		logTier(analysis)
		return analysis
	}

	confidence, triggers := foldRules(65, []scoreRule{
		{"relevance_high_band", ctx.Relevance >= 7, 10},
		{"relevance_mid_band", ctx.Relevance >= 5 && ctx.Relevance < 7, 7},
		{"relevance_low_band", ctx.Relevance < 5, 4},
		{"intensity_high_band", ctx.Intensity >= 6, 8},
		{"intensity_mid_band", ctx.Intensity >= 4 && ctx.Intensity < 6, 4},
		{"intensity_low_band", ctx.Intensity >= 2 && ctx.Intensity < 4, 2},
		{"high_therapeutic_relevance", ctx.Relevance >= 7, 5},
		{"multiple_stress_indicators", ctx.StressIndicators >= 2, 5},
		{"partial_cbt_signature", structure.CBTSignature >= 0.3 && structure.CBTSignature < 0.7, 5},
		{"self_assessment_present", structure.SelfAssessment, 8},
	})
	confidence = clampStandardConfidence(confidence, ctx)

	analysis := core.ContentTierAnalysis{
		Tier:                  core.Tier2Standard,
		Confidence:            confidence,
		Triggers:              triggers,
		Recommendation:        standardRecommendation(ctx, structure),
		UserSelfAssessment:    structure.SelfAssessment,
		SchemaReflectionDepth: structure.SchemaDepth,
	}
	logTier(analysis)
	return analysis
}

func anyFires(rules []scoreRule) bool {
	for _, rule := range rules {
		if rule.Fires {
			return true
		}
	}
	return false
}

// clampStandardConfidence re-bounds a tier-2 score by intensity band so a
// single strong sub-signal cannot over-represent overall confidence for
// borderline content. Low-arousal text caps at 72; high-arousal text (or a
// pile of stress indicators) floors at 81 and that floor wins over the
// 82/78 caps.
func clampStandardConfidence(confidence int, ctx contextSignals) int {
	switch {
	case ctx.Intensity <= 3:
		if confidence > 72 {
			confidence = 72
		}
	case ctx.Intensity >= 8 || ctx.StressIndicators >= 4:
		if confidence < 81 {
			confidence = 81
		}
	case ctx.Intensity >= 6:
		if confidence > 82 {
			confidence = 82
		}
	default:
		if confidence > 78 {
			confidence = 78
		}
	}
	return normalize.ClampConfidence(confidence)
}

func premiumRecommendation() core.AnalysisRecommendation {
	return core.AnalysisRecommendation{
		Depth:                       "full",
		AnalyzeCognitiveDistortions: true,
		AnalyzeSchemas:              true,
		GenerateActionItems:         true,
		GenerateInsights:            true,
		PrioritizeUserAssessments:   true,
	}
}

func standardRecommendation(ctx contextSignals, structure structureSignals) core.AnalysisRecommendation {
	return core.AnalysisRecommendation{
		Depth:                       "standard",
		AnalyzeCognitiveDistortions: ctx.ValidContext,
		AnalyzeSchemas:              ctx.Intensity >= 6 || structure.SchemaDepth != core.SchemaDepthNone,
		GenerateActionItems:         ctx.Intensity >= 5,
		GenerateInsights:            true,
		PrioritizeUserAssessments:   structure.SelfAssessment,
	}
}

// minimalRecommendation keeps every deep-analysis flag false. This is a hard
// product-safety invariant: brief or casual content must never be
// pathologized, regardless of how confidence was computed.
func minimalRecommendation() core.AnalysisRecommendation {
	return core.AnalysisRecommendation{Depth: "minimal"}
}

func logTier(analysis core.ContentTierAnalysis) {
	logger.Debug("content tier classified",
		"tier", string(analysis.Tier),
		"confidence", analysis.Confidence,
		"triggers", strings.Join(analysis.Triggers, ","))
}
