package recommend

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/models"
)

var requiredFields = []string{"recommendation", "confidence", "justification", "risk_level"}

// Validate normalizes a raw recommendation object into a Recommendation.
// Rules are checked in order and short-circuit; missing optional fields
// get documented defaults. Validating an already valid object is a no-op.
func Validate(raw map[string]any) (*models.Recommendation, error) {
	if raw == nil {
		return nil, &ValidationError{Kind: ErrKindNotObject}
	}

	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, &ValidationError{Kind: ErrKindMissingField, Field: field}
		}
	}

	action, ok := raw["recommendation"].(string)
	if !ok || !validAction(action) {
		return nil, &ValidationError{Kind: ErrKindInvalidAction, Value: raw["recommendation"]}
	}

	confidence, ok := asConfidence(raw["confidence"])
	if !ok {
		return nil, &ValidationError{Kind: ErrKindInvalidConfidence, Value: raw["confidence"]}
	}

	riskLevel, ok := raw["risk_level"].(string)
	if !ok || !validRiskLevel(riskLevel) {
		return nil, &ValidationError{Kind: ErrKindInvalidRiskLevel, Value: raw["risk_level"]}
	}

	justification, _ := raw["justification"].(string)
	if strings.TrimSpace(justification) == "" {
		// Advisory text only: flag it, keep the recommendation.
		log.Warn().Str("component", "validator").Msg("recommendation has empty justification")
	}

	rec := &models.Recommendation{
		Action:        models.Action(action),
		Confidence:    confidence,
		RiskLevel:     models.RiskLevel(riskLevel),
		Justification: justification,
		NewsImpact:    "none",
		KeyFactors:    []string{},
	}

	if impact, ok := raw["news_impact"].(string); ok && impact != "" {
		rec.NewsImpact = impact
	}
	if factors, ok := raw["key_factors"].([]any); ok {
		for _, f := range factors {
			if s, ok := f.(string); ok {
				rec.KeyFactors = append(rec.KeyFactors, s)
			}
		}
	}
	if factors, ok := raw["key_factors"].([]string); ok {
		rec.KeyFactors = append(rec.KeyFactors, factors...)
	}

	return rec, nil
}

func validAction(action string) bool {
	switch models.Action(action) {
	case models.ActionBuy, models.ActionSell, models.ActionHold:
		return true
	}
	return false
}

func validRiskLevel(level string) bool {
	switch models.RiskLevel(level) {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
		return true
	}
	return false
}

// asConfidence accepts the numeric representations JSON decoding produces
// and rounds to the nearest integer. Anything outside [1,10] is rejected,
// never coerced.
func asConfidence(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if f < 1 || f > 10 {
		return 0, false
	}
	return int(math.Round(f)), true
}
