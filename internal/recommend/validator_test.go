package recommend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nubro999/AutoTrading/models"
)

func validRaw() map[string]any {
	return map[string]any{
		"recommendation": "buy",
		"confidence":     float64(7),
		"justification":  "momentum breakout with rising volume",
		"risk_level":     "medium",
	}
}

func TestValidateAcceptsWellFormedObject(t *testing.T) {
	rec, err := Validate(validRaw())
	require.NoError(t, err)

	assert.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, 7, rec.Confidence)
	assert.Equal(t, models.RiskMedium, rec.RiskLevel)
	assert.Equal(t, "momentum breakout with rising volume", rec.Justification)
	assert.Equal(t, "none", rec.NewsImpact)
	assert.NotNil(t, rec.KeyFactors)
	assert.Empty(t, rec.KeyFactors)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		kind   ValidationErrorKind
		field  string
	}{
		{
			name:   "missing recommendation",
			mutate: func(m map[string]any) { delete(m, "recommendation") },
			kind:   ErrKindMissingField,
			field:  "recommendation",
		},
		{
			name:   "missing confidence",
			mutate: func(m map[string]any) { delete(m, "confidence") },
			kind:   ErrKindMissingField,
			field:  "confidence",
		},
		{
			name:   "missing justification",
			mutate: func(m map[string]any) { delete(m, "justification") },
			kind:   ErrKindMissingField,
			field:  "justification",
		},
		{
			name:   "missing risk level",
			mutate: func(m map[string]any) { delete(m, "risk_level") },
			kind:   ErrKindMissingField,
			field:  "risk_level",
		},
		{
			name:   "unknown action",
			mutate: func(m map[string]any) { m["recommendation"] = "short" },
			kind:   ErrKindInvalidAction,
		},
		{
			name:   "non-string action",
			mutate: func(m map[string]any) { m["recommendation"] = 1 },
			kind:   ErrKindInvalidAction,
		},
		{
			name:   "confidence above range",
			mutate: func(m map[string]any) { m["confidence"] = float64(11) },
			kind:   ErrKindInvalidConfidence,
		},
		{
			name:   "confidence below range",
			mutate: func(m map[string]any) { m["confidence"] = float64(0) },
			kind:   ErrKindInvalidConfidence,
		},
		{
			name:   "non-numeric confidence",
			mutate: func(m map[string]any) { m["confidence"] = "high" },
			kind:   ErrKindInvalidConfidence,
		},
		{
			name:   "unknown risk level",
			mutate: func(m map[string]any) { m["risk_level"] = "extreme" },
			kind:   ErrKindInvalidRiskLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)

			rec, err := Validate(raw)
			assert.Nil(t, rec)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.kind, verr.Kind)
			if tt.field != "" {
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestValidateNilObject(t *testing.T) {
	rec, err := Validate(nil)
	assert.Nil(t, rec)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrKindNotObject, verr.Kind)
}

func TestValidateRoundsConfidence(t *testing.T) {
	raw := validRaw()
	raw["confidence"] = 6.6

	rec, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Confidence)
}

func TestValidateEmptyJustificationIsAdvisory(t *testing.T) {
	raw := validRaw()
	raw["justification"] = "   "

	rec, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "   ", rec.Justification)
}

func TestValidateOptionalFields(t *testing.T) {
	raw := validRaw()
	raw["news_impact"] = "positive regulatory news"
	raw["key_factors"] = []any{"volume spike", 42, "oversold RSI"}

	rec, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "positive regulatory news", rec.NewsImpact)
	assert.Equal(t, []string{"volume spike", "oversold RSI"}, rec.KeyFactors)
}

func TestValidateIsIdempotent(t *testing.T) {
	first, err := Validate(validRaw())
	require.NoError(t, err)

	again := map[string]any{
		"recommendation": string(first.Action),
		"confidence":     first.Confidence,
		"justification":  first.Justification,
		"risk_level":     string(first.RiskLevel),
		"news_impact":    first.NewsImpact,
		"key_factors":    first.KeyFactors,
	}

	second, err := Validate(again)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
