package execution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/internal/risk"
	"github.com/nubro999/AutoTrading/models"
)

// Rejection reasons reported in trade intents.
const (
	ReasonLowConfidence        = "low confidence"
	ReasonInsufficientFunds    = "insufficient funds"
	ReasonInsufficientHoldings = "insufficient holdings"
	ReasonHold                 = "hold recommended"
)

// Executor turns a validated recommendation into at most one trade intent
// per cycle. It gates on confidence, sizes the position, and checks
// feasibility against the balance snapshot. It never places orders itself.
type Executor struct {
	minConfidence  int
	minTradeAmount float64 // KRW minimum notional
	logger         zerolog.Logger
}

// New creates an Executor with the given confidence and notional gates.
func New(minConfidence int, minTradeAmount float64) *Executor {
	return &Executor{
		minConfidence:  minConfidence,
		minTradeAmount: minTradeAmount,
		logger:         log.With().Str("component", "executor").Logger(),
	}
}

// Evaluate runs one cycle of the execution state machine:
// Evaluating -> Rejected | Skipped | Executed. All three are valid
// non-error outcomes; only a missing recommendation or balance snapshot
// is a hard failure.
func (e *Executor) Evaluate(symbol string, rec *models.Recommendation, status *models.InvestmentStatus) (*models.TradeIntent, error) {
	if rec == nil {
		return nil, fmt.Errorf("missing recommendation")
	}
	if status == nil {
		return nil, fmt.Errorf("missing investment status")
	}

	// Confidence gate applies to every action, including hold.
	if rec.Confidence < e.minConfidence {
		e.logger.Info().
			Int("confidence", rec.Confidence).
			Int("min_confidence", e.minConfidence).
			Msg("skipping trade: not confident enough")
		return e.intent(symbol, rec.Action, 0, 0, models.IntentRejected, ReasonLowConfidence), nil
	}

	size := risk.Size(rec.RiskLevel, status)

	switch rec.Action {
	case models.ActionHold:
		// Holding is always feasible.
		return e.intent(symbol, rec.Action, 0, size.Ratio, models.IntentSkipped, ReasonHold), nil

	case models.ActionBuy:
		amount := size.MaxBuyAmount
		if status.KRWBalance < amount || amount < e.minTradeAmount {
			e.logger.Info().
				Float64("krw_balance", status.KRWBalance).
				Float64("amount", amount).
				Msg("buy not feasible")
			return e.intent(symbol, rec.Action, amount, size.Ratio, models.IntentRejected, ReasonInsufficientFunds), nil
		}
		e.logger.Info().
			Str("symbol", symbol).
			Float64("amount_krw", amount).
			Float64("ratio", size.Ratio).
			Msg("buy intent")
		return e.intent(symbol, rec.Action, amount, size.Ratio, models.IntentExecuted, "feasible"), nil

	case models.ActionSell:
		amount := size.MaxSellAmount
		notional := amount * status.CoinCurrentPrice
		if status.CoinBalance < amount || amount <= 0 || notional < e.minTradeAmount {
			e.logger.Info().
				Float64("coin_balance", status.CoinBalance).
				Float64("amount", amount).
				Float64("notional", notional).
				Msg("sell not feasible")
			return e.intent(symbol, rec.Action, amount, size.Ratio, models.IntentRejected, ReasonInsufficientHoldings), nil
		}
		e.logger.Info().
			Str("symbol", symbol).
			Float64("amount_coin", amount).
			Float64("ratio", size.Ratio).
			Msg("sell intent")
		return e.intent(symbol, rec.Action, amount, size.Ratio, models.IntentExecuted, "feasible"), nil

	default:
		return nil, fmt.Errorf("unknown action: %s", rec.Action)
	}
}

func (e *Executor) intent(symbol string, action models.Action, amount, ratio float64, state models.IntentState, reason string) *models.TradeIntent {
	return &models.TradeIntent{
		ID:           uuid.NewString(),
		Action:       action,
		Symbol:       symbol,
		Amount:       amount,
		RatioApplied: ratio,
		State:        state,
		Reason:       reason,
		CreatedAt:    time.Now(),
	}
}
