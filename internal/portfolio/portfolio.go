package portfolio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/models"
)

// Manager reads balance state for the active coin and derives the
// profit/loss report. It never mutates balances; mutation happens only
// through the exchange's own order processing.
type Manager struct {
	market models.MarketGateway
	logger zerolog.Logger
}

// ProfitLoss is the unrealized P&L against the average buy price.
type ProfitLoss struct {
	ProfitLoss float64 `json:"profit_loss"` // KRW
	ProfitRate float64 `json:"profit_rate"` // percent
	Message    string  `json:"message"`
}

func NewManager(market models.MarketGateway) *Manager {
	return &Manager{
		market: market,
		logger: log.With().Str("component", "portfolio").Logger(),
	}
}

// Status fetches a fresh balance snapshot for the symbol. A nil snapshot
// is cycle-fatal for the caller.
func (m *Manager) Status(ctx context.Context, symbol string) (*models.InvestmentStatus, error) {
	status, err := m.market.GetBalances(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching balances: %w", err)
	}
	return status, nil
}

// ComputeProfitLoss reports unrealized P&L for the held position, or a
// zero report when nothing is held.
func (m *Manager) ComputeProfitLoss(status *models.InvestmentStatus) ProfitLoss {
	if status == nil || status.CoinBalance == 0 || status.AvgBuyPrice == 0 {
		return ProfitLoss{Message: "no position held"}
	}

	diff := status.CoinCurrentPrice - status.AvgBuyPrice
	pl := diff * status.CoinBalance
	rate := diff / status.AvgBuyPrice * 100

	label := "profit"
	if pl < 0 {
		label = "loss"
	}
	return ProfitLoss{
		ProfitLoss: pl,
		ProfitRate: rate,
		Message:    fmt.Sprintf("%s: %.0f KRW (%+.2f%%)", label, pl, rate),
	}
}

// LogStatus writes the current investment state at info level.
func (m *Manager) LogStatus(status *models.InvestmentStatus) {
	if status == nil {
		return
	}
	ev := m.logger.Info().
		Float64("krw_balance", status.KRWBalance).
		Float64("coin_balance", status.CoinBalance).
		Float64("coin_value", status.CoinValue).
		Float64("total_asset", status.TotalAsset)
	if status.AvgBuyPrice > 0 {
		pl := m.ComputeProfitLoss(status)
		ev = ev.Float64("avg_buy_price", status.AvgBuyPrice).Str("pnl", pl.Message)
	}
	ev.Msg("investment status")
}
