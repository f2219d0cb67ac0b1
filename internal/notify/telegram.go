// Package notify pushes trade and error notifications to Telegram.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nubro999/AutoTrading/models"
)

// Notifier sends messages to a single Telegram chat. A nil Notifier is
// valid and drops every message, so wiring stays unconditional.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// New connects to the Telegram bot API. Returns an error when the token is
// rejected.
func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}

	return &Notifier{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "notify").Logger(),
	}, nil
}

// TradeExecuted announces a filled order.
func (n *Notifier) TradeExecuted(intent *models.TradeIntent, result *models.OrderResult) {
	if n == nil {
		return
	}

	var amount string
	if intent.Action == models.ActionBuy {
		amount = fmt.Sprintf("%.0f KRW", intent.Amount)
	} else {
		amount = fmt.Sprintf("%.8f %s", intent.Amount, intent.Symbol)
	}

	n.send(fmt.Sprintf("✅ %s %s\nAmount: %s\nOrder: %s",
		intent.Action, intent.Symbol, amount, result.UUID))
}

// CycleError announces a failed decision cycle.
func (n *Notifier) CycleError(symbol string, err error) {
	if n == nil {
		return
	}
	n.send(fmt.Sprintf("⚠️ cycle failed for %s: %v", symbol, err))
}

// DailySummary announces the day's aggregated decision stats.
func (n *Notifier) DailySummary(text string) {
	if n == nil {
		return
	}
	n.send(text)
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn().Err(err).Msg("failed to send telegram message")
	}
}
