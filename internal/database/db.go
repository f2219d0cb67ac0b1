// Package database persists decision and trade history to PostgreSQL.
package database

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"

	"github.com/nubro999/AutoTrading/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// DecisionRecord is one persisted decision cycle outcome.
type DecisionRecord struct {
	ID            int64
	Symbol        string
	Action        models.Action
	Confidence    int
	RiskLevel     models.RiskLevel
	Justification string
	Source        string // "advisor" or "fallback"
	FearGreed     int
	CurrentPrice  float64
	IntentState   models.IntentState
	IntentReason  string
	Amount        float64
	CreatedAt     time.Time
}

// DailySummary aggregates one day's decision history.
type DailySummary struct {
	Day       time.Time
	Decisions int
	Buys      int
	Sells     int
	Holds     int
	Executed  int
}

// New opens a connection using a PostgreSQL connection string and ensures
// the schema exists.
func New(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			action TEXT NOT NULL,
			confidence INT NOT NULL,
			risk_level TEXT NOT NULL,
			justification TEXT,
			source TEXT NOT NULL,
			fear_greed INT,
			current_price DOUBLE PRECISION,
			intent_state TEXT NOT NULL,
			intent_reason TEXT,
			amount DOUBLE PRECISION,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			order_uuid TEXT PRIMARY KEY,
			intent_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			price DOUBLE PRECISION,
			volume DOUBLE PRECISION,
			created_at TIMESTAMP NOT NULL
		)
	`)

	return err
}

// RecordDecision stores the outcome of one decision cycle.
func (db *DB) RecordDecision(rec DecisionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO decisions (
			symbol, action, confidence, risk_level, justification,
			source, fear_greed, current_price, intent_state, intent_reason,
			amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		rec.Symbol, rec.Action, rec.Confidence, rec.RiskLevel, rec.Justification,
		rec.Source, rec.FearGreed, rec.CurrentPrice, rec.IntentState, rec.IntentReason,
		rec.Amount, rec.CreatedAt)

	return err
}

// RecordOrder stores the exchange acknowledgement for an executed intent.
func (db *DB) RecordOrder(intent *models.TradeIntent, result *models.OrderResult) error {
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO orders (order_uuid, intent_id, symbol, side, price, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_uuid) DO NOTHING
	`, result.UUID, intent.ID, result.Market, result.Side, result.Price, result.Volume, createdAt)

	return err
}

// RecentDecisions returns the most recent decisions for a symbol, newest
// first. A nil slice means no history yet.
func (db *DB) RecentDecisions(symbol string, limit int) ([]DecisionRecord, error) {
	rows, err := db.Query(`
		SELECT
			id, symbol, action, confidence, risk_level, justification,
			source, fear_greed, current_price, intent_state, intent_reason,
			amount, created_at
		FROM decisions
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var justification, reason sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.Symbol, &rec.Action, &rec.Confidence, &rec.RiskLevel,
			&justification, &rec.Source, &rec.FearGreed, &rec.CurrentPrice,
			&rec.IntentState, &reason, &rec.Amount, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Justification = justification.String
		rec.IntentReason = reason.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Summary aggregates today's decisions. Returns nil when the table has no
// rows for today.
func (db *DB) Summary(day time.Time) (*DailySummary, error) {
	var s DailySummary
	s.Day = day

	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE action = 'buy'),
			COUNT(*) FILTER (WHERE action = 'sell'),
			COUNT(*) FILTER (WHERE action = 'hold'),
			COUNT(*) FILTER (WHERE intent_state = 'executed')
		FROM decisions
		WHERE created_at >= $1 AND created_at < $2
	`, day.Truncate(24*time.Hour), day.Truncate(24*time.Hour).Add(24*time.Hour)).Scan(
		&s.Decisions, &s.Buys, &s.Sells, &s.Holds, &s.Executed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if s.Decisions == 0 {
		return nil, nil
	}

	return &s, nil
}
