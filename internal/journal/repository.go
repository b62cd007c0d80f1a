package journal

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("journal: not found")

// Repository is the gorm-backed store for trades and the reference data
// around them. Trades are append-only: the single permitted mutation is
// attaching a session label, and nothing deletes.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// CreateTrade records a new trade.
func (r *Repository) CreateTrade(trade *models.Trade) error {
	if err := r.db.Create(trade).Error; err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	r.logger.Info("Recorded trade",
		zap.Uint("trade_id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.Float64("pnl", trade.PnL),
	)
	return nil
}

// ListTrades returns all trades ordered by date ascending, creation order
// breaking ties. This is the ordering the analytics operations expect.
func (r *Repository) ListTrades() ([]models.Trade, error) {
	var trades []models.Trade
	if err := r.db.Order("date asc, id asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// AttachSession labels an existing trade with a session name. The name is a
// loose reference: it is not checked against the sessions table.
func (r *Repository) AttachSession(tradeID uint, session string) error {
	var trade models.Trade
	if err := r.db.First(&trade, tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
		}
		return fmt.Errorf("failed to load trade %d: %w", tradeID, err)
	}
	if err := r.db.Model(&trade).Update("session", session).Error; err != nil {
		return fmt.Errorf("failed to attach session to trade %d: %w", tradeID, err)
	}
	return nil
}

// ImportTrades stores trades fetched from the remote feed, keyed on their
// RemoteID so a repeated sync never duplicates a row. Trades already present
// are left untouched and nothing is ever deleted, so locally recorded trades
// survive every sync. Returns the number of newly created rows.
func (r *Repository) ImportTrades(trades []models.Trade) (int, error) {
	created := 0
	for _, t := range trades {
		if t.RemoteID == "" {
			continue // only feed trades carry a remote ID
		}
		var count int64
		if err := r.db.Model(&models.Trade{}).Where("remote_id = ?", t.RemoteID).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check for existing trade %q: %w", t.RemoteID, err)
		}
		if count > 0 {
			continue
		}
		trade := t
		if err := r.db.Create(&trade).Error; err != nil {
			return created, fmt.Errorf("failed to import trade %q: %w", t.RemoteID, err)
		}
		created++
	}
	return created, nil
}

// ListSessions returns all known trading sessions.
func (r *Repository) ListSessions() ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.Order("name asc").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// CreateSession adds a trading session. Names are unique.
func (r *Repository) CreateSession(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session '%s': %w", session.Name, err)
	}
	return nil
}

// ListSymbols returns all known instruments.
func (r *Repository) ListSymbols() ([]models.Symbol, error) {
	var symbols []models.Symbol
	if err := r.db.Order("symbol asc").Find(&symbols).Error; err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	return symbols, nil
}

// CreateSymbol adds an instrument. Symbols are unique.
func (r *Repository) CreateSymbol(symbol *models.Symbol) error {
	if err := r.db.Create(symbol).Error; err != nil {
		return fmt.Errorf("failed to create symbol '%s': %w", symbol.Symbol, err)
	}
	return nil
}

// GetSettings returns the single settings row.
func (r *Repository) GetSettings() (models.Settings, error) {
	var settings models.Settings
	if err := r.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Settings{}, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings overwrites the display preferences.
func (r *Repository) UpdateSettings(currency, timezone, defaultMonth string) (models.Settings, error) {
	settings, err := r.GetSettings()
	if err != nil {
		return models.Settings{}, err
	}
	updates := map[string]interface{}{
		"currency":      currency,
		"timezone":      timezone,
		"default_month": defaultMonth,
	}
	if err := r.db.Model(&settings).Updates(updates).Error; err != nil {
		return models.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
