package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// Seed is the data a fresh journal starts with. Reference rows use
// FirstOrCreate keyed on their unique name; demo trades are only inserted
// into an empty trades table so a restart never duplicates them.
type Seed struct {
	Trades   []models.Trade
	Sessions []models.Session
	Symbols  []models.Symbol
	Settings models.Settings
}

// ApplySeed populates empty tables from the seed.
func ApplySeed(db *gorm.DB, seed Seed) error {
	for _, s := range seed.Sessions {
		session := s
		if err := db.FirstOrCreate(&session, models.Session{Name: s.Name}).Error; err != nil {
			return fmt.Errorf("failed to seed session '%s': %w", s.Name, err)
		}
	}

	for _, s := range seed.Symbols {
		symbol := s
		if err := db.FirstOrCreate(&symbol, models.Symbol{Symbol: s.Symbol}).Error; err != nil {
			return fmt.Errorf("failed to seed symbol '%s': %w", s.Symbol, err)
		}
	}

	var settingsCount int64
	if err := db.Model(&models.Settings{}).Count(&settingsCount).Error; err != nil {
		return fmt.Errorf("failed to count settings: %w", err)
	}
	if settingsCount == 0 {
		settings := seed.Settings
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	var tradeCount int64
	if err := db.Model(&models.Trade{}).Count(&tradeCount).Error; err != nil {
		return fmt.Errorf("failed to count trades: %w", err)
	}
	if tradeCount == 0 && len(seed.Trades) > 0 {
		trades := make([]models.Trade, len(seed.Trades))
		copy(trades, seed.Trades)
		if err := db.Create(&trades).Error; err != nil {
			return fmt.Errorf("failed to seed trades: %w", err)
		}
	}

	return nil
}

// DefaultSeed returns the demo data set shown before any real trades are
// recorded or synced.
func DefaultSeed(currency, timezone string) Seed {
	d := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	exit := func(v float64) *float64 { return &v }
	str := func(v string) *string { return &v }

	return Seed{
		Sessions: []models.Session{
			{Name: "London", Region: "Europe", Open: "08:00", Close: "16:30"},
			{Name: "New York", Region: "US", Open: "13:30", Close: "20:00"},
			{Name: "Tokyo", Region: "Asia", Open: "00:00", Close: "06:00"},
		},
		Symbols: []models.Symbol{
			{Symbol: "GBPUSD", Description: "British Pound / US Dollar"},
			{Symbol: "XAUUSD", Description: "Gold spot"},
			{Symbol: "NAS100", Description: "Nasdaq 100 index CFD"},
		},
		Settings: models.Settings{
			Currency:     currency,
			Timezone:     timezone,
			DefaultMonth: "Dec25",
		},
		Trades: []models.Trade{
			{
				Date: d("2025-12-05"), Symbol: "GBPUSD", Direction: models.DirectionLong,
				Entry: 1.2650, Exit: exit(1.2721), Size: 2, PnL: 284,
				Session: str("London"),
			},
			{
				Date: d("2025-12-12"), Symbol: "XAUUSD", Direction: models.DirectionShort,
				Entry: 2041.50, Exit: exit(2055.50), Size: 0.2, PnL: -280,
				Session: str("New York"), Notes: str("Stopped out on CPI spike"),
			},
			{
				Date: d("2025-12-18"), Symbol: "NAS100", Direction: models.DirectionLong,
				Entry: 16480, Exit: exit(16530), Size: 0.5, PnL: 250,
				Session: str("New York"),
			},
		},
	}
}
