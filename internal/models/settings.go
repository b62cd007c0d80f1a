package models

import "gorm.io/gorm"

// Supported display currencies.
const (
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
)

// Settings holds display preferences for the dashboard.
// There should only ever be one row in this table.
type Settings struct {
	gorm.Model
	Currency     string `json:"currency"`
	Timezone     string `json:"timezone"` // display-only, not validated
	DefaultMonth string `json:"default_month"`
}
