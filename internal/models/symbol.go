package models

import "gorm.io/gorm"

// Symbol represents a tradable instrument known to the journal.
type Symbol struct {
	gorm.Model
	Symbol      string `json:"symbol" gorm:"uniqueIndex"`
	Description string `json:"description"`
}
