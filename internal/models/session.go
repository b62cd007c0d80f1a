package models

import "gorm.io/gorm"

// Session represents a named trading window, e.g. "London" or "Tokyo".
// Open and Close are local wall-clock strings; no timezone arithmetic is
// performed on them.
type Session struct {
	gorm.Model
	Name   string `json:"name" gorm:"uniqueIndex"`
	Region string `json:"region"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}
