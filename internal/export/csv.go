// Package export renders journal data as CSV for download or archival.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/models"
)

const dateLayout = "2006-01-02"

var tradeHeader = []string{"id", "date", "symbol", "direction", "entry", "exit", "size", "pnl", "session", "notes"}

// WriteTrades writes one CSV row per trade. Optional fields render as empty
// cells.
func WriteTrades(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(tradeHeader); err != nil {
		return err
	}

	for _, t := range trades {
		exit := ""
		if t.Exit != nil {
			exit = f(*t.Exit)
		}
		session := ""
		if t.Session != nil {
			session = *t.Session
		}
		notes := ""
		if t.Notes != nil {
			notes = *t.Notes
		}

		row := []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.Date.Format(dateLayout),
			t.Symbol,
			t.Direction,
			f(t.Entry),
			exit,
			f(t.Size),
			f(t.PnL),
			session,
			notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEquityCurve writes the cumulative P&L series as CSV.
func WriteEquityCurve(w io.Writer, points []analytics.EquityPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "equity", "pnl"}); err != nil {
		return err
	}

	for _, p := range points {
		if err := cw.Write([]string{p.Date.Format(dateLayout), f(p.Equity), f(p.PnL)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
