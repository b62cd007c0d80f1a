// Package analytics computes derived performance views over journal trades.
//
// Every function here is pure: trades go in, plain values come out, the
// input slice is never mutated and no state is held between calls. Callers
// decide where the trades come from and what to do with the results.
package analytics

import (
	"errors"
	"sort"
	"time"

	"trading-journal-go/internal/models"
)

// ErrNoTrades is returned by ReportingMetrics when given no trades; best and
// worst single-trade P&L have no meaningful value over an empty sequence.
var ErrNoTrades = errors.New("analytics: no trades")

// monthTokenLayout renders a time as abbreviated month + 2-digit year,
// e.g. 2025-12-18 -> "Dec25".
const monthTokenLayout = "Jan06"

// dayKeyLayout is the grouping key for daily aggregation. Trades carry
// day-granularity dates; keying on the date rendering means a stray
// sub-day component can never split a day into two buckets.
const dayKeyLayout = "2006-01-02"

// MonthToken returns the calendar-month bucket label for a date.
func MonthToken(t time.Time) string {
	return t.Format(monthTokenLayout)
}

// SummaryStats holds the aggregate performance of a set of trades.
type SummaryStats struct {
	Net         float64 `json:"net"`
	TotalTrades int     `json:"total_trades"`
	WinRate     float64 `json:"win_rate"` // percent, 0-100
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"` // negative or zero
	Drawdown    float64 `json:"drawdown"` // negative or zero
}

// EquityPoint is one step of the cumulative P&L curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
	PnL    float64   `json:"pnl"`
}

// DailyPoint is the summed P&L of all trades sharing one calendar date.
type DailyPoint struct {
	Date time.Time `json:"date"`
	PnL  float64   `json:"pnl"`
}

// Metrics holds portfolio-level reporting figures.
type Metrics struct {
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
	Best         float64 `json:"best"`
	Worst        float64 `json:"worst"`
}

// FilterTrades keeps trades whose date falls in the month named by
// monthToken. With exitsOnly set, a trade must also have an exit price
// recorded or carry the exit-record flag. Relative order is preserved and an
// empty result is valid.
func FilterTrades(trades []models.Trade, monthToken string, exitsOnly bool) []models.Trade {
	filtered := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if MonthToken(t.Date) != monthToken {
			continue
		}
		if exitsOnly && !t.HasExit() {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// Summarize computes aggregate stats over the trades as given.
//
// Drawdown is measured over the input order; callers wanting chronological
// drawdown must sort by date ascending first. Trades with zero P&L count
// toward the total but belong to neither the win nor the loss bucket.
func Summarize(trades []models.Trade) SummaryStats {
	var stats SummaryStats
	stats.TotalTrades = len(trades)

	var wins, losses int
	var winSum, lossSum float64
	var equity, peak float64

	for _, t := range trades {
		stats.Net += t.PnL
		switch {
		case t.PnL > 0:
			wins++
			winSum += t.PnL
		case t.PnL < 0:
			losses++
			lossSum += t.PnL
		}

		equity += t.PnL
		if equity > peak {
			peak = equity
		}
		if dd := equity - peak; dd < stats.Drawdown {
			stats.Drawdown = dd
		}
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(wins) / float64(stats.TotalTrades) * 100
	}
	if wins > 0 {
		stats.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AvgLoss = lossSum / float64(losses)
	}
	return stats
}

// EquityCurve returns one cumulative-P&L point per trade, ordered by date
// ascending. The sort is stable, so same-date trades keep their arrival
// order. The input slice is not modified.
func EquityCurve(trades []models.Trade) []EquityPoint {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	curve := make([]EquityPoint, 0, len(ordered))
	var equity float64
	for _, t := range ordered {
		equity += t.PnL
		curve = append(curve, EquityPoint{Date: t.Date, Equity: equity, PnL: t.PnL})
	}
	return curve
}

// DailyPnL sums P&L per distinct calendar date and returns the series sorted
// by date ascending. Trades sharing a date simply add together.
func DailyPnL(trades []models.Trade) []DailyPoint {
	byDay := make(map[string]*DailyPoint, len(trades))
	for _, t := range trades {
		key := t.Date.Format(dayKeyLayout)
		if p, ok := byDay[key]; ok {
			p.PnL += t.PnL
			continue
		}
		byDay[key] = &DailyPoint{Date: t.Date, PnL: t.PnL}
	}

	series := make([]DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// ReportingMetrics computes portfolio-level figures over the trades.
//
// When there are no losing trades the profit factor saturates to the gross
// win sum itself rather than dividing by zero; downstream consumers depend
// on that exact fallback. An empty input returns ErrNoTrades.
func ReportingMetrics(trades []models.Trade) (Metrics, error) {
	if len(trades) == 0 {
		return Metrics{}, ErrNoTrades
	}

	var grossWin, grossLoss, net float64
	best, worst := trades[0].PnL, trades[0].PnL
	for _, t := range trades {
		net += t.PnL
		if t.PnL > 0 {
			grossWin += t.PnL
		} else if t.PnL < 0 {
			grossLoss += -t.PnL
		}
		if t.PnL > best {
			best = t.PnL
		}
		if t.PnL < worst {
			worst = t.PnL
		}
	}

	profitFactor := grossWin
	if grossLoss > 0 {
		profitFactor = grossWin / grossLoss
	}

	return Metrics{
		ProfitFactor: profitFactor,
		Expectancy:   net / float64(len(trades)),
		Best:         best,
		Worst:        worst,
	}, nil
}
