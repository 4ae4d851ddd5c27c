// backend/src/models/bet.go
package models

import (
	"slices"
	"time"
)

// Canonical column names produced by the bet sheet loader.
const (
	ColDate     = "date"
	ColBet      = "bet"
	ColOdds     = "odds"
	ColResult   = "result"
	ColWinLoss  = "win_loss"
	ColStake    = "stake"
	ColWinnings = "winnings"
	ColBetType  = "bet_type"
	ColSport    = "sport"
	ColProfit   = "profit"
	ColROIPct   = "roi_pct"
)

// BetRecord is one cleaned row of a betting export. Money is in dollars.
// Optional numbers are nil when the source cell was empty or unparsable.
type BetRecord struct {
	Date     time.Time `json:"date"`
	Bet      string    `json:"bet"`
	Odds     *float64  `json:"odds"`
	Result   string    `json:"result"`
	WinLoss  string    `json:"win_loss"`
	Stake    *float64  `json:"stake"`
	Winnings *float64  `json:"winnings"` // net profit, not gross payout
	Profit   *float64  `json:"profit"`
	ROIPct   *float64  `json:"roi_pct"` // Profit / Stake * 100, recomputed
	BetType  string    `json:"bet_type"`
	Sport    string    `json:"sport"`
}

// HasStake reports whether the record can take part in ROI based aggregates.
func (r BetRecord) HasStake() bool {
	return r.Stake != nil && *r.Stake > 0
}

// ProfitOrZero returns the profit, counting a missing value as zero.
func (r BetRecord) ProfitOrZero() float64 {
	if r.Profit == nil {
		return 0
	}
	return *r.Profit
}

// BetSheet is the canonical record set of one loaded export together with
// the column schema the file provided. It is not modified after loading.
type BetSheet struct {
	Columns []string    `json:"columns"`
	Records []BetRecord `json:"records"`
}

// HasColumn reports whether the loaded file carried the given canonical column.
func (s *BetSheet) HasColumn(name string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Columns, name)
}

// Len returns the number of retained records.
func (s *BetSheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 {
	return &v
}
