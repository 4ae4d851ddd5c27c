// backend/src/models/metrics.go
package models

import "time"

// GroupKey selects the categorical column aggregates are grouped by.
type GroupKey string

const (
	GroupByBetType GroupKey = ColBetType
	GroupBySport   GroupKey = ColSport
)

// Valid reports whether k names a supported grouping column.
func (k GroupKey) Valid() bool {
	return k == GroupByBetType || k == GroupBySport
}

// GroupAggregate holds the totals for one bet type or sport.
type GroupAggregate struct {
	Key         string   `json:"key"`
	Bets        int      `json:"bets"`
	StakeTotal  float64  `json:"stake_total"`
	ProfitTotal float64  `json:"profit_total"`
	WinRatePct  *float64 `json:"win_rate_pct"` // nil without a win/loss column or decided bets
	ROIPct      float64  `json:"roi_pct"`
}

// EquityPoint is one step of the cumulative profit curve.
type EquityPoint struct {
	Date       time.Time `json:"date"`
	Equity     float64   `json:"equity"`
	RunningMax float64   `json:"running_max"`
	Drawdown   float64   `json:"drawdown"`
}

// EquityStats summarizes an equity curve.
type EquityStats struct {
	FinalEquity float64 `json:"final_equity"`
	MaxDrawdown float64 `json:"max_drawdown"`
	PeakEquity  float64 `json:"peak_equity"`
}

// EquityCurve is the API shape of an equity curve.
type EquityCurve struct {
	Points []EquityPoint `json:"points"`
	Stats  EquityStats   `json:"stats"`
}

// DatasetSummary is the quick overview of a loaded export.
type DatasetSummary struct {
	Bets        int        `json:"bets"`
	Sports      int        `json:"sports"`
	BetTypes    int        `json:"bet_types"`
	FirstDate   *time.Time `json:"first_date"`
	LastDate    *time.Time `json:"last_date"`
	TotalStake  float64    `json:"total_stake"`
	TotalProfit float64    `json:"total_profit"`
	Columns     []string   `json:"columns"`
}

// MarketRanking lists the best and worst bet types by ROI.
type MarketRanking struct {
	Top   []GroupAggregate `json:"top"`
	Worst []GroupAggregate `json:"worst"`
}

// AuditRow is a record flagged by a data-quality check.
type AuditRow struct {
	Index  int       `json:"index"`
	Record BetRecord `json:"record"`
}

// AuditIssue is the outcome of one data-quality check.
type AuditIssue struct {
	Check  string     `json:"check"`
	Count  int        `json:"count"`
	Sample []AuditRow `json:"sample"`
}

// AuditReport groups all check outcomes for a dataset.
type AuditReport struct {
	Issues []AuditIssue `json:"issues"`
}

// Clean reports whether no check flagged any row.
func (r AuditReport) Clean() bool {
	for _, issue := range r.Issues {
		if issue.Count > 0 {
			return false
		}
	}
	return true
}
