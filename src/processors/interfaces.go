package processors

import (
	"github.com/username/volumebets/backend/src/models"
)

// DefaultMinBets is the smallest group size reported by the aggregates.
const DefaultMinBets = 30

// DefaultRankingSize is how many markets the best/worst rankings list.
const DefaultRankingSize = 3

// GroupProcessor computes per bet type or per sport totals.
type GroupProcessor interface {
	Compute(sheet *models.BetSheet, key models.GroupKey, minBets int) []models.GroupAggregate
}

// EquityProcessor builds the cumulative profit curve.
type EquityProcessor interface {
	Build(sheet *models.BetSheet) []models.EquityPoint
}

// AuditProcessor flags suspicious rows without excluding them.
type AuditProcessor interface {
	Audit(sheet *models.BetSheet) models.AuditReport
}

// SummaryProcessor produces the dataset overview and market rankings.
type SummaryProcessor interface {
	Summarize(sheet *models.BetSheet) models.DatasetSummary
	RankMarkets(aggregates []models.GroupAggregate, n int) models.MarketRanking
}
