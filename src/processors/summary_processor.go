// backend/src/processors/summary_processor.go
package processors

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/volumebets/backend/src/models"
	"github.com/username/volumebets/backend/src/utils"
)

type summaryProcessorImpl struct{}

// NewSummaryProcessor creates a new instance of SummaryProcessor.
func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessorImpl{}
}

// Summarize counts records and distinct categories, the covered date range
// and the money totals over present values.
func (p *summaryProcessorImpl) Summarize(sheet *models.BetSheet) models.DatasetSummary {
	summary := models.DatasetSummary{Columns: []string{}}
	if sheet == nil {
		return summary
	}
	summary.Columns = append(summary.Columns, sheet.Columns...)
	summary.Bets = len(sheet.Records)

	sports := make(map[string]struct{})
	betTypes := make(map[string]struct{})
	stake := decimal.Zero
	profit := decimal.Zero
	var first, last time.Time

	for i, rec := range sheet.Records {
		if rec.Sport != "" {
			sports[rec.Sport] = struct{}{}
		}
		if rec.BetType != "" {
			betTypes[rec.BetType] = struct{}{}
		}
		if rec.Stake != nil {
			stake = stake.Add(decimal.NewFromFloat(*rec.Stake))
		}
		if rec.Profit != nil {
			profit = profit.Add(decimal.NewFromFloat(*rec.Profit))
		}
		if i == 0 || rec.Date.Before(first) {
			first = rec.Date
		}
		if i == 0 || rec.Date.After(last) {
			last = rec.Date
		}
	}

	summary.Sports = len(sports)
	summary.BetTypes = len(betTypes)
	summary.TotalStake = stake.InexactFloat64()
	summary.TotalProfit = profit.InexactFloat64()
	if summary.Bets > 0 {
		summary.FirstDate = &first
		summary.LastDate = &last
	}
	return summary
}

// RankMarkets returns the n best and n worst aggregates, both in descending
// ROI order. A market that made the top list is never repeated as a worst one.
func (p *summaryProcessorImpl) RankMarkets(aggregates []models.GroupAggregate, n int) models.MarketRanking {
	ranking := models.MarketRanking{Top: []models.GroupAggregate{}, Worst: []models.GroupAggregate{}}
	if n < 1 {
		n = DefaultRankingSize
	}

	ordered := append([]models.GroupAggregate{}, aggregates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ROIPct > ordered[j].ROIPct
	})

	top := ordered[:utils.MinInt(n, len(ordered))]
	ranking.Top = append(ranking.Top, top...)

	inTop := make(map[string]struct{}, len(top))
	for _, agg := range top {
		inTop[agg.Key] = struct{}{}
	}

	for _, agg := range ordered[len(ordered)-utils.MinInt(n, len(ordered)):] {
		if _, ok := inTop[agg.Key]; ok {
			continue
		}
		ranking.Worst = append(ranking.Worst, agg)
	}
	return ranking
}
