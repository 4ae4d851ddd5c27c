// backend/src/processors/equity_processor.go
package processors

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/username/volumebets/backend/src/models"
)

type equityProcessorImpl struct{}

// NewEquityProcessor creates a new instance of EquityProcessor.
func NewEquityProcessor() EquityProcessor {
	return &equityProcessorImpl{}
}

// Build returns the cumulative profit curve in date order. Same-day bets keep
// their file order. Points after the last bet that moved equity are dropped,
// unless no bet ever did.
func (p *equityProcessorImpl) Build(sheet *models.BetSheet) []models.EquityPoint {
	points := []models.EquityPoint{}
	if sheet.Len() == 0 || !sheet.HasColumn(models.ColDate) || !sheet.HasColumn(models.ColProfit) {
		return points
	}

	ordered := append([]models.BetRecord{}, sheet.Records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	equity := decimal.Zero
	runningMax := decimal.Zero
	lastChange := -1
	for i, rec := range ordered {
		profit := rec.ProfitOrZero()
		if profit != 0 {
			lastChange = i
		}

		equity = equity.Add(decimal.NewFromFloat(profit))
		if i == 0 || equity.GreaterThan(runningMax) {
			runningMax = equity
		}

		points = append(points, models.EquityPoint{
			Date:       rec.Date,
			Equity:     equity.InexactFloat64(),
			RunningMax: runningMax.InexactFloat64(),
			Drawdown:   equity.Sub(runningMax).InexactFloat64(),
		})
	}

	if lastChange >= 0 {
		points = points[:lastChange+1]
	}
	return points
}

// TrimLeadingFlat drops the points before equity first moves away from zero,
// so a displayed curve starts at the first real bankroll change.
func TrimLeadingFlat(points []models.EquityPoint) []models.EquityPoint {
	for i, pt := range points {
		if pt.Equity != 0 {
			return points[i:]
		}
	}
	return points
}

// SummarizeEquity reports final equity, worst drawdown and peak equity.
func SummarizeEquity(points []models.EquityPoint) models.EquityStats {
	var stats models.EquityStats
	if len(points) == 0 {
		return stats
	}
	stats.FinalEquity = points[len(points)-1].Equity
	stats.MaxDrawdown = points[0].Drawdown
	stats.PeakEquity = points[0].RunningMax
	for _, pt := range points[1:] {
		if pt.Drawdown < stats.MaxDrawdown {
			stats.MaxDrawdown = pt.Drawdown
		}
		if pt.RunningMax > stats.PeakEquity {
			stats.PeakEquity = pt.RunningMax
		}
	}
	return stats
}
