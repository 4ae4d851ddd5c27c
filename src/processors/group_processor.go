// backend/src/processors/group_processor.go
package processors

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/volumebets/backend/src/models"
)

var hundred = decimal.NewFromInt(100)

type groupProcessorImpl struct{}

// NewGroupProcessor creates a new instance of GroupProcessor.
func NewGroupProcessor() GroupProcessor {
	return &groupProcessorImpl{}
}

type groupTotals struct {
	bets   int
	stake  decimal.Decimal
	profit decimal.Decimal
	wins   int
	losses int
}

// Compute groups staked bets by key and returns the groups with at least
// minBets bets, best ROI first. Groups with equal ROI keep key order.
func (p *groupProcessorImpl) Compute(sheet *models.BetSheet, key models.GroupKey, minBets int) []models.GroupAggregate {
	result := []models.GroupAggregate{}
	if !key.Valid() || !sheet.HasColumn(string(key)) {
		return result
	}
	if minBets < 1 {
		minBets = 1
	}
	hasWinLoss := sheet.HasColumn(models.ColWinLoss)

	groups := make(map[string]*groupTotals)
	for _, rec := range sheet.Records {
		if !rec.HasStake() {
			continue
		}
		k := groupValue(rec, key)
		if k == "" {
			continue
		}

		g, ok := groups[k]
		if !ok {
			g = &groupTotals{stake: decimal.Zero, profit: decimal.Zero}
			groups[k] = g
		}
		g.bets++
		g.stake = g.stake.Add(decimal.NewFromFloat(*rec.Stake))
		if rec.Profit != nil {
			g.profit = g.profit.Add(decimal.NewFromFloat(*rec.Profit))
		}
		switch strings.ToLower(rec.WinLoss) {
		case "win":
			g.wins++
		case "loss":
			g.losses++
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		g := groups[k]
		if g.bets < minBets {
			continue
		}

		agg := models.GroupAggregate{
			Key:         k,
			Bets:        g.bets,
			StakeTotal:  g.stake.InexactFloat64(),
			ProfitTotal: g.profit.InexactFloat64(),
			ROIPct:      g.profit.Div(g.stake).Mul(hundred).InexactFloat64(),
		}
		if hasWinLoss && g.wins+g.losses > 0 {
			agg.WinRatePct = models.Float(float64(g.wins) / float64(g.wins+g.losses) * 100)
		}
		result = append(result, agg)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ROIPct > result[j].ROIPct
	})
	return result
}

// OrderByBets returns a copy of aggregates ordered by bet count, largest first.
func OrderByBets(aggregates []models.GroupAggregate) []models.GroupAggregate {
	ordered := append([]models.GroupAggregate{}, aggregates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Bets > ordered[j].Bets
	})
	return ordered
}

func groupValue(rec models.BetRecord, key models.GroupKey) string {
	switch key {
	case models.GroupByBetType:
		return rec.BetType
	case models.GroupBySport:
		return rec.Sport
	default:
		return ""
	}
}
