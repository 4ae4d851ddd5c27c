package processors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/volumebets/backend/src/models"
	"github.com/username/volumebets/backend/src/parsers/betsheet"
)

var fullColumns = []string{
	models.ColDate, models.ColBet, models.ColOdds, models.ColResult, models.ColWinLoss,
	models.ColStake, models.ColWinnings, models.ColBetType, models.ColSport,
	models.ColProfit, models.ColROIPct,
}

func day(n int) time.Time {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bet(n int, betType, sport, winLoss string, stake, profit float64) models.BetRecord {
	rec := models.BetRecord{
		Date:     day(n),
		Bet:      fmt.Sprintf("bet %d", n),
		WinLoss:  winLoss,
		Stake:    models.Float(stake),
		Winnings: models.Float(profit),
		Profit:   models.Float(profit),
		BetType:  betType,
		Sport:    sport,
	}
	if stake != 0 {
		rec.ROIPct = models.Float(profit / stake * 100)
	}
	return rec
}

func sheetOf(records ...models.BetRecord) *models.BetSheet {
	return &models.BetSheet{Columns: fullColumns, Records: records}
}

const scenarioHeader = "All Sports Bets 2025;;;\n01/01/2025;Starts at $0;;\n;;50;;\n" +
	"Date;Bet;Odds;Result;Win/Loss;Stake;Winnings;Unit Stake;Unit Winnings;ROI %;Bet Type;Sport;;\n"

// scenarioCSV builds an export with 35 winning and 5 losing Moneyline bets and
// 10 Spread bets, one dollar each.
func scenarioCSV() string {
	var b strings.Builder
	b.WriteString(scenarioHeader)
	for i := 0; i < 40; i++ {
		outcome, winnings := "Win", "1,00$"
		if i >= 35 {
			outcome, winnings = "Loss", "-1,00$"
		}
		fmt.Fprintf(&b, "%02d/02/2025;Moneyline %d;2,0;;%s;1,00$;%s;1;1;100%%;Moneyline;Basketball;;\n", i%28+1, i, outcome, winnings)
	}
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "%02d/03/2025;Spread %d;1,9;;Win;1,00$;0,90$;1;1;90%%;Spread;Basketball;;\n", i+1, i)
	}
	return b.String()
}

func TestGroupComputeEndToEnd(t *testing.T) {
	sheet, err := betsheet.NewParser().Parse(strings.NewReader(scenarioCSV()))
	require.NoError(t, err)
	require.Len(t, sheet.Records, 50)

	aggs := NewGroupProcessor().Compute(sheet, models.GroupByBetType, DefaultMinBets)
	require.Len(t, aggs, 1)

	ml := aggs[0]
	assert.Equal(t, "Moneyline", ml.Key)
	assert.Equal(t, 40, ml.Bets)
	assert.Equal(t, 40.0, ml.StakeTotal)
	assert.Equal(t, 30.0, ml.ProfitTotal)
	assert.Equal(t, 75.0, ml.ROIPct)
	require.NotNil(t, ml.WinRatePct)
	assert.Equal(t, 87.5, *ml.WinRatePct)
}

func TestGroupComputeThreshold(t *testing.T) {
	records := []models.BetRecord{}
	for i := 0; i < 30; i++ {
		records = append(records, bet(i, "Totals", "Soccer", "Win", 1, 0.5))
	}
	for i := 0; i < 29; i++ {
		records = append(records, bet(i, "Props", "Soccer", "Loss", 1, -1))
	}

	aggs := NewGroupProcessor().Compute(sheetOf(records...), models.GroupByBetType, 30)
	require.Len(t, aggs, 1)
	assert.Equal(t, "Totals", aggs[0].Key)
	assert.Equal(t, 30, aggs[0].Bets)

	aggs = NewGroupProcessor().Compute(sheetOf(records...), models.GroupByBetType, 29)
	assert.Len(t, aggs, 2)
}

func TestGroupComputeFiltersAndOrdering(t *testing.T) {
	sheet := sheetOf(
		bet(0, "B", "Tennis", "Win", 2, 1),
		bet(1, "A", "Tennis", "Loss", 2, 1),
		bet(2, "C", "Tennis", "win", 1, 2),
		bet(3, "", "Tennis", "Win", 1, 50),
		bet(4, "C", "Tennis", "Win", 0, 50),
		models.BetRecord{Date: day(5), Bet: "no stake", BetType: "C", Profit: models.Float(9)},
		bet(6, "D", "Tennis", "Push", 1, 0),
	)
	sheet.Records = append(sheet.Records, models.BetRecord{Date: day(7), Bet: "no profit", BetType: "D", Stake: models.Float(1), WinLoss: "Void"})

	aggs := NewGroupProcessor().Compute(sheet, models.GroupByBetType, 0)
	require.Len(t, aggs, 4)

	keys := []string{aggs[0].Key, aggs[1].Key, aggs[2].Key, aggs[3].Key}
	assert.Equal(t, []string{"C", "A", "B", "D"}, keys, "ROI desc, equal ROI in key order")

	assert.Equal(t, 1, aggs[0].Bets)
	assert.Equal(t, 200.0, aggs[0].ROIPct)

	d := aggs[3]
	assert.Equal(t, 2, d.Bets)
	assert.Equal(t, 2.0, d.StakeTotal)
	assert.Equal(t, 0.0, d.ProfitTotal)
	assert.Nil(t, d.WinRatePct, "push and void are not decided bets")
}

func TestGroupComputeExactSums(t *testing.T) {
	records := []models.BetRecord{}
	for i := 0; i < 10; i++ {
		records = append(records, bet(i, "Totals", "Soccer", "Win", 0.1, 0.1))
	}
	aggs := NewGroupProcessor().Compute(sheetOf(records...), models.GroupBySport, 1)
	require.Len(t, aggs, 1)
	assert.Equal(t, 1.0, aggs[0].StakeTotal)
	assert.Equal(t, 1.0, aggs[0].ProfitTotal)
	assert.Equal(t, 100.0, aggs[0].ROIPct)
}

func TestGroupComputeWithoutWinLossColumn(t *testing.T) {
	sheet := sheetOf(bet(0, "A", "Golf", "Win", 1, 1))
	sheet.Columns = []string{models.ColDate, models.ColBet, models.ColStake, models.ColWinnings, models.ColBetType, models.ColProfit, models.ColROIPct}

	aggs := NewGroupProcessor().Compute(sheet, models.GroupByBetType, 1)
	require.Len(t, aggs, 1)
	assert.Nil(t, aggs[0].WinRatePct)
}

func TestGroupComputeEmptyResults(t *testing.T) {
	gp := NewGroupProcessor()

	headerOnly, err := betsheet.NewParser().Parse(strings.NewReader(scenarioHeader))
	require.NoError(t, err)
	require.Empty(t, headerOnly.Records)

	assert.Empty(t, gp.Compute(headerOnly, models.GroupByBetType, DefaultMinBets))
	assert.Empty(t, gp.Compute(headerOnly, models.GroupBySport, DefaultMinBets))
	assert.Empty(t, NewEquityProcessor().Build(headerOnly))

	noSport := sheetOf(bet(0, "A", "Golf", "Win", 1, 1))
	noSport.Columns = []string{models.ColDate, models.ColBet, models.ColStake, models.ColBetType, models.ColProfit}
	assert.Empty(t, gp.Compute(noSport, models.GroupBySport, 1))
	assert.Empty(t, gp.Compute(sheetOf(), models.GroupKey("odds"), 1))
	assert.NotNil(t, gp.Compute(nil, models.GroupBySport, 1))
}

func TestGroupComputeDeterministic(t *testing.T) {
	sheet, err := betsheet.NewParser().Parse(strings.NewReader(scenarioCSV()))
	require.NoError(t, err)

	gp := NewGroupProcessor()
	first := gp.Compute(sheet, models.GroupBySport, 1)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, gp.Compute(sheet, models.GroupBySport, 1))
	}
}

func TestOrderByBets(t *testing.T) {
	aggs := []models.GroupAggregate{
		{Key: "a", Bets: 10, ROIPct: 9},
		{Key: "b", Bets: 40, ROIPct: 5},
		{Key: "c", Bets: 10, ROIPct: 1},
	}
	ordered := OrderByBets(aggs)
	assert.Equal(t, "b", ordered[0].Key)
	assert.Equal(t, "a", ordered[1].Key)
	assert.Equal(t, "c", ordered[2].Key)
	assert.Equal(t, "a", aggs[0].Key, "input left untouched")
}
