package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/volumebets/backend/src/models"
)

func TestWriteWorkbook(t *testing.T) {
	date := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	sheet := &models.BetSheet{
		Columns: []string{models.ColDate, models.ColBet, models.ColStake, models.ColWinnings, models.ColProfit, models.ColROIPct},
		Records: []models.BetRecord{
			{Date: date, Bet: "=cmd|' /C calc'!A0", Stake: models.Float(0.3), Winnings: models.Float(0.28), Profit: models.Float(0.28), ROIPct: models.Float(93.333333), BetType: "Moneyline", Sport: "Basketball"},
			{Date: date, Bet: "Void"},
		},
	}
	byType := []models.GroupAggregate{{Key: "Moneyline", Bets: 40, StakeTotal: 40, ProfitTotal: 30, WinRatePct: models.Float(87.5), ROIPct: 75}}
	curve := []models.EquityPoint{{Date: date, Equity: 0.28, RunningMax: 0.28}}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sheet, byType, nil, curve))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRecords, SheetBetTypes, SheetSports, SheetEquity}, f.GetSheetList())

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2025-03-04", rows[1][0])
	assert.Equal(t, "'=cmd|' /C calc'!A0", rows[1][1])
	assert.Equal(t, "0.3", rows[1][5])
	assert.Equal(t, "93.33", rows[1][8])
	assert.Equal(t, "Void", rows[2][1])

	rows, err = f.GetRows(SheetBetTypes)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Moneyline", "40", "40", "30", "87.5", "75"}, rows[1])

	rows, err = f.GetRows(SheetSports)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	rows, err = f.GetRows(SheetEquity)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0.28", rows[1][1])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, nil, nil, nil))
	assert.NotZero(t, buf.Len())
}
