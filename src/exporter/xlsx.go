// backend/src/exporter/xlsx.go
package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/username/volumebets/backend/src/models"
	"github.com/username/volumebets/backend/src/security/validation"
	"github.com/username/volumebets/backend/src/utils"
)

// Sheet names of the exported workbook, in tab order.
const (
	SheetRecords  = "Records"
	SheetBetTypes = "Bet Types"
	SheetSports   = "Sports"
	SheetEquity   = "Equity"
)

const dateLayout = "2006-01-02"

var (
	recordHeader    = []interface{}{"Date", "Bet", "Odds", "Result", "Win/Loss", "Stake", "Winnings", "Profit", "ROI %", "Bet Type", "Sport"}
	aggregateHeader = []interface{}{"Key", "Bets", "Stake Total", "Profit Total", "Win Rate %", "ROI %"}
	equityHeader    = []interface{}{"Date", "Equity", "Running Max", "Drawdown"}
)

// WriteWorkbook writes the records, both group aggregates and the equity curve
// as one XLSX workbook. Free text is sanitized against formula injection and
// numbers are rounded to cents.
func WriteWorkbook(w io.Writer, sheet *models.BetSheet, byType, bySport []models.GroupAggregate, curve []models.EquityPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRecords); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, name := range []string{SheetBetTypes, SheetSports, SheetEquity} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
	}

	records := []models.BetRecord{}
	if sheet != nil {
		records = sheet.Records
	}
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []interface{}{
			rec.Date.Format(dateLayout),
			validation.SanitizeCell(rec.Bet),
			optional(rec.Odds),
			validation.SanitizeCell(rec.Result),
			validation.SanitizeCell(rec.WinLoss),
			optional(rec.Stake),
			optional(rec.Winnings),
			optional(rec.Profit),
			optional(rec.ROIPct),
			validation.SanitizeCell(rec.BetType),
			validation.SanitizeCell(rec.Sport),
		})
	}
	if err := writeTable(f, SheetRecords, recordHeader, rows); err != nil {
		return err
	}

	if err := writeTable(f, SheetBetTypes, aggregateHeader, aggregateRows(byType)); err != nil {
		return err
	}
	if err := writeTable(f, SheetSports, aggregateHeader, aggregateRows(bySport)); err != nil {
		return err
	}

	rows = make([][]interface{}, 0, len(curve))
	for _, pt := range curve {
		rows = append(rows, []interface{}{
			pt.Date.Format(dateLayout),
			utils.RoundFloat(pt.Equity, 2),
			utils.RoundFloat(pt.RunningMax, 2),
			utils.RoundFloat(pt.Drawdown, 2),
		})
	}
	if err := writeTable(f, SheetEquity, equityHeader, rows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func aggregateRows(aggs []models.GroupAggregate) [][]interface{} {
	rows := make([][]interface{}, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []interface{}{
			validation.SanitizeCell(agg.Key),
			agg.Bets,
			utils.RoundFloat(agg.StakeTotal, 2),
			utils.RoundFloat(agg.ProfitTotal, 2),
			optional(agg.WinRatePct),
			utils.RoundFloat(agg.ROIPct, 2),
		})
	}
	return rows
}

func writeTable(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+1, err)
		}
	}
	return nil
}

// optional keeps a missing value as an empty cell.
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *utils.RoundPtr(v, 2)
}
