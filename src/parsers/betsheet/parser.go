// backend/src/parsers/betsheet/parser.go
package betsheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/username/volumebets/backend/src/logger"
	"github.com/username/volumebets/backend/src/models"
	"github.com/username/volumebets/backend/src/parsers"
	"github.com/username/volumebets/backend/src/utils"
)

// ErrLoad is returned when a file cannot be opened or has no usable header.
var ErrLoad = errors.New("bet sheet load failed")

// PreambleLines is the number of title/summary lines preceding the header.
const PreambleLines = 3

// knownColumns is the output order of the canonical schema. The export's own
// roi_pct, unit_stake and unit_winnings are in internal units and never read.
var knownColumns = []string{
	models.ColDate,
	models.ColBet,
	models.ColOdds,
	models.ColResult,
	models.ColWinLoss,
	models.ColStake,
	models.ColWinnings,
	models.ColBetType,
	models.ColSport,
}

// renames fixes header collisions seen in exports.
var renames = map[string]string{
	"roi__pct":  "roi_pct",
	"win_loss_": "win_loss",
}

var headerReplacer = strings.NewReplacer(" ", "_", "%", "_pct", "/", "_")

// Parser reads the semicolon separated "All Sports Bets" export.
type Parser struct{}

// NewParser creates a new instance of the Parser.
func NewParser() *Parser {
	return &Parser{}
}

var _ parsers.Parser = (*Parser)(nil)

// LoadFile opens path, parses it and always closes the file.
func LoadFile(path string) (*models.BetSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return NewParser().Parse(f)
}

// Parse reads the export and returns the cleaned records in file order.
// Rows with an unparsable date or no bet text are dropped silently.
func (p *Parser) Parse(file io.Reader) (*models.BetSheet, error) {
	br := bufio.NewReader(transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	for i := 0; i < PreambleLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: file ends before the header row", ErrLoad)
			}
			return nil, fmt.Errorf("%w: failed to read preamble: %w", ErrLoad, err)
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrLoad)
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %w", ErrLoad, err)
	}

	index := columnIndex(header)
	for _, required := range []string{models.ColDate, models.ColBet} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: header has no %q column", ErrLoad, required)
		}
	}

	sheet := &models.BetSheet{Columns: schema(index), Records: []models.BetRecord{}}
	dropped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV records: %w", ErrLoad, err)
		}

		rec, ok := buildRecord(row, index)
		if !ok {
			dropped++
			continue
		}
		sheet.Records = append(sheet.Records, rec)
	}

	logger.L.Debug("Bet sheet parsed", "records", len(sheet.Records), "droppedRows", dropped, "columns", sheet.Columns)
	return sheet, nil
}

func buildRecord(row []string, index map[string]int) (models.BetRecord, bool) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	date, err := utils.ParseDayFirst(cell(models.ColDate))
	if err != nil {
		return models.BetRecord{}, false
	}
	bet := strings.TrimSpace(cell(models.ColBet))
	if bet == "" {
		return models.BetRecord{}, false
	}

	rec := models.BetRecord{
		Date:     date,
		Bet:      bet,
		Odds:     parsers.OptionalNumber(cell(models.ColOdds)),
		Result:   strings.TrimSpace(cell(models.ColResult)),
		WinLoss:  strings.TrimSpace(cell(models.ColWinLoss)),
		Stake:    parsers.OptionalNumber(cell(models.ColStake)),
		Winnings: parsers.OptionalNumber(cell(models.ColWinnings)),
		BetType:  strings.TrimSpace(cell(models.ColBetType)),
		Sport:    strings.TrimSpace(cell(models.ColSport)),
	}

	// Winnings already hold the net profit; the stake is not subtracted.
	if rec.Winnings != nil {
		rec.Profit = models.Float(*rec.Winnings)
	}
	if rec.Profit != nil && rec.Stake != nil && *rec.Stake != 0 {
		if roi := *rec.Profit / *rec.Stake * 100; !math.IsInf(roi, 0) {
			rec.ROIPct = models.Float(roi)
		}
	}
	return rec, true
}

// columnIndex maps canonical names to positions, skipping unnamed columns.
// The first occurrence of a duplicated name wins.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "Unnamed") {
			continue
		}
		name := CanonicalColumnName(trimmed)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}

func schema(index map[string]int) []string {
	cols := make([]string, 0, len(knownColumns)+2)
	for _, col := range knownColumns {
		if _, ok := index[col]; ok {
			cols = append(cols, col)
		}
	}
	return append(cols, models.ColProfit, models.ColROIPct)
}

// CanonicalColumnName lowercases a header into snake_case: "Win/Loss" becomes
// "win_loss" and "ROI %" becomes "roi_pct".
func CanonicalColumnName(header string) string {
	s := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(header)))
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	if renamed, ok := renames[s]; ok {
		return renamed
	}
	return s
}
