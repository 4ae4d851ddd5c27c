// backend/src/processors/audit_processor.go
package processors

import (
	"strings"

	"github.com/username/volumebets/backend/src/models"
)

// AuditSampleSize caps the example rows kept per check.
const AuditSampleSize = 10

// ROI bounds outside which a record is considered implausible.
const (
	MaxPlausibleROIPct = 300.0
	MinPlausibleROIPct = -200.0
)

// Names of the data-quality checks, in report order.
const (
	CheckWinsNegativeProfit  = "wins_negative_profit"
	CheckLossPositiveProfit  = "loss_positive_profit"
	CheckInvalidStake        = "invalid_stake"
	CheckWinWithZeroWinnings = "win_with_zero_winnings"
	CheckAbsurdROI           = "absurd_roi"
)

type auditCheck struct {
	name     string
	requires []string
	flag     func(rec models.BetRecord) bool
}

var auditChecks = []auditCheck{
	{
		name:     CheckWinsNegativeProfit,
		requires: []string{models.ColWinLoss, models.ColProfit},
		flag: func(rec models.BetRecord) bool {
			return isOutcome(rec, "win") && rec.Profit != nil && *rec.Profit < 0
		},
	},
	{
		name:     CheckLossPositiveProfit,
		requires: []string{models.ColWinLoss, models.ColProfit},
		flag: func(rec models.BetRecord) bool {
			return isOutcome(rec, "loss") && rec.Profit != nil && *rec.Profit > 0
		},
	},
	{
		name:     CheckInvalidStake,
		requires: []string{models.ColStake},
		flag: func(rec models.BetRecord) bool {
			return rec.Stake != nil && *rec.Stake <= 0
		},
	},
	{
		name:     CheckWinWithZeroWinnings,
		requires: []string{models.ColWinLoss, models.ColWinnings},
		flag: func(rec models.BetRecord) bool {
			return isOutcome(rec, "win") && rec.Winnings != nil && *rec.Winnings <= 0
		},
	},
	{
		name:     CheckAbsurdROI,
		requires: []string{models.ColROIPct},
		flag: func(rec models.BetRecord) bool {
			return rec.ROIPct != nil && (*rec.ROIPct > MaxPlausibleROIPct || *rec.ROIPct < MinPlausibleROIPct)
		},
	},
}

type auditProcessorImpl struct{}

// NewAuditProcessor creates a new instance of AuditProcessor.
func NewAuditProcessor() AuditProcessor {
	return &auditProcessorImpl{}
}

// Audit runs every check over the retained records. Flagged rows stay in the
// dataset; the report only counts them and keeps a short sample.
func (p *auditProcessorImpl) Audit(sheet *models.BetSheet) models.AuditReport {
	report := models.AuditReport{Issues: make([]models.AuditIssue, 0, len(auditChecks))}

	for _, check := range auditChecks {
		issue := models.AuditIssue{Check: check.name, Sample: []models.AuditRow{}}
		if hasAll(sheet, check.requires) {
			for i, rec := range sheet.Records {
				if !check.flag(rec) {
					continue
				}
				issue.Count++
				if len(issue.Sample) < AuditSampleSize {
					issue.Sample = append(issue.Sample, models.AuditRow{Index: i, Record: rec})
				}
			}
		}
		report.Issues = append(report.Issues, issue)
	}
	return report
}

func isOutcome(rec models.BetRecord, outcome string) bool {
	return strings.EqualFold(rec.WinLoss, outcome)
}

func hasAll(sheet *models.BetSheet, columns []string) bool {
	for _, col := range columns {
		if !sheet.HasColumn(col) {
			return false
		}
	}
	return true
}
