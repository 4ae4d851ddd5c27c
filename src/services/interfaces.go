package services

import (
	"io"
	"time"

	"github.com/username/volumebets/backend/src/models"
)

// DatasetInfo describes a loaded export.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Filename string    `json:"filename"`
	Bets     int       `json:"bets"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loaded_at"`
}

// AnalysisService loads bet exports and serves the metrics computed from them.
type AnalysisService interface {
	Load(r io.Reader, filename string) (*DatasetInfo, error)
	LoadDefault(path string) (*DatasetInfo, error)
	Dataset(id string) (*DatasetInfo, error)
	Sheet(id string) (*models.BetSheet, error)
	Records(id string) ([]models.BetRecord, error)
	Summary(id string) (models.DatasetSummary, error)
	BetTypeStats(id string, minBets int) ([]models.GroupAggregate, error)
	SportStats(id string, minBets int) ([]models.GroupAggregate, error)
	EquityCurve(id string, trimLeading bool) (models.EquityCurve, error)
	Audit(id string) (models.AuditReport, error)
	Rankings(id string, minBets, n int) (models.MarketRanking, error)
}
