// backend/src/services/analysis_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/volumebets/backend/src/logger"
	"github.com/username/volumebets/backend/src/models"
	"github.com/username/volumebets/backend/src/parsers"
	"github.com/username/volumebets/backend/src/processors"
)

const (
	// Loaded datasets, keyed by dataset ID
	ckDataset = "dataset_%s"

	// Derived results, keyed by dataset ID and parameters
	ckSummary     = "res_summary_%s"
	ckGroupStats  = "res_group_%s_%s_min_%d"
	ckEquityCurve = "res_equity_%s_trim_%t"
	ckAudit       = "res_audit_%s"
	ckRankings    = "res_rankings_%s_min_%d_top_%d"

	DefaultCacheExpiration = 30 * time.Minute
	CacheCleanupInterval   = 60 * time.Minute
)

// datasetNamespace seeds the content-derived dataset IDs.
var datasetNamespace = uuid.MustParse("8d3c6a52-4f1e-5b7a-9c20-6e5d4b3a2f10")

type dataset struct {
	info  DatasetInfo
	sheet *models.BetSheet
}

type analysisServiceImpl struct {
	parser           parsers.Parser
	groupProcessor   processors.GroupProcessor
	equityProcessor  processors.EquityProcessor
	auditProcessor   processors.AuditProcessor
	summaryProcessor processors.SummaryProcessor
	reportCache      *cache.Cache
	expiration       time.Duration
}

func NewAnalysisService(
	parser parsers.Parser,
	groupProcessor processors.GroupProcessor,
	equityProcessor processors.EquityProcessor,
	auditProcessor processors.AuditProcessor,
	summaryProcessor processors.SummaryProcessor,
	reportCache *cache.Cache,
	expiration time.Duration,
) AnalysisService {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &analysisServiceImpl{
		parser:           parser,
		groupProcessor:   groupProcessor,
		equityProcessor:  equityProcessor,
		auditProcessor:   auditProcessor,
		summaryProcessor: summaryProcessor,
		reportCache:      reportCache,
		expiration:       expiration,
	}
}

// Load reads the whole export once and caches the parsed sheet under an ID
// derived from its bytes, so uploading the same file twice yields the same ID.
func (s *analysisServiceImpl) Load(r io.Reader, filename string) (*DatasetInfo, error) {
	startTime := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %w", ErrParsingFailed, err)
	}

	id := uuid.NewSHA1(datasetNamespace, data).String()
	key := fmt.Sprintf(ckDataset, id)
	if cached, found := s.reportCache.Get(key); found {
		ds := cached.(*dataset)
		s.reportCache.Set(key, ds, s.expiration)
		logger.L.Info("Dataset already loaded", "datasetID", id, "filename", filename)
		info := ds.info
		return &info, nil
	}

	sheet, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	ds := &dataset{
		info: DatasetInfo{
			ID:       id,
			Filename: filename,
			Bets:     sheet.Len(),
			Columns:  sheet.Columns,
			LoadedAt: time.Now().UTC(),
		},
		sheet: sheet,
	}
	s.reportCache.Set(key, ds, s.expiration)

	logger.L.Info("Dataset loaded", "datasetID", id, "filename", filename, "records", sheet.Len(), "bytes", len(data), "duration", time.Since(startTime))
	info := ds.info
	return &info, nil
}

// LoadDefault loads the export at path, used to preload the example dataset.
func (s *analysisServiceImpl) LoadDefault(path string) (*DatasetInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening default dataset: %w", err)
	}
	defer f.Close()
	return s.Load(f, filepath.Base(path))
}

func (s *analysisServiceImpl) getDataset(id string) (*dataset, error) {
	cached, found := s.reportCache.Get(fmt.Sprintf(ckDataset, id))
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return cached.(*dataset), nil
}

func (s *analysisServiceImpl) Dataset(id string) (*DatasetInfo, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return nil, err
	}
	info := ds.info
	return &info, nil
}

func (s *analysisServiceImpl) Sheet(id string) (*models.BetSheet, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return nil, err
	}
	return ds.sheet, nil
}

func (s *analysisServiceImpl) Records(id string) ([]models.BetRecord, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return nil, err
	}
	return ds.sheet.Records, nil
}

// cached returns the value stored under key, computing and storing it on a miss.
func cached[T any](s *analysisServiceImpl, key string, compute func() T) T {
	if hit, found := s.reportCache.Get(key); found {
		logger.L.Debug("Cache hit", "key", key)
		return hit.(T)
	}
	logger.L.Debug("Cache miss, computing", "key", key)
	value := compute()
	s.reportCache.Set(key, value, s.expiration)
	return value
}

func (s *analysisServiceImpl) Summary(id string) (models.DatasetSummary, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return models.DatasetSummary{}, err
	}
	return cached(s, fmt.Sprintf(ckSummary, id), func() models.DatasetSummary {
		return s.summaryProcessor.Summarize(ds.sheet)
	}), nil
}

func (s *analysisServiceImpl) groupStats(id string, key models.GroupKey, minBets int) ([]models.GroupAggregate, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return nil, err
	}
	return cached(s, fmt.Sprintf(ckGroupStats, id, key, minBets), func() []models.GroupAggregate {
		return s.groupProcessor.Compute(ds.sheet, key, minBets)
	}), nil
}

func (s *analysisServiceImpl) BetTypeStats(id string, minBets int) ([]models.GroupAggregate, error) {
	return s.groupStats(id, models.GroupByBetType, minBets)
}

func (s *analysisServiceImpl) SportStats(id string, minBets int) ([]models.GroupAggregate, error) {
	return s.groupStats(id, models.GroupBySport, minBets)
}

func (s *analysisServiceImpl) EquityCurve(id string, trimLeading bool) (models.EquityCurve, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return models.EquityCurve{}, err
	}
	return cached(s, fmt.Sprintf(ckEquityCurve, id, trimLeading), func() models.EquityCurve {
		points := s.equityProcessor.Build(ds.sheet)
		if trimLeading {
			points = processors.TrimLeadingFlat(points)
		}
		return models.EquityCurve{Points: points, Stats: processors.SummarizeEquity(points)}
	}), nil
}

func (s *analysisServiceImpl) Audit(id string) (models.AuditReport, error) {
	ds, err := s.getDataset(id)
	if err != nil {
		return models.AuditReport{}, err
	}
	return cached(s, fmt.Sprintf(ckAudit, id), func() models.AuditReport {
		report := s.auditProcessor.Audit(ds.sheet)
		for _, issue := range report.Issues {
			if issue.Count > 0 {
				logger.L.Warn("Data-quality check flagged rows", "datasetID", id, "check", issue.Check, "count", issue.Count)
			}
		}
		return report
	}), nil
}

func (s *analysisServiceImpl) Rankings(id string, minBets, n int) (models.MarketRanking, error) {
	if n < 1 {
		n = processors.DefaultRankingSize
	}
	byType, err := s.BetTypeStats(id, minBets)
	if err != nil {
		return models.MarketRanking{}, err
	}
	return cached(s, fmt.Sprintf(ckRankings, id, minBets, n), func() models.MarketRanking {
		return s.summaryProcessor.RankMarkets(byType, n)
	}), nil
}
