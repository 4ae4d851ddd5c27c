// backend/src/handlers/dataset_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/username/volumebets/backend/src/exporter"
	"github.com/username/volumebets/backend/src/logger"
	"github.com/username/volumebets/backend/src/processors"
	"github.com/username/volumebets/backend/src/security/validation"
	"github.com/username/volumebets/backend/src/services"
	"github.com/username/volumebets/backend/src/utils"
)

// multipartOverhead is the room left for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 64 << 10

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DatasetHandler struct {
	analysisService services.AnalysisService
	maxUploadSize   int64
	metrics         *Metrics
}

func NewDatasetHandler(service services.AnalysisService, maxUploadSize int64, metrics *Metrics) *DatasetHandler {
	return &DatasetHandler{
		analysisService: service,
		maxUploadSize:   maxUploadSize,
		metrics:         metrics,
	}
}

func (h *DatasetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadSize)
		h.metrics.uploadRejectedFor("form")
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %s)", humanize.IBytes(uint64(h.maxUploadSize))), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		h.metrics.uploadRejectedFor("form")
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := validation.ValidateUploadSize(fileHeader.Size, h.maxUploadSize); err != nil {
		log.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", h.maxUploadSize)
		h.metrics.uploadRejectedFor("size")
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateFilename(fileHeader.Filename); err != nil {
		h.metrics.uploadRejectedFor("type")
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		h.metrics.uploadRejectedFor("type")
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		h.metrics.uploadRejectedFor("content")
		status := http.StatusBadRequest
		if !errors.Is(err, validation.ErrValidationFailed) {
			status = http.StatusInternalServerError
		}
		utils.SendJSONError(w, err.Error(), status)
		return
	}
	log.Debug("Upload validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	info, err := h.analysisService.Load(file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			log.Warn("Upload rejected by the bet sheet parser", "filename", fileHeader.Filename, "error", err)
			h.metrics.uploadRejectedFor("parse")
			utils.SendJSONError(w, fmt.Sprintf("Error parsing CSV file: %v", err), http.StatusBadRequest)
		} else {
			log.Error("Internal error loading upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}
	h.metrics.datasetLoaded()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/api/datasets/"+info.ID)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.Error("Error encoding JSON response for upload", "datasetID", info.ID, "error", err)
	}
}

func (h *DatasetHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, err := h.analysisService.Dataset(id)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, info)
}

func (h *DatasetHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.analysisService.Records(id)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, records)
}

func (h *DatasetHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, err := h.analysisService.Summary(id)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, summary)
}

func (h *DatasetHandler) HandleGetBetTypes(w http.ResponseWriter, r *http.Request) {
	minBets, err := positiveIntParam(r, "min_bets", processors.DefaultMinBets)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	aggs, err := h.analysisService.BetTypeStats(chi.URLParam(r, "id"), minBets)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, aggs)
}

func (h *DatasetHandler) HandleGetSports(w http.ResponseWriter, r *http.Request) {
	minBets, err := positiveIntParam(r, "min_bets", processors.DefaultMinBets)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	order := r.URL.Query().Get("order")
	if order != "" && order != "roi" && order != "bets" {
		utils.SendJSONError(w, fmt.Sprintf("invalid order '%s': use 'roi' or 'bets'", order), http.StatusBadRequest)
		return
	}

	aggs, err := h.analysisService.SportStats(chi.URLParam(r, "id"), minBets)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	if order == "bets" {
		aggs = processors.OrderByBets(aggs)
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, aggs)
}

func (h *DatasetHandler) HandleGetEquity(w http.ResponseWriter, r *http.Request) {
	trimLeading := false
	if raw := r.URL.Query().Get("trim_leading"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.SendJSONError(w, fmt.Sprintf("invalid trim_leading '%s': must be a boolean", raw), http.StatusBadRequest)
			return
		}
		trimLeading = parsed
	}

	curve, err := h.analysisService.EquityCurve(chi.URLParam(r, "id"), trimLeading)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, curve)
}

func (h *DatasetHandler) HandleGetMarkets(w http.ResponseWriter, r *http.Request) {
	minBets, err := positiveIntParam(r, "min_bets", processors.DefaultMinBets)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	top, err := positiveIntParam(r, "top", processors.DefaultRankingSize)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ranking, err := h.analysisService.Rankings(chi.URLParam(r, "id"), minBets, top)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, ranking)
}

func (h *DatasetHandler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	report, err := h.analysisService.Audit(chi.URLParam(r, "id"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	utils.WriteJSONWithETag(w, r, http.StatusOK, report)
}

func (h *DatasetHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	minBets, err := positiveIntParam(r, "min_bets", processors.DefaultMinBets)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sheet, err := h.analysisService.Sheet(id)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	byType, err := h.analysisService.BetTypeStats(id, minBets)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	bySport, err := h.analysisService.SportStats(id, minBets)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	curve, err := h.analysisService.EquityCurve(id, false)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, sheet, byType, bySport, curve.Points); err != nil {
		logger.FromContext(r.Context()).Error("Failed to build workbook", "datasetID", id, "error", err)
		utils.SendJSONError(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"volumebets-%s.xlsx\"", id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Error("Error writing workbook response", "datasetID", id, "error", err)
	}
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding health response", "error", err)
	}
}

func (h *DatasetHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrDatasetNotFound) {
		utils.SendJSONError(w, fmt.Sprintf("dataset '%s' not found", chi.URLParam(r, "id")), http.StatusNotFound)
		return
	}
	logger.FromContext(r.Context()).Error("Error retrieving dataset results", "path", r.URL.Path, "error", err)
	utils.SendJSONError(w, "An internal error occurred. Please try again later.", http.StatusInternalServerError)
}

// positiveIntParam reads an optional positive integer query parameter.
func positiveIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s '%s': must be a positive integer", name, raw)
	}
	return v, nil
}
