package handlers

import (
	"errors"
	"net/http"

	"satinsights-backend/internal/middleware"
	"satinsights-backend/internal/models"
	"satinsights-backend/internal/services"
)

type SatelliteHandler struct {
	sessions       sessionRepository
	insights       *services.InsightsService
	uploadMaxBytes int64
}

func NewSatelliteHandler(sessions sessionRepository, insights *services.InsightsService, uploadMaxBytes int64) *SatelliteHandler {
	return &SatelliteHandler{
		sessions:       sessions,
		insights:       insights,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func (h *SatelliteHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": services.SupportedFormats,
	})
}

// Preview returns the raw-data snippet for an upload without calling the model.
func (h *SatelliteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	dataset, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dataset.Preview())
}

func (h *SatelliteHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	dataset, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	summary, err := h.insights.Summarize(r.Context(), sessionID, dataset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SummaryResponse{
		DatasetPreview: dataset.Preview(),
		Summary:        summary,
	})
}

// multipartOverhead leaves room for boundaries and part headers so that
// uploadMaxBytes limits the file itself.
const multipartOverhead = 64 << 10

// readUpload writes the response itself and returns ok=false when there
// is nothing to process. A request without a file is a no-op (204).
func (h *SatelliteHandler) readUpload(w http.ResponseWriter, r *http.Request) (*services.Dataset, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid upload", r))
		}
		return nil, false
	}
	defer file.Close()

	if header.Size > h.uploadMaxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds upload limit", r))
		return nil, false
	}

	dataset, err := services.ReadDataset(file, header.Filename)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}

	return dataset, true
}
