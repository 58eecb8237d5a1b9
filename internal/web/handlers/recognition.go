package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/imaging"
	"github.com/facedeck/facedeck/internal/recognition"
	"github.com/facedeck/facedeck/internal/web/middleware"
)

const defaultLogsPageSize = 20

// RecognitionHandler handles identification and audit-trail endpoints.
// Every accepted capture also lands in the local recent-activity ring.
type RecognitionHandler struct {
	config  *config.Config
	history *recognition.History
}

// NewRecognitionHandler creates a new recognition handler
func NewRecognitionHandler(cfg *config.Config, history *recognition.History) *RecognitionHandler {
	return &RecognitionHandler{
		config:  cfg,
		history: history,
	}
}

// IdentifyResponse pairs the normalized result with its rendering so the
// frontend does not re-implement the status mapping.
type IdentifyResponse struct {
	Result       recognition.Result       `json:"result"`
	Presentation recognition.Presentation `json:"presentation"`
	EntryID      string                   `json:"entry_id,omitempty"`
}

type identifyRequest struct {
	Image     string  `json:"image"`
	Threshold float64 `json:"threshold"`
}

// Identify accepts a still image, as either a multipart upload or a JSON
// base64 payload, validates and resizes it locally, and submits it for
// identification.
func (h *RecognitionHandler) Identify(w http.ResponseWriter, r *http.Request) {
	data, threshold, ok := h.readImage(w, r)
	if !ok {
		return
	}

	resized, err := imaging.Resize(data, h.config.Limits.ResizeMaxDim, h.config.Limits.ResizeMaxDim, h.config.Limits.JPEGQuality)
	if err != nil {
		respondImagingError(w, err)
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	result, err := client.Identify(r.Context(), resized, threshold)
	if err != nil {
		respondBackendError(w, err, "identification failed")
		return
	}

	entry := h.history.Add(result, "upload")
	respondJSON(w, http.StatusOK, IdentifyResponse{
		Result:       result,
		Presentation: recognition.Present(result),
		EntryID:      entry.ID,
	})
}

// Webcam accepts a captured frame as a multipart upload and submits it on
// the webcam endpoint.
func (h *RecognitionHandler) Webcam(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readMultipartImage(w, r)
	if !ok {
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	result, err := client.IdentifyWebcam(r.Context(), data)
	if err != nil {
		respondBackendError(w, err, "identification failed")
		return
	}

	entry := h.history.Add(result, "webcam")
	respondJSON(w, http.StatusOK, IdentifyResponse{
		Result:       result,
		Presentation: recognition.Present(result),
		EntryID:      entry.ID,
	})
}

type verifyRequest struct {
	PersonID  string  `json:"person_id"`
	Image     string  `json:"image"`
	Threshold float64 `json:"threshold"`
}

// Verify checks an image against one specific person.
func (h *RecognitionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.PersonID == "" {
		respondError(w, http.StatusBadRequest, "person_id is required")
		return
	}

	data, err := imaging.FromBase64(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image data")
		return
	}
	if err := imaging.Validate("image", data, h.config.Limits.MaxUploadBytes); err != nil {
		respondImagingError(w, err)
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	result, err := client.Verify(r.Context(), req.PersonID, data, req.Threshold)
	if err != nil {
		respondBackendError(w, err, "verification failed")
		return
	}

	entry := h.history.Add(result, "verify")
	respondJSON(w, http.StatusOK, IdentifyResponse{
		Result:       result,
		Presentation: recognition.Present(result),
		EntryID:      entry.ID,
	})
}

// Logs returns a page of the backend's recognition audit trail.
func (h *RecognitionHandler) Logs(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = defaultLogsPageSize
	}
	status := r.URL.Query().Get("status")

	logs, err := client.RecognitionLogs(r.Context(), page, size, status)
	if err != nil {
		respondBackendError(w, err, "failed to get recognition logs")
		return
	}

	respondJSON(w, http.StatusOK, logs)
}

// Stats returns the backend's recognition summary.
func (h *RecognitionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	stats, err := client.RecognitionStats(r.Context())
	if err != nil {
		respondBackendError(w, err, "failed to get recognition stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// History returns the local recent-capture ring, newest first.
func (h *RecognitionHandler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.history.Recent())
}

// readImage extracts the image bytes from either a multipart form or a JSON
// base64 body, and validates them.
func (h *RecognitionHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, float64, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		data, ok := h.readMultipartImage(w, r)
		if !ok {
			return nil, 0, false
		}
		threshold, _ := strconv.ParseFloat(r.FormValue("threshold"), 64)
		return data, threshold, true
	}

	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return nil, 0, false
	}

	data, err := imaging.FromBase64(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image data")
		return nil, 0, false
	}
	if err := imaging.Validate("image", data, h.config.Limits.MaxUploadBytes); err != nil {
		respondImagingError(w, err)
		return nil, 0, false
	}
	return data, req.Threshold, true
}

func (h *RecognitionHandler) readMultipartImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	maxBytes := h.config.Limits.MaxUploadBytes
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return nil, false
	}

	if err := imaging.Validate(header.Filename, data, maxBytes); err != nil {
		respondImagingError(w, err)
		return nil, false
	}
	return data, true
}
