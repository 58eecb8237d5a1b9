package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/facedeck/facedeck/internal/config"
	"github.com/facedeck/facedeck/internal/faceapi"
	"github.com/facedeck/facedeck/internal/imaging"
	"github.com/facedeck/facedeck/internal/nameutil"
	"github.com/facedeck/facedeck/internal/web/middleware"
)

const defaultPersonsPageSize = 50

// PersonsHandler handles person-registry endpoints
type PersonsHandler struct {
	config *config.Config
}

// NewPersonsHandler creates a new persons handler
func NewPersonsHandler(cfg *config.Config) *PersonsHandler {
	return &PersonsHandler{config: cfg}
}

// List returns registered persons. The optional search parameter filters by
// name, ignoring case and diacritics.
func (h *PersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultPersonsPageSize
	}
	search := r.URL.Query().Get("search")

	persons, err := client.ListPersons(r.Context(), skip, limit)
	if err != nil {
		respondBackendError(w, err, "failed to list persons")
		return
	}

	if search != "" {
		filtered := make([]faceapi.Person, 0, len(persons))
		for _, p := range persons {
			if nameutil.Matches(p.Name, search) {
				filtered = append(filtered, p)
			}
		}
		persons = filtered
	}

	respondJSON(w, http.StatusOK, persons)
}

// Get returns a single person
func (h *PersonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing person ID")
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	person, err := client.GetPerson(r.Context(), id)
	if err != nil {
		if faceapi.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "person not found")
			return
		}
		respondBackendError(w, err, "failed to get person")
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Create registers a new person
func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req faceapi.PersonCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	person, err := client.CreatePerson(r.Context(), req)
	if err != nil {
		respondBackendError(w, err, "failed to create person")
		return
	}

	respondJSON(w, http.StatusCreated, person)
}

// Update applies a partial update to a person
func (h *PersonsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing person ID")
		return
	}

	var req faceapi.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	person, err := client.UpdatePerson(r.Context(), id, req)
	if err != nil {
		if faceapi.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "person not found")
			return
		}
		respondBackendError(w, err, "failed to update person")
		return
	}

	respondJSON(w, http.StatusOK, person)
}

// Delete removes a person and their enrolled photos
func (h *PersonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing person ID")
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	if err := client.DeletePerson(r.Context(), id); err != nil {
		if faceapi.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "person not found")
			return
		}
		respondBackendError(w, err, "failed to delete person")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AddPhoto accepts an enrollment photo upload, validates it locally, and
// forwards it to the backend. Oversized or non-image uploads are rejected
// before any backend traffic happens.
func (h *PersonsHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing person ID")
		return
	}

	maxBytes := h.config.Limits.MaxUploadBytes
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	if err := imaging.Validate(header.Filename, data, maxBytes); err != nil {
		respondImagingError(w, err)
		return
	}

	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	person, err := client.AddPersonPhoto(r.Context(), id, header.Filename, bytes.NewReader(data))
	if err != nil {
		if faceapi.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "person not found")
			return
		}
		respondBackendError(w, err, "failed to add photo")
		return
	}

	respondJSON(w, http.StatusCreated, person)
}

// respondImagingError maps local validation failures to client errors.
func respondImagingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imaging.ErrUnsupportedType), errors.Is(err, imaging.ErrDecode):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
