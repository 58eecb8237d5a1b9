package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facedeck/facedeck/internal/faceapi"
)

func TestPersonsList_SearchFiltersDiacritics(t *testing.T) {
	backend := setupMockBackend(t, map[string]http.HandlerFunc{
		"/persons": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": "p-1", "name": "Jiří Novák", "active": true},
				{"id": "p-2", "name": "Anna Svoboda", "active": true},
			})
		},
	})
	defer backend.Close()

	client := newBackendClient(t, backend)
	handler := NewPersonsHandler(testConfig(backend.URL))

	req := requestWithClient(t, http.MethodGet, "/api/v1/persons?search=jiri", nil, client)
	recorder := httptest.NewRecorder()

	handler.List(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var persons []faceapi.Person
	parseJSONResponse(t, recorder, &persons)
	if len(persons) != 1 || persons[0].Name != "Jiří Novák" {
		t.Errorf("expected diacritic-insensitive match, got %+v", persons)
	}
}

func TestPersonsGet_NotFound(t *testing.T) {
	backend := setupMockBackend(t, map[string]http.HandlerFunc{
		"/persons/missing": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Person not found"})
		},
	})
	defer backend.Close()

	client := newBackendClient(t, backend)
	handler := NewPersonsHandler(testConfig(backend.URL))

	req := requestWithClient(t, http.MethodGet, "/api/v1/persons/missing", nil, client)
	req = requestWithChiParams(req, map[string]string{"id": "missing"})
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "person not found")
}

func TestPersonsCreate_RequiresName(t *testing.T) {
	handler := NewPersonsHandler(testConfig("http://localhost:1"))

	body, _ := json.Marshal(map[string]string{"description": "no name"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/persons", bytes.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "name is required")
}

func TestPersonsCreate_Success(t *testing.T) {
	backend := setupMockBackend(t, map[string]http.HandlerFunc{
		"/persons": func(w http.ResponseWriter, r *http.Request) {
			var create faceapi.PersonCreate
			json.NewDecoder(r.Body).Decode(&create)
			json.NewEncoder(w).Encode(map[string]any{
				"id": "p-9", "name": create.Name, "active": true,
			})
		},
	})
	defer backend.Close()

	client := newBackendClient(t, backend)
	handler := NewPersonsHandler(testConfig(backend.URL))

	body, _ := json.Marshal(map[string]string{"name": "New Person"})
	req := requestWithClient(t, http.MethodPost, "/api/v1/persons", bytes.NewReader(body), client)
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)

	var person faceapi.Person
	parseJSONResponse(t, recorder, &person)
	if person.ID != "p-9" || person.Name != "New Person" {
		t.Errorf("unexpected person: %+v", person)
	}
}

func TestPersonsAddPhoto_RejectsNonImage(t *testing.T) {
	handler := NewPersonsHandler(testConfig("http://localhost:1"))

	body, contentType := multipartFileBody(t, "file", "notes.txt", []byte("plain text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/persons/p-1/photos", body)
	req.Header.Set("Content-Type", contentType)
	req = requestWithChiParams(req, map[string]string{"id": "p-1"})
	recorder := httptest.NewRecorder()

	handler.AddPhoto(recorder, req)

	assertStatusCode(t, recorder, http.StatusUnsupportedMediaType)
}

func TestPersonsAddPhoto_Success(t *testing.T) {
	var uploaded bool
	backend := setupMockBackend(t, map[string]http.HandlerFunc{
		"/persons/p-1/photos": func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(16 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if _, _, err := r.FormFile("file"); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			uploaded = true
			json.NewEncoder(w).Encode(map[string]any{
				"id": "p-1", "name": "Jiří Novák", "active": true, "photo_count": 3,
			})
		},
	})
	defer backend.Close()

	client := newBackendClient(t, backend)
	handler := NewPersonsHandler(testConfig(backend.URL))

	body, contentType := multipartFileBody(t, "file", "photo.jpg", makeTestJPEG(t))
	req := requestWithClient(t, http.MethodPost, "/api/v1/persons/p-1/photos", body, client)
	req.Header.Set("Content-Type", contentType)
	req = requestWithChiParams(req, map[string]string{"id": "p-1"})
	recorder := httptest.NewRecorder()

	handler.AddPhoto(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)
	if !uploaded {
		t.Error("expected upload forwarded to backend")
	}
}

func TestPersonsDelete_Success(t *testing.T) {
	backend := setupMockBackend(t, map[string]http.HandlerFunc{
		"/persons/p-1": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "p-1", "name": "Jiří Novák"})
		},
	})
	defer backend.Close()

	client := newBackendClient(t, backend)
	handler := NewPersonsHandler(testConfig(backend.URL))

	req := requestWithClient(t, http.MethodDelete, "/api/v1/persons/p-1", nil, client)
	req = requestWithChiParams(req, map[string]string{"id": "p-1"})
	recorder := httptest.NewRecorder()

	handler.Delete(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
}
