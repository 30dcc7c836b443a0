package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"caredash/internal/models"
	"caredash/internal/render"
	"caredash/internal/store"
)

// fakeStore implements store.SessionStore in memory, honouring the
// date-ascending contract of ListSessions.
type fakeStore struct {
	sessions  []models.Session
	listErr   error
	getErr    error
	updateErr error
	pingErr   error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListSessions(context.Context) ([]models.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Session, len(f.sessions))
	copy(out, f.sessions)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStore) GetSession(_ context.Context, id int64) (models.Session, error) {
	if f.getErr != nil {
		return models.Session{}, f.getErr
	}
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (f *fakeStore) UpdateSessionStatus(_ context.Context, id int64, status string) (models.Session, error) {
	if f.updateErr != nil {
		return models.Session{}, f.updateErr
	}
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].Status = status
			return f.sessions[i], nil
		}
	}
	return models.Session{}, store.ErrSessionNotFound
}

func testSessions() []models.Session {
	ana := models.Therapist{ID: 1, Name: "Ana Moreno"}
	ben := models.Therapist{ID: 2, Name: "Ben Okafor"}
	elena := models.Patient{ID: 1, Name: "Elena Ruiz"}
	farah := models.Patient{ID: 2, Name: "Farah Haddad"}

	return []models.Session{
		{
			ID:          2,
			Date:        time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
			Status:      models.StatusCompleted,
			TherapistID: ben.ID,
			PatientID:   farah.ID,
			Therapist:   ben,
			Patient:     farah,
		},
		{
			ID:          1,
			Date:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Status:      models.StatusScheduled,
			TherapistID: ana.ID,
			PatientID:   elena.ID,
			Therapist:   ana,
			Patient:     elena,
		},
		{
			ID:          3,
			Date:        time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			Status:      models.StatusScheduled,
			TherapistID: ana.ID,
			PatientID:   farah.ID,
			Therapist:   ana,
			Patient:     farah,
		},
	}
}

func newTestServer(t *testing.T, fs *fakeStore) http.Handler {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New() error = %v", err)
	}

	h, err := New(Options{Store: fs, Renderer: renderer})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h.Routes()
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return payload.Error
}

func TestListSessionsEmpty(t *testing.T) {
	handler := newTestServer(t, &fakeStore{})

	rec := doRequest(t, handler, http.MethodGet, "/api/sessions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestListSessionsOrderedAndFlattened(t *testing.T) {
	handler := newTestServer(t, &fakeStore{sessions: testSessions()})

	rec := doRequest(t, handler, http.MethodGet, "/api/sessions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []models.FlatSession
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	wantIDs := []int64{1, 3, 2}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Fatalf("row %d id = %d, want %d (date-ascending order)", i, got[i].ID, want)
		}
		if !got[i].Date.Before(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("row %d has unexpected date %v", i, got[i].Date)
		}
	}

	first := got[0]
	if first.TherapistName != "Ana Moreno" || first.PatientName != "Elena Ruiz" {
		t.Fatalf("flattened names = %q/%q", first.TherapistName, first.PatientName)
	}
	if first.Therapist.ID != 1 || first.Patient.ID != 1 {
		t.Fatalf("nested records = %+v / %+v", first.Therapist, first.Patient)
	}
}

func TestListSessionsStoreFailure(t *testing.T) {
	handler := newTestServer(t, &fakeStore{listErr: context.DeadlineExceeded})

	rec := doRequest(t, handler, http.MethodGet, "/api/sessions", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := decodeError(t, rec); got != msgFetchFailed {
		t.Fatalf("error = %q, want %q", got, msgFetchFailed)
	}
}

func TestUpdateSessionGuards(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		body      string
		wantCode  int
		wantError string
	}{
		{
			name:      "non-numeric id",
			target:    "/api/sessions/abc",
			body:      `{"status":"Completed"}`,
			wantCode:  http.StatusBadRequest,
			wantError: msgInvalidSessionID,
		},
		{
			name:      "unknown status value",
			target:    "/api/sessions/1",
			body:      `{"status":"Done"}`,
			wantCode:  http.StatusBadRequest,
			wantError: msgInvalidStatus,
		},
		{
			name:      "missing status",
			target:    "/api/sessions/1",
			body:      `{}`,
			wantCode:  http.StatusBadRequest,
			wantError: msgInvalidStatus,
		},
		{
			name:      "malformed body",
			target:    "/api/sessions/1",
			body:      `{"status"`,
			wantCode:  http.StatusBadRequest,
			wantError: msgInvalidStatus,
		},
		{
			name:      "nonexistent id",
			target:    "/api/sessions/999999",
			body:      `{"status":"Completed"}`,
			wantCode:  http.StatusNotFound,
			wantError: msgSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(t, &fakeStore{sessions: testSessions()})

			rec := doRequest(t, handler, http.MethodPatch, tt.target, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := decodeError(t, rec); got != tt.wantError {
				t.Fatalf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestUpdateSessionCompletes(t *testing.T) {
	fs := &fakeStore{sessions: testSessions()}
	handler := newTestServer(t, fs)

	before, err := fs.GetSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("seed lookup: %v", err)
	}

	rec := doRequest(t, handler, http.MethodPatch, "/api/sessions/1", `{"status":"Completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got models.FlatSession
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if got.Status != models.StatusCompleted {
		t.Fatalf("status = %q, want %q", got.Status, models.StatusCompleted)
	}
	if got.ID != before.ID ||
		got.TherapistName != before.Therapist.Name ||
		got.PatientName != before.Patient.Name ||
		!got.Date.Equal(before.Date) ||
		got.Therapist.ID != before.Therapist.ID ||
		got.Patient.ID != before.Patient.ID {
		t.Fatalf("fields changed beyond status: %+v", got)
	}

	after, err := fs.GetSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("lookup after update: %v", err)
	}
	if after.Status != models.StatusCompleted {
		t.Fatalf("store status = %q, want %q", after.Status, models.StatusCompleted)
	}
}

func TestUpdateSessionIdempotent(t *testing.T) {
	fs := &fakeStore{sessions: testSessions()}
	handler := newTestServer(t, fs)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, handler, http.MethodPatch, "/api/sessions/1", `{"status":"Completed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d status = %d, want %d: %s", i+1, rec.Code, http.StatusOK, rec.Body.String())
		}
		var got models.FlatSession
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("call %d decode: %v", i+1, err)
		}
		if got.Status != models.StatusCompleted {
			t.Fatalf("call %d status = %q, want %q", i+1, got.Status, models.StatusCompleted)
		}
	}
}

func TestUpdateSessionStoreFailure(t *testing.T) {
	fs := &fakeStore{sessions: testSessions(), updateErr: context.DeadlineExceeded}
	handler := newTestServer(t, fs)

	rec := doRequest(t, handler, http.MethodPatch, "/api/sessions/1", `{"status":"Completed"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := decodeError(t, rec); got != msgUpdateFailed {
		t.Fatalf("error = %q, want %q", got, msgUpdateFailed)
	}
}

func TestParseUpdateRequest(t *testing.T) {
	req, apiErr := parseUpdateRequest("42", strings.NewReader(`{"status":"Scheduled"}`))
	if apiErr != nil {
		t.Fatalf("unexpected guard error: %v", apiErr)
	}
	if req.ID != 42 || req.Status != models.StatusScheduled {
		t.Fatalf("parsed = %+v", req)
	}

	if _, apiErr := parseUpdateRequest("1.5", strings.NewReader(`{"status":"Scheduled"}`)); apiErr == nil || apiErr.Code != http.StatusBadRequest {
		t.Fatalf("fractional id guard = %+v", apiErr)
	}
}

// Guard ordering: an invalid id wins over an invalid status.
func TestUpdateSessionGuardOrder(t *testing.T) {
	handler := newTestServer(t, &fakeStore{sessions: testSessions()})

	rec := doRequest(t, handler, http.MethodPatch, "/api/sessions/"+url.PathEscape("abc"), `{"status":"Done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rec); got != msgInvalidSessionID {
		t.Fatalf("error = %q, want %q", got, msgInvalidSessionID)
	}
}
