package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gestaozabele/campanha/internal/config"
	httpmiddleware "github.com/gestaozabele/campanha/internal/http/middleware"
	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
	"github.com/gestaozabele/campanha/internal/service"
)

type memStore struct {
	nextID     int64
	supporters []schema.Supporter
	activities []schema.Activity
	news       []schema.News
	proposals  []schema.Proposal
	events     []schema.Event
	home       *schema.HomeContent
	fail       error
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error) {
	if m.fail != nil {
		return schema.Supporter{}, m.fail
	}
	now := time.Now().UTC()
	s := schema.Supporter{
		ID: m.id(), Name: in.Name, Neighborhood: in.Neighborhood, NeighborhoodType: in.NeighborhoodType,
		Phone: in.Phone, Cedula: in.Cedula, FamilySize: in.FamilySize, AgeRange: in.AgeRange,
		Status: in.Status, Origin: in.Origin, Message: in.Message, CreatedAt: &now,
	}
	m.supporters = append(m.supporters, s)
	return s, nil
}

func (m *memStore) CountSupporters(ctx context.Context) (int64, error) {
	return int64(len(m.supporters)), nil
}

func (m *memStore) ListSupporters(ctx context.Context, filter repo.SupporterFilter) ([]schema.Supporter, error) {
	out := []schema.Supporter{}
	for i := len(m.supporters) - 1; i >= 0; i-- {
		s := m.supporters[i]
		if filter.Neighborhood != "" && s.Neighborhood != filter.Neighborhood {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) ListActivities(ctx context.Context) ([]schema.Activity, error) {
	out := append([]schema.Activity{}, m.activities...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memStore) CreateActivity(ctx context.Context, in schema.ActivityInput) (schema.Activity, error) {
	a := schema.Activity{ID: m.id(), Title: in.Title, Description: in.Description, Date: in.Date.Time, ImageURL: in.ImageURL}
	m.activities = append(m.activities, a)
	return a, nil
}

func (m *memStore) UpdateActivity(ctx context.Context, id int64, in schema.ActivityInput) (schema.Activity, error) {
	for i := range m.activities {
		if m.activities[i].ID == id {
			m.activities[i] = schema.Activity{ID: id, Title: in.Title, Description: in.Description, Date: in.Date.Time, ImageURL: in.ImageURL}
			return m.activities[i], nil
		}
	}
	return schema.Activity{}, repo.ErrNotFound
}

func (m *memStore) DeleteActivity(ctx context.Context, id int64) error {
	for i := range m.activities {
		if m.activities[i].ID == id {
			m.activities = append(m.activities[:i], m.activities[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) ListNews(ctx context.Context) ([]schema.News, error) {
	return append([]schema.News{}, m.news...), nil
}

func (m *memStore) CreateNews(ctx context.Context, in schema.NewsInput) (schema.News, error) {
	n := schema.News{ID: m.id(), Title: in.Title, Content: in.Content, Date: time.Now().UTC(), ImageURL: in.ImageURL}
	m.news = append(m.news, n)
	return n, nil
}

func (m *memStore) UpdateNews(ctx context.Context, id int64, in schema.NewsInput) (schema.News, error) {
	return schema.News{}, repo.ErrNotFound
}

func (m *memStore) DeleteNews(ctx context.Context, id int64) error { return nil }

func (m *memStore) ListProposals(ctx context.Context) ([]schema.Proposal, error) {
	return append([]schema.Proposal{}, m.proposals...), nil
}

func (m *memStore) CreateProposal(ctx context.Context, in schema.ProposalInput) (schema.Proposal, error) {
	p := schema.Proposal{ID: m.id(), Title: in.Title, Problem: in.Problem, Solution: in.Solution, Category: in.Category}
	m.proposals = append(m.proposals, p)
	return p, nil
}

func (m *memStore) UpdateProposal(ctx context.Context, id int64, in schema.ProposalInput) (schema.Proposal, error) {
	return schema.Proposal{}, repo.ErrNotFound
}

func (m *memStore) DeleteProposal(ctx context.Context, id int64) error { return nil }

func (m *memStore) ListEvents(ctx context.Context) ([]schema.Event, error) {
	return append([]schema.Event{}, m.events...), nil
}

func (m *memStore) CreateEvent(ctx context.Context, in schema.EventInput) (schema.Event, error) {
	e := schema.Event{ID: m.id(), Title: in.Title, Description: in.Description, Date: in.Date.Time, Location: in.Location}
	m.events = append(m.events, e)
	return e, nil
}

func (m *memStore) UpdateEvent(ctx context.Context, id int64, in schema.EventInput) (schema.Event, error) {
	return schema.Event{}, repo.ErrNotFound
}

func (m *memStore) DeleteEvent(ctx context.Context, id int64) error { return nil }

func (m *memStore) GetHomeContent(ctx context.Context) (schema.HomeContent, error) {
	if m.home == nil {
		return schema.HomeContent{}, repo.ErrNotFound
	}
	return *m.home, nil
}

func (m *memStore) UpsertHomeContent(ctx context.Context, h schema.HomeContent) (schema.HomeContent, error) {
	h.ID = 1
	m.home = &h
	return h, nil
}

type stubAuth struct {
	sessions map[string]schema.User
}

func newStubAuth() *stubAuth {
	return &stubAuth{sessions: map[string]schema.User{
		"admin-token":  {ID: 1, Username: "admin", IsAdmin: true},
		"viewer-token": {ID: 2, Username: "viewer"},
	}}
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	if username == "admin" && password == "SenhaForte123!" {
		return &service.LoginResult{User: s.sessions["admin-token"], Token: "admin-token"}, nil
	}
	return nil, service.ErrInvalidCredentials
}

func (s *stubAuth) Register(ctx context.Context, in schema.UserInput, actor *schema.User) (*service.LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &service.LoginResult{User: schema.User{ID: 3, Username: in.Username}, Token: "new-token"}, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubAuth) CurrentUser(ctx context.Context, token string) (schema.User, error) {
	u, ok := s.sessions[token]
	if !ok {
		return schema.User{}, service.ErrNoSession
	}
	return u, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SessionTTL:      time.Hour,
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Storage:         config.StorageConfig{Provider: "local", UploadDir: t.TempDir()},
		MaxUploadBytes:  1 << 20,
		DefaultTheme:    schema.ThemeColorado,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, store *memStore) http.Handler {
	t.Helper()
	r, err := NewRouter(cfg, Deps{Store: store, Auth: newStubAuth()})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: httpmiddleware.SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRejectWithoutMutation(t *testing.T) {
	store := &memStore{}
	h := newTestRouter(t, testConfig(t), store)

	activity := map[string]any{"title": "T", "description": "D", "date": "2026-01-01"}
	routes := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/supporters", nil},
		{http.MethodGet, "/api/supporters/stats", nil},
		{http.MethodGet, "/api/supporters/export", nil},
		{http.MethodPost, "/api/activities", activity},
		{http.MethodPatch, "/api/activities/1", activity},
		{http.MethodDelete, "/api/activities/1", nil},
		{http.MethodPost, "/api/news", map[string]any{"title": "T", "content": "C"}},
		{http.MethodPost, "/api/proposals", map[string]any{"title": "T", "category": "C"}},
		{http.MethodPost, "/api/events", map[string]any{"title": "T", "description": "D", "date": "2026-01-01", "location": "L"}},
		{http.MethodPost, "/api/home-content", map[string]any{"heroTitle": "X"}},
		{http.MethodPost, "/api/upload", nil},
	}

	for _, token := range []string{"", "viewer-token", "stale-token"} {
		for _, rt := range routes {
			rec := do(t, h, rt.method, rt.path, rt.body, token)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("%s %s (token %q): expected 403, got %d", rt.method, rt.path, token, rec.Code)
			}
			if strings.TrimSpace(rec.Body.String()) != "Unauthorized" {
				t.Fatalf("%s %s: expected opaque body, got %q", rt.method, rt.path, rec.Body.String())
			}
		}
	}

	if len(store.activities) != 0 || len(store.news) != 0 || len(store.proposals) != 0 || len(store.events) != 0 || store.home != nil {
		t.Fatalf("rejected requests must not mutate data")
	}
}

func TestCreateSupporterAppliesDefaults(t *testing.T) {
	store := &memStore{}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodPost, "/api/supporters", map[string]any{
		"name":             "Ana Gómez",
		"neighborhoodType": "Barrio",
		"neighborhood":     "Tirol",
		"phone":            "0981000000",
		"cedula":           "1.111.111",
		"familySize":       "3–4",
		"ageRange":         "18–25",
	}, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got schema.Supporter
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "nuevo" || got.Origin != "web_modal" || got.CreatedAt == nil || got.ID == 0 {
		t.Fatalf("unexpected supporter %+v", got)
	}

	count := do(t, h, http.MethodGet, "/api/supporters/count", nil, "")
	if strings.TrimSpace(count.Body.String()) != `{"count":1}` {
		t.Fatalf("unexpected count body %q", count.Body.String())
	}
}

func TestCreateSupporterValidation(t *testing.T) {
	store := &memStore{}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodPost, "/api/supporters", map[string]any{"neighborhood": "Tirol", "phone": "1"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body MessageBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Field != "name" || body.Message == "" {
		t.Fatalf("unexpected error body %+v", body)
	}

	bad := do(t, h, http.MethodPost, "/api/supporters", "{", "")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected malformed JSON to be 400, got %d", bad.Code)
	}
	if len(store.supporters) != 0 {
		t.Fatalf("invalid submissions must not be persisted")
	}
}

func TestNeighborhoodCrossCheck(t *testing.T) {
	payload := map[string]any{"name": "Ana", "neighborhoodType": "Barrio", "neighborhood": "NotARealPlace", "phone": "0981"}

	lenient := &memStore{}
	rec := do(t, newTestRouter(t, testConfig(t), lenient), http.MethodPost, "/api/supporters", payload, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("lenient mode: expected 201, got %d", rec.Code)
	}

	cfg := testConfig(t)
	cfg.StrictNeighborhoods = true
	strict := &memStore{}
	rec = do(t, newTestRouter(t, cfg, strict), http.MethodPost, "/api/supporters", payload, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"neighborhood"`) {
		t.Fatalf("strict mode: expected 400 on neighborhood, got %d %s", rec.Code, rec.Body.String())
	}
	if len(strict.supporters) != 0 {
		t.Fatalf("strict mode must not persist the record")
	}
}

func TestActivityRoundTripSortedByDate(t *testing.T) {
	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &memStore{activities: []schema.Activity{
		{ID: 100, Title: "Antiga", Description: "x", Date: older},
		{ID: 101, Title: "Futura", Description: "x", Date: newer},
	}, nextID: 200}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodPost, "/api/activities", map[string]any{
		"title": "T", "description": "D", "date": "2026-01-01", "imageUrl": "http://x/y.png",
	}, "admin-token")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	list := do(t, h, http.MethodGet, "/api/activities", nil, "")
	var got []schema.Activity
	if err := json.Unmarshal(list.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	titles := make([]string, 0, len(got))
	for _, a := range got {
		titles = append(titles, a.Title)
	}
	if diff := cmp.Diff([]string{"Futura", "T", "Antiga"}, titles); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if !got[1].Date.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) || got[1].ImageURL == nil || *got[1].ImageURL != "http://x/y.png" {
		t.Fatalf("unexpected created record %+v", got[1])
	}
}

func TestActivityInvalidDate(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})
	rec := do(t, h, http.MethodPost, "/api/activities", map[string]any{"title": "T", "description": "D", "date": "ontem"}, "admin-token")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"date"`) {
		t.Fatalf("expected 400 on date, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateMissingAndDelete(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})

	rec := do(t, h, http.MethodPatch, "/api/activities/999", map[string]any{"title": "T", "description": "D", "date": "2026-01-01"}, "admin-token")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing row, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/activities/999", nil, "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/activities/abc", nil, "admin-token")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad id, got %d", rec.Code)
	}
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	store := &memStore{fail: errors.New("pq: connection refused")}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodPost, "/api/supporters", map[string]any{"name": "A", "neighborhood": "Tirol", "phone": "1"}, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"message":"Internal server error"}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestHomeContentDefaultsAndMerge(t *testing.T) {
	store := &memStore{}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodGet, "/api/home-content", nil, "")
	var current schema.HomeContent
	if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if current.HeroTitle != schema.DefaultHomeContent().HeroTitle {
		t.Fatalf("expected default hero title, got %q", current.HeroTitle)
	}

	rec = do(t, h, http.MethodPost, "/api/home-content", map[string]any{"candidateName": "Juan Perez", "theme": "alianza"}, "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.home == nil || store.home.CandidateName != "Juan Perez" || store.home.Theme != "alianza" {
		t.Fatalf("unexpected stored content %+v", store.home)
	}
	if store.home.HeroTitle != schema.DefaultHomeContent().HeroTitle {
		t.Fatalf("fields not sent must keep their values")
	}

	rec = do(t, h, http.MethodPost, "/api/home-content", map[string]any{"theme": "verde"}, "admin-token")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown theme, got %d", rec.Code)
	}
	if store.home.Theme != "alianza" {
		t.Fatalf("rejected update must not be stored")
	}
}

func TestUploadStoresFile(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cartaz.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte("fake-png"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: httpmiddleware.SessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(body.URL, "/uploads/") || !strings.HasSuffix(body.URL, ".png") {
		t.Fatalf("unexpected url %q", body.URL)
	}

	get := do(t, h, http.MethodGet, body.URL, nil, "")
	if get.Code != http.StatusOK || get.Body.String() != "fake-png" {
		t.Fatalf("expected stored bytes, got %d %q", get.Code, get.Body.String())
	}
	if listing := do(t, h, http.MethodGet, "/uploads/", nil, ""); listing.Code != http.StatusNotFound {
		t.Fatalf("directory listing must be disabled, got %d", listing.Code)
	}

	noFile := do(t, h, http.MethodPost, "/api/upload", nil, "admin-token")
	if noFile.Code != http.StatusBadRequest || !strings.Contains(noFile.Body.String(), "No file uploaded") {
		t.Fatalf("expected 400 No file uploaded, got %d %s", noFile.Code, noFile.Body.String())
	}
}

func TestLoginLogoutAndCurrentUser(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})

	if rec := do(t, h, http.MethodGet, "/api/user", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "errada"}, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/api/login", map[string]string{"username": "admin", "password": "SenhaForte123!"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpmiddleware.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "admin-token" || !cookie.HttpOnly {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("user JSON must not expose the password hash")
	}

	if me := do(t, h, http.MethodGet, "/api/user", nil, "admin-token"); me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"isAdmin":true`) {
		t.Fatalf("expected current user, got %d %s", me.Code, me.Body.String())
	}

	if out := do(t, h, http.MethodPost, "/api/logout", nil, "admin-token"); out.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", out.Code)
	}
	if me := do(t, h, http.MethodGet, "/api/user", nil, "admin-token"); me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", me.Code)
	}
}

func TestRegisterReturnsCreated(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})
	rec := do(t, h, http.MethodPost, "/api/register", map[string]any{"username": "nova", "password": "12345678"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/register", map[string]any{"username": "nova", "password": "1"}, "")
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"password"`) {
		t.Fatalf("expected 400 on short password, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSupporterExportAndStats(t *testing.T) {
	msg := `dijo "hola"`
	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{supporters: []schema.Supporter{
		{ID: 1, Name: "Ana", Neighborhood: "Tirol", NeighborhoodType: "Barrio", Phone: "0981", AgeRange: "18–25", FamilySize: "3–4", Message: &msg, CreatedAt: &created},
		{ID: 2, Name: "Beto", Neighborhood: "Tirol", NeighborhoodType: "Barrio", Phone: "0982", AgeRange: "16–17"},
	}}
	h := newTestRouter(t, testConfig(t), store)

	rec := do(t, h, http.MethodGet, "/api/supporters/export", nil, "admin-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "simpatizantes_") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "Nombre,Barrio,Tipo de Zona,Teléfono,Cédula,Edad,Familia,Mensaje,Fecha" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 3 || !strings.Contains(rec.Body.String(), `"dijo ""hola"""`) {
		t.Fatalf("unexpected csv body %q", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/supporters/stats", nil, "admin-token")
	var summary struct {
		Total   int `json:"total"`
		Over18  int `json:"over18"`
		Under18 int `json:"under18"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Total != 2 || summary.Over18 != 1 || summary.Under18 != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	rec = do(t, h, http.MethodGet, "/api/supporters?q=bet&neighborhood=all", nil, "admin-token")
	var filtered []schema.Supporter
	_ = json.Unmarshal(rec.Body.Bytes(), &filtered)
	if len(filtered) != 1 || filtered[0].Name != "Beto" {
		t.Fatalf("unexpected filtered list %+v", filtered)
	}
}

func TestZonesAndReady(t *testing.T) {
	h := newTestRouter(t, testConfig(t), &memStore{})
	rec := do(t, h, http.MethodGet, "/api/zones", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Tirol") || !strings.Contains(rec.Body.String(), "Comunidad Indígena") {
		t.Fatalf("unexpected zones response %d %s", rec.Code, rec.Body.String())
	}

	failing, err := NewRouter(testConfig(t), Deps{
		Store:  &memStore{},
		Auth:   newStubAuth(),
		Checks: map[string]func(context.Context) error{"db": func(context.Context) error { return errors.New("down") }},
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	if rec := do(t, failing, http.MethodGet, "/ready", nil, ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestSupporterRateLimitIgnoresForwardedHeaders(t *testing.T) {
	supporter := map[string]any{"name": "Ana Gómez", "neighborhood": "Tirol", "phone": "0981"}

	post := func(h http.Handler, forwarded string) int {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(supporter)
		req := httptest.NewRequest(http.MethodPost, "/api/supporters", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	cfg := testConfig(t)
	cfg.RateLimitPublic = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	direct := newTestRouter(t, cfg, &memStore{})
	if code := post(direct, "203.0.113.1"); code != http.StatusCreated {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := post(direct, "203.0.113.2"); code != http.StatusTooManyRequests {
		t.Fatalf("rotating X-Forwarded-For must not reset the bucket, got %d", code)
	}

	proxied := testConfig(t)
	proxied.RateLimitPublic = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	proxied.TrustProxyHeaders = true
	behindProxy := newTestRouter(t, proxied, &memStore{})
	if code := post(behindProxy, "203.0.113.1"); code != http.StatusCreated {
		t.Fatalf("expected first proxied request to pass, got %d", code)
	}
	if code := post(behindProxy, "203.0.113.2"); code != http.StatusCreated {
		t.Fatalf("behind a trusted proxy each client has its own bucket, got %d", code)
	}
}

func uploadFile(t *testing.T, h http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: httpmiddleware.SessionCookie, Value: "admin-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUploadRejectsActiveContent(t *testing.T) {
	cfg := testConfig(t)
	h := newTestRouter(t, cfg, &memStore{})

	for _, name := range []string{"pagina.html", "logo.svg", "script.js", "sem-extensao"} {
		rec := uploadFile(t, h, name, []byte("<script>alert(document.cookie)</script>"))
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Tipo de archivo no permitido") {
			t.Fatalf("%s: expected 400, got %d %s", name, rec.Code, rec.Body.String())
		}
	}
	entries, err := os.ReadDir(cfg.Storage.UploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not be stored, found %d files", len(entries))
	}

	rec := uploadFile(t, h, "foto.JPG", []byte("<html>not really a jpeg</html>"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected image upload to pass, got %d", rec.Code)
	}
	var body struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)

	get := do(t, h, http.MethodGet, body.URL, nil, "")
	if get.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff on uploaded files")
	}
	if get.Header().Get("Content-Disposition") != "" {
		t.Fatalf("images are served inline")
	}

	// arquivos antigos no diretório, de antes da restrição
	if err := os.WriteFile(filepath.Join(cfg.Storage.UploadDir, "antigo.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}
	legacy := do(t, h, http.MethodGet, "/uploads/antigo.html", nil, "")
	if legacy.Header().Get("Content-Disposition") != "attachment" || legacy.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("non-image files must be served as attachments, got %v", legacy.Header())
	}
}
