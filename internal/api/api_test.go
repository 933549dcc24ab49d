package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/api"
	"github.com/vytor/wordjourney/internal/content"
	"github.com/vytor/wordjourney/internal/events"
	"github.com/vytor/wordjourney/internal/journey"
	"github.com/vytor/wordjourney/internal/repository/sqlite"
	"github.com/vytor/wordjourney/internal/services"
	"github.com/vytor/wordjourney/internal/testutil"
	"github.com/vytor/wordjourney/internal/testutil/mocks"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newServer(t *testing.T) *api.Server {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	cat := content.MustLoad()
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueRecord", mock.Anything).Return(nil).Maybe()

	journeyRepo := sqlite.NewJourneyRepository(db)
	return &api.Server{
		Catalogue: cat,
		JourneyService: services.NewJourneyService(cat, events.NewMemory(100), queue, services.JourneyConfig{
			Scheduler: journey.NewManualScheduler(),
		}),
		StatsService:    services.NewStatsService(cat, sqlite.NewEventRepository(db), journeyRepo),
		FeedbackService: services.NewFeedbackService(cat, sqlite.NewFeedbackRepository(db)),
		Ready:           func(ctx context.Context) error { return db.PingContext(ctx) },
	}
}

func newClient(t *testing.T, srv *api.Server) *client {
	return &client{t: t, handler: srv.Routes()}
}

// do sends a request, keeping any cookies the server hands out.
func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	c.cookies = append(c.cookies, rec.Result().Cookies()...)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type actionBody struct {
	Outcome struct {
		Decision string `json:"decision"`
		Attempt  int    `json:"attempt"`
	} `json:"outcome"`
	Journey struct {
		ID   string `json:"id"`
		Step struct {
			ID string `json:"id"`
		} `json:"step"`
	} `json:"journey"`
}

func TestHealthAndReady(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = c.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.Ready = func(context.Context) error { return stderrors.New("disk gone") }
	rec = newClient(t, srv).do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLearnerCookies(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.do(http.MethodGet, "/api/frameworks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	names := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = ck
	}
	require.Contains(t, names, "learner_id")
	require.Contains(t, names, "session_id")
	assert.True(t, names["learner_id"].HttpOnly)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode[map[string][]map[string]any](t, rec)
	assert.Len(t, body["frameworks"], 5)

	rec = c.do(http.MethodGet, "/api/words", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "known learner keeps their cookies")
}

func TestJourneyFlow(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.do(http.MethodPost, "/api/journeys", map[string]string{"framework": "cefr", "word": "river"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	view := decode[map[string]any](t, rec)
	id := view["id"].(string)
	assert.Equal(t, "/api/journeys/"+id, rec.Header().Get("Location"))
	assert.Equal(t, "in_progress", view["status"])

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/submit", map[string]string{"choice": "mountain"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[actionBody](t, rec)
	assert.Equal(t, "retry", res.Outcome.Decision)
	assert.Equal(t, "A1", res.Journey.Step.ID)

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/submit", map[string]string{"choice": "river"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = decode[actionBody](t, rec)
	assert.Equal(t, "correct", res.Outcome.Decision)
	assert.Equal(t, "A2", res.Journey.Step.ID)

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/skip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "skipped", decode[actionBody](t, rec).Outcome.Decision)

	rec = c.do(http.MethodGet, "/api/journeys/"+id+"/summary", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[errorBody](t, rec).Error.Code)

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/events", map[string]any{"event": "tts_speak", "meta": map[string]any{"text": "river"}})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = c.do(http.MethodDelete, "/api/journeys/"+id+"/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = c.do(http.MethodGet, "/api/journeys/"+id+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJourneyErrors(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	rec := c.do(http.MethodPost, "/api/journeys", map[string]string{"framework": "cefr", "word": "ocean"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "word not found", body.Error.Message)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	req := httptest.NewRequest(http.MethodPost, "/api/journeys", bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	srv.Routes().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
	assert.Equal(t, "BAD_REQUEST", decode[errorBody](t, raw).Error.Code)

	rec = c.do(http.MethodPost, "/api/journeys", map[string]string{"framework": "cefr", "word": "river"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/submit", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, rec).Error.Code)

	rec = c.do(http.MethodPost, "/api/journeys/"+id+"/events", map[string]any{"event": "answer_result"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stranger := newClient(t, srv)
	rec = stranger.do(http.MethodGet, "/api/journeys/"+id+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.do(http.MethodGet, "/api/compare", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cmp := decode[map[string][]map[string]any](t, rec)
	require.Len(t, cmp["frameworks"], 5)
	for _, row := range cmp["frameworks"] {
		assert.EqualValues(t, 0, row["step_views"])
	}

	rec = c.do(http.MethodGet, "/api/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{\"results\":[]}\n", rec.Body.String())

	rec = c.do(http.MethodGet, "/api/events?framework=cefr&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	evs := decode[map[string]any](t, rec)
	assert.EqualValues(t, 0, evs["total"])

	rec = c.do(http.MethodGet, "/api/events?since=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackEndpoints(t *testing.T) {
	c := newClient(t, newServer(t))

	rec := c.do(http.MethodPost, "/api/feedback", map[string]any{
		"framework": "cefr", "word_id": "river", "step_id": "A1", "thumb": "up", "comment": "  clear  ",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.Equal(t, "clear", created["comment"])
	assert.NotEmpty(t, created["step_label"])
	assert.NotEmpty(t, created["learner_id"])

	rec = c.do(http.MethodGet, "/api/feedback/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", decode[map[string]any](t, rec)["thumb"])

	rec = c.do(http.MethodPost, "/api/feedback", map[string]any{"framework": "cefr", "word_id": "river", "step_id": "Z9"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/feedback/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/feedback/import", []map[string]any{
		{"id": "imported-1", "framework": "cefr", "word_id": "river", "step_id": "A1", "difficulty": "easy"},
		{"framework": "cefr", "word_id": "river", "step_id": "A1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	imp := decode[services.ImportResult](t, rec)
	assert.Equal(t, 1, imp.Imported)
	assert.Equal(t, 1, imp.Skipped)

	rec = c.do(http.MethodGet, "/api/feedback/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = c.do(http.MethodGet, "/api/feedback?thumb=up", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]map[string]any](t, rec)["feedback"], 1)

	rec = c.do(http.MethodGet, "/api/feedback?thumb=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
