package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/testutil"
)

const (
	testSecret   = "routes-test-secret"
	testPassword = "letmein"
)

type testServer struct {
	*httptest.Server
	hub   *brackets.Hub
	token string
}

func newTestServer(t *testing.T, repo repositories.TournamentRepository) *testServer {
	t.Helper()
	logger := testutil.NopLogger()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	hub := brackets.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	svc := services.NewTournamentService(repo, models.PairingAdjacent, hub, nil, logger)
	router := chi.NewRouter()
	SetupRoutes(router,
		Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}, Logger: logger},
		handlers.NewAuthHandler(services.NewAuthService(string(hash)), testSecret, logger),
		handlers.NewTournamentHandler(svc, logger),
		handlers.NewWebSocketHandler(hub, []string{"*"}, logger),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	token, err := middleware.IssueToken([]byte(testSecret), middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return &testServer{Server: srv, hub: hub, token: token}
}

func sqliteServer(t *testing.T) *testServer {
	return newTestServer(t, repositories.NewSQLiteTournamentRepository(testutil.SetupSQLiteDB(t)))
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env map[string]json.RawMessage
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestLoginIssuesUsableToken(t *testing.T) {
	s := sqliteServer(t)

	resp, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[string](t, env["token"])
	require.NotEmpty(t, token)

	resp, _ = s.do(t, http.MethodPost, "/api/players", token, map[string]string{"name": "Ann"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	s := sqliteServer(t)

	resp, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, env, "error")
}

func TestTournamentFlow(t *testing.T) {
	s := sqliteServer(t)

	var ids []int
	for _, name := range []string{"Ann", "Bob", "Cid", "Dee"} {
		resp, env := s.do(t, http.MethodPost, "/api/players", s.token, map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		player := decode[models.Player](t, env["player"])
		assert.Equal(t, name, player.Name)
		ids = append(ids, player.ID)
	}

	resp, env := s.do(t, http.MethodGet, "/api/players/count", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, decode[int](t, env["count"]))

	resp, env = s.do(t, http.MethodPost, "/api/matches", s.token, map[string]int{"winner_id": ids[3], "loser_id": ids[0]})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	match := decode[models.Match](t, env["match"])
	assert.Equal(t, ids[3], match.WinnerID)

	resp, env = s.do(t, http.MethodGet, "/api/standings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	standings := decode[[]models.StandingsEntry](t, env["standings"])
	require.Len(t, standings, 4)
	assert.Equal(t, ids[3], standings[0].ID)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 1, standings[0].MatchesPlayed)

	resp, env = s.do(t, http.MethodGet, "/api/pairings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pairings := decode[[]models.Pairing](t, env["pairings"])
	assert.Equal(t, []models.Pairing{
		{ID1: ids[3], Name1: "Dee", ID2: ids[0], Name2: "Ann"},
		{ID1: ids[1], Name1: "Bob", ID2: ids[2], Name2: "Cid"},
	}, pairings)

	resp, env = s.do(t, http.MethodGet, "/api/matches", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Match](t, env["matches"]), 1)

	resp, _ = s.do(t, http.MethodDelete, "/api/matches", s.token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, env = s.do(t, http.MethodGet, "/api/standings", "", nil)
	for _, e := range decode[[]models.StandingsEntry](t, env["standings"]) {
		assert.Zero(t, e.Wins)
		assert.Zero(t, e.MatchesPlayed)
	}

	resp, _ = s.do(t, http.MethodDelete, "/api/players", s.token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, env = s.do(t, http.MethodGet, "/api/players/count", "", nil)
	assert.Equal(t, 0, decode[int](t, env["count"]))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := sqliteServer(t)
	spectator, err := middleware.IssueToken([]byte(testSecret), "spectator", time.Hour)
	require.NoError(t, err)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/players"},
		{http.MethodDelete, "/api/players"},
		{http.MethodPost, "/api/matches"},
		{http.MethodDelete, "/api/matches"},
		{http.MethodPost, "/api/rounds/archive"},
	}
	for _, rt := range routes {
		resp, _ := s.do(t, rt.method, rt.path, "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", rt.method, rt.path)

		resp, _ = s.do(t, rt.method, rt.path, spectator, `{}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "%s %s", rt.method, rt.path)
	}
}

func TestBadRequests(t *testing.T) {
	s := sqliteServer(t)

	tests := []struct {
		name, path, body string
	}{
		{"empty name", "/api/players", `{"name": "   "}`},
		{"missing name", "/api/players", `{}`},
		{"malformed json", "/api/players", `{"name": `},
		{"unknown field", "/api/players", `{"name": "Ann", "rating": 1800}`},
		{"missing loser", "/api/matches", `{"winner_id": 1}`},
		{"wrong type", "/api/matches", `{"winner_id": "one", "loser_id": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := s.do(t, http.MethodPost, tt.path, s.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, env, "error")
		})
	}
}

func TestRecordMatchUnknownPlayerConflicts(t *testing.T) {
	s := sqliteServer(t)

	resp, env := s.do(t, http.MethodPost, "/api/matches", s.token, map[string]int{"winner_id": 1, "loser_id": 2})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, env, "error")
}

func TestArchiveDisabled(t *testing.T) {
	s := sqliteServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/rounds/archive", s.token, nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

type unavailableRepo struct {
	repositories.TournamentRepository
}

func (unavailableRepo) Standings(ctx context.Context) ([]models.StandingsEntry, error) {
	return nil, errors.Join(repositories.ErrStoreUnavailable, errors.New("dial tcp: connection refused"))
}

func (unavailableRepo) CountPlayers(ctx context.Context) (int, error) {
	return 0, errors.Join(repositories.ErrQuery, errors.New("syntax error"))
}

func TestStoreErrorsMapToStatus(t *testing.T) {
	s := newTestServer(t, unavailableRepo{})

	resp, _ := s.do(t, http.MethodGet, "/api/standings", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/pairings", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, env := s.do(t, http.MethodGet, "/api/players/count", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(env["error"]), "syntax error")
}

func TestHealthz(t *testing.T) {
	s := sqliteServer(t)

	resp, env := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[string](t, env["status"]))
}

func TestWebSocketReceivesMatchEvents(t *testing.T) {
	s := sqliteServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, _ := s.do(t, http.MethodPost, "/api/players", s.token, map[string]string{"name": "Ann"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type    string                  `json:"type"`
		Payload []models.StandingsEntry `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, brackets.EventPlayerRegistered, event.Type)
	require.Len(t, event.Payload, 1)
	assert.Equal(t, "Ann", event.Payload[0].Name)
}
