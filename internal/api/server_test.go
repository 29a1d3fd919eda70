package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/boardcut/internal/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(model.DefaultSettings(), log)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestSolve_Greedy(t *testing.T) {
	body := `{"strategy":"greedy","pieces":[{"height":50,"width":50},{"height":100,"width":100}]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sol model.Solution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sol))
	assert.Equal(t, model.StrategyGreedy, sol.Strategy)
	assert.Equal(t, model.Cents(1006), sol.TotalCost)
	require.Len(t, sol.Boards, 1)
	require.Len(t, sol.Boards[0].Pieces, 2)

	first := sol.Boards[0].Pieces[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 10, first.X)
	assert.Equal(t, 10, first.Y)
	assert.Contains(t, rec.Body.String(), `"total_cost":1006.00`)
}

func TestSolve_DefaultStrategy(t *testing.T) {
	body := `{"pieces":[{"height":280,"width":280},{"height":280,"width":280}]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sol model.Solution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sol))
	assert.Equal(t, model.StrategyBranchAndBound, sol.Strategy)
	assert.Equal(t, model.Cents(2022.40), sol.TotalCost)
	assert.Len(t, sol.Boards, 2)
}

func TestSolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"pieces":[{"height":aaa}]}`, http.StatusBadRequest},
		{"wrong type", `{"pieces":"10x10"}`, http.StatusBadRequest},
		{"unknown strategy", `{"strategy":"annealing","pieces":[]}`, http.StatusBadRequest},
		{"zero dimension", `{"pieces":[{"height":0,"width":10}]}`, http.StatusBadRequest},
		{"too large", `{"pieces":[{"height":281,"width":10}]}`, http.StatusBadRequest},
		{"exact over limit", `{"strategy":"exhaustive","pieces":` + pieceList(9) + `}`, http.StatusUnprocessableEntity},
		{"over max pieces", `{"strategy":"greedy","pieces":` + pieceList(65) + `}`, http.StatusUnprocessableEntity},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/solve", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, rec.Header().Get(requestIDHeader), resp.RequestID)
		})
	}
}

func TestSolve_GreedyAcceptsManyPieces(t *testing.T) {
	body := `{"strategy":"greedy","pieces":` + pieceList(20) + `}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/solve", body)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCompare(t *testing.T) {
	body := `{"pieces":[{"height":50,"width":50},{"height":100,"width":100}]}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results []struct {
		Scenario struct {
			Name string `json:"name"`
		} `json:"scenario"`
		Skipped   bool       `json:"skipped"`
		TotalCost model.Cost `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.Skipped, r.Scenario.Name)
		assert.Equal(t, model.Cents(1006), r.TotalCost, r.Scenario.Name)
	}
}

func TestCompare_SkipsExactOverLimit(t *testing.T) {
	body := `{"pieces":` + pieceList(9) + `}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "too many pieces (9 > 8)")
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func pieceList(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = `{"height":20,"width":30}`
	}
	return "[" + strings.Join(items, ",") + "]"
}
