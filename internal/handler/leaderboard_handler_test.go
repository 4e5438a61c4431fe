package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGlobalLeaderboard(t *testing.T) {
	router, _ := setupRouter(t)
	for _, tc := range []struct {
		user string
		pct  float64
	}{
		{"alice", 80}, {"bob", 90}, {"carol", 70}, {"dave", 60}, {"erin", 50},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody(tc.user, tc.pct))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/leaderboard/global?page=1&limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Leaderboard []struct {
			Username   string  `json:"username"`
			Percentage float64 `json:"percentage"`
			Rank       int     `json:"rank"`
		} `json:"leaderboard"`
		Pagination struct {
			CurrentPage int  `json:"currentPage"`
			TotalPages  int  `json:"totalPages"`
			TotalCount  int  `json:"totalCount"`
			HasNext     bool `json:"hasNext"`
			HasPrev     bool `json:"hasPrev"`
		} `json:"pagination"`
		Filters struct {
			Subject    string `json:"subject"`
			Difficulty string `json:"difficulty"`
			Timeframe  string `json:"timeframe"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Leaderboard, 2)
	assert.Equal(t, "bob", data.Leaderboard[0].Username)
	assert.Equal(t, 1, data.Leaderboard[0].Rank)
	assert.Equal(t, "alice", data.Leaderboard[1].Username)
	assert.Equal(t, 3, data.Pagination.TotalPages)
	assert.Equal(t, 5, data.Pagination.TotalCount)
	assert.True(t, data.Pagination.HasNext)
	assert.False(t, data.Pagination.HasPrev)
	assert.Equal(t, "all", data.Filters.Subject)
	assert.Equal(t, "all", data.Filters.Timeframe)
}

func TestGetGlobalLeaderboard_BadParams(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{
		"/api/leaderboard/global?page=abc",
		"/api/leaderboard/global?limit=-5",
		"/api/leaderboard/global?timeframe=century",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)
	}
}

func TestGetSimpleLeaderboard(t *testing.T) {
	router, _ := setupRouter(t)
	for _, tc := range []struct {
		user string
		pct  float64
	}{
		{"alice", 80}, {"bob", 90},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody(tc.user, tc.pct))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/leaderboard?limit=1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var items []struct {
		Username string `json:"username"`
		Rank     int    `json:"rank"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "bob", items[0].Username)
	assert.Equal(t, 1, items[0].Rank)
}

func TestGetUserRank_Handler(t *testing.T) {
	router, _ := setupRouter(t)
	for _, tc := range []struct {
		user string
		pct  float64
	}{
		{"alice", 80}, {"bob", 90}, {"carol", 70},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody(tc.user, tc.pct))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/leaderboard/rank/alice", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Username   string  `json:"username"`
		Rank       int     `json:"rank"`
		TotalUsers int     `json:"totalUsers"`
		BestScore  float64 `json:"bestScore"`
		Percentile int     `json:"percentile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, 2, data.Rank)
	assert.Equal(t, 3, data.TotalUsers)
	assert.Equal(t, 80.0, data.BestScore)
	assert.Equal(t, 67, data.Percentile)
}

func TestGetUserRank_NotFound(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 80))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leaderboard/rank/ghost", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestGetStats_Handler(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 80))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leaderboard/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Overall struct {
			TotalQuizzes      int    `json:"totalQuizzes"`
			TotalUsers        int    `json:"totalUsers"`
			AveragePercentage string `json:"averagePercentage"`
		} `json:"overall"`
		ByDifficulty   []json.RawMessage `json:"byDifficulty"`
		RecentActivity []json.RawMessage `json:"recentActivity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Overall.TotalQuizzes)
	assert.Equal(t, 1, data.Overall.TotalUsers)
	assert.Equal(t, "80.0", data.Overall.AveragePercentage)
	assert.Len(t, data.ByDifficulty, 3)
	assert.Len(t, data.RecentActivity, 7)
}

func TestExportLeaderboard_CSV(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 80))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leaderboard/export?format=csv", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.String()
	assert.Contains(t, body, "Rank,Username,Subject,Difficulty")
	assert.Contains(t, body, "alice")
}

func TestExportLeaderboard_XLSX(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 80))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leaderboard/export?format=xlsx", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestSanitizeForExcel(t *testing.T) {
	// Значения, начинающиеся с символов формул, получают защитный апостроф
	assert.Equal(t, "'=SUM(A1)", sanitizeForExcel("=SUM(A1)"))
	assert.Equal(t, "'+1+1", sanitizeForExcel("+1+1"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "alice", sanitizeForExcel("alice"))
	assert.Equal(t, "", sanitizeForExcel(""))
}

func TestExportLeaderboard_FormulaInjectionGuard(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("=HYPERLINK(evil)", 80))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leaderboard/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.True(t, strings.Contains(body, "'=HYPERLINK(evil)") || strings.Contains(body, "\"'=HYPERLINK(evil)\""))
}
