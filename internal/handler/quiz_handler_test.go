package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
	"github.com/yourusername/mcq-quiz-api/internal/repository/memory"
	"github.com/yourusername/mcq-quiz-api/internal/service"
	"github.com/yourusername/mcq-quiz-api/internal/service/questiongen"
	"github.com/yourusername/mcq-quiz-api/internal/service/ranking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubQuestionCache — кеш, который всегда пуст и молча принимает запись
type stubQuestionCache struct{}

func (s *stubQuestionCache) GetQuestionSet(_ context.Context, _, _, _ string) (*entity.CachedQuestionSet, error) {
	return nil, fmt.Errorf("%w: cache miss", apperrors.ErrNotFound)
}

func (s *stubQuestionCache) SetQuestionSet(_ context.Context, _ *entity.CachedQuestionSet, _ time.Duration) error {
	return nil
}

// setupRouter собирает роутер с маршрутами как в cmd/api, поверх in-memory хранилища
func setupRouter(t *testing.T) (*gin.Engine, *memory.ResultRepo) {
	t.Helper()

	repo := memory.NewResultRepo()
	engine := ranking.NewEngine(repo)
	leaderboardService := service.NewLeaderboardService(repo, engine, 50, 100)

	fallback := questiongen.NewFallbackGenerator()
	questionService := service.NewQuestionService(&stubQuestionCache{}, fallback, fallback, time.Hour, 10)

	quizHandler := NewQuizHandler(leaderboardService, questionService)
	leaderboardHandler := NewLeaderboardHandler(leaderboardService, 50)
	questionHandler := NewQuestionHandler()

	router := gin.New()
	api := router.Group("/api")
	{
		quiz := api.Group("/quiz")
		{
			quiz.POST("/questions", quizHandler.GetQuestions)
			quiz.POST("/submit", quizHandler.SubmitQuiz)
			quiz.GET("/history/:username", quizHandler.GetUserHistory)
		}
		leaderboard := api.Group("/leaderboard")
		{
			leaderboard.GET("", leaderboardHandler.GetSimpleLeaderboard)
			leaderboard.GET("/global", leaderboardHandler.GetGlobalLeaderboard)
			leaderboard.GET("/rank/:username", leaderboardHandler.GetUserRank)
			leaderboard.GET("/stats", leaderboardHandler.GetStats)
			leaderboard.GET("/export", leaderboardHandler.ExportLeaderboard)
		}
		questions := api.Group("/questions")
		{
			questions.GET("/subjects", questionHandler.GetSubjects)
			questions.GET("/subjects/:subject/categories", questionHandler.GetSubjectCategories)
		}
	}
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope — конверт ответа API
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func submitBody(username string, pct float64) map[string]interface{} {
	return map[string]interface{}{
		"username":       username,
		"subject":        "Science",
		"subCategory":    "Physics",
		"difficulty":     "Medium",
		"totalQuestions": 10,
		"correctAnswers": int(pct / 10),
		"score":          int(pct),
		"percentage":     pct,
	}
}

func TestSubmitQuiz_Success(t *testing.T) {
	router, repo := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 85))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Quiz results submitted successfully", env.Message)

	var data struct {
		ResultID  string `json:"resultId"`
		Rank      int    `json:"rank"`
		UserStats struct {
			TotalQuizzes      int    `json:"totalQuizzes"`
			AveragePercentage string `json:"averagePercentage"`
		} `json:"userStats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.ResultID)
	assert.Equal(t, 1, data.Rank)
	assert.Equal(t, 1, data.UserStats.TotalQuizzes)
	assert.Equal(t, "85.0", data.UserStats.AveragePercentage)
	assert.Equal(t, 1, repo.Count())
}

func TestSubmitQuiz_ValidationRejected(t *testing.T) {
	router, repo := setupRouter(t)

	// Процент за пределами [0;100]
	w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", 101))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)

	// Обязательное поле отсутствует — отклоняется на уровне binding
	body := submitBody("alice", 80)
	delete(body, "percentage")
	w = doJSON(t, router, http.MethodPost, "/api/quiz/submit", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Ни одна из отклоненных отправок не попала в хранилище
	assert.Equal(t, 0, repo.Count())
}

func TestSubmitQuiz_MalformedJSON(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/submit", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestGetUserHistory(t *testing.T) {
	router, _ := setupRouter(t)
	for _, pct := range []float64{60, 80, 70} {
		w := doJSON(t, router, http.MethodPost, "/api/quiz/submit", submitBody("alice", pct))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/quiz/history/alice?page=1&limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Quizzes    []json.RawMessage `json:"quizzes"`
		Pagination struct {
			CurrentPage int  `json:"currentPage"`
			TotalPages  int  `json:"totalPages"`
			TotalCount  int  `json:"totalCount"`
			HasNext     bool `json:"hasNext"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Quizzes, 2)
	assert.Equal(t, 3, data.Pagination.TotalCount)
	assert.Equal(t, 2, data.Pagination.TotalPages)
	assert.True(t, data.Pagination.HasNext)
}

func TestGetUserHistory_UnknownUserIsEmptyPage(t *testing.T) {
	router, _ := setupRouter(t)

	// История неизвестного пользователя — пустая страница, не 404
	w := doJSON(t, router, http.MethodGet, "/api/quiz/history/ghost", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
}

func TestGetUserHistory_BadPageParam(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/quiz/history/alice?page=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/quiz/history/alice?page=0", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuestions_FallbackBank(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/quiz/questions", map[string]interface{}{
		"subject":     "Technology",
		"subCategory": "Programming",
		"difficulty":  "Easy",
		"count":       5,
	})

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Questions []struct {
			ID             int      `json:"id"`
			Question       string   `json:"question"`
			Options        []string `json:"options"`
			CorrectAnswer  string   `json:"correctAnswer"`
			QuestionNumber int      `json:"questionNumber"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Questions, 5)
	for i, q := range data.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, i+1, q.QuestionNumber)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestGetQuestions_InvalidSubject(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/quiz/questions", map[string]interface{}{
		"subject":     "Alchemy",
		"subCategory": "Transmutation",
		"difficulty":  "Easy",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestGetSubjects(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/questions/subjects", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	var data struct {
		Subjects []struct {
			Name       string   `json:"name"`
			Categories []string `json:"categories"`
		} `json:"subjects"`
		TotalSubjects int `json:"totalSubjects"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, len(data.Subjects), data.TotalSubjects)
	assert.NotEmpty(t, data.Subjects)
}

func TestGetSubjectCategories_Unknown(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/questions/subjects/Alchemy/categories", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}
