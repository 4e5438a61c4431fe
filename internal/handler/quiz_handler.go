package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mcq-quiz-api/internal/handler/dto"
	"github.com/yourusername/mcq-quiz-api/internal/service"
)

// QuizHandler обрабатывает запросы викторины: получение вопросов,
// отправка результата, история пользователя
type QuizHandler struct {
	leaderboardService *service.LeaderboardService
	questionService    *service.QuestionService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(
	leaderboardService *service.LeaderboardService,
	questionService *service.QuestionService,
) *QuizHandler {
	return &QuizHandler{
		leaderboardService: leaderboardService,
		questionService:    questionService,
	}
}

// QuestionsRequest представляет запрос на получение вопросов
type QuestionsRequest struct {
	Subject     string `json:"subject" binding:"required"`
	SubCategory string `json:"subCategory" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required"`
	Count       int    `json:"count"`
}

// GetQuestions обрабатывает запрос на получение вопросов викторины
// POST /api/quiz/questions
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	var req QuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	questions, err := h.questionService.GetQuestions(c.Request.Context(), req.Subject, req.SubCategory, req.Difficulty, req.Count)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.NewQuestionsResponse(questions, req.Subject, req.SubCategory, req.Difficulty)))
}

// SubmitQuizRequest представляет запрос на отправку результата викторины.
// Поля percentage и totalQuestions — указатели, чтобы отличать
// отсутствующее значение от нулевого.
type SubmitQuizRequest struct {
	Username       string          `json:"username" binding:"required"`
	Subject        string          `json:"subject" binding:"required"`
	SubCategory    string          `json:"subCategory" binding:"required"`
	Difficulty     string          `json:"difficulty" binding:"required"`
	TotalQuestions *int            `json:"totalQuestions" binding:"required"`
	CorrectAnswers int             `json:"correctAnswers"`
	Score          int             `json:"score"`
	Percentage     *float64        `json:"percentage" binding:"required"`
	TimeTaken      *int            `json:"timeTaken"`
	QuestionsData  json.RawMessage `json:"questionsData"`
}

// SubmitQuiz обрабатывает отправку результата викторины
// POST /api/quiz/submit
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	receipt, err := h.leaderboardService.SubmitResult(c.Request.Context(), service.SubmitQuizInput{
		Username:       req.Username,
		Subject:        req.Subject,
		SubCategory:    req.SubCategory,
		Difficulty:     req.Difficulty,
		TotalQuestions: *req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Score:          req.Score,
		Percentage:     *req.Percentage,
		TimeTaken:      req.TimeTaken,
		QuestionsData:  req.QuestionsData,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage("Quiz results submitted successfully", dto.NewSubmitResultResponse(receipt)))
}

// GetUserHistory возвращает пагинированную историю пользователя
// GET /api/quiz/history/:username?page=&limit=&subject=&difficulty=
func (h *QuizHandler) GetUserHistory(c *gin.Context) {
	username := c.Param("username")

	page, err := parsePositiveInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}
	limit, err := parsePositiveInt(c, "limit", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	historyPage, err := h.leaderboardService.GetUserHistory(c.Request.Context(), username, page, limit, filterFromQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.NewHistoryResponse(historyPage)))
}
