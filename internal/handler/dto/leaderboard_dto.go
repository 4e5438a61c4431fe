package dto

import (
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	"github.com/yourusername/mcq-quiz-api/internal/service"
	"github.com/yourusername/mcq-quiz-api/internal/service/ranking"
)

// SubmitResultResponse — данные подтверждения отправки результата
type SubmitResultResponse struct {
	ResultID    string            `json:"resultId"`
	CompletedAt time.Time         `json:"completedAt"`
	Rank        int               `json:"rank"`
	UserStats   service.UserStats `json:"userStats"`
}

// NewSubmitResultResponse создает DTO из подтверждения сервиса
func NewSubmitResultResponse(receipt *service.SubmissionReceipt) SubmitResultResponse {
	return SubmitResultResponse{
		ResultID:    receipt.ResultID.String(),
		CompletedAt: receipt.CompletedAt,
		Rank:        receipt.Rank,
		UserStats:   receipt.UserStats,
	}
}

// HistoryResponse — страница истории пользователя
type HistoryResponse struct {
	Quizzes    []entity.QuizResult `json:"quizzes"`
	Pagination service.Pagination  `json:"pagination"`
}

// NewHistoryResponse создает DTO страницы истории
func NewHistoryResponse(page *service.HistoryPage) HistoryResponse {
	return HistoryResponse{
		Quizzes:    page.Items,
		Pagination: page.Pagination,
	}
}

// LeaderboardFilters — примененные фильтры, возвращаются вместе с лидербордом
type LeaderboardFilters struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Timeframe  string `json:"timeframe"`
}

// LeaderboardResponse — страница глобального лидерборда
type LeaderboardResponse struct {
	Leaderboard []ranking.RankedEntry `json:"leaderboard"`
	Pagination  service.Pagination    `json:"pagination"`
	Filters     LeaderboardFilters    `json:"filters"`
}

// NewLeaderboardResponse создает DTO страницы лидерборда
func NewLeaderboardResponse(page *service.LeaderboardPage, filters LeaderboardFilters) LeaderboardResponse {
	return LeaderboardResponse{
		Leaderboard: page.Items,
		Pagination:  page.Pagination,
		Filters:     filters,
	}
}

// RankResponse — позиция и перцентиль одного пользователя
type RankResponse struct {
	Username    string    `json:"username"`
	Rank        int       `json:"rank"`
	TotalUsers  int       `json:"totalUsers"`
	BestScore   float64   `json:"bestScore"`
	CompletedAt time.Time `json:"completedAt"`
	Percentile  int       `json:"percentile"`
}

// NewRankResponse создает DTO из информации о ранге
func NewRankResponse(info *service.RankInfo) RankResponse {
	return RankResponse{
		Username:    info.Username,
		Rank:        info.Rank,
		TotalUsers:  info.TotalUsers,
		BestScore:   info.BestScore,
		CompletedAt: info.CompletedAt,
		Percentile:  info.Percentile,
	}
}
