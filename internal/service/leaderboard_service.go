package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	"github.com/yourusername/mcq-quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
	"github.com/yourusername/mcq-quiz-api/internal/service/ranking"
)

// SubmitQuizInput — входные данные отправки результата викторины
type SubmitQuizInput struct {
	Username       string
	Subject        string
	SubCategory    string
	Difficulty     string
	TotalQuestions int
	CorrectAnswers int
	Score          int
	Percentage     float64
	TimeTaken      *int
	QuestionsData  json.RawMessage
}

// Validate проверяет входные данные ДО какой-либо записи в хранилище
func (in *SubmitQuizInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(in.Subject) == "" {
		return fmt.Errorf("%w: subject is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(in.SubCategory) == "" {
		return fmt.Errorf("%w: subCategory is required", apperrors.ErrValidation)
	}
	if !entity.IsValidDifficulty(in.Difficulty) {
		return fmt.Errorf("%w: difficulty must be one of Easy, Medium, Hard", apperrors.ErrValidation)
	}
	if in.TotalQuestions < 1 {
		return fmt.Errorf("%w: totalQuestions must be at least 1", apperrors.ErrValidation)
	}
	if in.CorrectAnswers < 0 || in.CorrectAnswers > in.TotalQuestions {
		return fmt.Errorf("%w: correctAnswers must be between 0 and totalQuestions", apperrors.ErrValidation)
	}
	if in.Score < 0 {
		return fmt.Errorf("%w: score must not be negative", apperrors.ErrValidation)
	}
	if in.Percentage < 0 || in.Percentage > 100 {
		return fmt.Errorf("%w: percentage must be between 0 and 100", apperrors.ErrValidation)
	}
	if in.TimeTaken != nil && *in.TimeTaken < 0 {
		return fmt.Errorf("%w: timeTaken must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// UserStats — персональная статистика пользователя, возвращаемая при отправке
type UserStats struct {
	TotalQuizzes      int     `json:"totalQuizzes"`
	AveragePercentage string  `json:"averagePercentage"`
	BestPercentage    float64 `json:"bestPercentage"`
	AverageTime       int     `json:"averageTime"`
}

// SubmissionReceipt — подтверждение принятого результата
type SubmissionReceipt struct {
	ResultID    uuid.UUID
	CompletedAt time.Time
	// Rank — глобальный ранг пользователя сразу после этой отправки
	Rank      int
	UserStats UserStats
}

// Pagination описывает страницу выборки
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int   `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// LeaderboardPage — страница рейтинга
type LeaderboardPage struct {
	Items      []ranking.RankedEntry
	Pagination Pagination
}

// HistoryPage — страница истории пользователя
type HistoryPage struct {
	Items      []entity.QuizResult
	Pagination Pagination
}

// RankInfo — позиция и перцентиль одного пользователя
type RankInfo struct {
	Username    string
	Rank        int
	TotalUsers  int
	BestScore   float64
	CompletedAt time.Time
	Percentile  int
}

// LeaderboardService оркестрирует сценарии рейтинга: отправка результата,
// лидерборд, ранг пользователя, статистика, история. Единственная точка
// входа для API-слоя.
type LeaderboardService struct {
	repo            repository.ResultRepository
	engine          *ranking.Engine
	defaultPageSize int
	maxPageSize     int
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(repo repository.ResultRepository, engine *ranking.Engine, defaultPageSize, maxPageSize int) *LeaderboardService {
	if defaultPageSize < 1 {
		defaultPageSize = 50
	}
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &LeaderboardService{
		repo:            repo,
		engine:          engine,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// normalizePaging приводит page/pageSize к допустимым границам.
// pageSize выше максимума обрезается, а не отклоняется.
func (s *LeaderboardService) normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

// paginate вычисляет метаданные страницы для totalCount элементов
func paginate(totalCount, page, pageSize int) Pagination {
	totalPages := int(math.Ceil(float64(totalCount) / float64(pageSize)))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     page*pageSize < totalCount,
		HasPrev:     page > 1,
	}
}

// pageBounds возвращает границы среза [(page-1)*pageSize, page*pageSize),
// обрезанные по total
func pageBounds(total, page, pageSize int) (int, int) {
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// SubmitResult валидирует и сохраняет результат, затем возвращает
// глобальный ранг отправителя и его персональную статистику.
// Ответ обязан учитывать только что сохраненную запись.
func (s *LeaderboardService) SubmitResult(ctx context.Context, input SubmitQuizInput) (*SubmissionReceipt, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &entity.QuizResult{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(input.Username),
		Subject:        strings.TrimSpace(input.Subject),
		SubCategory:    strings.TrimSpace(input.SubCategory),
		Difficulty:     input.Difficulty,
		TotalQuestions: input.TotalQuestions,
		CorrectAnswers: input.CorrectAnswers,
		Score:          input.Score,
		Percentage:     input.Percentage,
		TimeTaken:      input.TimeTaken,
		QuestionsData:  input.QuestionsData,
		CompletedAt:    time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, result); err != nil {
		return nil, err
	}
	log.Printf("[LeaderboardService] Результат сохранен: user=%s subject=%s pct=%.1f", result.Username, result.Subject, result.Percentage)

	// Глобальный ранг без фильтров — запись уже видна чтению
	userRank, err := s.engine.RankOf(ctx, result.Username, entity.ResultFilter{})
	if err != nil {
		return nil, err
	}

	stats, err := s.userStats(ctx, result.Username)
	if err != nil {
		return nil, err
	}

	return &SubmissionReceipt{
		ResultID:    result.ID,
		CompletedAt: result.CompletedAt,
		Rank:        userRank.Rank,
		UserStats:   *stats,
	}, nil
}

// userStats агрегирует результаты одного пользователя
func (s *LeaderboardService) userStats(ctx context.Context, username string) (*UserStats, error) {
	results, err := s.repo.Find(ctx, entity.ResultFilter{Username: username}.Normalize())
	if err != nil {
		return nil, err
	}

	stats := &UserStats{TotalQuizzes: len(results), AveragePercentage: "0.0"}
	if len(results) == 0 {
		return stats, nil
	}

	var sumPct float64
	var sumTime, timeCount int
	for _, r := range results {
		sumPct += r.Percentage
		if r.Percentage > stats.BestPercentage {
			stats.BestPercentage = r.Percentage
		}
		if r.TimeTaken != nil {
			sumTime += *r.TimeTaken
			timeCount++
		}
	}
	stats.AveragePercentage = strconv.FormatFloat(sumPct/float64(len(results)), 'f', 1, 64)
	if timeCount > 0 {
		stats.AverageTime = int(math.Round(float64(sumTime) / float64(timeCount)))
	}
	return stats, nil
}

// GetLeaderboard возвращает страницу канонического рейтинга под фильтром
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, filter entity.ResultFilter, page, pageSize int) (*LeaderboardPage, error) {
	page, pageSize = s.normalizePaging(page, pageSize)

	entries, err := s.engine.Rank(ctx, filter.Normalize())
	if err != nil {
		return nil, err
	}

	start, end := pageBounds(len(entries), page, pageSize)
	return &LeaderboardPage{
		Items:      entries[start:end],
		Pagination: paginate(len(entries), page, pageSize),
	}, nil
}

// GetFullRanking возвращает весь канонический рейтинг (для экспорта)
func (s *LeaderboardService) GetFullRanking(ctx context.Context, filter entity.ResultFilter) ([]ranking.RankedEntry, error) {
	return s.engine.Rank(ctx, filter.Normalize())
}

// GetUserRank возвращает ранг и перцентиль пользователя.
// errors.ErrNotFound, если у пользователя нет результатов под фильтром.
func (s *LeaderboardService) GetUserRank(ctx context.Context, username string, filter entity.ResultFilter) (*RankInfo, error) {
	userRank, err := s.engine.RankOf(ctx, username, filter.Normalize())
	if err != nil {
		return nil, err
	}

	return &RankInfo{
		Username:    username,
		Rank:        userRank.Rank,
		TotalUsers:  userRank.TotalUsers,
		BestScore:   userRank.Best.Percentage,
		CompletedAt: userRank.Best.CompletedAt,
		Percentile:  ranking.Percentile(userRank.Rank, userRank.TotalUsers),
	}, nil
}

// GetStats возвращает агрегированную статистику под фильтром
func (s *LeaderboardService) GetStats(ctx context.Context, filter entity.ResultFilter) (*ranking.Stats, error) {
	return s.engine.AggregateStats(ctx, filter.Normalize())
}

// sortHistory сортирует результаты по убыванию времени завершения,
// при равенстве — по ID для детерминизма
func sortHistory(results []entity.QuizResult) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.After(results[j].CompletedAt)
		}
		return results[i].ID.String() < results[j].ID.String()
	})
}

// GetUserHistory возвращает историю пользователя в обратном хронологическом
// порядке (в отличие от рейтинга, здесь сортировка по времени завершения)
func (s *LeaderboardService) GetUserHistory(ctx context.Context, username string, page, pageSize int, filter entity.ResultFilter) (*HistoryPage, error) {
	page, pageSize = s.normalizePaging(page, pageSize)

	filter.Username = username
	results, err := s.repo.Find(ctx, filter.Normalize())
	if err != nil {
		return nil, err
	}

	sortHistory(results)

	start, end := pageBounds(len(results), page, pageSize)
	return &HistoryPage{
		Items:      results[start:end],
		Pagination: paginate(len(results), page, pageSize),
	}, nil
}
