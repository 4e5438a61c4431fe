package ranking

import (
	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// RankedEntry — результат с присвоенной 1-based позицией в каноническом порядке
type RankedEntry struct {
	entity.QuizResult
	Rank int `json:"rank"`
}

// UserRank описывает позицию пользователя среди всех уникальных пользователей
// под заданным фильтром
type UserRank struct {
	// Rank — 1-based позиция пользователя по его лучшему результату
	Rank int
	// TotalUsers — количество уникальных пользователей под фильтром
	TotalUsers int
	// Best — лучший результат пользователя (наибольший процент,
	// при равенстве — более ранний CompletedAt)
	Best entity.QuizResult
}

// OverallStats — сводная статистика по всем результатам под фильтром
type OverallStats struct {
	TotalQuizzes      int     `json:"totalQuizzes"`
	TotalUsers        int     `json:"totalUsers"`
	AveragePercentage string  `json:"averagePercentage"` // один знак после запятой, например "75.0"
	HighestScore      float64 `json:"highestScore"`
	LowestScore       float64 `json:"lowestScore"`
	AverageTime       int     `json:"averageTime"` // среднее по результатам, где время указано
}

// SubjectStats — статистика по одному предмету
type SubjectStats struct {
	Subject           string `json:"subject"`
	QuizCount         int    `json:"quizCount"`
	AveragePercentage string `json:"averagePercentage"`
	UniqueUsers       int    `json:"uniqueUsers"`
}

// DifficultyStats — статистика по одному уровню сложности
type DifficultyStats struct {
	Difficulty        string `json:"difficulty"`
	QuizCount         int    `json:"quizCount"`
	AveragePercentage string `json:"averagePercentage"`
}

// DayActivity — количество результатов за один календарный день (UTC)
type DayActivity struct {
	Date      string `json:"date"` // формат YYYY-MM-DD
	QuizCount int    `json:"quizCount"`
}

// Stats — агрегированная статистика для эндпоинта /api/leaderboard/stats
type Stats struct {
	Overall OverallStats `json:"overall"`
	// BySubject отсортирован по убыванию количества результатов
	BySubject []SubjectStats `json:"bySubject"`
	// ByDifficulty всегда содержит ровно три записи: Easy, Medium, Hard
	ByDifficulty []DifficultyStats `json:"byDifficulty"`
	// RecentActivity — последние 7 календарных дней, от сегодняшнего к более ранним
	RecentActivity []DayActivity `json:"recentActivity"`
}
