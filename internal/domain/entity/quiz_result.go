package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Уровни сложности викторины. Фиксированный набор, порядок важен для статистики.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties перечисляет допустимые уровни сложности в каноническом порядке
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValidDifficulty проверяет, что значение — один из трех допустимых уровней
func IsValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// QuizResult представляет завершенную попытку прохождения викторины.
// Записи append-only: после создания не обновляются и не удаляются.
type QuizResult struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string          `gorm:"size:50;not null;index:idx_quiz_results_username" json:"username"`
	Subject        string          `gorm:"size:100;not null;index:idx_quiz_results_subject" json:"subject"`
	SubCategory    string          `gorm:"size:100;not null;column:sub_category" json:"subCategory"`
	Difficulty     string          `gorm:"size:20;not null" json:"difficulty"`
	TotalQuestions int             `gorm:"not null;default:10" json:"totalQuestions"`
	CorrectAnswers int             `gorm:"not null" json:"correctAnswers"`
	Score          int             `gorm:"not null" json:"score"`
	Percentage     float64         `gorm:"type:decimal(5,2);not null;index:idx_quiz_results_percentage,sort:desc" json:"percentage"`
	TimeTaken      *int            `gorm:"column:time_taken" json:"timeTaken,omitempty"` // в секундах, может отсутствовать
	QuestionsData  json.RawMessage `gorm:"type:jsonb;column:questions_data" json:"questionsData,omitempty"`
	CompletedAt    time.Time       `gorm:"not null;index:idx_quiz_results_completed_at,sort:desc" json:"completedAt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (QuizResult) TableName() string {
	return "quiz_results"
}

// ResultFilter задает критерии выборки результатов. Все поля опциональны
// и комбинируются по AND. Строковые сравнения регистронезависимы.
type ResultFilter struct {
	Username   string
	Subject    string
	Difficulty string
	// Since — включительная нижняя граница по CompletedAt (нулевое значение = без ограничения)
	Since time.Time
}

// Normalize приводит строковые поля фильтра к нижнему регистру и убирает пробелы.
// Вызывается один раз на границе сервиса, чтобы репозиториям не приходилось
// нормализовывать значения повторно.
func (f ResultFilter) Normalize() ResultFilter {
	f.Username = strings.ToLower(strings.TrimSpace(f.Username))
	f.Subject = strings.ToLower(strings.TrimSpace(f.Subject))
	f.Difficulty = strings.ToLower(strings.TrimSpace(f.Difficulty))
	return f
}

// Matches проверяет, удовлетворяет ли результат нормализованному фильтру
func (f ResultFilter) Matches(r *QuizResult) bool {
	if f.Username != "" && strings.ToLower(r.Username) != f.Username {
		return false
	}
	if f.Subject != "" && strings.ToLower(r.Subject) != f.Subject {
		return false
	}
	if f.Difficulty != "" && strings.ToLower(r.Difficulty) != f.Difficulty {
		return false
	}
	if !f.Since.IsZero() && r.CompletedAt.Before(f.Since) {
		return false
	}
	return true
}
