package dto

import (
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// QuestionsMeta — метаданные сгенерированного набора вопросов
type QuestionsMeta struct {
	Subject        string    `json:"subject"`
	SubCategory    string    `json:"subCategory"`
	Difficulty     string    `json:"difficulty"`
	TotalQuestions int       `json:"totalQuestions"`
	GeneratedAt    time.Time `json:"generatedAt"`
}

// QuestionsResponse — набор вопросов для прохождения викторины
type QuestionsResponse struct {
	Questions []entity.Question `json:"questions"`
	Meta      QuestionsMeta     `json:"meta"`
}

// NewQuestionsResponse создает DTO набора вопросов
func NewQuestionsResponse(questions []entity.Question, subject, subCategory, difficulty string) QuestionsResponse {
	return QuestionsResponse{
		Questions: questions,
		Meta: QuestionsMeta{
			Subject:        subject,
			SubCategory:    subCategory,
			Difficulty:     difficulty,
			TotalQuestions: len(questions),
			GeneratedAt:    time.Now().UTC(),
		},
	}
}

// SubjectEntry — предмет со списком подкатегорий
type SubjectEntry struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// SubjectsResponse — каталог предметов
type SubjectsResponse struct {
	Subjects        []SubjectEntry `json:"subjects"`
	TotalSubjects   int            `json:"totalSubjects"`
	TotalCategories int            `json:"totalCategories"`
}
