package entity

import "time"

// Question представляет сгенерированный вопрос викторины.
// Вопросы не хранятся в БД — только в кеше наборов (см. CachedQuestionSet).
type Question struct {
	ID             int      `json:"id"`
	QuestionNumber int      `json:"questionNumber"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
	Explanation    string   `json:"explanation"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
}

// IsValid проверяет структуру вопроса: ровно 4 варианта,
// правильный ответ присутствует среди вариантов
func (q *Question) IsValid() bool {
	if q.Question == "" || q.CorrectAnswer == "" || len(q.Options) != 4 {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// CachedQuestionSet — набор сгенерированных вопросов, закешированный
// по ключу (subject, subCategory, difficulty)
type CachedQuestionSet struct {
	Subject     string     `json:"subject"`
	SubCategory string     `json:"subCategory"`
	Difficulty  string     `json:"difficulty"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
}
