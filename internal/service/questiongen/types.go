package questiongen

import (
	"context"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// Generator генерирует набор вопросов по заданным параметрам.
// Реализации: GeminiClient (внешний API) и статический fallback-банк.
type Generator interface {
	Generate(ctx context.Context, subject, subCategory, difficulty string, count int) ([]entity.Question, error)
}
