package repository

import (
	"context"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами викторин.
// Коллекция append-only: контракт не содержит операций обновления и удаления.
type ResultRepository interface {
	// Save атомарно сохраняет результат. ID и CompletedAt должны быть
	// заполнены вызывающей стороной. Конкурентные вызовы не теряют записи.
	Save(ctx context.Context, result *entity.QuizResult) error

	// Find возвращает все результаты, удовлетворяющие фильтру (AND-семантика,
	// регистронезависимое сравнение строк, включительная граница Since).
	// Фильтр должен быть нормализован (entity.ResultFilter.Normalize).
	// Пустой слайс — валидный результат, не ошибка.
	Find(ctx context.Context, filter entity.ResultFilter) ([]entity.QuizResult, error)
}
