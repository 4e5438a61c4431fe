package memory

import (
	"context"
	"sync"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// ResultRepo — эталонная in-memory реализация repository.ResultRepository.
// Используется в тестах и локальной разработке. Один писатель за раз
// (mu.Lock в Save), читатели конкурентны (mu.RLock в Find) и всегда
// получают копию среза — снапшот на момент начала чтения.
type ResultRepo struct {
	mu      sync.RWMutex
	results []entity.QuizResult
}

// NewResultRepo создает пустой in-memory репозиторий результатов
func NewResultRepo() *ResultRepo {
	return &ResultRepo{}
}

// Save добавляет результат в конец коллекции
func (r *ResultRepo) Save(_ context.Context, result *entity.QuizResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, *result)
	return nil
}

// Find возвращает копии всех результатов, удовлетворяющих фильтру
func (r *ResultRepo) Find(_ context.Context, filter entity.ResultFilter) ([]entity.QuizResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]entity.QuizResult, 0, len(r.results))
	for i := range r.results {
		if filter.Matches(&r.results[i]) {
			matched = append(matched, r.results[i])
		}
	}
	return matched, nil
}

// Count возвращает общее число записей. Вспомогательный метод для тестов.
func (r *ResultRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}
