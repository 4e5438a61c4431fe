package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository поверх PostgreSQL
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет результат одним INSERT. Одиночный INSERT атомарен,
// поэтому конкурентные отправки не требуют дополнительной блокировки.
func (r *ResultRepo) Save(ctx context.Context, result *entity.QuizResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("%w: save quiz result: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// Find возвращает результаты, удовлетворяющие фильтру.
// Строковые поля фильтра уже нормализованы (нижний регистр),
// поэтому сравниваем через LOWER() по колонке.
func (r *ResultRepo) Find(ctx context.Context, filter entity.ResultFilter) ([]entity.QuizResult, error) {
	q := r.db.WithContext(ctx).Model(&entity.QuizResult{})

	if filter.Username != "" {
		q = q.Where("LOWER(username) = ?", filter.Username)
	}
	if filter.Subject != "" {
		q = q.Where("LOWER(subject) = ?", filter.Subject)
	}
	if filter.Difficulty != "" {
		q = q.Where("LOWER(difficulty) = ?", filter.Difficulty)
	}
	if !filter.Since.IsZero() {
		q = q.Where("completed_at >= ?", filter.Since)
	}

	var results []entity.QuizResult
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("%w: find quiz results: %v", apperrors.ErrStorage, err)
	}
	// Пустой слайс — валидный результат, ErrRecordNotFound здесь не возникает
	return results, nil
}
