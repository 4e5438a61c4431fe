package repository

import (
	"context"
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// QuestionCacheRepository определяет методы для кеширования наборов вопросов.
// Кеш — внешний по отношению к подсистеме рейтинга ресурс со своим
// жизненным циклом (TTL), он никак не пересекается с хранилищем результатов.
type QuestionCacheRepository interface {
	// GetQuestionSet возвращает закешированный набор или errors.ErrNotFound,
	// если набора нет либо он истек
	GetQuestionSet(ctx context.Context, subject, subCategory, difficulty string) (*entity.CachedQuestionSet, error)

	// SetQuestionSet сохраняет набор с заданным TTL
	SetQuestionSet(ctx context.Context, set *entity.CachedQuestionSet, ttl time.Duration) error
}
