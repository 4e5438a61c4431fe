package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
)

// QuestionCacheRepo реализует repository.QuestionCacheRepository поверх Redis.
// TTL ключа и есть срок жизни набора — отдельной очистки не требуется.
type QuestionCacheRepo struct {
	client redis.UniversalClient
}

// NewQuestionCacheRepo создает новый репозиторий кеша вопросов
func NewQuestionCacheRepo(client redis.UniversalClient) (*QuestionCacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for QuestionCacheRepo")
	}
	return &QuestionCacheRepo{client: client}, nil
}

// cacheKey формирует ключ по тройке (subject, subCategory, difficulty).
// Регистр не важен: "Science" и "science" — один и тот же набор.
func cacheKey(subject, subCategory, difficulty string) string {
	return strings.ToLower(fmt.Sprintf("questions:%s:%s:%s", subject, subCategory, difficulty))
}

// GetQuestionSet получает закешированный набор вопросов
func (r *QuestionCacheRepo) GetQuestionSet(ctx context.Context, subject, subCategory, difficulty string) (*entity.CachedQuestionSet, error) {
	data, err := r.client.Get(ctx, cacheKey(subject, subCategory, difficulty)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get cached questions: %v", apperrors.ErrStorage, err)
	}

	var set entity.CachedQuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: unmarshal cached questions: %v", apperrors.ErrStorage, err)
	}
	return &set, nil
}

// SetQuestionSet сохраняет набор вопросов с заданным TTL
func (r *QuestionCacheRepo) SetQuestionSet(ctx context.Context, set *entity.CachedQuestionSet, ttl time.Duration) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	key := cacheKey(set.Subject, set.SubCategory, set.Difficulty)
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set cached questions: %v", apperrors.ErrStorage, err)
	}
	return nil
}
