package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	"github.com/yourusername/mcq-quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
	"github.com/yourusername/mcq-quiz-api/internal/service/questiongen"
)

// Границы количества вопросов в одном наборе
const (
	MinQuestionCount = 5
	MaxQuestionCount = 20
)

// QuestionService отвечает за выдачу наборов вопросов: кеш, генерация
// через внешний API, fallback на статический банк. Сбой генерации никогда
// не превращается в сбой викторины — всегда есть fallback.
type QuestionService struct {
	cache        repository.QuestionCacheRepository
	generator    questiongen.Generator
	fallback     questiongen.Generator
	cacheTTL     time.Duration
	defaultCount int
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	cache repository.QuestionCacheRepository,
	generator questiongen.Generator,
	fallback questiongen.Generator,
	cacheTTL time.Duration,
	defaultCount int,
) *QuestionService {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	if defaultCount == 0 {
		defaultCount = 10
	}
	return &QuestionService{
		cache:        cache,
		generator:    generator,
		fallback:     fallback,
		cacheTTL:     cacheTTL,
		defaultCount: defaultCount,
	}
}

// GetQuestions возвращает count вопросов для (subject, subCategory, difficulty).
// Порядок источников: кеш → генератор → fallback-банк.
func (s *QuestionService) GetQuestions(ctx context.Context, subject, subCategory, difficulty string, count int) ([]entity.Question, error) {
	if !questiongen.IsValidSubjectCategory(subject, subCategory) {
		return nil, fmt.Errorf("%w: invalid subject or subcategory", apperrors.ErrValidation)
	}
	if !entity.IsValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: difficulty must be one of Easy, Medium, Hard", apperrors.ErrValidation)
	}
	if count == 0 {
		count = s.defaultCount
	}
	if count < MinQuestionCount || count > MaxQuestionCount {
		return nil, fmt.Errorf("%w: count must be between %d and %d", apperrors.ErrValidation, MinQuestionCount, MaxQuestionCount)
	}

	// Сначала кеш. Ошибка кеша не фатальна — просто генерируем заново.
	if s.cache != nil {
		set, err := s.cache.GetQuestionSet(ctx, subject, subCategory, difficulty)
		if err == nil && len(set.Questions) >= count {
			log.Printf("[QuestionService] Используем закешированные вопросы (%s / %s / %s)", subject, subCategory, difficulty)
			return numberQuestions(set.Questions[:count]), nil
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[QuestionService] Ошибка чтения кеша вопросов: %v", err)
		}
	}

	questions, err := s.generator.Generate(ctx, subject, subCategory, difficulty, count)
	if err != nil {
		// Любой сбой генерации закрывается fallback-банком
		log.Printf("[QuestionService] Генерация не удалась (%v), используем fallback-банк", err)
		questions, _ = s.fallback.Generate(ctx, subject, subCategory, difficulty, count)
	} else if s.cache != nil {
		set := &entity.CachedQuestionSet{
			Subject:     subject,
			SubCategory: subCategory,
			Difficulty:  difficulty,
			Questions:   questions,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.cache.SetQuestionSet(ctx, set, s.cacheTTL); err != nil {
			log.Printf("[QuestionService] Не удалось закешировать вопросы: %v", err)
		}
	}

	return numberQuestions(questions), nil
}

// numberQuestions присваивает вопросам последовательные 1-based номера
func numberQuestions(questions []entity.Question) []entity.Question {
	numbered := make([]entity.Question, len(questions))
	for i, q := range questions {
		q.ID = i + 1
		q.QuestionNumber = i + 1
		numbered[i] = q
	}
	return numbered
}
