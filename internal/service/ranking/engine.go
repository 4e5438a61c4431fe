package ranking

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	"github.com/yourusername/mcq-quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
)

// Engine вычисляет рейтинги и агрегированную статистику.
// Полностью stateless: каждый вызов заново читает хранилище и ничего
// в нем не изменяет, поэтому все методы безопасны при конкурентных вызовах.
type Engine struct {
	repo repository.ResultRepository
	now  func() time.Time
}

// NewEngine создает новый движок рейтинга
func NewEngine(repo repository.ResultRepository) *Engine {
	return &Engine{
		repo: repo,
		now:  time.Now,
	}
}

// sortCanonical сортирует результаты в каноническом порядке рейтинга:
// процент по убыванию, при равенстве — более ранний CompletedAt выше
// (первый достигший результата выигрывает). Финальный ключ — ID, чтобы
// порядок был полностью детерминированным.
func sortCanonical(results []entity.QuizResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		if !results[i].CompletedAt.Equal(results[j].CompletedAt) {
			return results[i].CompletedAt.Before(results[j].CompletedAt)
		}
		return results[i].ID.String() < results[j].ID.String()
	})
}

// beats сообщает, ранжируется ли результат a выше результата b
func beats(a, b *entity.QuizResult) bool {
	if a.Percentage != b.Percentage {
		return a.Percentage > b.Percentage
	}
	if !a.CompletedAt.Equal(b.CompletedAt) {
		return a.CompletedAt.Before(b.CompletedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Rank возвращает все результаты под фильтром в каноническом порядке
// с 1-based рангами
func (e *Engine) Rank(ctx context.Context, filter entity.ResultFilter) ([]RankedEntry, error) {
	results, err := e.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortCanonical(results)

	entries := make([]RankedEntry, len(results))
	for i, r := range results {
		entries[i] = RankedEntry{QuizResult: r, Rank: i + 1}
	}
	return entries, nil
}

// RankOf вычисляет позицию пользователя среди уникальных пользователей.
// Каждый пользователь представлен своим лучшим результатом под фильтром;
// лучшие результаты ранжируются тем же каноническим порядком.
// Возвращает errors.ErrNotFound, если у пользователя нет подходящих результатов.
func (e *Engine) RankOf(ctx context.Context, username string, filter entity.ResultFilter) (*UserRank, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	// Имя пользователя в фильтре здесь не применяется: ранжируем всех
	filter.Username = ""
	results, err := e.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Лучший результат каждого пользователя (ключ — имя в нижнем регистре)
	best := make(map[string]entity.QuizResult)
	for _, r := range results {
		key := strings.ToLower(r.Username)
		if b, ok := best[key]; !ok || beats(&r, &b) {
			best[key] = r
		}
	}

	userBest, ok := best[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	bests := make([]entity.QuizResult, 0, len(best))
	for _, b := range best {
		bests = append(bests, b)
	}
	sortCanonical(bests)

	rank := 0
	for i := range bests {
		if strings.ToLower(bests[i].Username) == username {
			rank = i + 1
			break
		}
	}

	return &UserRank{
		Rank:       rank,
		TotalUsers: len(bests),
		Best:       userBest,
	}, nil
}

// Percentile переводит ранг в перцентиль: какую долю пользователей
// данный ранг опережает. Формула round(((totalUsers - rank + 1) / totalUsers) * 100),
// округление half-up (0.5 всегда вверх), 0 при totalUsers <= 0.
func Percentile(rank, totalUsers int) int {
	if totalUsers <= 0 {
		return 0
	}
	v := float64(totalUsers-rank+1) / float64(totalUsers) * 100
	return int(math.Floor(v + 0.5))
}
