package ranking

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// formatAvg форматирует среднее значение с одним знаком после запятой
func formatAvg(sum float64, count int) string {
	if count == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(sum/float64(count), 'f', 1, 64)
}

// AggregateStats вычисляет агрегированную статистику по результатам под
// фильтром. На пустой выборке возвращает нули, а не ошибку: byDifficulty
// всегда содержит три записи, recentActivity — семь дней.
func (e *Engine) AggregateStats(ctx context.Context, filter entity.ResultFilter) (*Stats, error) {
	results, err := e.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		BySubject: []SubjectStats{},
	}

	// --- Общая статистика ---
	users := make(map[string]struct{})
	var sumPct, maxPct, minPct float64
	var sumTime, timeCount int
	for i, r := range results {
		users[strings.ToLower(r.Username)] = struct{}{}
		sumPct += r.Percentage
		if i == 0 || r.Percentage > maxPct {
			maxPct = r.Percentage
		}
		if i == 0 || r.Percentage < minPct {
			minPct = r.Percentage
		}
		// Среднее время считается только по результатам, где время указано
		if r.TimeTaken != nil {
			sumTime += *r.TimeTaken
			timeCount++
		}
	}

	stats.Overall = OverallStats{
		TotalQuizzes:      len(results),
		TotalUsers:        len(users),
		AveragePercentage: formatAvg(sumPct, len(results)),
		HighestScore:      maxPct,
		LowestScore:       minPct,
	}
	if timeCount > 0 {
		stats.Overall.AverageTime = int(math.Round(float64(sumTime) / float64(timeCount)))
	}

	// --- По предметам ---
	type subjectAgg struct {
		display string
		count   int
		sumPct  float64
		users   map[string]struct{}
	}
	subjects := make(map[string]*subjectAgg)
	for _, r := range results {
		key := strings.ToLower(r.Subject)
		agg, ok := subjects[key]
		if !ok {
			agg = &subjectAgg{display: r.Subject, users: make(map[string]struct{})}
			subjects[key] = agg
		}
		agg.count++
		agg.sumPct += r.Percentage
		agg.users[strings.ToLower(r.Username)] = struct{}{}
	}
	for _, agg := range subjects {
		stats.BySubject = append(stats.BySubject, SubjectStats{
			Subject:           agg.display,
			QuizCount:         agg.count,
			AveragePercentage: formatAvg(agg.sumPct, agg.count),
			UniqueUsers:       len(agg.users),
		})
	}
	// По убыванию количества; при равенстве — по алфавиту для детерминизма
	sort.Slice(stats.BySubject, func(i, j int) bool {
		if stats.BySubject[i].QuizCount != stats.BySubject[j].QuizCount {
			return stats.BySubject[i].QuizCount > stats.BySubject[j].QuizCount
		}
		return stats.BySubject[i].Subject < stats.BySubject[j].Subject
	})

	// --- По сложности: всегда ровно Easy, Medium, Hard ---
	type diffAgg struct {
		count  int
		sumPct float64
	}
	diffs := make(map[string]*diffAgg)
	for _, r := range results {
		key := strings.ToLower(r.Difficulty)
		if diffs[key] == nil {
			diffs[key] = &diffAgg{}
		}
		diffs[key].count++
		diffs[key].sumPct += r.Percentage
	}
	for _, d := range entity.Difficulties {
		agg := diffs[strings.ToLower(d)]
		if agg == nil {
			agg = &diffAgg{}
		}
		stats.ByDifficulty = append(stats.ByDifficulty, DifficultyStats{
			Difficulty:        d,
			QuizCount:         agg.count,
			AveragePercentage: formatAvg(agg.sumPct, agg.count),
		})
	}

	// --- Активность за последние 7 календарных дней (UTC), от сегодняшнего ---
	byDay := make(map[string]int)
	for _, r := range results {
		byDay[r.CompletedAt.UTC().Format("2006-01-02")]++
	}
	today := e.now().UTC()
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		stats.RecentActivity = append(stats.RecentActivity, DayActivity{
			Date:      day,
			QuizCount: byDay[day],
		})
	}

	return stats, nil
}
