package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

func sampleResult(username, subject string) *entity.QuizResult {
	return &entity.QuizResult{
		ID:             uuid.New(),
		Username:       username,
		Subject:        subject,
		SubCategory:    "General",
		Difficulty:     entity.DifficultyEasy,
		TotalQuestions: 10,
		CorrectAnswers: 7,
		Score:          70,
		Percentage:     70,
		CompletedAt:    time.Now().UTC(),
	}
}

func TestResultRepo_SaveAndFind(t *testing.T) {
	repo := NewResultRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleResult("alice", "Science")))
	require.NoError(t, repo.Save(ctx, sampleResult("bob", "History")))

	all, err := repo.Find(ctx, entity.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Фильтр по username нечувствителен к регистру
	onlyAlice, err := repo.Find(ctx, entity.ResultFilter{Username: "ALICE"}.Normalize())
	require.NoError(t, err)
	require.Len(t, onlyAlice, 1)
	assert.Equal(t, "alice", onlyAlice[0].Username)
}

func TestResultRepo_FindReturnsCopies(t *testing.T) {
	repo := NewResultRepo()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleResult("alice", "Science")))

	first, err := repo.Find(ctx, entity.ResultFilter{})
	require.NoError(t, err)
	first[0].Percentage = 0

	// Мутация возвращенного среза не затрагивает хранилище
	second, err := repo.Find(ctx, entity.ResultFilter{})
	require.NoError(t, err)
	assert.Equal(t, 70.0, second[0].Percentage)
}

func TestResultRepo_ConcurrentSaves(t *testing.T) {
	repo := NewResultRepo()
	ctx := context.Background()

	const writers = 20
	const perWriter = 50

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = repo.Save(ctx, sampleResult("alice", "Science"))
			}
		}()
	}
	wg.Wait()

	// Ни одна запись не потеряна при конкурентных отправках
	assert.Equal(t, writers*perWriter, repo.Count())
}

func TestResultRepo_ConcurrentReadsDuringWrites(t *testing.T) {
	repo := NewResultRepo()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = repo.Save(ctx, sampleResult("alice", "Science"))
		}
	}()

	// Читатели во время записи видят консистентный снапшот
	for i := 0; i < 50; i++ {
		results, err := repo.Find(ctx, entity.ResultFilter{})
		require.NoError(t, err)
		for _, r := range results {
			assert.Equal(t, "alice", r.Username)
		}
	}
	<-done
}
