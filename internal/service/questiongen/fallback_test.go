package questiongen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackGenerator_FromBank(t *testing.T) {
	gen := NewFallbackGenerator()

	questions, err := gen.Generate(context.Background(), "Technology", "Programming", "Hard", 3)

	require.NoError(t, err)
	require.Len(t, questions, 3)
	for _, q := range questions {
		assert.True(t, q.IsValid(), "вопрос из банка должен быть структурно корректен: %q", q.Question)
		assert.Equal(t, "Hard", q.Difficulty)
	}
}

func TestFallbackGenerator_RepeatsWhenBankTooSmall(t *testing.T) {
	gen := NewFallbackGenerator()

	// В банке Basketball всего один вопрос — повторы помечаются номером
	questions, err := gen.Generate(context.Background(), "Sports", "Basketball", "Easy", 3)

	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.NotContains(t, questions[0].Question, "(Question")
	assert.Contains(t, questions[1].Question, "(Question 2)")
	assert.Contains(t, questions[2].Question, "(Question 3)")
}

func TestFallbackGenerator_GenericForUnknownCategory(t *testing.T) {
	gen := NewFallbackGenerator()

	questions, err := gen.Generate(context.Background(), "Mathematics", "Calculus", "Medium", 4)

	require.NoError(t, err)
	require.Len(t, questions, 4)
	for _, q := range questions {
		assert.True(t, q.IsValid())
		assert.Contains(t, q.Question, "Calculus")
		assert.Equal(t, "Calculus", q.Category)
		assert.Equal(t, "Medium", q.Difficulty)
	}
}

func TestFallbackGenerator_NeverErrors(t *testing.T) {
	gen := NewFallbackGenerator()

	for _, subject := range SubjectNames() {
		for _, category := range SubjectCategories()[subject] {
			questions, err := gen.Generate(context.Background(), subject, category, "Easy", 5)
			require.NoError(t, err)
			assert.Len(t, questions, 5, "%s / %s", subject, category)
		}
	}
}

func TestSubjectsCatalog(t *testing.T) {
	names := SubjectNames()
	catalog := SubjectCategories()

	assert.Len(t, names, len(catalog))
	for _, name := range names {
		assert.NotEmpty(t, catalog[name], "у предмета %s должны быть подкатегории", name)
	}

	assert.True(t, IsValidSubjectCategory("Technology", "Programming"))
	assert.False(t, IsValidSubjectCategory("Technology", "Cooking"))
	assert.False(t, IsValidSubjectCategory("Alchemy", "Transmutation"))
	// Точное совпадение, без нормализации регистра
	assert.False(t, IsValidSubjectCategory("technology", "programming"))
}
