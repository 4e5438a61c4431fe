package questiongen

import (
	"context"
	"fmt"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
)

// fallbackBank — статический банк вопросов на случай недоступности Gemini.
// Покрывает не все подкатегории; для остальных генерируются шаблонные вопросы.
var fallbackBank = map[string]map[string][]entity.Question{
	"Technology": {
		"Programming": {
			{
				Question:      "Which programming language is known as the 'language of the web'?",
				Options:       []string{"Python", "JavaScript", "Java", "C++"},
				CorrectAnswer: "JavaScript",
				Explanation:   "JavaScript is primarily used for web development and runs in web browsers to create interactive websites.",
				Category:      "Programming",
			},
			{
				Question:      "What does HTML stand for?",
				Options:       []string{"Hypertext Markup Language", "High Tech Modern Language", "Home Tool Markup Language", "Hyperlink and Text Markup Language"},
				CorrectAnswer: "Hypertext Markup Language",
				Explanation:   "HTML (Hypertext Markup Language) is the standard markup language for creating web pages and web applications.",
				Category:      "Programming",
			},
			{
				Question:      "Which of the following is a Python web framework?",
				Options:       []string{"Django", "React", "Angular", "Vue"},
				CorrectAnswer: "Django",
				Explanation:   "Django is a high-level Python web framework that encourages rapid development and clean, pragmatic design.",
				Category:      "Programming",
			},
			{
				Question:      "What does CSS stand for?",
				Options:       []string{"Computer Style Sheets", "Cascading Style Sheets", "Creative Style Sheets", "Colorful Style Sheets"},
				CorrectAnswer: "Cascading Style Sheets",
				Explanation:   "CSS (Cascading Style Sheets) is used to describe the presentation of a document written in HTML or XML.",
				Category:      "Programming",
			},
		},
		"Web Development": {
			{
				Question:      "Which HTTP method is used to submit data to be processed?",
				Options:       []string{"GET", "POST", "PUT", "DELETE"},
				CorrectAnswer: "POST",
				Explanation:   "POST method is used to submit data to be processed to a specified resource, often causing a change in state.",
				Category:      "Web Development",
			},
			{
				Question:      "What is the default port for HTTPS?",
				Options:       []string{"80", "443", "8080", "3000"},
				CorrectAnswer: "443",
				Explanation:   "HTTPS uses port 443 by default, while HTTP uses port 80.",
				Category:      "Web Development",
			},
		},
	},
	"Science": {
		"Physics": {
			{
				Question:      "What is the speed of light in vacuum?",
				Options:       []string{"300,000 km/s", "299,792,458 m/s", "186,000 miles/h", "150,000 km/s"},
				CorrectAnswer: "299,792,458 m/s",
				Explanation:   "The speed of light in vacuum is exactly 299,792,458 meters per second, a fundamental constant in physics.",
				Category:      "Physics",
			},
			{
				Question:      "What is the formula for kinetic energy?",
				Options:       []string{"KE = mv", "KE = ½mv²", "KE = m²v", "KE = mv²"},
				CorrectAnswer: "KE = ½mv²",
				Explanation:   "Kinetic energy equals one-half the mass times the velocity squared (KE = ½mv²).",
				Category:      "Physics",
			},
		},
		"Chemistry": {
			{
				Question:      "What is the chemical symbol for gold?",
				Options:       []string{"Go", "Gd", "Au", "Ag"},
				CorrectAnswer: "Au",
				Explanation:   "Gold's chemical symbol is Au, derived from the Latin word 'aurum' meaning gold.",
				Category:      "Chemistry",
			},
			{
				Question:      "How many protons does a carbon atom have?",
				Options:       []string{"4", "6", "8", "12"},
				CorrectAnswer: "6",
				Explanation:   "Carbon has 6 protons in its nucleus, which defines it as element number 6 on the periodic table.",
				Category:      "Chemistry",
			},
		},
	},
	"Sports": {
		"Football": {
			{
				Question:      "How many players are on a football field for one team at a time?",
				Options:       []string{"10", "11", "12", "9"},
				CorrectAnswer: "11",
				Explanation:   "Each football team has 11 players on the field at any given time during play.",
				Category:      "Football",
			},
			{
				Question:      "Which country won the 2018 FIFA World Cup?",
				Options:       []string{"Brazil", "Germany", "France", "Argentina"},
				CorrectAnswer: "France",
				Explanation:   "France won the 2018 FIFA World Cup held in Russia, defeating Croatia 4-2 in the final.",
				Category:      "Football",
			},
		},
		"Basketball": {
			{
				Question:      "How many points is a three-pointer worth in basketball?",
				Options:       []string{"2", "3", "4", "1"},
				CorrectAnswer: "3",
				Explanation:   "A three-pointer is worth 3 points when the ball is shot from beyond the three-point line.",
				Category:      "Basketball",
			},
		},
	},
	"History": {
		"World Wars": {
			{
				Question:      "In which year did World War II end?",
				Options:       []string{"1944", "1945", "1946", "1947"},
				CorrectAnswer: "1945",
				Explanation:   "World War II ended in 1945 with the surrender of Japan in September, following Germany's surrender in May.",
				Category:      "World Wars",
			},
		},
	},
	"Geography": {
		"World Capitals": {
			{
				Question:      "What is the capital of Australia?",
				Options:       []string{"Sydney", "Melbourne", "Canberra", "Perth"},
				CorrectAnswer: "Canberra",
				Explanation:   "Canberra is the capital city of Australia, located in the Australian Capital Territory.",
				Category:      "World Capitals",
			},
		},
	},
}

// FallbackGenerator реализует Generator на статическом банке вопросов.
// Никогда не возвращает ошибку: для подкатегорий без заготовок
// синтезируются шаблонные вопросы.
type FallbackGenerator struct{}

// NewFallbackGenerator создает fallback-генератор
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Generate возвращает count вопросов из банка, при нехватке — дублирует
// с пометкой номера, при полном отсутствии — генерирует шаблонные
func (g *FallbackGenerator) Generate(_ context.Context, subject, subCategory, difficulty string, count int) ([]entity.Question, error) {
	base := fallbackBank[subject][subCategory]
	if len(base) == 0 {
		return genericQuestions(subject, subCategory, difficulty, count), nil
	}

	questions := make([]entity.Question, 0, count)
	for i := 0; i < count; i++ {
		q := base[i%len(base)]
		if i >= len(base) {
			q.Question = fmt.Sprintf("%s (Question %d)", q.Question, i+1)
		}
		q.Difficulty = difficulty
		questions = append(questions, q)
	}
	return questions, nil
}

// genericQuestions синтезирует шаблонные вопросы для подкатегорий без заготовок
func genericQuestions(subject, subCategory, difficulty string, count int) []entity.Question {
	letters := []string{"A", "B", "C", "D"}
	questions := make([]entity.Question, 0, count)
	for i := 0; i < count; i++ {
		options := make([]string, 4)
		for j, l := range letters {
			options[j] = fmt.Sprintf("Option %s for %s", l, subCategory)
		}
		questions = append(questions, entity.Question{
			Question:      fmt.Sprintf("Sample %s question %d about %s in %s?", difficulty, i+1, subCategory, subject),
			Options:       options,
			CorrectAnswer: options[i%4],
			Explanation:   fmt.Sprintf("This is a sample explanation for a %s level question about %s in %s.", difficulty, subCategory, subject),
			Category:      subCategory,
			Difficulty:    difficulty,
		})
	}
	return questions
}
