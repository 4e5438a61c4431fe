package questiongen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// difficultyInstructions уточняет промпт для каждого уровня сложности
var difficultyInstructions = map[string]string{
	entity.DifficultyEasy:   "basic knowledge that most people would know, simple concepts",
	entity.DifficultyMedium: "intermediate knowledge requiring some specific understanding",
	entity.DifficultyHard:   "advanced knowledge requiring deep understanding or expertise",
}

// GeminiClient реализует Generator через REST API Gemini
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient создает новый клиент Gemini API
func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Структуры запроса/ответа generateContent
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// createPrompt формирует промпт генерации вопросов
func createPrompt(subject, subCategory, difficulty string, count int) string {
	return fmt.Sprintf(`Generate exactly %d multiple choice questions about %s in %s.

REQUIREMENTS:
- Difficulty: %s (%s)
- Each question must have exactly 4 options (A, B, C, D)
- Include diverse, well-researched questions
- Provide clear, detailed explanations for correct answers
- Ensure questions are factual and up-to-date
- Make distractors (wrong options) plausible but clearly incorrect

FORMAT: Return ONLY a valid JSON array with this exact structure:
[
  {
    "question": "Clear, specific question text?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": "Option B",
    "explanation": "Detailed explanation of why this answer is correct and why others are wrong",
    "category": "%s",
    "difficulty": "%s"
  }
]

Generate exactly %d questions following this format. Ensure the JSON is valid and complete.`,
		count, subCategory, subject,
		difficulty, difficultyInstructions[difficulty],
		subCategory, difficulty, count)
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// parseQuestionsResponse извлекает JSON-массив вопросов из текста ответа модели.
// Модель может обернуть JSON в markdown-блок — срезаем обертку.
func parseQuestionsResponse(text string) ([]entity.Question, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	if m := jsonArrayRe.FindString(clean); m != "" {
		clean = m
	}

	var questions []entity.Question
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions from AI response: %w", err)
	}
	return questions, nil
}

// Generate запрашивает у Gemini набор вопросов и валидирует результат
func (c *GeminiClient) Generate(ctx context.Context, subject, subCategory, difficulty string, count int) ([]entity.Question, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: no Gemini API key configured", apperrors.ErrUpstreamUnavailable)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: createPrompt(subject, subCategory, difficulty, count)}}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini request failed: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[GeminiClient] Неожиданный статус %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: gemini returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%w: decode gemini response: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty gemini response", apperrors.ErrUpstreamUnavailable)
	}

	questions, err := parseQuestionsResponse(gr.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions generated", apperrors.ErrUpstreamUnavailable)
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	for i := range questions {
		if !questions[i].IsValid() {
			return nil, fmt.Errorf("%w: invalid question structure at index %d", apperrors.ErrUpstreamUnavailable, i)
		}
	}

	log.Printf("[GeminiClient] Сгенерировано %d вопросов (%s / %s / %s)", len(questions), subject, subCategory, difficulty)
	return questions, nil
}
