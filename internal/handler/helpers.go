package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mcq-quiz-api/internal/domain/entity"
	"github.com/yourusername/mcq-quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/mcq-quiz-api/internal/pkg/errors"
)

// Допустимые значения параметра timeframe
const (
	TimeframeAll   = "all"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
)

// handleServiceError отображает ошибки сервисного слоя на HTTP-статусы
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.Fail(err.Error()))
	default:
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail("Internal server error"))
	}
}

// parsePositiveInt разбирает числовой query-параметр.
// Нечисловые и неположительные значения — ошибка, а не молчаливый дефолт.
func parsePositiveInt(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("parameter '%s' must be a positive integer", name)
	}
	return v, nil
}

// filterFromQuery собирает фильтр из query-параметров subject/difficulty.
// Значение "all" эквивалентно отсутствию фильтра.
func filterFromQuery(c *gin.Context) entity.ResultFilter {
	filter := entity.ResultFilter{}
	if s := c.Query("subject"); s != "" && !strings.EqualFold(s, "all") {
		filter.Subject = s
	}
	if d := c.Query("difficulty"); d != "" && !strings.EqualFold(d, "all") {
		filter.Difficulty = d
	}
	return filter
}

// applyTimeframe переводит timeframe в нижнюю границу по времени завершения.
// Окно считается на момент запроса, а не записи.
func applyTimeframe(filter entity.ResultFilter, timeframe string) (entity.ResultFilter, error) {
	switch timeframe {
	case "", TimeframeAll:
		// без ограничения
	case TimeframeWeek:
		filter.Since = time.Now().UTC().AddDate(0, 0, -7)
	case TimeframeMonth:
		filter.Since = time.Now().UTC().AddDate(0, 0, -30)
	default:
		return filter, fmt.Errorf("timeframe must be one of: all, week, month")
	}
	return filter, nil
}
