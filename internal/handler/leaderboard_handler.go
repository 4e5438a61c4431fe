package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/mcq-quiz-api/internal/handler/dto"
	"github.com/yourusername/mcq-quiz-api/internal/service"
	"github.com/yourusername/mcq-quiz-api/internal/service/ranking"
)

// LeaderboardHandler обрабатывает запросы лидерборда и статистики
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	defaultPageSize    int
}

// NewLeaderboardHandler создает новый обработчик лидерборда
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService, defaultPageSize int) *LeaderboardHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 50
	}
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		defaultPageSize:    defaultPageSize,
	}
}

// GetGlobalLeaderboard возвращает страницу глобального рейтинга
// GET /api/leaderboard/global?page=&limit=&subject=&difficulty=&timeframe=
func (h *LeaderboardHandler) GetGlobalLeaderboard(c *gin.Context) {
	page, err := parsePositiveInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}
	limit, err := parsePositiveInt(c, "limit", h.defaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	timeframe := c.DefaultQuery("timeframe", TimeframeAll)
	filter, err := applyTimeframe(filterFromQuery(c), timeframe)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	lbPage, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), filter, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filters := dto.LeaderboardFilters{
		Subject:    c.DefaultQuery("subject", "all"),
		Difficulty: c.DefaultQuery("difficulty", "all"),
		Timeframe:  timeframe,
	}
	c.JSON(http.StatusOK, dto.OK(dto.NewLeaderboardResponse(lbPage, filters)))
}

// GetSimpleLeaderboard возвращает top-N рейтинга без пагинации
// GET /api/leaderboard?limit=&subject=
func (h *LeaderboardHandler) GetSimpleLeaderboard(c *gin.Context) {
	limit, err := parsePositiveInt(c, "limit", 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	lbPage, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), filterFromQuery(c), 1, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(lbPage.Items))
}

// GetUserRank возвращает ранг и перцентиль пользователя
// GET /api/leaderboard/rank/:username?subject=&difficulty=
func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	username := c.Param("username")

	info, err := h.leaderboardService.GetUserRank(c.Request.Context(), username, filterFromQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.NewRankResponse(info)))
}

// GetStats возвращает агрегированную статистику лидерборда
// GET /api/leaderboard/stats
func (h *LeaderboardHandler) GetStats(c *gin.Context) {
	stats, err := h.leaderboardService.GetStats(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(stats))
}

// ExportLeaderboard экспортирует весь рейтинг в CSV или Excel
// GET /api/leaderboard/export?format=csv|xlsx&subject=&difficulty=
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	entries, err := h.leaderboardService.GetFullRanking(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, entries, filename)
	default:
		h.exportCSV(c, entries, filename)
	}
}

var exportHeaders = []string{"Rank", "Username", "Subject", "Difficulty", "Score", "Percentage", "Time Taken (s)", "Completed At"}

// exportRow формирует строковые значения одной строки экспорта
func exportRow(e *ranking.RankedEntry) []string {
	timeTaken := ""
	if e.TimeTaken != nil {
		timeTaken = strconv.Itoa(*e.TimeTaken)
	}
	return []string{
		strconv.Itoa(e.Rank),
		sanitizeForExcel(e.Username),
		sanitizeForExcel(e.Subject),
		e.Difficulty,
		strconv.Itoa(e.Score),
		strconv.FormatFloat(e.Percentage, 'f', 2, 64),
		timeTaken,
		e.CompletedAt.UTC().Format(time.RFC3339),
	}
}

// exportCSV экспортирует рейтинг в CSV с правильным экранированием спецсимволов
func (h *LeaderboardHandler) exportCSV(c *gin.Context, entries []ranking.RankedEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range entries {
		writer.Write(exportRow(&entries[i]))
	}
}

// exportXLSX экспортирует рейтинг в Excel с использованием StreamWriter
func (h *LeaderboardHandler) exportXLSX(c *gin.Context, entries []ranking.RankedEntry, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[LeaderboardHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create Excel file"))
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range entries {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		values := exportRow(&entries[i])
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), row); err != nil {
			log.Printf("[LeaderboardHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
