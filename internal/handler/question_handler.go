package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mcq-quiz-api/internal/handler/dto"
	"github.com/yourusername/mcq-quiz-api/internal/service/questiongen"
)

// QuestionHandler отдает каталог предметов и подкатегорий
type QuestionHandler struct{}

// NewQuestionHandler создает новый обработчик каталога вопросов
func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// GetSubjects возвращает все предметы с подкатегориями
// GET /api/questions/subjects
func (h *QuestionHandler) GetSubjects(c *gin.Context) {
	catalog := questiongen.SubjectCategories()

	resp := dto.SubjectsResponse{TotalSubjects: len(catalog)}
	for _, name := range questiongen.SubjectNames() {
		categories := catalog[name]
		resp.Subjects = append(resp.Subjects, dto.SubjectEntry{Name: name, Categories: categories})
		resp.TotalCategories += len(categories)
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// GetSubjectCategories возвращает подкатегории одного предмета
// GET /api/questions/subjects/:subject/categories
func (h *QuestionHandler) GetSubjectCategories(c *gin.Context) {
	subject := c.Param("subject")

	categories, ok := questiongen.SubjectCategories()[subject]
	if !ok {
		c.JSON(http.StatusNotFound, dto.Fail("Subject not found"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"subject":    subject,
		"categories": categories,
	}))
}
