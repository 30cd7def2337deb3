package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/educado/backend/internal/service"
	"github.com/educado/backend/internal/utils"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// Subjects 科目列表，附带课程数
func (h *CatalogHandler) Subjects(c *gin.Context) {
	subjects, err := h.catalog.Subjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required,max=200"`
		Slug  string `json:"slug" binding:"max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	// 纯非 ASCII 标题会得到空 slug，退回 uuid 避免唯一索引冲突
	if slug == "" {
		slug = uuid.NewString()
	}

	subject, err := h.catalog.CreateSubject(req.Title, slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// Courses 课程目录，?subject=slug 可选过滤
func (h *CatalogHandler) Courses(c *gin.Context) {
	courses, err := h.catalog.Courses(c.Request.Context(), c.Query("subject"))
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CourseDetail 按 slug 查看单个课程与其模块
func (h *CatalogHandler) CourseDetail(c *gin.Context) {
	course, err := h.catalog.CourseDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, course)
}
