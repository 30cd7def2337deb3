package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/educado/backend/internal/service"
)

type CourseHandler struct {
	courses *service.CourseService
	modules *service.ModuleService
}

func NewCourseHandler(courseService *service.CourseService, moduleService *service.ModuleService) *CourseHandler {
	return &CourseHandler{courses: courseService, modules: moduleService}
}

// List 当前用户创建的课程
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListOwned(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "instructor permission required"})
		case errors.Is(err, service.ErrSubjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	var req service.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courses.Update(c.Request.Context(), uint(id), currentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		case errors.Is(err, service.ErrSubjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	if err := h.courses.Delete(c.Request.Context(), uint(id), currentUserID(c)); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SyncModules 课程模块的批量编辑（新建/更新/删除合并在一个载荷里）
func (h *CourseHandler) SyncModules(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	var req struct {
		Modules []service.ModuleForm `json:"modules" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modules, err := h.modules.SyncForCourse(c.Request.Context(), uint(id), currentUserID(c), req.Modules)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		case errors.Is(err, service.ErrModuleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "module not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, modules)
}

// ReorderModules 接收 {模块ID: 新位置} 映射，越权与未知 ID 静默跳过
func (h *CourseHandler) ReorderModules(c *gin.Context) {
	var order map[string]int
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.modules.Reorder(c.Request.Context(), currentUserID(c), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": "OK"})
}
