package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/educado/backend/internal/service"
)

type StudentHandler struct {
	students *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{students: studentService}
}

func (h *StudentHandler) Enroll(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	enrollment, err := h.students.Enroll(currentUserID(c), uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		case errors.Is(err, service.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "already enrolled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Courses 当前用户已选课程
func (h *StudentHandler) Courses(c *gin.Context) {
	courses, err := h.students.Courses(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CourseContent 已选课程的学习视图，未选课返回 404
func (h *StudentHandler) CourseContent(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	course, modules, err := h.students.CourseContent(currentUserID(c), uint(courseID))
	if err != nil {
		if errors.Is(err, service.ErrNotEnrolled) || errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course, "modules": modules})
}
