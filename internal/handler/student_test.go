package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnrollAndCourseContent(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.seedUser(t, "alice", true)
	student := env.seedUser(t, "bob", false)
	course := env.seedCourse(t, instructor.ID, "go-basics")
	env.seedModule(t, course.ID, "第一章")

	router := gin.New()
	authed := router.Group("", asUser(student.ID))
	authed.POST("/courses/:id/enroll", env.students.Enroll)
	authed.GET("/students/courses/:id", env.students.CourseContent)

	// 未选课时学习视图不可见
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/students/courses/%d", course.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 before enrollment, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", course.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	// 重复选课
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", course.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/students/courses/%d", course.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, "bob", false)

	router := gin.New()
	router.POST("/courses/:id/enroll", asUser(student.ID), env.students.Enroll)

	req := httptest.NewRequest(http.MethodPost, "/courses/999/enroll", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestCatalogSubjectFilter(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.seedUser(t, "alice", true)
	env.seedCourse(t, instructor.ID, "go-basics")

	router := gin.New()
	router.GET("/courses", env.catalog.Courses)

	req := httptest.NewRequest(http.MethodGet, "/courses?subject=unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/courses", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}
