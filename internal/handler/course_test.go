package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/educado/backend/internal/model"
)

func TestReorderModules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "alice", true)
	stranger := env.seedUser(t, "bob", true)

	course := env.seedCourse(t, owner.ID, "go-basics")
	m1 := env.seedModule(t, course.ID, "第一章")
	m2 := env.seedModule(t, course.ID, "第二章")

	foreign := env.seedCourse(t, stranger.ID, "other")
	fm := env.seedModule(t, foreign.ID, "别人的")

	router := gin.New()
	router.POST("/manage/module/order", asUser(owner.ID), env.course.ReorderModules)

	// 包含他人的模块和不存在的 ID，应静默跳过
	body := fmt.Sprintf(`{"%d": 1, "%d": 0, "%d": 5, "999": 3}`, m1.ID, m2.ID, fm.ID)
	req := httptest.NewRequest(http.MethodPost, "/manage/module/order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response error: %v", err)
	}
	if resp["saved"] != "OK" {
		t.Fatalf("expected saved OK, got %v", resp)
	}

	var got model.Module
	if err := env.db.First(&got, m2.ID).Error; err != nil {
		t.Fatalf("load module error: %v", err)
	}
	if *got.Position != 0 {
		t.Fatalf("expected module %d at position 0, got %d", m2.ID, *got.Position)
	}
	got = model.Module{}
	if err := env.db.First(&got, fm.ID).Error; err != nil {
		t.Fatalf("load foreign module error: %v", err)
	}
	if *got.Position != 0 {
		t.Fatalf("foreign module position should be untouched, got %d", *got.Position)
	}
}

func TestReorderModulesInvalidBody(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "alice", true)

	router := gin.New()
	router.POST("/manage/module/order", asUser(owner.ID), env.course.ReorderModules)

	req := httptest.NewRequest(http.MethodPost, "/manage/module/order", strings.NewReader(`[1, 2]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestCourseCreateRequiresInstructor(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, "carol", false)

	subject := &model.Subject{Title: "数学", Slug: "math"}
	if err := env.db.Create(subject).Error; err != nil {
		t.Fatalf("create subject error: %v", err)
	}

	router := gin.New()
	router.POST("/manage/courses", asUser(student.ID), env.course.Create)

	body := fmt.Sprintf(`{"subject_id": %d, "title": "微积分"}`, subject.ID)
	req := httptest.NewRequest(http.MethodPost, "/manage/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSyncModules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "alice", true)
	course := env.seedCourse(t, owner.ID, "go-basics")
	existing := env.seedModule(t, course.ID, "旧标题")

	router := gin.New()
	router.PUT("/manage/courses/:id/modules", asUser(owner.ID), env.course.SyncModules)

	body := fmt.Sprintf(`{"modules": [
		{"id": %d, "title": "新标题"},
		{"title": "新增章节"}
	]}`, existing.ID)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/manage/courses/%d/modules", course.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var modules []model.Module
	if err := json.Unmarshal(w.Body.Bytes(), &modules); err != nil {
		t.Fatalf("decode response error: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(modules))
	}
	if modules[0].Title != "新标题" {
		t.Fatalf("expected renamed module first, got %q", modules[0].Title)
	}
	if *modules[1].Position != 1 {
		t.Fatalf("expected new module at position 1, got %d", *modules[1].Position)
	}
}
