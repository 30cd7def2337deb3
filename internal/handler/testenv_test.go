package handler

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/pkg/security"
	"github.com/educado/backend/internal/pkg/storage"
	"github.com/educado/backend/internal/repository"
	"github.com/educado/backend/internal/service"
)

type testEnv struct {
	db     *gorm.DB
	tokens *security.TokenManager

	auth     *AuthHandler
	course   *CourseHandler
	content  *ContentHandler
	catalog  *CatalogHandler
	students *StudentHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Course{},
		&model.Module{},
		&model.Content{},
		&model.ItemText{},
		&model.ItemFile{},
		&model.ItemImage{},
		&model.ItemVideo{},
		&model.Enrollment{},
	)
	if err != nil {
		t.Fatalf("migrate error: %v", err)
	}

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("create file store error: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	contentRepo := repository.NewContentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	catalogCache := cache.NewCatalogCache(nil, time.Minute)
	tokens := security.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		db:     db,
		tokens: tokens,
		auth:   NewAuthHandler(service.NewAuthService(userRepo, tokens)),
		course: NewCourseHandler(
			service.NewCourseService(courseRepo, subjectRepo, userRepo, catalogCache),
			service.NewModuleService(moduleRepo, courseRepo, catalogCache),
		),
		content:  NewContentHandler(service.NewContentService(contentRepo, moduleRepo, courseRepo, catalogCache), store),
		catalog:  NewCatalogHandler(service.NewCatalogService(courseRepo, subjectRepo, catalogCache)),
		students: NewStudentHandler(service.NewStudentService(enrollmentRepo, courseRepo, moduleRepo, contentRepo)),
	}
}

// asUser 直接把用户 ID 写入上下文，绕过 token 校验
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserID, id)
	}
}

func (e *testEnv) seedUser(t *testing.T, username string, instructor bool) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsInstructor: instructor,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user error: %v", err)
	}
	return user
}

func (e *testEnv) seedCourse(t *testing.T, ownerID uint, slug string) *model.Course {
	t.Helper()
	subject := &model.Subject{Title: "编程", Slug: "programming-" + slug}
	if err := e.db.Create(subject).Error; err != nil {
		t.Fatalf("create subject error: %v", err)
	}
	course := &model.Course{
		OwnerID:   ownerID,
		SubjectID: subject.ID,
		Title:     "Go 入门",
		Slug:      slug,
	}
	if err := e.db.Create(course).Error; err != nil {
		t.Fatalf("create course error: %v", err)
	}
	return course
}

func (e *testEnv) seedModule(t *testing.T, courseID uint, title string) *model.Module {
	t.Helper()
	module := &model.Module{CourseID: courseID, Title: title}
	if err := e.db.Create(module).Error; err != nil {
		t.Fatalf("create module error: %v", err)
	}
	return module
}
