package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/repository"
)

type testEnv struct {
	db          *gorm.DB
	users       repository.UserRepository
	subjects    repository.SubjectRepository
	courses     repository.CourseRepository
	modules     repository.ModuleRepository
	contents    repository.ContentRepository
	enrollments repository.EnrollmentRepository
	cache       *cache.CatalogCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
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
	return &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		subjects:    repository.NewSubjectRepository(db),
		courses:     repository.NewCourseRepository(db),
		modules:     repository.NewModuleRepository(db),
		contents:    repository.NewContentRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		cache:       cache.NewCatalogCache(nil, time.Minute),
	}
}

// recordingCache 记录被失效的键，Get 永远未命中
type recordingCache struct {
	invalidated []string
}

func (r *recordingCache) Get(ctx context.Context, key string, dest any) error {
	return cache.ErrMiss
}

func (r *recordingCache) Set(ctx context.Context, key string, value any) {}

func (r *recordingCache) Invalidate(ctx context.Context, keys ...string) {
	r.invalidated = append(r.invalidated, keys...)
}

func (e *testEnv) seedInstructor(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x", IsInstructor: true}
	if err := e.users.Create(user); err != nil {
		t.Fatalf("create user error: %v", err)
	}
	return user
}

func (e *testEnv) seedCourse(t *testing.T, ownerID uint, slug string) *model.Course {
	t.Helper()
	subject := &model.Subject{Title: "编程", Slug: "programming-" + slug}
	if err := e.subjects.Create(subject); err != nil {
		t.Fatalf("create subject error: %v", err)
	}
	course := &model.Course{OwnerID: ownerID, SubjectID: subject.ID, Title: "Go 入门", Slug: slug}
	if err := e.courses.Create(course); err != nil {
		t.Fatalf("create course error: %v", err)
	}
	return course
}

func (e *testEnv) seedModule(t *testing.T, courseID uint, title string) *model.Module {
	t.Helper()
	module := &model.Module{CourseID: courseID, Title: title}
	if err := e.modules.Create(module); err != nil {
		t.Fatalf("create module error: %v", err)
	}
	return module
}
