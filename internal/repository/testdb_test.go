package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// seedCourse 建一个归属 ownerID 的课程
func seedCourse(t *testing.T, db *gorm.DB, ownerID uint, slug string) *model.Course {
	t.Helper()
	subject := &model.Subject{Title: "编程", Slug: "programming-" + slug}
	if err := db.Create(subject).Error; err != nil {
		t.Fatalf("create subject error: %v", err)
	}
	course := &model.Course{
		OwnerID:   ownerID,
		SubjectID: subject.ID,
		Title:     "Go 入门",
		Slug:      slug,
		Overview:  "basics",
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course error: %v", err)
	}
	return course
}
