package repository

import (
	"errors"

	"github.com/educado/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(user *model.User) error
	Get(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
}

type SubjectRepository interface {
	Create(subject *model.Subject) error
	Get(id uint) (*model.Subject, error)
	GetBySlug(slug string) (*model.Subject, error)
	ListWithCounts() ([]SubjectWithCount, error)
}

type CourseRepository interface {
	Create(course *model.Course) error
	Get(id uint) (*model.Course, error)
	GetOwned(id uint, ownerID uint) (*model.Course, error)
	GetBySlug(slug string) (*model.Course, error)
	ListByOwner(ownerID uint) ([]model.Course, error)
	ListWithCounts(subjectID uint) ([]CourseWithCount, error)
	Save(course *model.Course) error
	Delete(id uint) error
}

type ModuleRepository interface {
	Create(module *model.Module) error
	Get(id uint) (*model.Module, error)
	GetOwned(id uint, ownerID uint) (*model.Module, error)
	GetByCourse(courseID uint) ([]model.Module, error)
	Save(module *model.Module) error
	Delete(id uint) error
	UpdatePositionOwned(id uint, ownerID uint, position int) (bool, error)
}

type ContentRepository interface {
	CreateWithItem(content *model.Content, item model.Item) error
	Get(id uint) (*model.Content, error)
	GetOwned(id uint, ownerID uint) (*model.Content, error)
	GetByModule(moduleID uint) ([]model.Content, error)
	GetItem(content *model.Content) (model.Item, error)
	SaveItem(item model.Item) error
	Delete(content *model.Content) error
	UpdatePositionOwned(id uint, ownerID uint, position int) (bool, error)
}

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	Exists(userID uint, courseID uint) (bool, error)
	ListCourses(userID uint) ([]model.Course, error)
}

// SubjectWithCount 科目及其课程数
type SubjectWithCount struct {
	model.Subject
	TotalCourses int64 `json:"total_courses"`
}

// CourseWithCount 课程及其模块数
type CourseWithCount struct {
	model.Course
	TotalModules int64 `json:"total_modules"`
}
