package repository

import (
	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) Exists(userID uint, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) ListCourses(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("enrollments.created_at ASC").
		Find(&courses).Error
	return courses, err
}
