package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Get(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.First(&course, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// GetOwned 仅返回属于指定用户的课程，越权视作不存在
func (r *courseRepository) GetOwned(id uint, ownerID uint) (*model.Course, error) {
	var course model.Course
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) GetBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.db.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	}).Where("slug = ?", slug).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) ListByOwner(ownerID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Where("owner_id = ?", ownerID).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

// ListWithCounts 课程目录，附带模块数量，subjectID 为 0 时不过滤
func (r *courseRepository) ListWithCounts(subjectID uint) ([]CourseWithCount, error) {
	q := r.db.Model(&model.Course{}).
		Select("courses.*, COUNT(modules.id) AS total_modules").
		Joins("LEFT JOIN modules ON modules.course_id = courses.id").
		Group("courses.id").
		Order("courses.created_at ASC")
	if subjectID != 0 {
		q = q.Where("courses.subject_id = ?", subjectID)
	}

	var courses []CourseWithCount
	err := q.Scan(&courses).Error
	return courses, err
}

func (r *courseRepository) Save(course *model.Course) error {
	return r.db.Save(course).Error
}

// Delete 级联删除课程下的模块、内容及内容条目、选课记录
func (r *courseRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&model.Module{}).Where("course_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}

		if len(moduleIDs) > 0 {
			var contents []model.Content
			if err := tx.Where("module_id IN ?", moduleIDs).Find(&contents).Error; err != nil {
				return err
			}
			if err := deleteContentItems(tx, contents); err != nil {
				return err
			}
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&model.Content{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Module{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}
