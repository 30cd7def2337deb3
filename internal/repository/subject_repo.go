package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) Get(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) GetBySlug(slug string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.Where("slug = ?", slug).First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// ListWithCounts 科目列表，附带各科目下课程数量
func (r *subjectRepository) ListWithCounts() ([]SubjectWithCount, error) {
	var subjects []SubjectWithCount
	err := r.db.Model(&model.Subject{}).
		Select("subjects.*, COUNT(courses.id) AS total_courses").
		Joins("LEFT JOIN courses ON courses.subject_id = subjects.id").
		Group("subjects.id").
		Order("subjects.title ASC").
		Scan(&subjects).Error
	return subjects, err
}
