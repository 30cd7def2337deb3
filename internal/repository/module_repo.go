package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(module *model.Module) error {
	return r.db.Create(module).Error
}

func (r *moduleRepository) Get(id uint) (*model.Module, error) {
	var module model.Module
	err := r.db.First(&module, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &module, nil
}

// GetOwned 沿 module -> course -> owner 链校验归属
func (r *moduleRepository) GetOwned(id uint, ownerID uint) (*model.Module, error) {
	var module model.Module
	err := r.db.Joins("JOIN courses ON courses.id = modules.course_id").
		Where("modules.id = ? AND courses.owner_id = ?", id, ownerID).
		First(&module).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) GetByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.db.Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&modules).Error
	return modules, err
}

func (r *moduleRepository) Save(module *model.Module) error {
	return r.db.Save(module).Error
}

// Delete 级联删除模块下内容及内容条目
func (r *moduleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var contents []model.Content
		if err := tx.Where("module_id = ?", id).Find(&contents).Error; err != nil {
			return err
		}
		if err := deleteContentItems(tx, contents); err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", id).Delete(&model.Content{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Module{}, id).Error
	})
}

// UpdatePositionOwned 仅更新属于指定用户课程的模块位置，
// 返回是否有记录被更新
func (r *moduleRepository) UpdatePositionOwned(id uint, ownerID uint, position int) (bool, error) {
	ownedCourses := r.db.Model(&model.Course{}).Select("id").Where("owner_id = ?", ownerID)
	res := r.db.Model(&model.Module{}).
		Where("id = ? AND course_id IN (?)", id, ownedCourses).
		Update("position", position)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
