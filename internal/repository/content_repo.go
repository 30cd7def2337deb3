package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/model"
)

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// CreateWithItem 先落具体条目，再建指向它的内容关联，同一事务内完成
func (r *contentRepository) CreateWithItem(content *model.Content, item model.Item) error {
	if !model.ValidKind(content.Kind) {
		return ErrNotFound
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		content.ItemID = item.ItemID()
		return tx.Create(content).Error
	})
}

func (r *contentRepository) Get(id uint) (*model.Content, error) {
	var content model.Content
	err := r.db.First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

// GetOwned 沿 content -> module -> course -> owner 链校验归属
func (r *contentRepository) GetOwned(id uint, ownerID uint) (*model.Content, error) {
	var content model.Content
	err := r.db.Joins("JOIN modules ON modules.id = contents.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("contents.id = ? AND courses.owner_id = ?", id, ownerID).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) GetByModule(moduleID uint) ([]model.Content, error) {
	var contents []model.Content
	err := r.db.Where("module_id = ?", moduleID).
		Order("position ASC, id ASC").
		Find(&contents).Error
	return contents, err
}

// GetItem 按 (kind, item_id) 解析具体条目
func (r *contentRepository) GetItem(content *model.Content) (model.Item, error) {
	item := model.NewItem(content.Kind)
	if item == nil {
		return nil, ErrNotFound
	}
	err := r.db.First(item, content.ItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *contentRepository) SaveItem(item model.Item) error {
	return r.db.Save(item).Error
}

// Delete 先删条目再删关联，避免孤儿条目行
func (r *contentRepository) Delete(content *model.Content) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteContentItems(tx, []model.Content{*content}); err != nil {
			return err
		}
		return tx.Delete(&model.Content{}, content.ID).Error
	})
}

// UpdatePositionOwned 仅更新归属链上属于指定用户的内容位置
func (r *contentRepository) UpdatePositionOwned(id uint, ownerID uint, position int) (bool, error) {
	ownedModules := r.db.Model(&model.Module{}).Select("modules.id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("courses.owner_id = ?", ownerID)
	res := r.db.Model(&model.Content{}).
		Where("id = ? AND module_id IN (?)", id, ownedModules).
		Update("position", position)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// deleteContentItems 删除一批内容关联指向的具体条目
func deleteContentItems(tx *gorm.DB, contents []model.Content) error {
	for _, c := range contents {
		item := model.NewItem(c.Kind)
		if item == nil {
			return fmt.Errorf("unknown content kind %q for content %d", c.Kind, c.ID)
		}
		if err := tx.Delete(item, c.ItemID).Error; err != nil {
			return err
		}
	}
	return nil
}
