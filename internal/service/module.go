package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"k8s.io/klog/v2"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/repository"
)

var ErrModuleNotFound = errors.New("module not found")

// ModuleForm 课程模块批量编辑的一项：无 ID 新建，Delete 为真删除，否则更新
type ModuleForm struct {
	ID          *uint  `json:"id"`
	Title       string `json:"title" binding:"required_without=Delete,max=200"`
	Description string `json:"description"`
	Delete      bool   `json:"delete"`
}

type ModuleService struct {
	moduleRepo repository.ModuleRepository
	courseRepo repository.CourseRepository
	cache      catalogCache
}

func NewModuleService(
	moduleRepo repository.ModuleRepository,
	courseRepo repository.CourseRepository,
	catalogCache catalogCache,
) *ModuleService {
	return &ModuleService{moduleRepo: moduleRepo, courseRepo: courseRepo, cache: catalogCache}
}

// SyncForCourse 按表单批量同步课程的模块，返回同步后的有序列表
func (s *ModuleService) SyncForCourse(ctx context.Context, courseID uint, ownerID uint, forms []ModuleForm) ([]model.Module, error) {
	course, err := s.courseRepo.GetOwned(courseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	for _, form := range forms {
		switch {
		case form.ID == nil:
			if form.Delete {
				continue
			}
			module := &model.Module{
				CourseID:    course.ID,
				Title:       form.Title,
				Description: form.Description,
			}
			if err := s.moduleRepo.Create(module); err != nil {
				return nil, fmt.Errorf("failed to create module: %w", err)
			}
		default:
			module, err := s.moduleRepo.GetOwned(*form.ID, ownerID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrModuleNotFound
				}
				return nil, fmt.Errorf("failed to load module: %w", err)
			}
			if module.CourseID != course.ID {
				return nil, ErrModuleNotFound
			}
			if form.Delete {
				if err := s.moduleRepo.Delete(module.ID); err != nil {
					return nil, fmt.Errorf("failed to delete module: %w", err)
				}
				continue
			}
			module.Title = form.Title
			module.Description = form.Description
			if err := s.moduleRepo.Save(module); err != nil {
				return nil, fmt.Errorf("failed to update module: %w", err)
			}
		}
	}

	s.cache.Invalidate(ctx, cache.KeyCourseList, cache.KeyCourseDetail(course.Slug))
	return s.moduleRepo.GetByCourse(course.ID)
}

// Reorder 批量更新模块位置。不属于当前用户或不存在的 ID 与负数位置
// 静默跳过，每项独立写入，不构成整体事务。
func (s *ModuleService) Reorder(ctx context.Context, ownerID uint, order map[string]int) error {
	changed := false
	for idStr, position := range order {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			klog.V(6).Infof("跳过非法模块 ID %q", idStr)
			continue
		}
		if position < 0 {
			klog.V(6).Infof("跳过模块 %d：位置 %d 为负", id, position)
			continue
		}
		updated, err := s.moduleRepo.UpdatePositionOwned(uint(id), ownerID, position)
		if err != nil {
			return fmt.Errorf("failed to update module %d position: %w", id, err)
		}
		if !updated {
			klog.V(6).Infof("跳过模块 %d：不存在或不属于用户 %d", id, ownerID)
			continue
		}
		changed = true
	}

	if changed {
		s.invalidateOwnerCatalog(ctx, ownerID)
	}
	return nil
}

// invalidateOwnerCatalog 重排只知道属主，不知道具体课程，
// 失效属主全部课程的详情缓存
func (s *ModuleService) invalidateOwnerCatalog(ctx context.Context, ownerID uint) {
	keys := []string{cache.KeyCourseList}
	courses, err := s.courseRepo.ListByOwner(ownerID)
	if err != nil {
		klog.V(6).Infof("加载用户 %d 课程失败，仅失效目录列表: %v", ownerID, err)
	}
	for _, course := range courses {
		keys = append(keys, cache.KeyCourseDetail(course.Slug))
	}
	s.cache.Invalidate(ctx, keys...)
}
