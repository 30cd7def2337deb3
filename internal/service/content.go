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

var (
	ErrContentNotFound = errors.New("content not found")
	ErrUnknownKind     = errors.New("unknown content kind")
	ErrMissingPayload  = errors.New("missing item payload")
)

// ItemInput 各类型条目的创建/更新载荷，按 kind 取用对应字段。
// 文件与图片由 handler 先落盘，这里只收存储路径。
type ItemInput struct {
	Title        string
	Body         string
	URL          string
	StoredPath   string
	OriginalName string
	Size         int64
}

// ContentDTO 内容关联连同解析出的具体条目
type ContentDTO struct {
	model.Content
	Item model.Item `json:"item"`
}

// ModuleContents 模块及其有序内容
type ModuleContents struct {
	Module   model.Module `json:"module"`
	Contents []ContentDTO `json:"contents"`
}

type ContentService struct {
	contentRepo repository.ContentRepository
	moduleRepo  repository.ModuleRepository
	courseRepo  repository.CourseRepository
	cache       catalogCache
}

func NewContentService(
	contentRepo repository.ContentRepository,
	moduleRepo repository.ModuleRepository,
	courseRepo repository.CourseRepository,
	catalogCache catalogCache,
) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		moduleRepo:  moduleRepo,
		courseRepo:  courseRepo,
		cache:       catalogCache,
	}
}

// ListByModule 模块内容列表，归属校验沿 module -> course -> owner
func (s *ContentService) ListByModule(moduleID uint, ownerID uint) (*ModuleContents, error) {
	module, err := s.moduleRepo.GetOwned(moduleID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	contents, err := s.contentRepo.GetByModule(module.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contents: %w", err)
	}

	dtos := make([]ContentDTO, 0, len(contents))
	for i := range contents {
		item, err := s.contentRepo.GetItem(&contents[i])
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				klog.V(6).Infof("内容 %d 的条目缺失", contents[i].ID)
				continue
			}
			return nil, fmt.Errorf("failed to resolve item: %w", err)
		}
		dtos = append(dtos, ContentDTO{Content: contents[i], Item: item})
	}
	return &ModuleContents{Module: *module, Contents: dtos}, nil
}

// Create 先校验类型标签，再建条目与关联；position 由排序字段自动分配
func (s *ContentService) Create(ctx context.Context, moduleID uint, ownerID uint, kind model.ItemKind, input ItemInput) (*ContentDTO, error) {
	if !model.ValidKind(kind) {
		return nil, ErrUnknownKind
	}

	module, err := s.moduleRepo.GetOwned(moduleID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to load module: %w", err)
	}

	item, err := buildItem(kind, ownerID, input)
	if err != nil {
		return nil, err
	}

	content := &model.Content{ModuleID: module.ID, Kind: kind}
	if err := s.contentRepo.CreateWithItem(content, item); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	s.invalidateForCourse(ctx, module.CourseID)
	return &ContentDTO{Content: *content, Item: item}, nil
}

// Update 更新关联指向的具体条目
func (s *ContentService) Update(ctx context.Context, id uint, ownerID uint, input ItemInput) (*ContentDTO, error) {
	content, err := s.contentRepo.GetOwned(id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	item, err := s.contentRepo.GetItem(content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to resolve item: %w", err)
	}

	applyItemInput(item, input)
	if err := s.contentRepo.SaveItem(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidateForModule(ctx, content.ModuleID)
	return &ContentDTO{Content: *content, Item: item}, nil
}

// Delete 删除内容关联及其条目，返回条目曾占用的存储路径（供上层清理文件）
func (s *ContentService) Delete(ctx context.Context, id uint, ownerID uint) (string, error) {
	content, err := s.contentRepo.GetOwned(id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrContentNotFound
		}
		return "", fmt.Errorf("failed to load content: %w", err)
	}

	var storedPath string
	if item, err := s.contentRepo.GetItem(content); err == nil {
		switch it := item.(type) {
		case *model.ItemFile:
			storedPath = it.StoredPath
		case *model.ItemImage:
			storedPath = it.StoredPath
		}
	}

	if err := s.contentRepo.Delete(content); err != nil {
		return "", fmt.Errorf("failed to delete content: %w", err)
	}

	s.invalidateForModule(ctx, content.ModuleID)
	return storedPath, nil
}

// Reorder 批量更新内容位置，语义与模块重排一致：
// 越权、未知 ID 与负数位置静默跳过
func (s *ContentService) Reorder(ctx context.Context, ownerID uint, order map[string]int) error {
	changed := false
	for idStr, position := range order {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			klog.V(6).Infof("跳过非法内容 ID %q", idStr)
			continue
		}
		if position < 0 {
			klog.V(6).Infof("跳过内容 %d：位置 %d 为负", id, position)
			continue
		}
		updated, err := s.contentRepo.UpdatePositionOwned(uint(id), ownerID, position)
		if err != nil {
			return fmt.Errorf("failed to update content %d position: %w", id, err)
		}
		if !updated {
			klog.V(6).Infof("跳过内容 %d：不存在或不属于用户 %d", id, ownerID)
			continue
		}
		changed = true
	}

	if changed {
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
	return nil
}

func (s *ContentService) invalidateForModule(ctx context.Context, moduleID uint) {
	module, err := s.moduleRepo.Get(moduleID)
	if err != nil {
		klog.V(6).Infof("加载模块 %d 失败，仅失效目录列表: %v", moduleID, err)
		s.cache.Invalidate(ctx, cache.KeyCourseList)
		return
	}
	s.invalidateForCourse(ctx, module.CourseID)
}

func (s *ContentService) invalidateForCourse(ctx context.Context, courseID uint) {
	keys := []string{cache.KeyCourseList}
	course, err := s.courseRepo.Get(courseID)
	if err != nil {
		klog.V(6).Infof("加载课程 %d 失败，仅失效目录列表: %v", courseID, err)
	} else {
		keys = append(keys, cache.KeyCourseDetail(course.Slug))
	}
	s.cache.Invalidate(ctx, keys...)
}

func buildItem(kind model.ItemKind, ownerID uint, input ItemInput) (model.Item, error) {
	base := model.ItemBase{OwnerID: ownerID, Title: input.Title}
	switch kind {
	case model.KindText:
		if input.Body == "" {
			return nil, ErrMissingPayload
		}
		return &model.ItemText{ItemBase: base, Body: input.Body}, nil
	case model.KindVideo:
		if input.URL == "" {
			return nil, ErrMissingPayload
		}
		return &model.ItemVideo{ItemBase: base, URL: input.URL}, nil
	case model.KindFile:
		if input.StoredPath == "" {
			return nil, ErrMissingPayload
		}
		return &model.ItemFile{ItemBase: base, StoredPath: input.StoredPath, OriginalName: input.OriginalName, Size: input.Size}, nil
	case model.KindImage:
		if input.StoredPath == "" {
			return nil, ErrMissingPayload
		}
		return &model.ItemImage{ItemBase: base, StoredPath: input.StoredPath, OriginalName: input.OriginalName}, nil
	}
	return nil, ErrUnknownKind
}

func applyItemInput(item model.Item, input ItemInput) {
	switch it := item.(type) {
	case *model.ItemText:
		it.Title = input.Title
		if input.Body != "" {
			it.Body = input.Body
		}
	case *model.ItemVideo:
		it.Title = input.Title
		if input.URL != "" {
			it.URL = input.URL
		}
	case *model.ItemFile:
		it.Title = input.Title
		if input.StoredPath != "" {
			it.StoredPath = input.StoredPath
			it.OriginalName = input.OriginalName
			it.Size = input.Size
		}
	case *model.ItemImage:
		it.Title = input.Title
		if input.StoredPath != "" {
			it.StoredPath = input.StoredPath
			it.OriginalName = input.OriginalName
		}
	}
}
