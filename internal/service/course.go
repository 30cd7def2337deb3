package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/repository"
	"github.com/educado/backend/internal/utils"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type CourseRequest struct {
	SubjectID uint   `json:"subject_id" binding:"required"`
	Title     string `json:"title" binding:"required,min=1,max=200"`
	Slug      string `json:"slug" binding:"max=200"`
	Overview  string `json:"overview"`
}

type CourseService struct {
	courseRepo  repository.CourseRepository
	subjectRepo repository.SubjectRepository
	userRepo    repository.UserRepository
	cache       catalogCache
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	subjectRepo repository.SubjectRepository,
	userRepo repository.UserRepository,
	catalogCache catalogCache,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
		cache:       catalogCache,
	}
}

func (s *CourseService) ListOwned(ownerID uint) ([]model.Course, error) {
	return s.courseRepo.ListByOwner(ownerID)
}

// Create 建课，owner 固定为当前用户，需要讲师权限
func (s *CourseService) Create(ctx context.Context, ownerID uint, req CourseRequest) (*model.Course, error) {
	user, err := s.userRepo.Get(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsInstructor {
		return nil, ErrPermissionDenied
	}

	if _, err := s.subjectRepo.Get(req.SubjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	// 纯非 ASCII 标题会得到空 slug，退回 uuid 避免唯一索引冲突
	if slug == "" {
		slug = uuid.NewString()
	}

	course := &model.Course{
		OwnerID:   ownerID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Slug:      slug,
		Overview:  req.Overview,
	}
	if err := s.courseRepo.Create(course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.invalidateCatalog(ctx, course.Slug)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id uint, ownerID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.courseRepo.GetOwned(id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	if _, err := s.subjectRepo.Get(req.SubjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}

	oldSlug := course.Slug
	course.SubjectID = req.SubjectID
	course.Title = req.Title
	course.Overview = req.Overview
	if req.Slug != "" {
		course.Slug = req.Slug
	}

	if err := s.courseRepo.Save(course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidateCatalog(ctx, oldSlug, course.Slug)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint, ownerID uint) error {
	course, err := s.courseRepo.GetOwned(id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to load course: %w", err)
	}

	if err := s.courseRepo.Delete(course.ID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.invalidateCatalog(ctx, course.Slug)
	return nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context, slugs ...string) {
	keys := []string{cache.KeyCourseList}
	for _, slug := range slugs {
		keys = append(keys, cache.KeyCourseDetail(slug))
	}
	s.cache.Invalidate(ctx, keys...)
}
