package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/pkg/cache"
	"github.com/educado/backend/internal/repository"
)

// CatalogService 对外课程目录：科目列表、课程列表与详情，只读
type CatalogService struct {
	courseRepo  repository.CourseRepository
	subjectRepo repository.SubjectRepository
	cache       catalogCache
}

func NewCatalogService(
	courseRepo repository.CourseRepository,
	subjectRepo repository.SubjectRepository,
	catalogCache catalogCache,
) *CatalogService {
	return &CatalogService{
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
		cache:       catalogCache,
	}
}

func (s *CatalogService) Subjects() ([]repository.SubjectWithCount, error) {
	return s.subjectRepo.ListWithCounts()
}

func (s *CatalogService) CreateSubject(title, slug string) (*model.Subject, error) {
	subject := &model.Subject{Title: title, Slug: slug}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

// Courses 课程目录，subjectSlug 为空时返回全部并走缓存
func (s *CatalogService) Courses(ctx context.Context, subjectSlug string) ([]repository.CourseWithCount, error) {
	if subjectSlug == "" {
		var cached []repository.CourseWithCount
		if err := s.cache.Get(ctx, cache.KeyCourseList, &cached); err == nil {
			return cached, nil
		}
		courses, err := s.courseRepo.ListWithCounts(0)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, cache.KeyCourseList, courses)
		return courses, nil
	}

	subject, err := s.subjectRepo.GetBySlug(subjectSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}
	return s.courseRepo.ListWithCounts(subject.ID)
}

// CourseDetail 课程详情（含有序模块），按 slug 查找并走缓存
func (s *CatalogService) CourseDetail(ctx context.Context, slug string) (*model.Course, error) {
	key := cache.KeyCourseDetail(slug)

	var cached model.Course
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	course, err := s.courseRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	s.cache.Set(ctx, key, course)
	return course, nil
}
