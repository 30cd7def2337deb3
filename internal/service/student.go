package service

import (
	"errors"
	"fmt"

	"github.com/educado/backend/internal/model"
	"github.com/educado/backend/internal/repository"
)

var (
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")
)

// StudentService 学生侧：选课、已选课程、课程学习视图
type StudentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	moduleRepo     repository.ModuleRepository
	contentRepo    repository.ContentRepository
}

func NewStudentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	contentRepo repository.ContentRepository,
) *StudentService {
	return &StudentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		contentRepo:    contentRepo,
	}
}

func (s *StudentService) Enroll(userID uint, courseID uint) (*model.Enrollment, error) {
	if _, err := s.courseRepo.Get(courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	enrolled, err := s.enrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}
	return enrollment, nil
}

func (s *StudentService) Courses(userID uint) ([]model.Course, error) {
	return s.enrollmentRepo.ListCourses(userID)
}

// CourseContent 已选课程的学习视图：有序模块及各自的有序内容。
// 未选课按不存在处理。
func (s *StudentService) CourseContent(userID uint, courseID uint) (*model.Course, []ModuleContents, error) {
	enrolled, err := s.enrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, nil, ErrNotEnrolled
	}

	course, err := s.courseRepo.Get(courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("failed to load course: %w", err)
	}

	modules, err := s.moduleRepo.GetByCourse(course.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load modules: %w", err)
	}

	result := make([]ModuleContents, 0, len(modules))
	for _, module := range modules {
		contents, err := s.contentRepo.GetByModule(module.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load contents: %w", err)
		}
		dtos := make([]ContentDTO, 0, len(contents))
		for i := range contents {
			item, err := s.contentRepo.GetItem(&contents[i])
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, nil, fmt.Errorf("failed to resolve item: %w", err)
			}
			dtos = append(dtos, ContentDTO{Content: contents[i], Item: item})
		}
		result = append(result, ModuleContents{Module: module, Contents: dtos})
	}
	return course, result, nil
}
