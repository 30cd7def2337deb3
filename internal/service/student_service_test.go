package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educado/backend/internal/model"
)

func TestStudentServiceEnroll(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedInstructor(t, "alice")
	course := env.seedCourse(t, owner.ID, "go-basics")
	student := env.seedInstructor(t, "bob")

	svc := NewStudentService(env.enrollments, env.courses, env.modules, env.contents)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = svc.Enroll(student.ID, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	courses, err := svc.Courses(student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)
}

func TestStudentServiceCourseContentRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedInstructor(t, "alice")
	course := env.seedCourse(t, owner.ID, "go-basics")
	module := env.seedModule(t, course.ID, "模块")
	student := env.seedInstructor(t, "bob")

	contentSvc := NewContentService(env.contents, env.modules, env.courses, env.cache)
	_, err := contentSvc.Create(context.Background(), module.ID, owner.ID, model.KindText, ItemInput{Title: "笔记", Body: "hello"})
	require.NoError(t, err)

	svc := NewStudentService(env.enrollments, env.courses, env.modules, env.contents)

	_, _, err = svc.CourseContent(student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	got, modules, err := svc.CourseContent(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
	require.Len(t, modules, 1)
	require.Len(t, modules[0].Contents, 1)
	assert.Equal(t, "hello", modules[0].Contents[0].Item.(*model.ItemText).Body)
}
