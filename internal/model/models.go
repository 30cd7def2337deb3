package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/educado/backend/internal/ordering"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:254;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	IsInstructor bool      `json:"is_instructor" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Subject struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"size:200;not null"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}

type Course struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"`
	SubjectID uint      `json:"subject_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Slug      string    `json:"slug" gorm:"size:200;uniqueIndex;not null"`
	Overview  string    `json:"overview" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Modules   []Module  `json:"modules,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`
}

// Module 课程章节，position 在所属课程内独立排序
type Module struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Position    *int      `json:"position" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Contents    []Content `json:"contents,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE;"`
}

var moduleOrder = ordering.Field{Column: "position", ScopeBy: []string{"course_id"}}

// BeforeCreate 创建时若未显式指定 position，在同课程范围内取 MAX+1
func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.Position != nil {
		return nil
	}
	next, err := moduleOrder.Next(tx, &Module{}, m.CourseID)
	if err != nil {
		return err
	}
	m.Position = &next
	return nil
}

type Enrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID  uint      `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CreatedAt time.Time `json:"created_at"`
}
