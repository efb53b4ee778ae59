package models

import "time"

// Enrollment links a student to a course. The composite unique index is
// the single source of truth for "already enrolled": concurrent enroll
// requests race on it instead of on an application-level existence check.
type Enrollment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID       uint       `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"courseId"`
	EnrolledAt     time.Time  `gorm:"autoCreateTime" json:"enrolledAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	Progress       string     `gorm:"type:decimal(5,2);default:0" json:"progress"` // percentage
	LastAccessedAt *time.Time `json:"lastAccessedAt"`
}

// LessonProgress tracks per-lesson completion and watch time. It is kept
// independently of Enrollment.Progress; nothing aggregates one into the
// other.
type LessonProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson" json:"userId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	WatchTime   int        `gorm:"default:0" json:"watchTime"` // in seconds
	CompletedAt *time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
