package storage

import (
	"errors"
	"strconv"
	"time"

	"coursemarket/backend/models"

	"gorm.io/gorm"
)

func (s *Store) GetUserEnrollments(userID uint) ([]models.EnrollmentWithCourse, error) {
	var enrollments []models.Enrollment
	if err := s.DB.Where("user_id = ?", userID).Order("enrolled_at DESC, id DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	result := make([]models.EnrollmentWithCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course models.Course
		if err := s.DB.First(&course, enrollment.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, models.EnrollmentWithCourse{Enrollment: enrollment, Course: course})
	}
	return result, nil
}

func (s *Store) GetCourseEnrollments(courseID uint) ([]models.EnrollmentWithUser, error) {
	var enrollments []models.Enrollment
	if err := s.DB.Where("course_id = ?", courseID).Order("enrolled_at DESC, id DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	result := make([]models.EnrollmentWithUser, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var user models.User
		if err := s.DB.First(&user, enrollment.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, models.EnrollmentWithUser{Enrollment: enrollment, User: user})
	}
	return result, nil
}

// EnrollUser inserts the enrollment and bumps the course's denormalized
// enrollment count in one transaction. The unique index decides the
// duplicate case; there is no read-before-insert to race against.
func (s *Store) EnrollUser(userID, courseID uint) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: "0",
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		return tx.Model(&models.Course{}).Where("id = ?", courseID).
			UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *Store) GetEnrollment(userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// UpdateEnrollmentProgress sets the course-level progress and stamps
// lastAccessedAt. completedAt is a one-way latch: set the first time
// progress reaches 100, never cleared afterwards.
func (s *Store) UpdateEnrollmentProgress(userID, courseID uint, progress float64) (*models.Enrollment, error) {
	enrollment, err := s.GetEnrollment(userID, courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment.Progress = strconv.FormatFloat(progress, 'f', 2, 64)
	enrollment.LastAccessedAt = &now
	if progress >= 100 && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}

	if err := s.DB.Save(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *Store) GetLessonProgress(userID, lessonID uint) (*models.LessonProgress, error) {
	var progress models.LessonProgress
	if err := s.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// UpdateLessonProgress upserts by (userId, lessonId). Lesson-level
// progress is never rolled up into the enrollment's progress; the two
// are maintained independently.
func (s *Store) UpdateLessonProgress(progress *models.LessonProgress) (*models.LessonProgress, error) {
	existing, err := s.GetLessonProgress(progress.UserID, progress.LessonID)
	if errors.Is(err, ErrNotFound) {
		if progress.Completed {
			now := time.Now()
			progress.CompletedAt = &now
		}
		if err := s.DB.Create(progress).Error; err != nil {
			return nil, err
		}
		return progress, nil
	}
	if err != nil {
		return nil, err
	}

	existing.Completed = progress.Completed
	existing.WatchTime = progress.WatchTime
	if progress.Completed && existing.CompletedAt == nil {
		now := time.Now()
		existing.CompletedAt = &now
	}

	if err := s.DB.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}
