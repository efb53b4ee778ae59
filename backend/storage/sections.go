package storage

import (
	"errors"

	"coursemarket/backend/models"

	"gorm.io/gorm"
)

// SectionUpdate carries a partial section update; nil fields are untouched.
type SectionUpdate struct {
	Title       *string
	Description *string
	Order       *int
}

// LessonUpdate carries a partial lesson update; nil fields are untouched.
type LessonUpdate struct {
	Title       *string
	Description *string
	VideoURL    *string
	Duration    *int
	Order       *int
	IsFree      *bool
}

func (s *Store) GetCourseSections(courseID uint) ([]models.CourseSection, error) {
	var sections []models.CourseSection
	if err := s.DB.Where("course_id = ?", courseID).Order(`"order" ASC`).Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (s *Store) GetCourseSectionByID(id uint) (*models.CourseSection, error) {
	var section models.CourseSection
	if err := s.DB.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

func (s *Store) CreateCourseSection(section *models.CourseSection) error {
	return s.DB.Create(section).Error
}

func (s *Store) UpdateCourseSection(id uint, update SectionUpdate) (*models.CourseSection, error) {
	section, err := s.GetCourseSectionByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Order != nil {
		updates["order"] = *update.Order
	}

	if len(updates) == 0 {
		return section, nil
	}
	if err := s.DB.Model(section).Updates(updates).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Store) DeleteCourseSection(id uint) error {
	return s.DB.Delete(&models.CourseSection{}, id).Error
}

func (s *Store) GetLessons(sectionID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := s.DB.Where("section_id = ?", sectionID).Order(`"order" ASC`).Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *Store) GetLessonByID(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.DB.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (s *Store) CreateLesson(lesson *models.Lesson) error {
	return s.DB.Create(lesson).Error
}

func (s *Store) UpdateLesson(id uint, update LessonUpdate) (*models.Lesson, error) {
	lesson, err := s.GetLessonByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.VideoURL != nil {
		updates["video_url"] = *update.VideoURL
	}
	if update.Duration != nil {
		updates["duration"] = *update.Duration
	}
	if update.Order != nil {
		updates["order"] = *update.Order
	}
	if update.IsFree != nil {
		updates["is_free"] = *update.IsFree
	}

	if len(updates) == 0 {
		return lesson, nil
	}
	if err := s.DB.Model(lesson).Updates(updates).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *Store) DeleteLesson(id uint) error {
	return s.DB.Delete(&models.Lesson{}, id).Error
}
