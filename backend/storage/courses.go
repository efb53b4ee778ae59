package storage

import (
	"errors"
	"strings"

	"coursemarket/backend/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CourseFilter narrows GetCourses. All set fields are ANDed together.
type CourseFilter struct {
	CategoryID *uint
	Search     string
	TeacherID  *uint
	Published  *bool
}

// CourseUpdate carries a partial course update; nil fields are untouched.
type CourseUpdate struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Price            *string
	CategoryID       *uint
	ThumbnailURL     *string
	VideoURL         *string
	Duration         *int
	Level            *string
	Published        *bool
}

func (s *Store) GetCourses(filter CourseFilter) ([]models.Course, error) {
	query := s.DB.Model(&models.Course{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		// LOWER + LIKE instead of ILIKE so the same query runs on
		// postgres and on the sqlite test database.
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC, id DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) GetCourseByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := s.DB.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// GetCourseWithRelations assembles the course detail view: category (if
// set), teacher, sections with their lessons in ascending order, and
// reviews with reviewer identity newest-first. The independent lookups
// run in parallel.
func (s *Store) GetCourseWithRelations(id uint) (*models.CourseWithRelations, error) {
	course, err := s.GetCourseByID(id)
	if err != nil {
		return nil, err
	}

	result := &models.CourseWithRelations{Course: *course}
	var g errgroup.Group

	g.Go(func() error {
		if course.CategoryID == nil {
			return nil
		}
		category, err := s.GetCategoryByID(*course.CategoryID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result.Category = category
		return nil
	})

	g.Go(func() error {
		// An orphaned teacher foreign key surfaces here instead of as a
		// nil dereference further down.
		teacher, err := s.GetUser(course.TeacherID)
		if err != nil {
			return err
		}
		result.Teacher = *teacher
		return nil
	})

	g.Go(func() error {
		sections, err := s.GetCourseSections(course.ID)
		if err != nil {
			return err
		}
		withLessons := make([]models.SectionWithLessons, 0, len(sections))
		for _, section := range sections {
			lessons, err := s.GetLessons(section.ID)
			if err != nil {
				return err
			}
			withLessons = append(withLessons, models.SectionWithLessons{
				CourseSection: section,
				Lessons:       lessons,
			})
		}
		result.Sections = withLessons
		return nil
	})

	g.Go(func() error {
		reviews, err := s.GetCourseReviews(course.ID)
		if err != nil {
			return err
		}
		result.Reviews = reviews
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateCourse(course *models.Course) error {
	return s.DB.Create(course).Error
}

func (s *Store) UpdateCourse(id uint, update CourseUpdate) (*models.Course, error) {
	course, err := s.GetCourseByID(id)
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
	if update.ShortDescription != nil {
		updates["short_description"] = *update.ShortDescription
	}
	if update.Price != nil {
		updates["price"] = *update.Price
	}
	if update.CategoryID != nil {
		updates["category_id"] = *update.CategoryID
	}
	if update.ThumbnailURL != nil {
		updates["thumbnail_url"] = *update.ThumbnailURL
	}
	if update.VideoURL != nil {
		updates["video_url"] = *update.VideoURL
	}
	if update.Duration != nil {
		updates["duration"] = *update.Duration
	}
	if update.Level != nil {
		updates["level"] = *update.Level
	}
	if update.Published != nil {
		updates["published"] = *update.Published
	}

	if len(updates) == 0 {
		return course, nil
	}
	if err := s.DB.Model(course).Updates(updates).Error; err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes the course row only. Sections, lessons,
// enrollments and reviews are left in place; listing queries skip
// enrollments whose course row is gone.
func (s *Store) DeleteCourse(id uint) error {
	return s.DB.Delete(&models.Course{}, id).Error
}
