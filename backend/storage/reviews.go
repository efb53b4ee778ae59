package storage

import (
	"errors"
	"strconv"

	"coursemarket/backend/models"

	"gorm.io/gorm"
)

func (s *Store) GetCourseReviews(courseID uint) ([]models.ReviewWithUser, error) {
	var reviews []models.Review
	if err := s.DB.Where("course_id = ?", courseID).Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	result := make([]models.ReviewWithUser, 0, len(reviews))
	for _, review := range reviews {
		var user models.User
		if err := s.DB.First(&user, review.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, models.ReviewWithUser{Review: review, User: user})
	}
	return result, nil
}

// CreateReview inserts the review and folds the new rating into the
// course's denormalized aggregates inside one transaction, using the
// incremental mean instead of re-scanning every review:
// newAvg = (oldAvg*oldCount + rating) / (oldCount + 1).
func (s *Store) CreateReview(review *models.Review) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, review.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		oldAvg, _ := strconv.ParseFloat(course.Rating, 64)
		newCount := course.ReviewCount + 1
		newAvg := (oldAvg*float64(course.ReviewCount) + float64(review.Rating)) / float64(newCount)

		return tx.Model(&models.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
			"rating":       strconv.FormatFloat(newAvg, 'f', 2, 64),
			"review_count": newCount,
		}).Error
	})
}
