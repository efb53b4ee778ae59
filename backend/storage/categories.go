package storage

import (
	"errors"

	"coursemarket/backend/models"

	"gorm.io/gorm"
)

func (s *Store) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *Store) CreateCategory(category *models.Category) error {
	return s.DB.Create(category).Error
}
