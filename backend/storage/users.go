package storage

import (
	"errors"

	"coursemarket/backend/models"

	"gorm.io/gorm"
)

func (s *Store) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Store) UpdateUserRole(id uint, role models.Role) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) UpdateUserStripeInfo(id uint, customerID, subscriptionID string) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.StripeCustomerID = customerID
	if subscriptionID != "" {
		user.StripeSubscriptionID = subscriptionID
	}
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
