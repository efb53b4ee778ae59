package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CourseID  uint      `gorm:"not null;index" json:"courseId"`
	Rating    int       `gorm:"not null;check:rating>=1 AND rating<=5" json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
