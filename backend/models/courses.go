package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Course struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	Price            string    `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID       *uint     `json:"categoryId"`
	TeacherID        uint      `gorm:"not null" json:"teacherId"`
	ThumbnailURL     string    `json:"thumbnailUrl,omitempty"`
	VideoURL         string    `json:"videoUrl,omitempty"`
	Duration         int       `json:"duration,omitempty"` // in minutes
	Level            string    `gorm:"not null;default:beginner" json:"level"` // beginner, intermediate, advanced
	Published        bool      `gorm:"default:false" json:"published"`
	Rating           string    `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewCount      int       `gorm:"default:0" json:"reviewCount"`
	EnrollmentCount  int       `gorm:"default:0" json:"enrollmentCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CourseSection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"courseId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `gorm:"not null" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectionID   uint      `gorm:"not null;index" json:"sectionId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	Duration    int       `json:"duration,omitempty"` // in minutes
	Order       int       `gorm:"not null" json:"order"`
	IsFree      bool      `gorm:"default:false" json:"isFree"`
	CreatedAt   time.Time `json:"createdAt"`
}
