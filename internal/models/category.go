package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups posts under a unique slug. Categories are managed through an
// administrative channel; this service only reads them.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Slug        string         `gorm:"unique;not null;index" json:"slug"`
	IsPublished bool           `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}

// Location is an optional named place attachable to a post.
type Location struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	IsPublished bool           `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
