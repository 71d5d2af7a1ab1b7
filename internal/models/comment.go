package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to exactly one post and has exactly one author.
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	IsPublished bool           `gorm:"not null;default:true" json:"is_published"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	Post        Post           `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuthoredBy returns the owning author's ID.
func (c *Comment) AuthoredBy() uint { return c.AuthorID }

// OwningPostID returns the ID of the post this comment belongs to.
func (c *Comment) OwningPostID() uint { return c.PostID }
