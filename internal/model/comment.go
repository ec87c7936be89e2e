package model

import "time"

// Comment represents a reader comment attached to a post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author User     `json:"author" gorm:"foreignKey:AuthorID"`
	Post   BlogPost `json:"-" gorm:"foreignKey:PostID"`
}
