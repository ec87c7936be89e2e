package model

import "time"

// DateLayout is the display format for BlogPost.Date, e.g. "August 31, 2026".
const DateLayout = "January 02, 2006"

// BlogPost represents a published article. Body holds rich-text HTML produced
// by the editor widget.
type BlogPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"uniqueIndex;size:250;not null"`
	Subtitle  string    `json:"subtitle" gorm:"size:250;not null"`
	Date      string    `json:"date" gorm:"size:250;not null"` // display string, not a timestamp
	Body      string    `json:"body" gorm:"type:text;not null"`
	ImgURL    string    `json:"img_url" gorm:"size:250;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}
