package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Role values for User.Role. The administrator is identified by role, not by
// a magic record id.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Posts    []BlogPost `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
	Comments []Comment  `json:"comments,omitempty" gorm:"foreignKey:AuthorID"`
}

// SetPassword hashes the plaintext with bcrypt and stores only the hash.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IsAdmin reports whether the user may manage posts and moderate comments.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
