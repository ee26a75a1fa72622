package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email          string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password       string `gorm:"size:255" json:"-"` // bcrypt hash
	FullName       string `gorm:"size:255" json:"full_name"`
	Role           string `gorm:"size:10;default:user" json:"role"`
	Phone          string `gorm:"size:50" json:"phone"`
	Bio            string `gorm:"type:text" json:"bio"`
	Nationality    string `gorm:"size:100" json:"nationality"`
	ProfilePicture string `gorm:"size:255" json:"profile_picture"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
