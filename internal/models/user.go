package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// User is a developer profile in the directory.
type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string `json:"name"`
	Email      string `gorm:"uniqueIndex" json:"email"`
	Username   string `gorm:"uniqueIndex" json:"username"`
	Bio        string `json:"bio"`
	AvatarURL  string `json:"avatarUrl"`
	Location   string `json:"location"`
	GithubURL  string `json:"githubUrl"`
	WebsiteURL string `json:"websiteUrl"`

	Skills    pq.StringArray `gorm:"type:text[]" json:"skills"`
	Interests pq.StringArray `gorm:"type:text[]" json:"interests"`

	YearsOfExperience int `gorm:"default:0" json:"yearsOfExperience"`

	Role       Role       `gorm:"type:text;default:'USER'" json:"role"`
	Visibility Visibility `gorm:"type:text;default:'PUBLIC'" json:"visibility"`

	IsBlocked bool `gorm:"default:false" json:"isBlocked"`

	Password string `json:"-"`

	// Aggregates computed on read, never persisted
	RatingAverage float64 `gorm:"-" json:"ratingAverage"`
	RatingCount   int64   `gorm:"-" json:"ratingCount"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
