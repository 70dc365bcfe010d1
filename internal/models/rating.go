package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating represents one user's rating of another developer's profile.
// One rating per (rater, rated) pair; re-rating updates in place.
type Rating struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RaterID string `gorm:"uniqueIndex:idx_rater_rated" json:"raterId"`
	Rater   User   `gorm:"foreignKey:RaterID" json:"rater"`

	RatedID string `gorm:"uniqueIndex:idx_rater_rated" json:"ratedId"`
	Rated   User   `gorm:"foreignKey:RatedID" json:"-"`

	Score   int    `gorm:"not null" json:"score"` // 1-5
	Comment string `json:"comment"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
