package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a topical grouping for posts. Rows change rarely and
// are cached per process.
type Category struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Post represents a community submission. CategoryID and MediaURL are
// nullable; the reconciler keeps a last-known-good view when a fetch comes
// back with them missing.
type Post struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	AuthorID string `gorm:"index" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`

	CategoryID *string   `gorm:"index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category"`

	MediaURL *string `json:"mediaUrl"`

	PostType string `gorm:"type:text;default:'discussion'" json:"postType"`

	LikeCount    int `gorm:"default:0" json:"likeCount"`
	CommentCount int `gorm:"default:0" json:"commentCount"`
	ViewCount    int `gorm:"default:0" json:"viewCount"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Content string `gorm:"type:text" json:"content"`

	UserID string `json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`

	PostID string `gorm:"index" json:"postId"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// PostLike represents a like on a post, one per user per post.
type PostLike struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID string `gorm:"uniqueIndex:idx_user_post_like" json:"userId"`
	PostID string `gorm:"uniqueIndex:idx_user_post_like" json:"postId"`
}

func (pl *PostLike) BeforeCreate(tx *gorm.DB) (err error) {
	if pl.ID == "" {
		pl.ID = uuid.New().String()
	}
	return
}

// SavedPost represents a bookmarked post.
type SavedPost struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID string `gorm:"uniqueIndex:idx_user_saved_post" json:"userId"`
	PostID string `gorm:"uniqueIndex:idx_user_saved_post" json:"postId"`
}

func (sp *SavedPost) BeforeCreate(tx *gorm.DB) (err error) {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	return
}

// PostView records that a user viewed a post, so the view counter is
// incremented only once per user.
type PostView struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID string `gorm:"uniqueIndex:idx_user_post_view" json:"userId"`
	PostID string `gorm:"uniqueIndex:idx_user_post_view" json:"postId"`
}

func (pv *PostView) BeforeCreate(tx *gorm.DB) (err error) {
	if pv.ID == "" {
		pv.ID = uuid.New().String()
	}
	return
}
