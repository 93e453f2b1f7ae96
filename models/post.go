package models

import "time"

// Post represents a blog, art or reading entry
type Post struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Category    Category  `json:"category" gorm:"type:text;not null;check:chk_posts_category,category IN ('blog','art','reading')"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Slug        string    `json:"slug" gorm:"type:text;not null;uniqueIndex:idx_posts_slug"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	ImageURL    *string   `json:"image_url" gorm:"column:image_url;type:text"`
	ExternalURL *string   `json:"external_url" gorm:"column:external_url;type:text"`
	Published   bool      `json:"published" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index:idx_posts_created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

func (Post) TableName() string {
	return "posts"
}

// PostFields holds every client-writable column of a post. Used for create and full replace.
type PostFields struct {
	Category    Category
	Title       string
	Slug        string
	Content     string
	Description string
	ImageURL    *string
	ExternalURL *string
	Published   bool
}

// PostPatch carries a partial update; nil fields are left untouched
type PostPatch struct {
	ID          int64
	Category    *Category
	Title       *string
	Slug        *string
	Content     *string
	Description *string
	ImageURL    *string
	ExternalURL *string
	Published   *bool
}

// PostFilter narrows a post listing. Filters are applied conjunctively.
type PostFilter struct {
	Category      *Category
	PublishedOnly bool
	Limit         int
	Offset        int
}

const (
	DefaultPostLimit = 20
	MaxPostLimit     = 100
)
