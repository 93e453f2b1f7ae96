package models

import "time"

// Tag is a label that can be attached to any number of posts
type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_name"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// TagWithPostCount is a tag plus the number of posts it is attached to
type TagWithPostCount struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int64     `json:"post_count"`
}

const MaxTagNameLength = 50
