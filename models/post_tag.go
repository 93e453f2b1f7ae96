package models

// PostTag links a post to a tag. Deleting either side removes the link.
type PostTag struct {
	PostID int64 `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	TagID  int64 `json:"tag_id" gorm:"primaryKey;autoIncrement:false;index:idx_post_tags_tag_id"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Tag  Tag  `json:"-" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
