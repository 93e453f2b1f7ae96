package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/personal-blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepo manages tags and their links to posts. Names are stored exactly as given; callers
// trim and validate them first.
type TagRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTagRepo(db *gorm.DB, now func() time.Time) *TagRepo {
	return &TagRepo{db: db, now: now}
}

func byName(name string) string {
	return fmt.Sprintf("name %q", name)
}

// Create inserts a tag. Names are unique and case-sensitive.
func (r *TagRepo) Create(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{
		Name:      name,
		CreatedAt: r.now(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tag).Error; err != nil {
			return err
		}
		return tx.First(&tag, tag.ID).Error
	})
	if err != nil {
		return nil, translateError(err, "create", "tag", byName(name))
	}
	return &tag, nil
}

func (r *TagRepo) FindByID(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateError(err, "find", "tag", byID(id))
	}
	return &tag, nil
}

func (r *TagRepo) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translateError(err, "find", "tag", byName(name))
	}
	return &tag, nil
}

// List returns every tag ordered by name
func (r *TagRepo) List(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, translateError(err, "list", "tags", "")
	}
	return tags, nil
}

// ListWithPostCount returns every tag with the number of posts using it. Unused tags report 0.
func (r *TagRepo) ListWithPostCount(ctx context.Context) ([]models.TagWithPostCount, error) {
	tags := make([]models.TagWithPostCount, 0)
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.created_at, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.created_at").
		Order("tags.name").
		Scan(&tags).Error
	if err != nil {
		return nil, translateError(err, "list", "tags", "")
	}
	return tags, nil
}

// Update renames a tag
func (r *TagRepo) Update(ctx context.Context, id int64, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return translateError(err, "update", "tag", byID(id))
		}
		if err := tx.Model(&tag).Update("name", name).Error; err != nil {
			return translateError(err, "update", "tag", byName(name))
		}
		return tx.First(&tag, id).Error
	})
	if err != nil {
		return nil, translateError(err, "update", "tag", byID(id))
	}
	return &tag, nil
}

// Delete removes a tag and, through ON DELETE CASCADE, its post associations
func (r *TagRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Tag{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete", "tag", byID(id))
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete", "tag", byID(id))
	}
	return nil
}

// ListForPost returns the tags attached to a post, ordered by name
func (r *TagRepo) ListForPost(ctx context.Context, postID int64) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}
		return tx.Model(&models.Tag{}).
			Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
			Where("post_tags.post_id = ?", postID).
			Order("tags.name").
			Find(&tags).Error
	})
	if err != nil {
		return nil, translateError(err, "list", "tags", "")
	}
	return tags, nil
}

// AddToPost links a tag to a post. Linking an already linked pair succeeds without a second row.
func (r *TagRepo) AddToPost(ctx context.Context, postID, tagID int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePostAndTag(tx, postID, tagID); err != nil {
			return err
		}
		return tx.
			Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostTag{PostID: postID, TagID: tagID}).Error
	})
	return translateError(err, "add", "post tag", fmt.Sprintf("post %d tag %d", postID, tagID))
}

// RemoveFromPost unlinks a tag from a post. Removing a link that does not exist is a no-op.
func (r *TagRepo) RemoveFromPost(ctx context.Context, postID, tagID int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePostAndTag(tx, postID, tagID); err != nil {
			return err
		}
		return tx.
			Where("post_id = ? AND tag_id = ?", postID, tagID).
			Delete(&models.PostTag{}).Error
	})
	return translateError(err, "remove", "post tag", fmt.Sprintf("post %d tag %d", postID, tagID))
}

func requirePost(tx *gorm.DB, id int64) error {
	var post models.Post
	if err := tx.Select("id").First(&post, id).Error; err != nil {
		return translateError(err, "find", "post", byID(id))
	}
	return nil
}

func requireTag(tx *gorm.DB, id int64) error {
	var tag models.Tag
	if err := tx.Select("id").First(&tag, id).Error; err != nil {
		return translateError(err, "find", "tag", byID(id))
	}
	return nil
}

func requirePostAndTag(tx *gorm.DB, postID, tagID int64) error {
	if err := requirePost(tx, postID); err != nil {
		return err
	}
	return requireTag(tx, tagID)
}
