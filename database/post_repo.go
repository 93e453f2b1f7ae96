package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/personal-blog-backend/models"
	"gorm.io/gorm"
)

type PostRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostRepo(db *gorm.DB, now func() time.Time) *PostRepo {
	return &PostRepo{db: db, now: now}
}

func byID(id int64) string {
	return fmt.Sprintf("id %d", id)
}

func bySlug(slug string) string {
	return fmt.Sprintf("slug %q", slug)
}

// Create inserts a new post. A taken slug yields a 409 and leaves the table untouched.
func (r *PostRepo) Create(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	now := r.now()
	post := models.Post{
		Category:    fields.Category,
		Title:       fields.Title,
		Slug:        fields.Slug,
		Content:     fields.Content,
		Description: fields.Description,
		ImageURL:    fields.ImageURL,
		ExternalURL: fields.ExternalURL,
		Published:   fields.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		// read back so the response matches what later reads return
		return tx.First(&post, post.ID).Error
	})
	if err != nil {
		return nil, translateError(err, "create", "post", bySlug(fields.Slug))
	}
	return &post, nil
}

// FindByID returns a post by its ID
func (r *PostRepo) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateError(err, "find", "post", byID(id))
	}
	return &post, nil
}

// FindBySlug returns a post by its slug
func (r *PostRepo) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translateError(err, "find", "post", bySlug(slug))
	}
	return &post, nil
}

// List returns posts newest first. A zero limit falls back to DefaultPostLimit.
func (r *PostRepo) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = models.DefaultPostLimit
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}

	posts := make([]models.Post, 0)
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "list", "posts", "")
	}
	return posts, nil
}

// Replace overwrites every writable column of an existing post
func (r *PostRepo) Replace(ctx context.Context, id int64, fields models.PostFields) (*models.Post, error) {
	return r.update(ctx, id, fields.Slug, map[string]any{
		"category":     fields.Category,
		"title":        fields.Title,
		"slug":         fields.Slug,
		"content":      fields.Content,
		"description":  fields.Description,
		"image_url":    fields.ImageURL,
		"external_url": fields.ExternalURL,
		"published":    fields.Published,
	})
}

// Patch writes only the fields present in patch
func (r *PostRepo) Patch(ctx context.Context, patch models.PostPatch) (*models.Post, error) {
	columns := make(map[string]any)
	slug := ""
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Slug != nil {
		columns["slug"] = *patch.Slug
		slug = *patch.Slug
	}
	if patch.Content != nil {
		columns["content"] = *patch.Content
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		columns["image_url"] = *patch.ImageURL
	}
	if patch.ExternalURL != nil {
		columns["external_url"] = *patch.ExternalURL
	}
	if patch.Published != nil {
		columns["published"] = *patch.Published
	}
	return r.update(ctx, patch.ID, slug, columns)
}

// update applies columns to post id and refreshes updated_at, all inside one transaction
func (r *PostRepo) update(ctx context.Context, id int64, slug string, columns map[string]any) (*models.Post, error) {
	columns["updated_at"] = r.now()

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return translateError(err, "update", "post", byID(id))
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return translateError(err, "update", "post", bySlug(slug))
		}
		return tx.First(&post, id).Error
	})
	if err != nil {
		return nil, translateError(err, "update", "post", byID(id))
	}
	return &post, nil
}

// Delete removes a post. Its tag associations go with it through ON DELETE CASCADE.
func (r *PostRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete", "post", byID(id))
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete", "post", byID(id))
	}
	return nil
}

