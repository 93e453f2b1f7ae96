package api

import (
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler   postHandler
	tagHandler    tagHandler
	healthHandler healthHandler
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Message string `json:"message"`
}

// postRequest is the body of POST, PUT and PATCH /posts. Pointers tell an absent field apart
// from a zero value.
type postRequest struct {
	ID          *int64           `json:"id"`
	Category    *models.Category `json:"category"`
	Title       *string          `json:"title"`
	Slug        *string          `json:"slug"`
	Content     *string          `json:"content"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	ExternalURL *string          `json:"external_url"`
	Published   *bool            `json:"published"`
}

// fields converts a create or full replace body. Category, title, slug and content are required.
func (req postRequest) fields() (models.PostFields, error) {
	switch {
	case req.Category == nil:
		return models.PostFields{}, errs.NewMissingRequiredFieldError("category")
	case req.Title == nil:
		return models.PostFields{}, errs.NewMissingRequiredFieldError("title")
	case req.Slug == nil:
		return models.PostFields{}, errs.NewMissingRequiredFieldError("slug")
	case req.Content == nil:
		return models.PostFields{}, errs.NewMissingRequiredFieldError("content")
	}

	fields := models.PostFields{
		Category:    *req.Category,
		Title:       *req.Title,
		Slug:        *req.Slug,
		Content:     *req.Content,
		ImageURL:    req.ImageURL,
		ExternalURL: req.ExternalURL,
	}
	if req.Description != nil {
		fields.Description = *req.Description
	}
	if req.Published != nil {
		fields.Published = *req.Published
	}
	return fields, nil
}

func (req postRequest) id() (int64, error) {
	if req.ID == nil {
		return 0, errs.NewMissingRequiredFieldError("id")
	}
	return *req.ID, nil
}

func (req postRequest) patch() (models.PostPatch, error) {
	id, err := req.id()
	if err != nil {
		return models.PostPatch{}, err
	}
	return models.PostPatch{
		ID:          id,
		Category:    req.Category,
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ExternalURL: req.ExternalURL,
		Published:   req.Published,
	}, nil
}

// tagRequest is the body of POST /tags and PUT /tags/{id}
type tagRequest struct {
	Name *string `json:"name"`
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
