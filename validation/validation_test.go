package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"hello-world", true},
		{"a", true},
		{"Post2025", true},
		{"a-b-c", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"has space", false},
		{"under_score", false},
		{"ünïcode", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := Slug(tt.slug)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errs.ErrInvalidField)
			assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		})
	}
}

func validFields() models.PostFields {
	return models.PostFields{
		Category: models.CategoryBlog,
		Title:    "Title",
		Slug:     "title",
		Content:  "body",
	}
}

func TestPostFields(t *testing.T) {
	require.NoError(t, PostFields(validFields()))

	tests := []struct {
		name   string
		mutate func(*models.PostFields)
		field  string
	}{
		{"bad category", func(f *models.PostFields) { f.Category = "poetry" }, "category"},
		{"blank title", func(f *models.PostFields) { f.Title = "  " }, "title"},
		{"blank content", func(f *models.PostFields) { f.Content = "" }, "content"},
		{"bad slug", func(f *models.PostFields) { f.Slug = "a b" }, "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			err := PostFields(f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPostPatch(t *testing.T) {
	title := "New"
	assert.NoError(t, PostPatch(models.PostPatch{ID: 1}))
	assert.NoError(t, PostPatch(models.PostPatch{ID: 1, Title: &title}))
	assert.Error(t, PostPatch(models.PostPatch{ID: 0}))

	blank := " "
	assert.Error(t, PostPatch(models.PostPatch{ID: 1, Title: &blank}))
	badSlug := "-x"
	assert.Error(t, PostPatch(models.PostPatch{ID: 1, Slug: &badSlug}))
	badCategory := models.Category("news")
	assert.Error(t, PostPatch(models.PostPatch{ID: 1, Category: &badCategory}))
}

func TestTagName(t *testing.T) {
	name, err := TagName("  c++ and go_lang-1  ")
	require.NoError(t, err)
	assert.Equal(t, "c++ and go_lang-1", name)

	_, err = TagName(strings.Repeat("x", models.MaxTagNameLength))
	assert.NoError(t, err)

	for _, bad := range []string{"", "   ", strings.Repeat("x", models.MaxTagNameLength+1), "c#", "tag!", "naïve"} {
		_, err := TagName(bad)
		assert.Error(t, err, bad)
	}
}

func TestPostFilter(t *testing.T) {
	assert.NoError(t, PostFilter(models.PostFilter{Limit: 1}))
	assert.NoError(t, PostFilter(models.PostFilter{Limit: models.MaxPostLimit, Offset: 500}))

	assert.Error(t, PostFilter(models.PostFilter{Limit: 0}))
	assert.Error(t, PostFilter(models.PostFilter{Limit: models.MaxPostLimit + 1}))
	assert.Error(t, PostFilter(models.PostFilter{Limit: 10, Offset: -1}))
}
