// Package validation holds the field rules applied to request payloads before anything reaches
// storage. Every function is pure and reports failures as 400 ApiErrs.
package validation

import (
	"regexp"
	"strings"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// Slug checks that s is alphanumeric-and-hyphen with no leading or trailing hyphen
func Slug(s string) error {
	if s == "" {
		return errs.NewInvalidFieldError("slug", "cannot be empty")
	}
	if !slugPattern.MatchString(s) {
		return errs.NewInvalidFieldError("slug", "must contain only letters, digits and inner hyphens")
	}
	return nil
}

// ID checks that a client-supplied identifier is a positive integer
func ID(field string, id int64) error {
	if id <= 0 {
		return errs.NewInvalidFieldError(field, "must be a positive integer")
	}
	return nil
}

func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.NewInvalidFieldError("title", "cannot be empty")
	}
	return nil
}

func Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return errs.NewInvalidFieldError("content", "cannot be empty")
	}
	return nil
}

func Category(c models.Category) error {
	if !c.Valid() {
		return errs.NewInvalidFieldError("category", "must be one of blog, art, reading")
	}
	return nil
}

// PostFields validates a complete set of post fields (create and full replace)
func PostFields(f models.PostFields) error {
	if err := Category(f.Category); err != nil {
		return err
	}
	if err := Title(f.Title); err != nil {
		return err
	}
	if err := Content(f.Content); err != nil {
		return err
	}
	return Slug(f.Slug)
}

// PostPatch validates only the fields present in p
func PostPatch(p models.PostPatch) error {
	if err := ID("id", p.ID); err != nil {
		return err
	}
	if p.Category != nil {
		if err := Category(*p.Category); err != nil {
			return err
		}
	}
	if p.Title != nil {
		if err := Title(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := Content(*p.Content); err != nil {
			return err
		}
	}
	if p.Slug != nil {
		if err := Slug(*p.Slug); err != nil {
			return err
		}
	}
	return nil
}

// TagName trims name and checks length and charset. The trimmed name is returned for storage.
func TagName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errs.NewInvalidFieldError("name", "cannot be empty")
	}
	if len(trimmed) > models.MaxTagNameLength {
		return "", errs.NewInvalidFieldError("name", "must be at most 50 characters")
	}
	for _, c := range trimmed {
		if !isTagNameChar(c) {
			return "", errs.NewInvalidFieldError("name", "may only contain letters, digits, spaces, '-', '_' and '+'")
		}
	}
	return trimmed, nil
}

func isTagNameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == ' ', c == '-', c == '_', c == '+':
		return true
	}
	return false
}

// Limit checks a listing page size
func Limit(limit int) error {
	if limit < 1 || limit > models.MaxPostLimit {
		return errs.NewInvalidQueryParamError("limit", "must be between 1 and 100")
	}
	return nil
}

func Offset(offset int) error {
	if offset < 0 {
		return errs.NewInvalidQueryParamError("offset", "cannot be negative")
	}
	return nil
}

// PostFilter validates the pagination window of a listing
func PostFilter(f models.PostFilter) error {
	if err := Limit(f.Limit); err != nil {
		return err
	}
	return Offset(f.Offset)
}
