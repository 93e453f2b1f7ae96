package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of sections a post can belong to
type Category string

const (
	CategoryBlog    Category = "blog"
	CategoryArt     Category = "art"
	CategoryReading Category = "reading"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryBlog, CategoryArt, CategoryReading}

// ParseCategory converts user input into a Category. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryBlog, CategoryArt, CategoryReading:
		return c, nil
	}
	return "", fmt.Errorf("invalid post category %q: must be one of blog, art, reading", s)
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryBlog, CategoryArt, CategoryReading:
		return true
	}
	return false
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan implements sql.Scanner so rows holding an unknown category fail loudly
func (c *Category) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", value)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid post category %q", string(c))
	}
	return string(c), nil
}
