package model

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSlug is returned when an explicitly supplied slug normalizes to nothing.
var ErrInvalidSlug = errors.New("slug must contain at least one letter or digit")

var (
	slugStripPattern      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespacePattern = regexp.MustCompile(`\s+`)
	slugHyphenPattern     = regexp.MustCompile(`-{2,}`)
)

// DeriveSlug maps a display title to a URL path segment.
//
// The input is lowercased, every character that is not an ASCII word
// character, whitespace or hyphen is dropped, whitespace runs become a single
// hyphen, repeated hyphens collapse and leading/trailing hyphens are trimmed.
// Input made only of punctuation yields "".
func DeriveSlug(title string) string {
	s := strings.ToLower(title)
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugWhitespacePattern.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphenPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugInput carries what ResolveSlug needs to pick a slug for a write.
type SlugInput struct {
	Slug         *string // explicit slug from the request
	CustomSlug   *string // legacy custom_slug from the request
	Title        string  // title after the write is applied
	CurrentTitle string  // stored title; empty on create
	CurrentSlug  string  // stored slug; empty on create
	Creating     bool
}

// ResolveSlug applies slug precedence: an explicit slug, then custom_slug,
// then a slug derived from a new or changed title, then the stored slug.
func ResolveSlug(in SlugInput) (string, error) {
	for _, explicit := range []*string{in.Slug, in.CustomSlug} {
		if explicit == nil || strings.TrimSpace(*explicit) == "" {
			continue
		}
		s := DeriveSlug(*explicit)
		if s == "" {
			return "", ErrInvalidSlug
		}
		return s, nil
	}

	if in.Creating || in.Title != in.CurrentTitle {
		return DeriveSlug(in.Title), nil
	}
	return in.CurrentSlug, nil
}
