package utils

import (
	"regexp"
	"strings"
)

// GenerateSlug creates a URL-friendly slug from a string
func GenerateSlug(input string) string {
	slug := strings.ToLower(input)
	reg, _ := regexp.Compile("[^a-z0-9 -]+")
	slug = reg.ReplaceAllString(slug, "")
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

// SlugToWords converts a slug back to a space-separated lowercase phrase,
// used when matching a short-code category id against category names.
func SlugToWords(slug string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(slug), "-", " "))
}
