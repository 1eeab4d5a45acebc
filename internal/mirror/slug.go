package mirror

import (
	"regexp"
	"strings"
)

const (
	slugSeparatorConstant = "-"
	// MaximumSlugLength bounds slug length in bytes.
	MaximumSlugLength = 50
)

var slugDisallowedRunPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable file-name fragment from an issue title.
func Slugify(title string) string {
	slug := slugDisallowedRunPattern.ReplaceAllString(strings.ToLower(title), slugSeparatorConstant)
	slug = strings.Trim(slug, slugSeparatorConstant)
	if len(slug) > MaximumSlugLength {
		slug = slug[:MaximumSlugLength]
	}
	return slug
}
