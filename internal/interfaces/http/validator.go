package http

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxUsernameLength    = 64
	MaxProductNameLength = 256
	MaxDescriptionLength = 5000
	MaxCaptionLength     = 2200 // Instagram's hard cap, Facebook allows more
	MaxCommentLength     = 8000
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidSlug checks if an identifier is safe (alphanumeric + underscore + hyphen)
func ValidSlug(s string) bool {
	if s == "" || len(s) > MaxUsernameLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// ValidImageName checks the uploaded file has an allowed raster extension
func ValidImageName(name string) bool {
	if name == "" {
		return false
	}
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}

// ValidClockValue checks an HH:MM business-hours bound
func ValidClockValue(s string) bool {
	matched, _ := regexp.MatchString(`^([01][0-9]|2[0-3]):[0-5][0-9]$`, s)
	return matched
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
