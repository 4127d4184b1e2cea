// Package validation checks user-supplied message and profile fields.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength bounds display names, in runes.
	MaxNameLength = 50
	// MaxImages bounds the image list on a single message.
	MaxImages = 4
	maxURLLength  = 2048
)

// ValidateContent checks trimmed message content against maxRunes.
// Emptiness is reported by the caller, which owns the EmptyContent error.
func ValidateContent(content string, maxRunes int) error {
	if n := utf8.RuneCountInString(content); maxRunes > 0 && n > maxRunes {
		return fmt.Errorf("content must be at most %d characters", maxRunes)
	}
	return nil
}

// ValidateDisplayName requires 1 to MaxNameLength runes after trimming.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// ValidateMediaURL accepts absolute http or https URLs with a host.
func ValidateMediaURL(raw string) error {
	if len(raw) > maxURLLength {
		return fmt.Errorf("url must be at most %d characters", maxURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must be absolute")
	}
	return nil
}

// ValidateImages checks the count and each reference.
func ValidateImages(images []string) error {
	if len(images) > MaxImages {
		return fmt.Errorf("at most %d images per message", MaxImages)
	}
	for _, img := range images {
		if err := ValidateMediaURL(img); err != nil {
			return fmt.Errorf("image %q: %w", img, err)
		}
	}
	return nil
}
