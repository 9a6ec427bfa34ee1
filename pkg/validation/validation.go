package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// CanvasIDRegex validates canvas ID format
	CanvasIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// MediaObjectIDRegex validates media object ID format
	MediaObjectIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// TwitchIDRegex validates Twitch user and broadcaster IDs, which Helix
	// issues as decimal strings
	TwitchIDRegex = regexp.MustCompile(`^[0-9]+$`)

	// HexColorRegex validates #RGB and #RRGGBB color values
	HexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidateCanvasID validates canvas ID
func ValidateCanvasID(canvasID string) error {
	if canvasID == "" {
		return fmt.Errorf("canvas ID is required")
	}
	if len(canvasID) > 100 {
		return fmt.Errorf("canvas ID is too long (max 100 characters)")
	}
	if !CanvasIDRegex.MatchString(canvasID) {
		return fmt.Errorf("invalid canvas ID format")
	}
	return nil
}

// ValidateMediaObjectID validates media object ID
func ValidateMediaObjectID(mediaID string) error {
	if mediaID == "" {
		return fmt.Errorf("media object ID is required")
	}
	if len(mediaID) > 100 {
		return fmt.Errorf("media object ID is too long (max 100 characters)")
	}
	if !MediaObjectIDRegex.MatchString(mediaID) {
		return fmt.Errorf("invalid media object ID format")
	}
	return nil
}

// ValidateTwitchID validates a Twitch user or broadcaster ID
func ValidateTwitchID(id string) error {
	if id == "" {
		return fmt.Errorf("twitch ID is required")
	}
	if len(id) > 20 {
		return fmt.Errorf("twitch ID is too long (max 20 characters)")
	}
	if !TwitchIDRegex.MatchString(id) {
		return fmt.Errorf("invalid twitch ID format (must be numeric)")
	}
	return nil
}

// ValidateCanvasName validates canvas name
func ValidateCanvasName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("canvas name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("canvas name is too long (max 100 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("canvas name contains invalid characters")
	}
	return nil
}

// ValidateHexColor validates a background color value
func ValidateHexColor(color string) error {
	if color == "" {
		return fmt.Errorf("color is required")
	}
	if !HexColorRegex.MatchString(color) {
		return fmt.Errorf("invalid color format (expected #RGB or #RRGGBB)")
	}
	return nil
}

// ValidateMediaURL validates the source URL of a media object
func ValidateMediaURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("media URL is required")
	}
	if len(urlStr) > 2048 {
		return fmt.Errorf("media URL is too long (max 2048 characters)")
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid media URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid media URL scheme (must be http or https)")
	}
	if u.Host == "" {
		return fmt.Errorf("media URL must have a host")
	}
	return nil
}

// ValidateZIndex validates a media object stacking position
func ValidateZIndex(z int) error {
	if z < 0 {
		return fmt.Errorf("z-index must be >= 0")
	}
	if z > 10000 {
		return fmt.Errorf("z-index is too high (max 10000)")
	}
	return nil
}

// ValidateDimension validates a media object width or height in pixels
func ValidateDimension(v float64) error {
	if v <= 0 {
		return fmt.Errorf("dimension must be > 0")
	}
	if v > 16384 {
		return fmt.Errorf("dimension is too large (max 16384)")
	}
	return nil
}
