package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMediaType is returned for media types other than movie or tv
var ErrInvalidMediaType = errors.New("invalid media type")

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType validates a caller supplied media type
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	case MediaTypeTV:
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// AccessType represents how an offer can be watched
type AccessType string

const (
	AccessSubscription AccessType = "subscription"
	AccessRent         AccessType = "rent"
	AccessBuy          AccessType = "buy"
	AccessFree         AccessType = "free"
	AccessAddon        AccessType = "addon"
)

// ParseAccessType maps an upstream access type to the enum, defaulting to subscription
func ParseAccessType(s string) AccessType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rent":
		return AccessRent
	case "buy", "purchase":
		return AccessBuy
	case "free", "ads":
		return AccessFree
	case "addon", "add-on":
		return AccessAddon
	default:
		return AccessSubscription
	}
}

// Quality represents the video quality tag of an offer
type Quality string

const (
	QualitySD  Quality = "sd"
	QualityHD  Quality = "hd"
	QualityQHD Quality = "qhd"
	QualityUHD Quality = "uhd"
)

// Source identifies the adapter that produced a record
type Source string

const (
	SourceStreaming Source = "streaming"
	SourceTMDB      Source = "tmdb"
)
