package utils

import (
	"strings"

	"github.com/amaumene/streamfr/internal/models"
)

// DetermineQuality maps an upstream quality string to a quality tag.
// Unknown or empty values fall back to HD.
func DetermineQuality(raw string) models.Quality {
	q := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case q == "":
		return models.QualityHD
	case strings.Contains(q, "uhd") || strings.Contains(q, "4k") || strings.Contains(q, "2160"):
		return models.QualityUHD
	case strings.Contains(q, "qhd") || strings.Contains(q, "1440"):
		return models.QualityQHD
	case q == "sd" || strings.Contains(q, "480") || strings.Contains(q, "576"):
		return models.QualitySD
	default:
		return models.QualityHD
	}
}
