package utils

import (
	"testing"

	"github.com/amaumene/streamfr/internal/models"
)

func TestDetermineQuality(t *testing.T) {
	tests := map[string]models.Quality{
		"":      models.QualityHD,
		"hd":    models.QualityHD,
		"HD":    models.QualityHD,
		"fhd":   models.QualityHD,
		"uhd":   models.QualityUHD,
		"4K":    models.QualityUHD,
		"qhd":   models.QualityQHD,
		"sd":    models.QualitySD,
		"480p":  models.QualitySD,
		"weird": models.QualityHD,
	}
	for input, expect := range tests {
		if got := DetermineQuality(input); got != expect {
			t.Errorf("DetermineQuality(%q) = %q, want %q", input, got, expect)
		}
	}
}
