package reference

import "testing"

func TestCountryName(t *testing.T) {
	tests := map[string]string{
		"FR":  "France",
		"fr":  "France",
		" us": "États-Unis",
		"DE":  "Allemagne",
		"ZZ":  "ZZ",
	}
	for input, expect := range tests {
		if got := CountryName(input); got != expect {
			t.Errorf("CountryName(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestFrenchSpeaking(t *testing.T) {
	for _, code := range []string{"FR", "be", "CH", "LU", "CA", "MC"} {
		if !IsFrenchSpeaking(code) {
			t.Errorf("Expected %s to be French-speaking", code)
		}
	}
	for _, code := range []string{"US", "DE", "GB", ""} {
		if IsFrenchSpeaking(code) {
			t.Errorf("Expected %q not to be French-speaking", code)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	for i, code := range PriorityCountries {
		rank, ok := PriorityRank(code)
		if !ok || rank != i {
			t.Errorf("PriorityRank(%s) = %d, %v; want %d, true", code, rank, ok, i)
		}
	}
	if _, ok := PriorityRank("US"); ok {
		t.Error("US should not be a priority country")
	}
}

func TestPriorityCountriesAreNamed(t *testing.T) {
	for _, code := range PriorityCountries {
		if CountryName(code) == code {
			t.Errorf("Priority country %s has no display name", code)
		}
	}
}
