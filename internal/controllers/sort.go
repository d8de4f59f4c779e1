package controllers

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/amaumene/streamfr/internal/models"
	"github.com/amaumene/streamfr/internal/reference"
)

// SortAvailabilities returns a sorted copy of records: priority countries
// first in their declared order, then the other countries by French collation
// of their names. Ties are broken by platform, access type and season.
func SortAvailabilities(records []models.Availability) []models.Availability {
	sorted := make([]models.Availability, len(records))
	copy(sorted, records)

	// Collators keep internal buffers and are not safe for concurrent use
	col := collate.New(language.French)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]

		rankA, priorityA := reference.PriorityRank(a.CountryCode)
		rankB, priorityB := reference.PriorityRank(b.CountryCode)
		switch {
		case priorityA && priorityB:
			if rankA != rankB {
				return rankA < rankB
			}
		case priorityA != priorityB:
			return priorityA
		default:
			if c := col.CompareString(countryName(a), countryName(b)); c != 0 {
				return c < 0
			}
			if a.CountryCode != b.CountryCode {
				return a.CountryCode < b.CountryCode
			}
		}

		if c := col.CompareString(a.Platform, b.Platform); c != 0 {
			return c < 0
		}
		if a.AccessType != b.AccessType {
			return accessOrder[a.AccessType] < accessOrder[b.AccessType]
		}
		return seasonOf(a) < seasonOf(b)
	})

	return sorted
}

var accessOrder = map[models.AccessType]int{
	models.AccessSubscription: 0,
	models.AccessFree:         1,
	models.AccessAddon:        2,
	models.AccessRent:         3,
	models.AccessBuy:          4,
}

func countryName(a *models.Availability) string {
	if a.CountryName != "" {
		return a.CountryName
	}
	return reference.CountryName(a.CountryCode)
}

func seasonOf(a *models.Availability) int {
	if a.SeasonNumber == nil {
		return -1
	}
	return *a.SeasonNumber
}
