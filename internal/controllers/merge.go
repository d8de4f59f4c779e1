package controllers

import (
	"github.com/amaumene/streamfr/internal/models"
)

// Merge combines the records of the two sources. Primary records are kept
// as-is; a secondary record is only added when no record with the same offer
// key exists yet. Within one list the first record of a key wins too.
func Merge(primary, secondary []models.Availability) []models.Availability {
	seen := make(map[models.OfferKey]struct{}, len(primary)+len(secondary))
	merged := make([]models.Availability, 0, len(primary)+len(secondary))

	for _, list := range [][]models.Availability{primary, secondary} {
		for i := range list {
			key := list[i].Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, list[i])
		}
	}

	return merged
}
