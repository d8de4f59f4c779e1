package models

import (
	"time"

	"gorm.io/gorm"
)

// noSeason is stored in season_key when a record has no season
const noSeason = -1

// Availability is one offer: a title watchable on a platform, in a country,
// under an access model. Rows for one (TitleID, MediaType) group are always
// written together by Database.ReplaceAll.
type Availability struct {
	ID uint `gorm:"primaryKey" json:"-"`

	TitleID   int       `gorm:"not null;uniqueIndex:idx_availability_offer,priority:1;index:idx_availability_title_platform,priority:1" json:"title_id"`
	MediaType MediaType `gorm:"size:8;not null;uniqueIndex:idx_availability_offer,priority:2" json:"media_type"`

	Platform    string     `gorm:"size:100;not null;uniqueIndex:idx_availability_offer,priority:3;index:idx_availability_title_platform,priority:2" json:"platform"`
	CountryCode string     `gorm:"size:2;not null;uniqueIndex:idx_availability_offer,priority:4" json:"country_code"`
	CountryName string     `gorm:"size:100;not null" json:"country_name"`
	AccessType  AccessType `gorm:"size:16;not null;uniqueIndex:idx_availability_offer,priority:5" json:"access_type"`
	AddonLabel  string     `gorm:"size:100;not null;default:'';uniqueIndex:idx_availability_offer,priority:6" json:"addon_label,omitempty"`
	Quality     Quality    `gorm:"size:8;not null;default:'hd';uniqueIndex:idx_availability_offer,priority:7" json:"quality"`

	// SeasonNumber is nil for movies and season-less TV records. SQLite treats
	// NULLs as distinct in unique indexes, so SeasonKey carries it into the index.
	SeasonNumber *int `json:"season_number,omitempty"`
	SeasonKey    int  `gorm:"not null;default:-1;uniqueIndex:idx_availability_offer,priority:8" json:"-"`

	HasFrenchAudio     bool   `gorm:"not null;default:false" json:"has_french_audio"`
	HasFrenchSubtitles bool   `gorm:"not null;default:false" json:"has_french_subtitles"`
	StreamingURL       string `gorm:"type:text" json:"streaming_url,omitempty"`
	Source             Source `gorm:"size:16" json:"source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// OfferKey is the identity of an offer within one (TitleID, MediaType) group
type OfferKey struct {
	Platform    string
	CountryCode string
	AccessType  AccessType
	AddonLabel  string
	Quality     Quality
	Season      int
}

// Key returns the identity tuple of the record
func (a *Availability) Key() OfferKey {
	return OfferKey{
		Platform:    a.Platform,
		CountryCode: a.CountryCode,
		AccessType:  a.AccessType,
		AddonLabel:  a.AddonLabel,
		Quality:     a.Quality,
		Season:      seasonKey(a.SeasonNumber),
	}
}

// BeforeSave keeps SeasonKey in sync with SeasonNumber
func (a *Availability) BeforeSave(tx *gorm.DB) error {
	a.SeasonKey = seasonKey(a.SeasonNumber)
	if a.Quality == "" {
		a.Quality = QualityHD
	}
	return nil
}

func seasonKey(season *int) int {
	if season == nil {
		return noSeason
	}
	return *season
}

// IntPtr is a helper for optional integer fields
func IntPtr(v int) *int {
	return &v
}

// offerKeyColumns are the columns of idx_availability_offer
var offerKeyColumns = []string{
	"title_id", "media_type", "platform", "country_code",
	"access_type", "addon_label", "quality", "season_key",
}
