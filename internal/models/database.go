package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/amaumene/streamfr/internal/reference"
)

// DefaultFreshness is how long a cached group stays fresh
const DefaultFreshness = 7 * 24 * time.Hour

const insertBatchSize = 200

// Database wraps the gorm connection holding the availability cache
type Database struct {
	db        *gorm.DB
	freshness time.Duration
	now       func() time.Time
}

// NewDatabase opens (and migrates) the SQLite cache
func NewDatabase(path string, freshness time.Duration) (*Database, error) {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}

	d := &Database{freshness: freshness, now: time.Now}

	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return d.now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := gdb.AutoMigrate(&Availability{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	d.db = gdb
	return d, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetClock overrides the time source
func (db *Database) SetClock(now func() time.Time) {
	db.now = now
}

// Availability operations

// GetFreshness returns the last write time of a group, or false when the group has no records
func (db *Database) GetFreshness(ctx context.Context, titleID int, mediaType MediaType) (time.Time, bool, error) {
	var row Availability
	err := db.db.WithContext(ctx).
		Select("updated_at").
		Where("title_id = ? AND media_type = ?", titleID, mediaType).
		Order("updated_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read freshness: %w", err)
	}
	return row.UpdatedAt, true, nil
}

// IsFresh reports whether a write time is still inside the freshness window
func (db *Database) IsFresh(updatedAt time.Time) bool {
	return db.now().Sub(updatedAt) < db.freshness
}

// GetAvailabilities reads a group, optionally restricted to a set of country codes
func (db *Database) GetAvailabilities(ctx context.Context, titleID int, mediaType MediaType, countries []string) ([]Availability, error) {
	query := db.db.WithContext(ctx).
		Where("title_id = ? AND media_type = ?", titleID, mediaType)

	if codes := normalizeCodes(countries); len(codes) > 0 {
		query = query.Where("country_code IN ?", codes)
	}

	var rows []Availability
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read availabilities: %w", err)
	}
	return rows, nil
}

// ReplaceAll deletes every record of a group and inserts the new set in one
// transaction. Either the whole set is written or nothing changes.
func (db *Database) ReplaceAll(ctx context.Context, titleID int, mediaType MediaType, records []Availability) error {
	now := db.now().UTC()

	rows := make([]Availability, len(records))
	for i, r := range records {
		r.ID = 0
		r.TitleID = titleID
		r.MediaType = mediaType
		r.CountryCode = reference.NormalizeCode(r.CountryCode)
		r.CountryName = reference.CountryName(r.CountryCode)
		if r.AccessType != AccessAddon {
			r.AddonLabel = ""
		}
		if r.Quality == "" {
			r.Quality = QualityHD
		}
		r.SeasonKey = seasonKey(r.SeasonNumber)
		r.CreatedAt = now
		r.UpdatedAt = now
		rows[i] = r
	}

	return db.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ? AND media_type = ?", titleID, mediaType).
			Delete(&Availability{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous availabilities: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		// Duplicates inside one batch overwrite the mutable fields
		upsert := clause.OnConflict{
			Columns: columns(offerKeyColumns),
			DoUpdates: clause.AssignmentColumns([]string{
				"country_name", "has_french_audio", "has_french_subtitles",
				"streaming_url", "source", "season_number", "updated_at",
			}),
		}
		if err := tx.Clauses(upsert).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert availabilities: %w", err)
		}
		return nil
	})
}

// ClearAll deletes every cached record
func (db *Database) ClearAll(ctx context.Context) (int64, error) {
	result := db.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&Availability{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ClearGroup deletes every cached record of a title, for both media types
func (db *Database) ClearGroup(ctx context.Context, titleID int) (int64, error) {
	result := db.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Delete(&Availability{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear title %d: %w", titleID, result.Error)
	}
	return result.RowsAffected, nil
}

// CacheStats summarizes the cache content
type CacheStats struct {
	Records     int64      `json:"records"`
	Groups      int        `json:"groups"`
	StaleGroups int        `json:"stale_groups"`
	Oldest      *time.Time `json:"oldest,omitempty"`
	Newest      *time.Time `json:"newest,omitempty"`
}

// Stats computes cache statistics
func (db *Database) Stats(ctx context.Context) (*CacheStats, error) {
	type groupRow struct {
		TitleID   int
		MediaType MediaType
		UpdatedAt time.Time
	}

	var rows []groupRow
	if err := db.db.WithContext(ctx).Model(&Availability{}).
		Select("title_id, media_type, updated_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read cache stats: %w", err)
	}

	type groupKey struct {
		titleID   int
		mediaType MediaType
	}
	latest := make(map[groupKey]time.Time)
	stats := &CacheStats{Records: int64(len(rows))}

	for _, r := range rows {
		k := groupKey{r.TitleID, r.MediaType}
		if r.UpdatedAt.After(latest[k]) {
			latest[k] = r.UpdatedAt
		}
	}

	stats.Groups = len(latest)
	for _, ts := range latest {
		ts := ts
		if !db.IsFresh(ts) {
			stats.StaleGroups++
		}
		if stats.Oldest == nil || ts.Before(*stats.Oldest) {
			stats.Oldest = &ts
		}
		if stats.Newest == nil || ts.After(*stats.Newest) {
			stats.Newest = &ts
		}
	}

	return stats, nil
}

func columns(names []string) []clause.Column {
	cols := make([]clause.Column, len(names))
	for i, n := range names {
		cols[i] = clause.Column{Name: n}
	}
	return cols
}

func normalizeCodes(countries []string) []string {
	var codes []string
	for _, c := range countries {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		codes = append(codes, reference.NormalizeCode(c))
	}
	return codes
}
