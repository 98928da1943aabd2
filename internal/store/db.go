package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Indicator{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertIndicators inserts the supplied indicators, refreshing the source of existing entries.
func (d *Database) UpsertIndicators(items []Indicator) error {
	if d == nil {
		return errors.New("database is nil")
	}
	if len(items) == 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Transaction(func(tx *gorm.DB) error {
		// Batch insert to avoid SQLite variable limit (999)
		const batchSize = 200
		for start := 0; start < len(items); start += batchSize {
			end := start + batchSize
			if end > len(items) {
				end = len(items)
			}
			chunk := items[start:end]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "kind"}, {Name: "value"}},
				DoUpdates: clause.AssignmentColumns([]string{"source", "updated_at"}),
			}).Create(&chunk).Error; err != nil {
				return fmt.Errorf("upsert indicators: %w", err)
			}
		}
		return nil
	})
}

// ListIndicators returns indicators ordered by kind and value.
func (d *Database) ListIndicators(opts IndicatorQuery) ([]Indicator, int64, error) {
	if d == nil {
		return nil, 0, errors.New("database is nil")
	}
	query := d.gorm.Model(&Indicator{})
	if opts.Kind != "" {
		query = query.Where("kind = ?", opts.Kind)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("kind ASC").Order("value ASC")
	if opts.Limit > 0 {
		query = query.Offset(opts.Offset).Limit(opts.Limit)
	}
	var rows []Indicator
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountIndicators returns the number of stored indicators.
func (d *Database) CountIndicators() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Indicator{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteIndicator removes one indicator. It reports gorm.ErrRecordNotFound when nothing matched.
func (d *Database) DeleteIndicator(kind, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := d.gorm.Where("kind = ? AND value = ?", kind, value).Delete(&Indicator{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
