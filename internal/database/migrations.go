package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenoml/showcase/internal/spaces"
)

const (
	migrationBackfillSpaceVisibility = "2026-06-12_backfill_space_visibility"
	migrationDropLegacyLikes         = "2026-07-01_drop_legacy_likes"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillSpaceVisibility, apply: backfillSpaceVisibility},
		{name: migrationDropLegacyLikes, apply: dropLegacyLikes},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// backfillSpaceVisibility repairs rows created before the visibility column
// existed: anything unset is treated as public, matching how those spaces
// were served at the time.
func backfillSpaceVisibility(db *gorm.DB) error {
	return db.Model(&spaces.Space{}).
		Where("visibility IS NULL OR visibility = ''").
		Update("visibility", string(spaces.VisibilityPublic)).Error
}

// dropLegacyLikes removes the unused likes table carried over from an early
// revision that tracked likes separately from clicks.
func dropLegacyLikes(db *gorm.DB) error {
	return db.Exec("DROP TABLE IF EXISTS likes;").Error
}
