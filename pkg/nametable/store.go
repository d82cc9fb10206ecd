// Package nametable adds an optional persistent backing store to the
// in-memory name table (pkg/names), so that interned identifier
// spellings survive across compilation units in a build cache — the
// same "open a SQLite file, migrate when the schema is not current"
// shape as the teacher's pkg/bundler, just repointed at names
// instead of bundle bindings (SPEC_FULL §2).
package nametable

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/spicery/nutmeg-desugar/pkg/names"
)

// InternedName is the persisted row for one interned spelling. The
// NameRef assigned by the in-memory table on a given run is NOT stored:
// refs are only stable within one process, so the store instead
// round-trips spellings and lets the in-process names.MemTable re-mint
// fresh NameRefs for them on load. What's cached is the spelling set
// itself and nothing else: no counts or unique-name counters are stored.
type InternedName struct {
	Spelling string `gorm:"primaryKey"`
}

func getMigrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202511300001",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&InternedName{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&InternedName{})
			},
		},
	}
}

// Store wraps a SQLite-backed cache of interned name spellings.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the cache file at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("nametable: failed to open cache: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate() error {
	m := gormigrate.New(s.db, gormigrate.DefaultOptions, getMigrations())
	return m.Migrate()
}

// UpToDate reports whether the last applied migration is the latest
// one. A brand-new file (no migrations table yet), an out-of-date
// schema and an error reading the migrations table all report false
// with a nil error; the result does not tell these cases apart.
func (s *Store) UpToDate() (bool, error) {
	var lastMigration string
	err := s.db.Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)}).
		Table(gormigrate.DefaultOptions.TableName).
		Select("id").
		Order("id DESC").
		Limit(1).
		Scan(&lastMigration).Error
	if err != nil {
		return false, nil
	}
	migrations := getMigrations()
	if len(migrations) == 0 {
		return true, nil
	}
	return lastMigration == migrations[len(migrations)-1].ID, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Preload populates t with every spelling previously recorded in the
// cache, so identifiers shared across compilation units interned in a
// prior run get the same spelling available for reuse (NameRef values
// themselves are still re-minted per process, see InternedName's doc).
func (s *Store) Preload(t *names.MemTable) error {
	var rows []InternedName
	if err := s.db.Find(&rows).Error; err != nil {
		return fmt.Errorf("nametable: preload failed: %w", err)
	}
	for _, row := range rows {
		t.InternString(row.Spelling)
	}
	return nil
}

// Persist writes every spelling currently in t back to the cache,
// upserting on the primary key so repeated runs stay idempotent.
func (s *Store) Persist(t *names.MemTable) error {
	for _, spelling := range t.Spellings() {
		if spelling == "" {
			continue
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&InternedName{Spelling: spelling}).Error; err != nil {
			return fmt.Errorf("nametable: persist failed for %q: %w", spelling, err)
		}
	}
	return nil
}
