package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migration is one versioned schema step
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// schemaMigration tracks applied migrations
type schemaMigration struct {
	ID          uint      `gorm:"primaryKey"`
	Version     int       `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	AppliedAt   time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// MigrationStatus reports whether a known migration has been applied
type MigrationStatus struct {
	Version     int        `json:"version"`
	Description string     `json:"description"`
	Applied     bool       `json:"applied"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return newMigrator(db, schemaMigrations())
}

func newMigrator(db *gorm.DB, migrations []Migration) *Migrator {
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return &Migrator{db: db, migrations: migrations}
}

// Migrate applies every pending migration in version order and returns how many ran
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return 0, fmt.Errorf("failed to create migration history table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		if err := m.run(ctx, migration); err != nil {
			return ran, errs.NewMigrationError(migration.Version, migration.Description, err)
		}
		log.Info().
			Int("version", migration.Version).
			Str("description", migration.Description).
			Msg("Applied migration")
		ran++
	}

	return ran, nil
}

// Rollback reverts the most recently applied migration
func (m *Migrator) Rollback(ctx context.Context) (*Migration, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("failed to create migration history table: %w", err)
	}

	var last schemaMigration
	err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			migration = &m.migrations[i]
			break
		}
	}
	if migration == nil {
		return nil, fmt.Errorf("migration %d is recorded but unknown to this binary", last.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return err
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return nil, errs.NewMigrationError(migration.Version, migration.Description, err)
	}

	log.Info().
		Int("version", migration.Version).
		Str("description", migration.Description).
		Msg("Rolled back migration")
	return migration, nil
}

// Status lists every known migration alongside its applied state
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("failed to create migration history table: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		status := MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
		}
		if rec, ok := applied[migration.Version]; ok {
			appliedAt := rec.AppliedAt
			status.Applied = true
			status.AppliedAt = &appliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]schemaMigration, error) {
	var rows []schemaMigration
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	out := make(map[int]schemaMigration, len(rows))
	for _, r := range rows {
		out[r.Version] = r
	}
	return out, nil
}

func (m *Migrator) run(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}
		return tx.Create(&schemaMigration{
			Version:     migration.Version,
			Description: migration.Description,
		}).Error
	})
}

// dropTables drops each table in the order given, children first. Migrator.DropTable is avoided
// because the SQLite migrator toggles foreign_keys, which is a no-op inside a transaction.
func dropTables(db *gorm.DB, tables ...string) error {
	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS ?", clause.Table{Name: table}).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

func schemaMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create posts, tags and post_tags",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(models.All()...)
			},
			Down: func(db *gorm.DB) error {
				return dropTables(db, "post_tags", "tags", "posts")
			},
		},
	}
}
