package database

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Database bundles the repositories over one shared connection pool
type Database struct {
	db       *gorm.DB
	postRepo *PostRepo
	tagRepo  *TagRepo
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the timestamp source used for created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New initializes a Database with each repository sharing the given GORM instance
func New(db *gorm.DB, opts ...Option) Database {
	o := buildOptions(opts)
	return Database{
		db:       db,
		postRepo: NewPostRepo(db, o.now),
		tagRepo:  NewTagRepo(db, o.now),
	}
}

// Open connects to the configured driver, applies pool settings and registers read replicas
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (Database, error) {
	o := buildOptions(opts)

	dialector, err := dialectorFor(cfg.Driver, cfg.URL)
	if err != nil {
		return Database{}, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg),
		NowFunc:        o.now,
		TranslateError: true,
	})
	if err != nil {
		return Database{}, fmt.Errorf("error connecting to database: %w", err)
	}

	if replicas := cfg.Replicas(); len(replicas) > 0 {
		var dialectors []gorm.Dialector
		for _, dsn := range replicas {
			replica, err := dialectorFor(cfg.Driver, dsn)
			if err != nil {
				return Database{}, err
			}
			dialectors = append(dialectors, replica)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return Database{}, fmt.Errorf("error registering read replicas: %w", err)
		}
		log.Info().Int("replicas", len(dialectors)).Msg("Read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return Database{}, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite only supports 1 writer, and each :memory: connection is a separate database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Test database connection
	if err := sqlDB.PingContext(ctx); err != nil {
		return Database{}, fmt.Errorf("error testing database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return Database{}, fmt.Errorf("error enabling foreign keys: %w", err)
		}
	}

	return New(db, opts...), nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case DriverSQLite:
		return sqlite.Open(withForeignKeys(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want %s or %s)", driver, DriverPostgres, DriverSQLite)
	}
}

// withForeignKeys makes every new SQLite connection enforce ON DELETE CASCADE
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func newGormLogger(cfg config.DatabaseConfig) logger.Interface {
	level := logger.Warn
	switch strings.ToLower(cfg.LogLevel) {
	case "silent":
		level = logger.Silent
	case "error":
		level = logger.Error
	case "info", "debug":
		level = logger.Info
	}

	writer := log.With().Str("component", "gorm").Logger()
	return logger.New(
		stdlog.New(writer, "", 0),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold(),
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

// DB returns the underlying connection pool
func (d Database) DB() *gorm.DB {
	return d.db
}

// Ping checks database connectivity
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
