package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"record_service/internal/logging"
	"record_service/internal/models"

	_ "modernc.org/sqlite"
)

// Resolver maps the gateway-supplied caller id to the internal user id.
type Resolver interface {
	GetMemberByID(ctx context.Context, idx string) (*models.Member, error)
}

// Store persists Records in SQLite.
type Store struct {
	db       *sql.DB
	resolver Resolver
	logger   *zap.Logger
	now      func() time.Time
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the records table and its indexes when missing.
func (s *Store) Migrate(ctx context.Context) error {
	createRecordsTable := `
	CREATE TABLE IF NOT EXISTS records (
			"record_idx" TEXT PRIMARY KEY,
			"user_idx" TEXT NOT NULL,
			"device_type" TEXT NOT NULL,
			"file_name" TEXT,
			"created_date" TEXT NOT NULL,
			"created_at" TEXT NOT NULL,
			"checked" INTEGER NOT NULL DEFAULT 0
	)`
	createIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_records_user_checked ON records(user_idx, checked)`,
		`CREATE INDEX IF NOT EXISTS idx_records_user_device_date ON records(user_idx, device_type, created_date)`,
	}

	if _, err := s.db.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	for _, stmt := range createIndexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create records index: %w", err)
		}
	}
	s.logger.Debug("records schema ready")
	return nil
}

// UseResolver sets the resolver Create uses for owner lookup. Without one the
// caller id is stored as the owner unchanged.
func (s *Store) UseResolver(r Resolver) {
	s.resolver = r
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
