package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps one row per box holding both JSON documents, so a save
// is a single upsert.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RunMigrations() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, boxID string) (domain.Box, error) {
	var cart, discount string
	err := s.db.QueryRowContext(ctx,
		`SELECT cart, discount FROM boxes WHERE box_id = ?`, boxID).
		Scan(&cart, &discount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Box{}, nil
	}
	if err != nil {
		return domain.Box{}, fmt.Errorf("failed to load box: %w", err)
	}
	return decodeBox([]byte(cart), []byte(discount)), nil
}

func (s *SQLiteStore) Save(ctx context.Context, boxID string, box domain.Box) error {
	cart, discount, err := encodeBox(box)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boxes (box_id, cart, discount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(box_id)
		DO UPDATE SET cart = excluded.cart, discount = excluded.discount, updated_at = excluded.updated_at
	`, boxID, string(cart), string(discount), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save box: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
