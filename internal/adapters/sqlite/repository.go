package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/taxportal/filing-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS filings (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL,
	period_key  TEXT NOT NULL,
	payload     TEXT NOT NULL,
	version     INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
)`

// Repository stores filings in a single SQLite table. The full record is kept
// as JSON next to a few indexed columns; version is the optimistic lock.
type Repository struct {
	db *sql.DB
}

// New opens the SQLite database at dsn and creates the schema.
func New(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dsn, err)
	}
	// one writer keeps the version check and the write on the same connection
	db.SetMaxOpenConns(1)
	r := NewWithDB(db)
	if err := r.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB wraps an existing handle without touching the schema.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the filings table when it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.FilingRecord, error) {
	var payload string
	var version int64
	err := r.db.QueryRowContext(ctx, `SELECT payload, version FROM filings WHERE id=?`, id).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Newf(domain.CodeNotFound, "filing %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading filing %s: %w", id, err)
	}

	rec := &domain.FilingRecord{}
	if err := json.Unmarshal([]byte(payload), rec); err != nil {
		return nil, fmt.Errorf("decoding filing %s: %w", id, err)
	}
	rec.Version = version
	return rec, nil
}

// Save writes rec when the stored version equals expectedVersion and sets
// rec.Version to the new version.
func (r *Repository) Save(ctx context.Context, rec *domain.FilingRecord, expectedVersion int64) error {
	newVersion := expectedVersion + 1
	stored := *rec
	stored.Version = newVersion
	payload, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encoding filing %s: %w", rec.ID, err)
	}

	if expectedVersion == 0 {
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO filings (id, kind, status, period_key, payload, version, created_at, updated_at)
			VALUES (?,?,?,?,?,?,?,?)`,
			rec.ID, rec.Kind, rec.Status, rec.PeriodKey, string(payload), newVersion,
			rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if isConstraintViolation(err) {
			return domain.Newf(domain.CodeVersionConflict, "filing %s already exists", rec.ID)
		}
		if err != nil {
			return fmt.Errorf("inserting filing %s: %w", rec.ID, err)
		}
		rec.Version = newVersion
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE filings SET status=?, period_key=?, payload=?, version=?, updated_at=?
		WHERE id=? AND version=?`,
		rec.Status, rec.PeriodKey, string(payload), newVersion, rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
		rec.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating filing %s: %w", rec.ID, err)
	}
	if err := r.checkAffected(ctx, res, rec.ID, expectedVersion); err != nil {
		return err
	}
	rec.Version = newVersion
	return nil
}

// Delete removes the filing when the stored version equals expectedVersion.
func (r *Repository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM filings WHERE id=? AND version=?`, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("deleting filing %s: %w", id, err)
	}
	return r.checkAffected(ctx, res, id, expectedVersion)
}

// checkAffected turns a zero-row write into NOT_FOUND or VERSION_CONFLICT.
func (r *Repository) checkAffected(ctx context.Context, res sql.Result, id string, expectedVersion int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking write of filing %s: %w", id, err)
	}
	if n == 1 {
		return nil
	}

	var current int64
	err = r.db.QueryRowContext(ctx, `SELECT version FROM filings WHERE id=?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Newf(domain.CodeNotFound, "filing %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("reading version of filing %s: %w", id, err)
	}
	return domain.Newf(domain.CodeVersionConflict, "filing %s is at version %d, expected %d", id, current, expectedVersion)
}

func isConstraintViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
