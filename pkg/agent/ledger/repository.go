package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("ledger ready", "path", dbPath)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts or replaces the record for a run.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO runs (id, name, description, stage, error_kind, error_message,
		                  image_cid, metadata_cid, token_uri, tx_hash, confirmed, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    stage = excluded.stage,
		    error_kind = excluded.error_kind,
		    error_message = excluded.error_message,
		    image_cid = excluded.image_cid,
		    metadata_cid = excluded.metadata_cid,
		    token_uri = excluded.token_uri,
		    tx_hash = excluded.tx_hash,
		    confirmed = excluded.confirmed,
		    updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.Id, rec.Name, rec.Description, rec.Stage,
		nullString(rec.ErrorKind), nullString(rec.ErrorMessage),
		nullString(rec.ImageCid), nullString(rec.MetadataCid),
		nullString(rec.TokenUri), nullString(rec.TxHash),
		rec.Confirmed, rec.StartedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", rec.Id, err)
	}

	return nil
}

// Get returns nil without error when the run is unknown.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}

	return rec, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Unconfirmed lists failed runs whose mint transaction was submitted but never confirmed.
func (r *Repository) Unconfirmed(ctx context.Context) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRuns+` WHERE tx_hash IS NOT NULL AND confirmed = 0 ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unconfirmed runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

const selectRuns = `
	SELECT id, name, description, stage, error_kind, error_message,
	       image_cid, metadata_cid, token_uri, tx_hash, confirmed, started_at, updated_at
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var errorKind, errorMessage, imageCid, metadataCid, tokenUri, txHash sql.NullString

	err := s.Scan(&rec.Id, &rec.Name, &rec.Description, &rec.Stage,
		&errorKind, &errorMessage, &imageCid, &metadataCid, &tokenUri, &txHash,
		&rec.Confirmed, &rec.StartedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rec.ErrorKind = errorKind.String
	rec.ErrorMessage = errorMessage.String
	rec.ImageCid = imageCid.String
	rec.MetadataCid = metadataCid.String
	rec.TokenUri = tokenUri.String
	rec.TxHash = txHash.String

	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
