package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/shiftgrid/internal/record"
)

// ErrDatasetNotFound is returned when a dataset has never been imported.
var ErrDatasetNotFound = errors.New("dataset not found")

// IDGenerator produces snapshot ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 snapshot ids.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
// Falls back to a random UUIDv4 if the v7 clock source fails.
func (UUIDv7Generator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SnapshotInfo describes a dataset's current snapshot.
type SnapshotInfo struct {
	Dataset    string    `json:"dataset"`
	SnapshotID string    `json:"snapshot_id"`
	IDField    string    `json:"id_field"`
	Records    int       `json:"records"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// ReplaceSnapshot atomically replaces every record of dataset and returns the
// new snapshot id. Records keep their slice order as seq. Duplicate ids reject
// the whole snapshot and leave the previous one in place.
func (s *Store) ReplaceSnapshot(ctx context.Context, dataset, idField string, records []record.Record) (string, error) {
	if strings.TrimSpace(dataset) == "" {
		return "", fmt.Errorf("replace snapshot: dataset name is required")
	}
	if idField == "" {
		idField = record.DefaultIDField
	}
	if err := record.CheckUnique(records); err != nil {
		return "", fmt.Errorf("replace snapshot %q: %w", dataset, err)
	}

	rows := make([]encodedRecord, len(records))
	for i, r := range records {
		enc, err := encodeRecord(r)
		if err != nil {
			return "", fmt.Errorf("replace snapshot %q: record %s: %w", dataset, r.ID, err)
		}
		rows[i] = enc
	}

	snapshotID := s.ids.Generate()
	replacedAt := s.clock.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("replace snapshot %q: begin: %w", dataset, err)
	}
	defer tx.Rollback()

	// Upsert rather than REPLACE: REPLACE deletes the row and would cascade.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, snapshot_id, id_field, record_count, replaced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			id_field = excluded.id_field,
			record_count = excluded.record_count,
			replaced_at = excluded.replaced_at
	`, dataset, snapshotID, idField, len(rows), replacedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("replace snapshot %q: write dataset: %w", dataset, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE dataset = ?`, dataset); err != nil {
		return "", fmt.Errorf("replace snapshot %q: clear records: %w", dataset, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (dataset, seq, record_id, id_kind, doc, text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("replace snapshot %q: prepare: %w", dataset, err)
	}
	defer stmt.Close()

	for seq, row := range rows {
		if _, err := stmt.ExecContext(ctx, dataset, seq, row.id, row.kind, row.doc, row.text); err != nil {
			return "", fmt.Errorf("replace snapshot %q: insert record %s: %w", dataset, row.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("replace snapshot %q: commit: %w", dataset, err)
	}

	s.logger.Debug("snapshot replaced", "dataset", dataset, "snapshot_id", snapshotID, "records", len(rows))
	return snapshotID, nil
}

// Snapshot returns the current snapshot of dataset.
func (s *Store) Snapshot(ctx context.Context, dataset string) (SnapshotInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, snapshot_id, id_field, record_count, replaced_at
		FROM datasets
		WHERE name = ?
	`, dataset)

	info, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotInfo{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, dataset)
	}
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("read snapshot %q: %w", dataset, err)
	}
	return info, nil
}

// Datasets returns every dataset's snapshot ordered by name.
func (s *Store) Datasets(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, snapshot_id, id_field, record_count, replaced_at
		FROM datasets
		ORDER BY name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		info, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list datasets: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

// DeleteDataset removes a dataset and its records.
func (s *Store) DeleteDataset(ctx context.Context, dataset string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, dataset)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", dataset, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", dataset, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, dataset)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (SnapshotInfo, error) {
	var info SnapshotInfo
	var replacedAt int64
	if err := row.Scan(&info.Dataset, &info.SnapshotID, &info.IDField, &info.Records, &replacedAt); err != nil {
		return SnapshotInfo{}, err
	}
	info.ReplacedAt = time.UnixMilli(replacedAt).UTC()
	return info, nil
}
