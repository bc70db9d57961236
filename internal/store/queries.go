package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

const dateLayout = "2006-01-02"

// SaveDataset stores ds as the snapshot for source, replacing any previous
// snapshot of the same source. It returns the new snapshot's info.
func (s *Store) SaveDataset(source, fingerprint string, ds *transactions.Dataset) (*DatasetInfo, error) {
	info := &DatasetInfo{
		ID:          uuid.NewString(),
		Source:      source,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now().UTC().Truncate(time.Second),
		RecordCount: ds.Len(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM datasets WHERE source = ?`, source); err != nil {
		return nil, wrapErr(err, "failed to replace snapshot for %s", source)
	}

	_, err = tx.Exec(`
		INSERT INTO datasets (id, source, fingerprint, loaded_at, record_count)
		VALUES (?, ?, ?, ?, ?)
	`,
		info.ID,
		info.Source,
		info.Fingerprint,
		info.LoadedAt.Format(time.RFC3339),
		info.RecordCount,
	)
	if err != nil {
		return nil, wrapErr(err, "failed to insert snapshot for %s", source)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transactions
		(dataset_id, seq, retailer, parent_brand, household_id, item_units, item_dollars, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		_, err := stmt.Exec(
			info.ID,
			i,
			r.Retailer,
			r.ParentBrand,
			r.HouseholdID,
			r.ItemUnits,
			r.ItemDollars,
			r.Date.Format(dateLayout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return info, nil
}

// GetDatasetInfo returns the snapshot metadata for source, or ErrNoSnapshot.
func (s *Store) GetDatasetInfo(source string) (*DatasetInfo, error) {
	query := `
		SELECT id, source, fingerprint, loaded_at, record_count
		FROM datasets
		WHERE source = ?
	`

	info, err := scanInfo(s.db.QueryRow(query, source))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, source)
	}
	if err != nil {
		return nil, wrapErr(err, "failed to get snapshot for %s", source)
	}
	return info, nil
}

// ListDatasets returns all snapshots ordered by source.
func (s *Store) ListDatasets() ([]*DatasetInfo, error) {
	query := `
		SELECT id, source, fingerprint, loaded_at, record_count
		FROM datasets
		ORDER BY source
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapErr(err, "failed to list snapshots")
	}
	defer rows.Close()

	var infos []*DatasetInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return infos, nil
}

// LoadDataset reads the snapshot with the given id back into a Dataset.
func (s *Store) LoadDataset(id string) (*transactions.Dataset, error) {
	query := `
		SELECT retailer, parent_brand, household_id, item_units, item_dollars, date
		FROM transactions
		WHERE dataset_id = ?
		ORDER BY seq
	`

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, wrapErr(err, "failed to load snapshot %s", id)
	}
	defer rows.Close()

	var records []transactions.Record
	for rows.Next() {
		var r transactions.Record
		var date string

		err := rows.Scan(
			&r.Retailer,
			&r.ParentBrand,
			&r.HouseholdID,
			&r.ItemUnits,
			&r.ItemDollars,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		r.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date for snapshot %s: %w", id, err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: snapshot %s has no transactions", ErrNoSnapshot, id)
	}

	return transactions.NewDataset(records)
}

// DeleteDataset removes the snapshot for source. Deleting a source with no
// snapshot is not an error.
func (s *Store) DeleteDataset(source string) error {
	if _, err := s.db.Exec(`DELETE FROM datasets WHERE source = ?`, source); err != nil {
		return wrapErr(err, "failed to delete snapshot for %s", source)
	}
	return nil
}

// DeleteAll removes every snapshot and returns how many were removed.
func (s *Store) DeleteAll() (int, error) {
	result, err := s.db.Exec(`DELETE FROM datasets`)
	if err != nil {
		return 0, wrapErr(err, "failed to clear snapshots")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInfo(row rowScanner) (*DatasetInfo, error) {
	var info DatasetInfo
	var fingerprint sql.NullString
	var loadedAt string

	err := row.Scan(
		&info.ID,
		&info.Source,
		&fingerprint,
		&loadedAt,
		&info.RecordCount,
	)
	if err != nil {
		return nil, err
	}

	info.Fingerprint = fingerprint.String
	info.LoadedAt, err = time.Parse(time.RFC3339, loadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse loaded_at for %s: %w", info.Source, err)
	}

	return &info, nil
}
