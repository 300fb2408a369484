package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

// EntryInfo describes one stored occurrence.
type EntryInfo struct {
	ID          string       `json:"id"`
	IDSName     string       `json:"ids_name"`
	Occurrence  int          `json:"occurrence"`
	DDVersion   ir.DDVersion `json:"dd_version"`
	ContentHash string       `json:"content_hash"`
	Seq         int64        `json:"seq"`
}

// PutTensorSet stores set as occurrence of the named IDS.
//
// An existing occurrence is never overwritten: the call fails with an
// ExistsError and the store is unchanged. The set's data_dictionary_version
// attribute is recorded with the entry. All rows are written in one
// transaction.
func (s *Store) PutTensorSet(ctx context.Context, name string, occurrence int, set *tensor.Set) (EntryInfo, error) {
	if occurrence < 0 {
		return EntryInfo{}, fmt.Errorf("put %s: negative occurrence %d", name, occurrence)
	}
	version, _ := set.Attr(tensor.AttrDDVersion)

	// Hash outside the transaction
	vars := set.Variables()
	hashes := make([]string, len(vars))
	payloads := make([][]byte, len(vars))
	for i, v := range vars {
		h, payload, err := variableHash(v)
		if err != nil {
			return EntryInfo{}, fmt.Errorf("put %s: %w", name, err)
		}
		hashes[i] = h
		payloads[i] = payload
	}
	contentHash, err := ir.TensorSetHash(set.Header(), hashes)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("put %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM entries WHERE ids_name = ? AND occurrence = ?
	`, name, occurrence).Scan(&existing)
	switch {
	case err == nil:
		return EntryInfo{}, &ExistsError{IDS: name, Occurrence: occurrence}
	case !errors.Is(err, sql.ErrNoRows):
		return EntryInfo{}, fmt.Errorf("check existing entry: %w", err)
	}

	info := EntryInfo{
		ID:          s.ids.Generate(),
		IDSName:     name,
		Occurrence:  occurrence,
		DDVersion:   ir.DDVersion(version),
		ContentHash: contentHash,
		// The transaction holds the only connection, so no other write can
		// take this seq before the commit advances the clock
		Seq: s.clock.Current() + 1,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, ids_name, occurrence, dd_version, content_hash, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`, info.ID, info.IDSName, info.Occurrence, string(info.DDVersion), info.ContentHash, info.Seq)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("insert entry: %w", err)
	}

	for i, d := range set.Dimensions() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dimensions (entry_id, ord, name, size) VALUES (?, ?, ?, ?)
		`, info.ID, i, d.Name, d.Size)
		if err != nil {
			return EntryInfo{}, fmt.Errorf("insert dimension %q: %w", d.Name, err)
		}
	}

	for key, value := range set.Attrs() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO attributes (entry_id, key, value) VALUES (?, ?, ?)
		`, info.ID, key, value)
		if err != nil {
			return EntryInfo{}, fmt.Errorf("insert attribute %q: %w", key, err)
		}
	}

	for i, v := range vars {
		if err := insertVariable(ctx, tx, info.ID, i, v, payloads[i], hashes[i]); err != nil {
			return EntryInfo{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return EntryInfo{}, fmt.Errorf("commit transaction: %w", err)
	}
	s.clock.Advance(info.Seq)

	s.logger.Debug("stored tensor set",
		"ids", name, "occurrence", occurrence, "variables", len(vars), "seq", info.Seq)
	return info, nil
}

func insertVariable(ctx context.Context, tx *sql.Tx, entryID string, ord int, v *tensor.Variable, payload []byte, hash string) error {
	dims, err := marshalStrings(v.Dims)
	if err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	attrs, err := marshalAttrs(v.Attrs)
	if err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}

	var shape sql.NullString
	var data []byte
	if v.Data != nil {
		raw, err := marshalShape(v.Data.Shape())
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
		shape = sql.NullString{String: raw, Valid: true}
		// An empty payload is stored as an empty blob, not NULL
		data = payload
		if data == nil {
			data = []byte{}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO variables (entry_id, ord, name, kind, dims, attrs, shape, data, data_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entryID, ord, v.Name, v.Kind.String(), dims, attrs, shape, data, hash)
	if err != nil {
		return fmt.Errorf("insert variable %q: %w", v.Name, err)
	}
	return nil
}

// DeleteOccurrence removes a stored occurrence and all its rows.
// Returns a NotFoundError if nothing is stored there.
func (s *Store) DeleteOccurrence(ctx context.Context, name string, occurrence int) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM entries WHERE ids_name = ? AND occurrence = ?
	`, name, occurrence)
	if err != nil {
		return fmt.Errorf("delete %s occurrence %d: %w", name, occurrence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s occurrence %d: %w", name, occurrence, err)
	}
	if n == 0 {
		return &NotFoundError{IDS: name, Occurrence: occurrence}
	}

	s.logger.Debug("deleted tensor set", "ids", name, "occurrence", occurrence)
	return nil
}
