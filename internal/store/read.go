package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/tensor"
)

// GetTensorSet loads the stored occurrence of the named IDS.
//
// Every variable is re-hashed and compared with the hash recorded at write
// time, as is the hash of the whole set; a mismatch is an IntegrityError.
// Returns a NotFoundError if nothing is stored there.
func (s *Store) GetTensorSet(ctx context.Context, name string, occurrence int) (*tensor.Set, error) {
	info, err := s.Entry(ctx, name, occurrence)
	if err != nil {
		return nil, err
	}

	set := tensor.NewSet()
	if err := s.readDimensions(ctx, info.ID, set); err != nil {
		return nil, err
	}
	if err := s.readAttributes(ctx, info.ID, set); err != nil {
		return nil, err
	}
	hashes, err := s.readVariables(ctx, info, set)
	if err != nil {
		return nil, err
	}

	contentHash, err := ir.TensorSetHash(set.Header(), hashes)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	if contentHash != info.ContentHash {
		return nil, &IntegrityError{IDS: name, Occurrence: occurrence, Want: info.ContentHash, Got: contentHash}
	}
	return set, nil
}

// Entry returns the description of a stored occurrence.
// Returns a NotFoundError if nothing is stored there.
func (s *Store) Entry(ctx context.Context, name string, occurrence int) (EntryInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ids_name, occurrence, dd_version, content_hash, seq
		FROM entries
		WHERE ids_name = ? AND occurrence = ?
	`, name, occurrence)

	info, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return EntryInfo{}, &NotFoundError{IDS: name, Occurrence: occurrence}
	}
	if err != nil {
		return EntryInfo{}, fmt.Errorf("read entry: %w", err)
	}
	return info, nil
}

// DDVersion returns the data dictionary version an occurrence was stored
// with.
func (s *Store) DDVersion(ctx context.Context, name string, occurrence int) (ir.DDVersion, error) {
	info, err := s.Entry(ctx, name, occurrence)
	if err != nil {
		return "", err
	}
	return info.DDVersion, nil
}

// ListOccurrences returns the stored occurrences of the named IDS ordered by
// occurrence. Returns an empty slice (not nil) if there are none.
func (s *Store) ListOccurrences(ctx context.Context, name string) ([]EntryInfo, error) {
	return s.queryEntries(ctx, `
		SELECT id, ids_name, occurrence, dd_version, content_hash, seq
		FROM entries
		WHERE ids_name = ?
		ORDER BY occurrence ASC
	`, name)
}

// ListEntries returns every stored occurrence ordered by IDS name, then
// occurrence.
func (s *Store) ListEntries(ctx context.Context) ([]EntryInfo, error) {
	return s.queryEntries(ctx, `
		SELECT id, ids_name, occurrence, dd_version, content_hash, seq
		FROM entries
		ORDER BY ids_name COLLATE BINARY ASC, occurrence ASC
	`)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]EntryInfo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []EntryInfo{}
	for rows.Next() {
		info, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (EntryInfo, error) {
	var info EntryInfo
	var version string
	if err := row.Scan(&info.ID, &info.IDSName, &info.Occurrence, &version, &info.ContentHash, &info.Seq); err != nil {
		return EntryInfo{}, err
	}
	info.DDVersion = ir.DDVersion(version)
	return info, nil
}

func (s *Store) readDimensions(ctx context.Context, entryID string, set *tensor.Set) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, size FROM dimensions WHERE entry_id = ? ORDER BY ord ASC
	`, entryID)
	if err != nil {
		return fmt.Errorf("query dimensions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var size int
		if err := rows.Scan(&name, &size); err != nil {
			return fmt.Errorf("scan dimension: %w", err)
		}
		if err := set.AddDimension(name, size); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate dimensions: %w", err)
	}
	return nil
}

func (s *Store) readAttributes(ctx context.Context, entryID string, set *tensor.Set) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM attributes WHERE entry_id = ? ORDER BY key COLLATE BINARY ASC
	`, entryID)
	if err != nil {
		return fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan attribute: %w", err)
		}
		set.SetAttr(key, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate attributes: %w", err)
	}
	return nil
}

// readVariables adds the stored variables to set in order and returns
// their verified hashes.
func (s *Store) readVariables(ctx context.Context, info EntryInfo, set *tensor.Set) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, dims, attrs, shape, data, data_hash
		FROM variables
		WHERE entry_id = ?
		ORDER BY ord ASC
	`, info.ID)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		v, stored, err := scanVariable(rows)
		if err != nil {
			return nil, err
		}

		h, _, err := variableHash(v)
		if err != nil {
			return nil, err
		}
		if h != stored {
			return nil, &IntegrityError{
				IDS:        info.IDSName,
				Occurrence: info.Occurrence,
				Variable:   v.Name,
				Want:       stored,
				Got:        h,
			}
		}

		if err := set.AddVariable(v); err != nil {
			return nil, fmt.Errorf("restore variable %q: %w", v.Name, err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variables: %w", err)
	}
	return hashes, nil
}

func scanVariable(rows *sql.Rows) (*tensor.Variable, string, error) {
	var name, kindName, dimsJSON, attrsJSON, hash string
	var shapeJSON sql.NullString
	var data []byte
	if err := rows.Scan(&name, &kindName, &dimsJSON, &attrsJSON, &shapeJSON, &data, &hash); err != nil {
		return nil, "", fmt.Errorf("scan variable: %w", err)
	}

	kind, err := parseKind(kindName)
	if err != nil {
		return nil, "", fmt.Errorf("variable %q: %w", name, err)
	}
	dims, err := unmarshalStrings(dimsJSON)
	if err != nil {
		return nil, "", fmt.Errorf("variable %q: %w", name, err)
	}
	attrs, err := unmarshalAttrs(attrsJSON)
	if err != nil {
		return nil, "", fmt.Errorf("variable %q: %w", name, err)
	}

	v := &tensor.Variable{Name: name, Kind: kind, Dims: dims, Attrs: attrs}
	if shapeJSON.Valid {
		shape, err := unmarshalShape(shapeJSON.String)
		if err != nil {
			return nil, "", fmt.Errorf("variable %q: %w", name, err)
		}
		v.Data, err = tensor.UnmarshalBinary(kind, shape, data)
		if err != nil {
			return nil, "", fmt.Errorf("variable %q: %w", name, err)
		}
	}
	return v, hash, nil
}
