package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPutTensorSet_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := createTestSet(t)

	info, err := s.PutTensorSet(ctx, "core_profiles", 0, set)
	if err != nil {
		t.Fatalf("PutTensorSet() failed: %v", err)
	}
	if info.IDSName != "core_profiles" || info.Occurrence != 0 {
		t.Errorf("info = %+v", info)
	}
	if info.DDVersion != "3.39.0" {
		t.Errorf("DDVersion = %q, want 3.39.0", info.DDVersion)
	}
	if info.ContentHash == "" {
		t.Error("ContentHash is empty")
	}

	got, err := s.GetTensorSet(ctx, "core_profiles", 0)
	if err != nil {
		t.Fatalf("GetTensorSet() failed: %v", err)
	}
	if want, have := canonical(t, set), canonical(t, got); want != have {
		t.Errorf("round trip mismatch:\nwant %s\ngot  %s", want, have)
	}
	if want, have := set.Names(), got.Names(); len(want) != len(have) {
		t.Errorf("Names() = %v, want %v", have, want)
	}
}

func TestPutTensorSet_RefusesOverwrite(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.PutTensorSet(ctx, "core_profiles", 1, createTestSet(t))
	if err != nil {
		t.Fatalf("first PutTensorSet() failed: %v", err)
	}

	_, err = s.PutTensorSet(ctx, "core_profiles", 1, createTestSet(t))
	if !IsExists(err) {
		t.Fatalf("second PutTensorSet() error = %v, want ExistsError", err)
	}
	if err.Error() != "core_profiles occurrence 1 already exists" {
		t.Errorf("error = %q", err.Error())
	}

	// The first entry is untouched
	entry, err := s.Entry(ctx, "core_profiles", 1)
	if err != nil {
		t.Fatalf("Entry() failed: %v", err)
	}
	if entry.ID != first.ID || entry.Seq != first.Seq {
		t.Errorf("entry = %+v, want %+v", entry, first)
	}
}

func TestPutTensorSet_NegativeOccurrence(t *testing.T) {
	s := createTestStore(t)

	_, err := s.PutTensorSet(context.Background(), "core_profiles", -1, createTestSet(t))
	if err == nil {
		t.Fatal("expected error for negative occurrence")
	}
}

func TestPutTensorSet_DefaultIDsAreUUIDv7(t *testing.T) {
	s := createTestStore(t)

	info, err := s.PutTensorSet(context.Background(), "core_profiles", 0, createTestSet(t))
	if err != nil {
		t.Fatalf("PutTensorSet() failed: %v", err)
	}
	parsed, err := uuid.Parse(info.ID)
	if err != nil {
		t.Fatalf("entry ID %q is not a UUID: %v", info.ID, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("UUID version = %d, want 7", parsed.Version())
	}
}

func TestPutTensorSet_SeqIsMonotonicAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/test.db"
	ctx := context.Background()

	s, err := Open(path, WithIDGenerator(NewFixedGenerator("a", "b")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	for occ := 0; occ < 2; occ++ {
		info, err := s.PutTensorSet(ctx, "core_profiles", occ, createTestSet(t))
		if err != nil {
			t.Fatalf("PutTensorSet(%d) failed: %v", occ, err)
		}
		if info.Seq != int64(occ+1) {
			t.Errorf("Seq = %d, want %d", info.Seq, occ+1)
		}
	}
	s.Close()

	s, err = Open(path, WithIDGenerator(NewFixedGenerator("c")))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	info, err := s.PutTensorSet(ctx, "wall", 0, createTestSet(t))
	if err != nil {
		t.Fatalf("PutTensorSet() after reopen failed: %v", err)
	}
	if info.ID != "c" || info.Seq != 3 {
		t.Errorf("info = %+v, want ID c and seq 3", info)
	}
}

func TestPutTensorSet_FailedWriteLeavesNoSeqGap(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.PutTensorSet(ctx, "core_profiles", 0, createTestSet(t)); err != nil {
		t.Fatalf("PutTensorSet() failed: %v", err)
	}

	// Abort the transaction after the entry row is written
	if _, err := s.DB().Exec(`
		CREATE TRIGGER reject_dimension BEFORE INSERT ON dimensions
		WHEN NEW.name = 'species'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	if _, err := s.PutTensorSet(ctx, "core_profiles", 1, createTestSet(t)); err == nil {
		t.Fatal("PutTensorSet() succeeded, want trigger error")
	}
	if _, err := s.Entry(ctx, "core_profiles", 1); !IsNotFound(err) {
		t.Errorf("Entry() after failed write = %v, want NotFoundError", err)
	}
	if _, err := s.DB().Exec(`DROP TRIGGER reject_dimension`); err != nil {
		t.Fatalf("drop trigger: %v", err)
	}

	info, err := s.PutTensorSet(ctx, "core_profiles", 1, createTestSet(t))
	if err != nil {
		t.Fatalf("PutTensorSet() failed: %v", err)
	}
	if info.Seq != 2 {
		t.Errorf("Seq = %d, want 2", info.Seq)
	}
}

func TestDeleteOccurrence(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.PutTensorSet(ctx, "core_profiles", 0, createTestSet(t)); err != nil {
		t.Fatalf("PutTensorSet() failed: %v", err)
	}
	if err := s.DeleteOccurrence(ctx, "core_profiles", 0); err != nil {
		t.Fatalf("DeleteOccurrence() failed: %v", err)
	}

	// Child rows are removed by the cascade
	for _, table := range []string{"dimensions", "variables", "attributes"} {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s has %d rows after delete", table, count)
		}
	}

	_, err := s.GetTensorSet(ctx, "core_profiles", 0)
	if !IsNotFound(err) {
		t.Errorf("GetTensorSet() after delete error = %v, want NotFoundError", err)
	}

	// The occurrence can be written again
	if _, err := s.PutTensorSet(ctx, "core_profiles", 0, createTestSet(t)); err != nil {
		t.Errorf("PutTensorSet() after delete failed: %v", err)
	}
}

func TestDeleteOccurrence_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.DeleteOccurrence(context.Background(), "core_profiles", 3)
	if !IsNotFound(err) {
		t.Fatalf("DeleteOccurrence() error = %v, want NotFoundError", err)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		t.Error("NotFoundError should unwrap to sql.ErrNoRows")
	}
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	gen := NewFixedGenerator("only")
	if got := gen.Generate(); got != "only" {
		t.Errorf("Generate() = %q, want only", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic after IDs are exhausted")
		}
	}()
	gen.Generate()
}

func TestClock_Monotonic(t *testing.T) {
	c := NewClockAt(41)
	if got := c.Next(); got != 42 {
		t.Errorf("Next() = %d, want 42", got)
	}
	if got := c.Current(); got != 42 {
		t.Errorf("Current() = %d, want 42", got)
	}
	if got := NewClock().Next(); got != 1 {
		t.Errorf("NewClock().Next() = %d, want 1", got)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClockAt(5)
	c.Advance(3)
	if got := c.Current(); got != 5 {
		t.Errorf("Advance(3) moved clock back to %d", got)
	}
	c.Advance(6)
	if got := c.Current(); got != 6 {
		t.Errorf("Current() = %d, want 6", got)
	}
}
