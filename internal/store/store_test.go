package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"user_version": "1",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_MigratesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE documents (key TEXT PRIMARY KEY, payload TEXT NOT NULL, updated_at INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO documents (key, payload, updated_at) VALUES ('skyeCart', '[]', 0)`)
	if err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed on legacy database: %v", err)
	}
	defer s.Close()

	rev, err := s.Revision(context.Background(), "skyeCart")
	if err != nil {
		t.Fatalf("Revision() failed: %v", err)
	}
	if rev != 1 {
		t.Errorf("revision = %d, want 1", rev)
	}
}

func TestStore_LoadMissingKey(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	_, err = s.Load(context.Background(), "nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveOverwritesAndCountsRevisions(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if err := s.Save(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}
	if err := s.Save(ctx, "k", []byte(`[1,2]`)); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("Load() = %s, want [1,2]", got)
	}

	rev, err := s.Revision(ctx, "k")
	if err != nil {
		t.Fatalf("Revision() failed: %v", err)
	}
	if rev != 2 {
		t.Errorf("revision = %d, want 2", rev)
	}

	rev, err = s.Revision(ctx, "missing")
	if err != nil || rev != 0 {
		t.Errorf("Revision(missing) = %d, %v; want 0, nil", rev, err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s1.Save(ctx, "skyeCart", []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Load(ctx, "skyeCart")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(got) != `[{"id":"p1"}]` {
		t.Errorf("Load() = %s", got)
	}
}
