package save

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatal(err)
	}
	sq, err := OpenSQLite(filepath.Join(dir, "db", "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]Store{
		"file":   fs,
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Load(ctx, "beeGameSave"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load on empty store: err = %v, want ErrNotFound", err)
			}

			first := []byte(`{"hive":{"honey":1,"storedPollen":0,"conversionRate":0.5}}`)
			if err := st.Save(ctx, "beeGameSave", first); err != nil {
				t.Fatal(err)
			}
			second := []byte(`{"hive":{"honey":2,"storedPollen":0,"conversionRate":0.5}}`)
			if err := st.Save(ctx, "beeGameSave", second); err != nil {
				t.Fatal(err)
			}

			got, err := st.Load(ctx, "beeGameSave")
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, second) {
				t.Errorf("Load = %s, want %s", got, second)
			}
		})
	}
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "..", "../escape", "a/b"} {
		if err := fs.Save(context.Background(), key, []byte("{}")); err == nil {
			t.Errorf("Save(%q) should fail", key)
		}
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	st, err := Open("none", "")
	if err != nil || st != nil {
		t.Errorf("Open(none) = %v, %v; want nil, nil", st, err)
	}
	if _, err := Open("cloud", dir); err == nil {
		t.Error("unknown backend should fail")
	}
	st, err = Open("file", dir)
	if err != nil || st == nil {
		t.Errorf("Open(file) = %v, %v", st, err)
	}
	if _, err := Open("file", ""); err == nil {
		t.Error("file backend with empty path should fail")
	}
}
