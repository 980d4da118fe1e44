package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Title: "Development", ParentID: nil},
		},
		Bookmarks: []model.Bookmark{
			{ID: "b1", Title: "Test", URL: "https://example.com", IconURL: "https://example.com/i.png"},
		},
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmarks file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Folders) != 1 {
		t.Errorf("expected 1 folder, got %d", len(loaded.Folders))
	}
	if len(loaded.Bookmarks) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(loaded.Bookmarks))
	}
	if loaded.Folders[0].Title != "Development" {
		t.Errorf("expected folder title 'Development', got %q", loaded.Folders[0].Title)
	}
	if loaded.Bookmarks[0].IconURL != "https://example.com/i.png" {
		t.Errorf("expected icon URL to survive, got %q", loaded.Bookmarks[0].IconURL)
	}
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nonexistent.json")

	s := storage.NewJSONStorage(path)
	store, err := s.Load()

	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(store.Folders) != 0 || len(store.Bookmarks) != 0 {
		t.Error("expected empty store for missing file")
	}
}

func TestJSONStorage_LoadCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.NewJSONStorage(path).Load(); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "bookmarks.json")

	s := storage.NewJSONStorage(path)
	if err := s.Save(model.NewStore()); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("bookmarks file was not created in nested directory")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestJSONStorage_PreservesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bookmarks.json")

	store := &model.Store{
		Folders: []model.Folder{
			{ID: "f1", Title: "First"},
			{ID: "f2", Title: "Second"},
			{ID: "f3", Title: "Third"},
		},
		Bookmarks: []model.Bookmark{},
	}

	s := storage.NewJSONStorage(path)
	if err := s.Save(store); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	expected := []string{"First", "Second", "Third"}
	for i, title := range expected {
		if loaded.Folders[i].Title != title {
			t.Errorf("order not preserved: expected %q at position %d, got %q",
				title, i, loaded.Folders[i].Title)
		}
	}
}

func TestOpen_PicksBackendByExtension(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		file       string
		wantSQLite bool
	}{
		{"bookmarks.json", false},
		{"bookmarks", false},
		{"bookmarks.db", true},
		{"bookmarks.SQLITE", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := storage.Open(filepath.Join(tmpDir, tt.file))
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			defer s.Close()

			_, isSQLite := s.(*storage.SQLiteStorage)
			if isSQLite != tt.wantSQLite {
				t.Errorf("expected sqlite=%v, got %T", tt.wantSQLite, s)
			}
		})
	}
}
