package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/vault"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestLookupKinds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(s.BasePath(), "doc.md"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(s.BasePath(), "folder.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want vault.Kind
	}{
		{"doc.md", vault.KindDocument},
		{"folder.md", vault.KindOther},
		{"missing.md", vault.KindMissing},
		{"nested/missing.md", vault.KindMissing},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			entry, err := s.Lookup(ctx, tc.path)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if entry.Kind != tc.want {
				t.Errorf("expected %s, got %s", tc.want, entry.Kind)
			}
		})
	}

	entry, _ := s.Lookup(ctx, "doc.md")
	if entry.Size != 3 {
		t.Errorf("expected size 3, got %d", entry.Size)
	}
}

func TestCreateReadModify(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, "Inbox/Voice Notes.md", "first"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, "Inbox/Voice Notes.md", "again"); !errors.IsCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS on second create, got %v", err)
	}

	got, err := s.Read(ctx, "Inbox/Voice Notes.md")
	if err != nil || got != "first" {
		t.Fatalf("Read = %q, %v", got, err)
	}

	if err := s.Modify(ctx, "Inbox/Voice Notes.md", "first second"); err != nil {
		t.Fatalf("Modify failed: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(s.BasePath(), "Inbox", "Voice Notes.md"))
	if err != nil || string(raw) != "first second" {
		t.Fatalf("file content = %q, %v", raw, err)
	}

	entries, _ := os.ReadDir(filepath.Join(s.BasePath(), "Inbox"))
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestModifyErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Modify(ctx, "missing.md", "x"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if err := os.Mkdir(filepath.Join(s.BasePath(), "dir.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := s.Modify(ctx, "dir.md", "x"); !errors.IsCode(err, errors.ErrCodeNotAPlainDocument) {
		t.Errorf("expected NOT_A_PLAIN_DOCUMENT, got %v", err)
	}
	if _, err := s.Read(ctx, "missing.md"); !errors.IsCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND on read, got %v", err)
	}
}

func TestPathsStayInsideBase(t *testing.T) {
	s := newTestStore(t)
	if err := s.Create(context.Background(), "../../escape.md", "x"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.BasePath(), "escape.md")); err != nil {
		t.Errorf("expected the document inside the base folder: %v", err)
	}
}

func TestAppendEntryOnLocalStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.October, 18, 14, 30, 0, 0, time.Local)

	if _, err := vault.AppendEntry(ctx, s, "Voice Notes.md", "one", now); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	res, err := vault.AppendEntry(ctx, s, "Voice Notes.md", "two", now)
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if res.Created {
		t.Error("expected second append to modify")
	}

	got, _ := s.Read(ctx, "Voice Notes.md")
	want := "## [10/18/2026, 14:30:00]\none\n\n## [10/18/2026, 14:30:00]\ntwo\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFactoryRegistered(t *testing.T) {
	dir := t.TempDir()
	store, err := vault.New(vault.Config{Provider: vault.ProviderLocal, BasePath: dir}, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("vault.New failed: %v", err)
	}
	loc, ok := store.(vault.Locator)
	if !ok {
		t.Fatal("expected local store to implement Locator")
	}
	if u := loc.URL("a b.md"); !strings.HasPrefix(u, "file://") || !strings.Contains(u, "a%20b.md") {
		t.Errorf("unexpected url %q", u)
	}
}
