// Package local implements vault.Store on a folder of the local filesystem.
package local

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/kbukum/voicenotes/config"
	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/vault"
)

func init() {
	vault.RegisterFactory(vault.ProviderLocal, func(cfg vault.Config, log *logger.Logger) (vault.Store, error) {
		return NewStore(config.ExpandHome(cfg.BasePath), log)
	})
}

// Store implements vault.Store using the local filesystem. Document paths
// are slash-separated and relative to the base folder.
type Store struct {
	basePath string
	log      *logger.Logger
}

// NewStore opens the folder at basePath, creating it if needed.
func NewStore(basePath string, log *logger.Logger) (*Store, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errors.StorageError("resolve", basePath, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.StorageError("create", abs, err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Store{basePath: abs, log: log.WithComponent("vault.local")}, nil
}

// BasePath returns the absolute base folder.
func (s *Store) BasePath() string {
	return s.basePath
}

// resolve maps a document path into the base folder; ".." cannot escape it.
func (s *Store) resolve(p string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(path.Clean("/"+p)))
}

// Lookup reports what exists at p.
func (s *Store) Lookup(_ context.Context, p string) (vault.Entry, error) {
	info, err := os.Stat(s.resolve(p))
	if err != nil {
		if os.IsNotExist(err) {
			return vault.Entry{Path: p, Kind: vault.KindMissing}, nil
		}
		return vault.Entry{}, errors.StorageError("stat", p, err)
	}

	kind := vault.KindOther
	if info.Mode().IsRegular() {
		kind = vault.KindDocument
	}
	return vault.Entry{Path: p, Kind: kind, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Read returns the content of the document at p.
func (s *Store) Read(_ context.Context, p string) (string, error) {
	data, err := os.ReadFile(s.resolve(p))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound("document", p)
		}
		return "", errors.StorageError("read", p, err)
	}
	return string(data), nil
}

// Create writes a new document, creating parent folders as needed.
func (s *Store) Create(_ context.Context, p, content string) error {
	fullPath := s.resolve(p)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return errors.StorageError("create folder for", p, err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.AlreadyExists(p)
		}
		return errors.StorageError("create", p, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return errors.StorageError("write", p, err)
	}
	if err := f.Close(); err != nil {
		return errors.StorageError("write", p, err)
	}
	s.log.Debug("document created", logger.Fields(logger.FieldDocument, p))
	return nil
}

// Modify replaces the content of the document at p. The new content is
// written to a temporary file and renamed over the original.
func (s *Store) Modify(_ context.Context, p, content string) error {
	fullPath := s.resolve(p)
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("document", p)
		}
		return errors.StorageError("stat", p, err)
	}
	if !info.Mode().IsRegular() {
		return errors.NotAPlainDocument(p)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".voicenotes-*")
	if err != nil {
		return errors.StorageError("write", p, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return errors.StorageError("write", p, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return errors.StorageError("write", p, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.StorageError("write", p, err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return errors.StorageError("replace", p, err)
	}
	s.log.Debug("document modified", logger.Fields(logger.FieldDocument, p))
	return nil
}

// URL returns a file:// URL for the document at p.
func (s *Store) URL(p string) string {
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(s.resolve(p))}
	return u.String()
}

// compile-time checks
var (
	_ vault.Store   = (*Store)(nil)
	_ vault.Locator = (*Store)(nil)
)
