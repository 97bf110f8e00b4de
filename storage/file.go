package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore legt jede Domain als <Dir>/<domain>.json ab.
type FileStore struct {
	Dir string
}

// NewFileStore erstellt einen FileStore.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(domain string) string {
	return filepath.Join(s.Dir, domain+".json")
}

// Load liest das Dokument der Domain.
func (s *FileStore) Load(_ context.Context, domain string) ([]byte, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(domain))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Save schreibt in eine temporäre Datei und benennt sie um, damit Leser nie eine halbe Datei sehen.
func (s *FileStore) Save(_ context.Context, domain string, data []byte) error {
	if err := checkDomain(domain); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir, "."+domain+".json.tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nach erfolgreichem Rename ein No-op

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path(domain)); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

// Ensure legt ein leeres Array an, falls die Datei fehlt.
func (s *FileStore) Ensure(ctx context.Context, domain string) error {
	if _, err := s.Load(ctx, domain); !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.Save(ctx, domain, emptyDocument)
}

// Domains listet alle *.json-Dateien im Verzeichnis.
func (s *FileStore) Domains(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var domains []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if domain := strings.TrimSuffix(name, ".json"); checkDomain(domain) == nil {
			domains = append(domains, domain)
		}
	}
	sort.Strings(domains)
	return domains, nil
}
