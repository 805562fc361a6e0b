// Package jsonfile stores the account aggregate as a single indented JSON
// document. Writes go to a temp file in the same directory and are renamed
// over the target, so a crash mid-write leaves the previous document intact.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bank-account/internal/domain"
	"bank-account/internal/repository"
)

type Store struct {
	path string
}

func NewStore(path string) repository.AccountRepository {
	return &Store{path: path}
}

func (s *Store) Location() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rec *accountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", repository.ErrCorrupt, s.path, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s holds null", repository.ErrCorrupt, s.path)
	}

	account, err := fromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, s.path, err)
	}
	return account, nil
}

func (s *Store) Save(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(toRecord(account), "", "  ")
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
