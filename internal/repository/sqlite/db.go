package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open opens (or creates) the account database at path, creating parent
// directories as needed. A file that exists but is not a sqlite database
// fails with an error for which IsNotADatabase reports true.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// single process, single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// first statement to touch the file, so a foreign file is detected here
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	return db, nil
}

// IsNotADatabase reports whether err is sqlite's SQLITE_NOTADB.
func IsNotADatabase(err error) bool {
	var serr *driver.Error
	return errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_NOTADB
}

// removeDatabase deletes the database file and its WAL side files.
func removeDatabase(path string) error {
	for _, name := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
