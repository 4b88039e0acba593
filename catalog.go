package ciaconv

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog records the batch conversions that have been performed so that
// unchanged sources are not converted again.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens or creates the catalog database in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (source_id INTEGER NOT NULL, destination TEXT NOT NULL UNIQUE, format TEXT NOT NULL, converted INTEGER NOT NULL, FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Converted reports whether path with checksum sha was already converted
// to destination.
func (c *Catalog) Converted(path, sha, destination string) (bool, error) {
	var n int
	switch err := c.db.QueryRow("SELECT COUNT(*) FROM conversion AS c JOIN source AS s ON c.source_id = s.id WHERE s.path = ? AND s.sha1 = ? AND c.destination = ?", path, sha, destination).Scan(&n); err {
	case nil:
		return n > 0, nil
	default:
		return false, err
	}
}

func (c *Catalog) addSource(path, sha string) (int64, error) {
	var id int64
	var old string
	switch err := c.db.QueryRow("SELECT id, sha1 FROM source WHERE path = ?", path).Scan(&id, &old); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO source (path, sha1) VALUES (?, ?)", path, sha)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if old != sha {
			// Source changed, forget what it was converted to
			if _, err := c.db.Exec("DELETE FROM conversion WHERE source_id = ?", id); err != nil {
				return 0, err
			}
			if _, err := c.db.Exec("UPDATE source SET sha1 = ? WHERE id = ?", sha, id); err != nil {
				return 0, err
			}
		}
		return id, nil
	default:
		return 0, err
	}
}

// Record stores a successful conversion of path with checksum sha to
// destination in the given format.
func (c *Catalog) Record(path, sha, destination, format string) error {
	id, err := c.addSource(path, sha)
	if err != nil {
		return err
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO conversion (source_id, destination, format, converted) VALUES (?, ?, ?, ?)", id, destination, format, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// Count returns the number of recorded conversions.
func (c *Catalog) Count() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM conversion").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
