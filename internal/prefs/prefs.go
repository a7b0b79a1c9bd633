// Package prefs persists small UI preferences in a local sqlite database.
package prefs

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tgienger/todo/internal/models"
)

//go:embed schema.sql
var schema string

// Setting keys
const (
	KeyLastTab = "last_tab"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the preferences database at path
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create prefs dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init prefs schema: %w", err)
	}

	return &DB{db}, nil
}

// GetSetting retrieves a setting value by key; missing keys return ""
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// LastTab returns the remembered tab, or TabAll if none is stored
func (db *DB) LastTab() models.Tab {
	value, err := db.GetSetting(KeyLastTab)
	if err != nil {
		return models.TabAll
	}
	tab, _ := models.ParseTab(value)
	return tab
}

// SetLastTab remembers the selected tab
func (db *DB) SetLastTab(tab models.Tab) error {
	return db.SetSetting(KeyLastTab, tab.String())
}
