package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mcclellann/fredBank/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

var _ Storage = (*SQLiteStore)(nil)

// SQLiteStore keeps a snapshot of the dataset in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and initializes the schema.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL;")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	slog.Info("snapshot database ready", "dsn", dataSourceName)
	return s, nil
}

// initSchema creates the records table. Each row is one record of one
// collection, stored as its JSON encoding so decimals keep full precision.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with d inside one transaction.
func (s *SQLiteStore) Save(d *Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (collection, id, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	collections := d.collections()
	for _, name := range collectionNames {
		rows, err := collections[name].encodeRows()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		for id, body := range rows {
			if _, err := stmt.Exec(name, int64(id), string(body)); err != nil {
				return fmt.Errorf("failed to store %s record %s: %w", name, id, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the stored snapshot. An empty database yields an empty dataset.
func (s *SQLiteStore) Load() (*Dataset, error) {
	rows, err := s.db.Query(`SELECT collection, id, body FROM records`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]map[models.ID][]byte)
	for rows.Next() {
		var name string
		var id int64
		var body string
		if err := rows.Scan(&name, &id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		if raw[name] == nil {
			raw[name] = make(map[models.ID][]byte)
		}
		raw[name][models.ID(id)] = []byte(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	d := NewDataset()
	collections := d.collections()
	for name, records := range raw {
		c, ok := collections[name]
		if !ok {
			slog.Warn("skipping unknown collection in snapshot", "collection", name)
			continue
		}
		if err := c.decodeRows(records); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return d, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
