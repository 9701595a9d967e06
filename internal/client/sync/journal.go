package sync

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/khoj-ai/khoj-sync/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_journal (
    path TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    last_modified TEXT NOT NULL -- RFC3339Nano string
);
`

// dbFileMetadata is the row shape, with time stored as TEXT.
type dbFileMetadata struct {
	Path         string `db:"path"`
	Size         int64  `db:"size"`
	LastModified string `db:"last_modified"`
}

// SyncJournal is the durable record of what the server currently has: one
// row per synced path with the modification time at upload. Backed by
// SQLite; a missing database file is an empty state.
type SyncJournal struct {
	db     *sqlx.DB
	dbPath string
}

func NewSyncJournal(dbPath string) *SyncJournal {
	return &SyncJournal{
		dbPath: dbPath,
	}
}

// Open the journal and the underlying database, creating it if absent.
func (s *SyncJournal) Open() error {
	if s.db != nil {
		return fmt.Errorf("sync journal already open")
	}

	journalDb, err := db.NewSqliteDb(db.WithPath(s.dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return fmt.Errorf("failed to open sync journal: %w", err)
	}

	if _, err := journalDb.Exec(schema); err != nil {
		journalDb.Close()
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	s.db = journalDb
	return nil
}

// Close closes the underlying database connection.
func (s *SyncJournal) Close() error {
	if s.db == nil {
		return fmt.Errorf("sync journal not open")
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	slog.Debug("sync journal closed")
	return nil
}

// Get retrieves the metadata for a specific path, or nil when unknown.
func (s *SyncJournal) Get(path string) (*FileMetadata, error) {
	var dbMeta dbFileMetadata
	err := s.db.Get(&dbMeta, "SELECT path, size, last_modified FROM sync_journal WHERE path = ?", path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query path %s: %w", path, err)
	}

	return dbMeta.toFileMetadata()
}

// Set inserts or updates the record for one path.
func (s *SyncJournal) Set(meta *FileMetadata) error {
	if meta == nil {
		return fmt.Errorf("cannot set nil metadata")
	}

	row := dbFileMetadata{
		Path:         meta.Path,
		Size:         meta.Size,
		LastModified: meta.LastModified.Format(time.RFC3339Nano),
	}

	query := `INSERT OR REPLACE INTO sync_journal (path, size, last_modified)
	          VALUES (:path, :size, :last_modified)`
	if _, err := s.db.NamedExec(query, row); err != nil {
		return fmt.Errorf("failed to set journal entry for %s: %w", meta.Path, err)
	}
	slog.Debug("sync journal set", "path", meta.Path)
	return nil
}

// Delete removes an entry from the journal by path.
func (s *SyncJournal) Delete(path string) error {
	if _, err := s.db.Exec("DELETE FROM sync_journal WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete journal entry for %s: %w", path, err)
	}
	slog.Debug("sync journal delete", "path", path)
	return nil
}

// GetState retrieves the entire journal as a map keyed by path.
func (s *SyncJournal) GetState() (map[string]*FileMetadata, error) {
	var rows []dbFileMetadata
	if err := s.db.Select(&rows, "SELECT path, size, last_modified FROM sync_journal"); err != nil {
		return nil, fmt.Errorf("failed to query journal state: %w", err)
	}

	state := make(map[string]*FileMetadata, len(rows))
	for _, row := range rows {
		meta, err := row.toFileMetadata()
		if err != nil {
			slog.Error("Skipping corrupt journal entry", "path", row.Path, "error", err)
			continue
		}
		state[row.Path] = meta
	}

	return state, nil
}

// Count returns the number of entries in the journal.
func (s *SyncJournal) Count() (int, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM sync_journal"); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}

func (r *dbFileMetadata) toFileMetadata() (*FileMetadata, error) {
	modTime, err := time.Parse(time.RFC3339Nano, r.LastModified)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored timestamp for %s: %w", r.Path, err)
	}
	return &FileMetadata{
		Path:         r.Path,
		Size:         r.Size,
		LastModified: modTime,
	}, nil
}
