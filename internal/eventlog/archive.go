package eventlog

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Archive persists event entries to a local sqlite file so operators keep
// an audit trail across the screen refreshes and restarts. Conversation
// state is never written here.
type Archive struct {
	db       *sql.DB
	instance string
}

func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening event archive: %w", err)
	}

	schema := `
        CREATE TABLE IF NOT EXISTS events (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            instance TEXT NOT NULL,
            ts DATETIME NOT NULL,
            user TEXT NOT NULL,
            user_id INTEGER NOT NULL,
            action TEXT NOT NULL,
            status TEXT NOT NULL,
            detail TEXT NOT NULL
        )
    `
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating events table: %w", err)
	}

	return &Archive{
		db:       db,
		instance: uuid.NewString(),
	}, nil
}

// Insert appends one event row tagged with this process's instance id.
func (a *Archive) Insert(e Entry) error {
	query := `
        INSERT INTO events (instance, ts, user, user_id, action, status, detail)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := a.db.Exec(query, a.instance, e.Time, e.User, e.UserID, e.Action, e.Status, e.Detail)
	if err != nil {
		return fmt.Errorf("error saving event to archive: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}
