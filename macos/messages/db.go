package messages

import (
	"database/sql"
	"fmt"
	"strings"
)

// OpenMode selects how [OpenDB] opens the SQLite file.
type OpenMode string

const (
	// ModeReadOnly opens an existing database without write access.
	ModeReadOnly OpenMode = "ro"
	// ModeReadWrite opens an existing database for reading and writing.
	ModeReadWrite OpenMode = "rw"
	// ModeReadWriteCreate opens a database for writing, creating it if needed.
	ModeReadWriteCreate OpenMode = "rwc"
)

const busyTimeoutMillis = 5000

var uriPathEscaper = strings.NewReplacer("%", "%25", " ", "%20", "?", "%3f", "#", "%23")

// OpenDB opens and pings the SQLite database at path using the driver
// compiled into this build.
func OpenDB(path string, mode OpenMode) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn(uriPathEscaper.Replace(path), mode))
	if err != nil {
		return nil, fmt.Errorf("messages: opening sqlite database failed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("messages: connecting to sqlite database failed: %w", err)
	}
	return db, nil
}
