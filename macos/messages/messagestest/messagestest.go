// Package messagestest builds throwaway chat databases for tests.
package messagestest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spachava753/imsgwatch/macos/messages"
)

// schema is the subset of the Messages chat.db schema read by package messages.
const schema = `
CREATE TABLE handle (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT UNIQUE,
	id TEXT NOT NULL,
	service TEXT NOT NULL DEFAULT 'iMessage',
	uncanonicalized_id TEXT
);
CREATE TABLE message (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT UNIQUE NOT NULL,
	text TEXT,
	handle_id INTEGER DEFAULT 0,
	date INTEGER,
	is_from_me INTEGER DEFAULT 0,
	is_read INTEGER DEFAULT 0,
	is_empty INTEGER DEFAULT 0
);
`

// Message describes a row to insert into the message table.
type Message struct {
	// RowID forces the ROWID when non-zero.
	RowID int64
	// Text is stored as NULL when nil.
	Text     *string
	HandleID int64
	Date     int64
	IsFromMe bool
}

// Text returns a pointer to s for use in [Message].
func Text(s string) *string {
	return &s
}

// DB is a chat database in a test temp directory.
type DB struct {
	Path string

	tb  testing.TB
	db  *sql.DB
	seq int
}

// New creates an empty chat database. It is closed when the test ends.
func New(tb testing.TB) *DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "chat.db")
	db, err := messages.OpenDB(path, messages.ModeReadWriteCreate)
	if err != nil {
		tb.Fatalf("messagestest: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		tb.Fatalf("messagestest: creating schema: %v", err)
	}
	return &DB{Path: path, tb: tb, db: db}
}

// AddHandle inserts a sender handle and returns its ROWID.
func (d *DB) AddHandle(id string) int64 {
	d.tb.Helper()

	res, err := d.db.Exec(`INSERT INTO handle (id, uncanonicalized_id) VALUES (?, ?)`, id, id)
	if err != nil {
		d.tb.Fatalf("messagestest: inserting handle %q: %v", id, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		d.tb.Fatalf("messagestest: reading handle rowid: %v", err)
	}
	return rowID
}

// AddMessage inserts a message row and returns its ROWID.
func (d *DB) AddMessage(m Message) int64 {
	d.tb.Helper()

	d.seq++
	guid := fmt.Sprintf("test-guid-%d", d.seq)

	var text any
	if m.Text != nil {
		text = *m.Text
	}
	isFromMe := 0
	if m.IsFromMe {
		isFromMe = 1
	}

	var rowID any
	if m.RowID != 0 {
		rowID = m.RowID
	}

	res, err := d.db.Exec(
		`INSERT INTO message (ROWID, guid, text, handle_id, date, is_from_me) VALUES (?, ?, ?, ?, ?, ?)`,
		rowID, guid, text, m.HandleID, m.Date, isFromMe,
	)
	if err != nil {
		d.tb.Fatalf("messagestest: inserting message: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		d.tb.Fatalf("messagestest: reading message rowid: %v", err)
	}
	return id
}
