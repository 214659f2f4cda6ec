package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const messagesDBRelativePath = "Library/Messages/chat.db"

// UnknownSender is reported for messages whose handle cannot be resolved.
const UnknownSender = "unknown"

// ErrDatabaseNotFound is returned by [Source.Check] when the chat database
// file does not exist.
var ErrDatabaseNotFound = errors.New("messages: chat database not found")

// Row is one raw row from the message table joined with its handle.
type Row struct {
	RowID    int64
	Text     sql.NullString
	Date     int64
	IsFromMe bool
	Sender   sql.NullString
}

// Message is a displayable text message.
type Message struct {
	RowID    int64
	Text     string
	SentAt   time.Time
	IsFromMe bool
	Sender   string
}

// Message converts r into a displayable message. It reports false when the
// row carries no text (attachments, reactions and other non-text items).
func (r Row) Message() (Message, bool) {
	if !r.Text.Valid || r.Text.String == "" {
		return Message{}, false
	}
	sender := UnknownSender
	if r.Sender.Valid && r.Sender.String != "" {
		sender = r.Sender.String
	}
	return Message{
		RowID:    r.RowID,
		Text:     r.Text.String,
		SentAt:   AppleTime(r.Date),
		IsFromMe: r.IsFromMe,
		Sender:   sender,
	}, true
}

// DefaultPath returns the chat database location for the current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("messages: unable to resolve home directory: %w", err)
	}
	return filepath.Join(home, messagesDBRelativePath), nil
}

// Source reads a chat database. Every query opens its own read-only
// connection and closes it before returning.
type Source struct {
	path string
}

// NewSource returns a Source reading the database at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the database file path.
func (s *Source) Path() string {
	return s.path
}

// Check reports whether the database file exists. A missing file yields an
// error wrapping [ErrDatabaseNotFound].
func (s *Source) Check() error {
	_, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w at %s", ErrDatabaseNotFound, s.path)
	}
	if err != nil {
		return fmt.Errorf("messages: chat database unavailable at %s: %w", s.path, err)
	}
	return nil
}

// LatestRowID returns the highest message ROWID, or 0 when the table is empty.
func (s *Source) LatestRowID(ctx context.Context) (int64, error) {
	db, err := OpenDB(s.path, ModeReadOnly)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var latest sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(ROWID) FROM message`).Scan(&latest); err != nil {
		return 0, fmt.Errorf("messages: reading latest rowid failed: %w", err)
	}
	return latest.Int64, nil
}

// RowsSince returns every message row with ROWID greater than after, in
// ascending ROWID order. Rows without text are included.
func (s *Source) RowsSince(ctx context.Context, after int64) ([]Row, error) {
	db, err := OpenDB(s.path, ModeReadOnly)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
SELECT
	m.ROWID,
	m.text,
	COALESCE(m.date, 0),
	COALESCE(m.is_from_me, 0),
	h.id
FROM message m
LEFT JOIN handle h ON m.handle_id = h.ROWID
WHERE m.ROWID > ?
ORDER BY m.ROWID ASC;
`, after)
	if err != nil {
		return nil, fmt.Errorf("messages: sqlite query failed: %w", err)
	}
	defer rows.Close()

	result := make([]Row, 0, 16)
	for rows.Next() {
		var (
			row      Row
			isFromMe int64
		)
		if err := rows.Scan(&row.RowID, &row.Text, &row.Date, &isFromMe, &row.Sender); err != nil {
			return nil, fmt.Errorf("messages: scanning sqlite row failed: %w", err)
		}
		row.IsFromMe = isFromMe != 0
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("messages: iterating sqlite rows failed: %w", err)
	}
	return result, nil
}
