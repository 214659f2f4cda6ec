// Package messages reads the local macOS Messages database
// (~/Library/Messages/chat.db) for incremental, read-only polling.
//
// Data model
//
//   - Row: one raw message row joined with its sender handle. Text and Sender
//     may be NULL.
//   - Message: a displayable text message built from a Row with
//     [Row.Message]. Rows without text are not messages.
//
// Reading
//
//  1. DefaultPath()
//     Location of chat.db for the current user.
//  2. NewSource(path).Check()
//     Fails with ErrDatabaseNotFound when the file is missing.
//  3. LatestRowID(ctx)
//     Highest message ROWID, 0 for an empty table. Use it as the initial
//     cursor so only future rows are reported.
//  4. RowsSince(ctx, cursor)
//     Rows with ROWID > cursor in ascending ROWID order.
//
// # Timestamps
//
// chat.db stores message dates as nanoseconds since 2001-01-01 UTC.
// AppleTime converts them to local time; a zero date yields time.Now().
//
// Operational notes
//
//   - Every query opens a fresh read-only connection and closes it, so the
//     Messages app keeps ownership of the file between polls.
//   - Reading chat.db requires Full Disk Access for the calling process
//     (System Settings -> Privacy & Security -> Full Disk Access).
//   - Builds with CGO use github.com/mattn/go-sqlite3; CGO_ENABLED=0 builds
//     fall back to the pure-Go modernc.org/sqlite driver.
package messages
