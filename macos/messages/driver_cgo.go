//go:build cgo

package messages

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

func dsn(escapedPath string, mode OpenMode) string {
	return fmt.Sprintf("file:%s?mode=%s&_busy_timeout=%d", escapedPath, mode, busyTimeoutMillis)
}
