//go:build !cgo

package messages

import (
	"fmt"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func dsn(escapedPath string, mode OpenMode) string {
	return fmt.Sprintf("file:%s?mode=%s&_pragma=busy_timeout(%d)", escapedPath, mode, busyTimeoutMillis)
}
