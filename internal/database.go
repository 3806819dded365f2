package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// OpenMode selects how a store file is opened
type OpenMode int

const (
	// OpenReadOnly opens an existing store without write access.
	OpenReadOnly OpenMode = iota
	// OpenReadWrite opens an existing store for writing.
	OpenReadWrite
	// OpenCreate opens a store for writing, creating the file if missing.
	OpenCreate
)

func (m OpenMode) uriMode() string {
	switch m {
	case OpenReadOnly:
		return "ro"
	case OpenReadWrite:
		return "rw"
	default:
		return "rwc"
	}
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// storeDSN builds a SQLite URI for path so the open mode is honoured.
func storeDSN(path string, mode OpenMode) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return fmt.Sprintf("file:%s?mode=%s", escaped, mode.uriMode())
}

// OpenStore opens a Session Buddy store. Read-only and read-write modes
// require the file to exist.
func OpenStore(ctx context.Context, path string, mode OpenMode) (*sql.DB, error) {
	if mode != OpenCreate {
		if _, err := os.Stat(path); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", storeDSN(path, mode))
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	// One logical operation per store; a single connection keeps
	// transactions and pragmas on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	return db, nil
}

// storageTimeLayout is how the extension writes dates (JavaScript toISOString).
const storageTimeLayout = "2006-01-02T15:04:05.000Z"

var textTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// formatTimestamp renders t for a NUMERIC date column. The zero time is NULL.
func formatTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(storageTimeLayout)
}

// parseTimestamp interprets a value read from a NUMERIC date column: ISO
// text, or a number of Unix milliseconds. NULL is the zero time.
func parseTimestamp(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x.UTC(), nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	case float64:
		return time.UnixMilli(int64(x)).UTC(), nil
	case []byte:
		return parseTimestampText(string(x))
	case string:
		return parseTimestampText(x)
	}
	return time.Time{}, fmt.Errorf("%w: unsupported timestamp value of type %T", ErrTypeMismatch, v)
}

func parseTimestampText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range textTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a timestamp", ErrTypeMismatch, s)
}

// valueText renders any engine value as text. NUMERIC affinity may have
// turned numeric-looking text into a number.
func valueText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return boolText(x), nil
	case time.Time:
		return x.UTC().Format(storageTimeLayout), nil
	case nil:
		return "", fmt.Errorf("%w: value is NULL", ErrTypeMismatch)
	}
	return "", fmt.Errorf("%w: unsupported value of type %T", ErrTypeMismatch, v)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
