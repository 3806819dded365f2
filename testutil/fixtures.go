package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// SavedRow is a raw SavedSessions row. Dates are written as given.
type SavedRow struct {
	Name       string
	Generated  any
	Created    any
	Modified   any
	Deleted    string
	Windows    string
	WindowsCnt int
	TabsCnt    int
}

// PreviousRow is a raw PreviousSessions row
type PreviousRow struct {
	Recorded   any
	Created    any
	Windows    string
	WindowsCnt int
	TabsCnt    int
}

// OpenDB opens an existing SQLite file without any schema handling
func OpenDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertSetting writes a key/value pair into Settings or UserSettings
func InsertSetting(t *testing.T, db *sql.DB, table, key string, value any) {
	t.Helper()
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (key, value) VALUES (?, ?)", table)
	if _, err := db.Exec(query, key, value); err != nil {
		t.Fatalf("Failed to insert setting %s.%s: %v", table, key, err)
	}
}

// InsertSavedSessionRow inserts a SavedSessions row and returns its id
func InsertSavedSessionRow(t *testing.T, db *sql.DB, row SavedRow) int64 {
	t.Helper()
	if row.Deleted == "" {
		row.Deleted = "false"
	}
	res, err := db.Exec(`INSERT INTO SavedSessions (
		name, generationDateTime, creationDateTime, modificationDateTime, tags, deleted, windows,
		unfilteredWindowCount, filteredWindowCount, unfilteredTabCount, filteredTabCount
	) VALUES (?, ?, ?, ?, '', ?, ?, ?, ?, ?, ?)`,
		row.Name, row.Generated, row.Created, row.Modified, row.Deleted, row.Windows,
		row.WindowsCnt, row.WindowsCnt, row.TabsCnt, row.TabsCnt)
	if err != nil {
		t.Fatalf("Failed to insert saved session: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read saved session id: %v", err)
	}
	return id
}

// InsertPreviousSessionRow inserts a PreviousSessions row and returns its id
func InsertPreviousSessionRow(t *testing.T, db *sql.DB, row PreviousRow) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO PreviousSessions (
		recordingDateTime, creationDateTime, windows,
		unfilteredWindowCount, filteredWindowCount, unfilteredTabCount, filteredTabCount
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.Recorded, row.Created, row.Windows,
		row.WindowsCnt, row.WindowsCnt, row.TabsCnt, row.TabsCnt)
	if err != nil {
		t.Fatalf("Failed to insert previous session: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read previous session id: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// WindowsJSON builds a windows column holding one window per entry of
// tabsPerWindow, each with that many tabs.
func WindowsJSON(tabsPerWindow ...int) string {
	var windows []string
	n := 0
	for _, count := range tabsPerWindow {
		var tabs []string
		for i := 0; i < count; i++ {
			n++
			tabs = append(tabs, fmt.Sprintf(
				`{"incognito":false,"index":%d,"pinned":false,"selected":false,"title":"Tab %d","url":"https://example.com/%d"}`,
				i, n, n))
		}
		windows = append(windows, `{"tabs":[`+strings.Join(tabs, ",")+`]}`)
	}
	return "[" + strings.Join(windows, ",") + "]"
}

// BackupJSON builds a backup document around the given raw session objects
func BackupJSON(sessions ...string) string {
	return `{"format":"nxs.json.v1","created":"2023-04-01T12:00:00.000Z","sessionScope":"all",` +
		`"includeSession":true,"includeWindow":true,"platform":"Linux","language":"en-US",` +
		`"ua":"test","sbId":"edacconmaakjimmfgnblocblbcdcpbko","sbVersion":"3.6.4",` +
		`"sbInstallationId":"install-1","sbInstalled":"2020-01-01T00:00:00.000Z",` +
		`"sessions":[` + strings.Join(sessions, ",") + `]}`
}

// SavedSessionJSON builds a saved interchange session
func SavedSessionJSON(name, windows string) string {
	return fmt.Sprintf(`{"type":"saved","id":7,"gid":"abc","name":%q,`+
		`"generated":"2023-03-01T10:00:00.000Z","created":"2023-03-01T10:00:00.000Z",`+
		`"modified":"2023-03-02T10:00:00.000Z","windows":%s}`, name, windows)
}
