package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Schema is the DDL of a Session Buddy store.
const Schema = `
CREATE TABLE Settings (
    key TEXT PRIMARY KEY,
    value NUMERIC);

CREATE TABLE UserSettings (
    key TEXT PRIMARY KEY,
    value NUMERIC);

CREATE TABLE Undo (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    creationDateTime NUMERIC,
    tabIdentifier TEXT,
    action TEXT,
    description TEXT,
    register1 TEXT,
    register2 TEXT,
    register3 TEXT,
    register4 TEXT,
    register5 TEXT);

CREATE TABLE SavedSessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT,
    generationDateTime NUMERIC,
    creationDateTime NUMERIC,
    modificationDateTime NUMERIC,
    tags TEXT,
    users TEXT,
    deleted TEXT,
    thumbnail TEXT,
    windows TEXT,
    unfilteredWindowCount INTEGER,
    filteredWindowCount INTEGER,
    unfilteredTabCount INTEGER,
    filteredTabCount INTEGER);

CREATE TABLE PreviousSessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    recordingDateTime NUMERIC,
    creationDateTime NUMERIC,
    users TEXT,
    deleted TEXT,
    thumbnail TEXT,
    windows TEXT,
    unfilteredWindowCount INTEGER,
    filteredWindowCount INTEGER,
    unfilteredTabCount INTEGER,
    filteredTabCount INTEGER);
`

// Table names of the store.
const (
	TableSettings         = "Settings"
	TableUserSettings     = "UserSettings"
	TableUndo             = "Undo"
	TableSavedSessions    = "SavedSessions"
	TablePreviousSessions = "PreviousSessions"
)

// TableColumns lists the columns of each table in declaration order.
var TableColumns = map[string][]string{
	TableSettings:     {"key", "value"},
	TableUserSettings: {"key", "value"},
	TableUndo: {
		"id", "creationDateTime", "tabIdentifier", "action", "description",
		"register1", "register2", "register3", "register4", "register5",
	},
	TableSavedSessions: {
		"id", "name", "generationDateTime", "creationDateTime", "modificationDateTime",
		"tags", "users", "deleted", "thumbnail", "windows",
		"unfilteredWindowCount", "filteredWindowCount", "unfilteredTabCount", "filteredTabCount",
	},
	TablePreviousSessions: {
		"id", "recordingDateTime", "creationDateTime", "users", "deleted", "thumbnail", "windows",
		"unfilteredWindowCount", "filteredWindowCount", "unfilteredTabCount", "filteredTabCount",
	},
}

// schemaStatements splits Schema into its CREATE TABLE statements.
func schemaStatements() []string {
	var stmts []string
	for _, part := range strings.Split(Schema, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// CreateStore creates a new store file at path and runs the schema in one
// transaction. An existing path fails with ErrStoreAlreadyExists unless force
// is set.
func CreateStore(ctx context.Context, path string, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%w: %s", ErrStoreAlreadyExists, path)
		}
		LogWarn("Creating schema in existing file %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Path: path, Op: "stat", Err: err}
	}

	db, err := OpenStore(ctx, path, OpenCreate)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Path: path, Op: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &StorageError{Path: path, Op: "create schema", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Path: path, Op: "commit", Err: err}
	}
	LogDebug("Created store %s", path)
	return nil
}

// SchemaMismatchError lists what differs between a store and Schema.
type SchemaMismatchError struct {
	Problems []string
}

func (e *SchemaMismatchError) Error() string {
	return "schema mismatch: " + strings.Join(e.Problems, "; ")
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrIntegrityCheckFailed
}

// CheckSchema verifies that every table of Schema exists with its columns.
func CheckSchema(ctx context.Context, q Querier) error {
	var problems []string
	for _, table := range []string{TableSettings, TableUserSettings, TableUndo, TableSavedSessions, TablePreviousSessions} {
		columns, err := tableColumns(ctx, q, table)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			problems = append(problems, fmt.Sprintf("table %s is missing", table))
			continue
		}
		for _, want := range TableColumns[table] {
			if !columns[want] {
				problems = append(problems, fmt.Sprintf("column %s.%s is missing", table, want))
			}
		}
	}
	if len(problems) > 0 {
		return &SchemaMismatchError{Problems: problems}
	}
	return nil
}

func tableColumns(ctx context.Context, q Querier, table string) (map[string]bool, error) {
	// table comes from the fixed list above, never from input.
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, &StorageError{Op: "query", Path: table, Err: err}
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid          int
			name, ctype  string
			notNull, pk  int
			defaultValue sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk); err != nil {
			return nil, &StorageError{Op: "scan", Path: table, Err: err}
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Path: table, Err: err}
	}
	return columns, nil
}
