package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
)

const savedSessionColumns = `id, name, generationDateTime, creationDateTime, modificationDateTime,
	tags, deleted, windows,
	unfilteredWindowCount, filteredWindowCount, unfilteredTabCount, filteredTabCount`

// sqliteHeaderSize is the length of the database file header.
const sqliteHeaderSize = 100

const previousSessionColumns = `id, recordingDateTime, creationDateTime, windows,
	unfilteredWindowCount, filteredWindowCount, unfilteredTabCount, filteredTabCount`

// LoadSavedSessions reads every row of SavedSessions in id order.
func LoadSavedSessions(ctx context.Context, q Querier) ([]SavedSession, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+savedSessionColumns+" FROM "+TableSavedSessions+" ORDER BY id")
	if err != nil {
		return nil, &StorageError{Op: "query", Path: TableSavedSessions, Err: err}
	}
	defer rows.Close()

	var sessions []SavedSession
	for rows.Next() {
		s, err := scanSavedSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Path: TableSavedSessions, Err: err}
	}
	return sessions, nil
}

func scanSavedSession(rows *sql.Rows) (*SavedSession, error) {
	var (
		id                          int64
		name, tags, deleted, window sql.NullString
		generated, created, updated any
		counts                      [4]sql.NullInt64
	)
	if err := rows.Scan(&id, &name, &generated, &created, &updated, &tags, &deleted, &window,
		&counts[0], &counts[1], &counts[2], &counts[3]); err != nil {
		return nil, &StorageError{Op: "scan", Path: TableSavedSessions, Err: err}
	}

	s := &SavedSession{ID: &id, Name: name.String, Tags: tags.String}
	source := fmt.Sprintf("%s[%d]", TableSavedSessions, id)

	var err error
	if s.GenerationDateTime, err = parseTimestamp(generated); err != nil {
		return nil, &ParseError{Source: source, Key: "generationDateTime", Err: err}
	}
	if s.CreationDateTime, err = parseTimestamp(created); err != nil {
		return nil, &ParseError{Source: source, Key: "creationDateTime", Err: err}
	}
	if s.ModificationDateTime, err = parseTimestamp(updated); err != nil {
		return nil, &ParseError{Source: source, Key: "modificationDateTime", Err: err}
	}
	if s.Deleted, err = parseBoolText(deleted.String); err != nil {
		return nil, &ParseError{Source: source, Key: "deleted", Err: err}
	}
	if s.Windows, err = ParseWindows([]byte(window.String)); err != nil {
		return nil, withSource(err, source)
	}

	stored, err := storedCounts(source, counts)
	if err != nil {
		return nil, err
	}
	s.UnfilteredWindowCount, s.FilteredWindowCount = stored[0], stored[1]
	s.UnfilteredTabCount, s.FilteredTabCount = stored[2], stored[3]
	return s, nil
}

var countColumns = [4]string{"unfilteredWindowCount", "filteredWindowCount", "unfilteredTabCount", "filteredTabCount"}

// storedCounts narrows the count columns of a row, refusing values that do
// not fit the int32 the counts are written as.
func storedCounts(source string, counts [4]sql.NullInt64) ([4]int32, error) {
	var out [4]int32
	for i, c := range counts {
		if c.Int64 < math.MinInt32 || c.Int64 > math.MaxInt32 {
			return out, &ParseError{Source: source, Key: countColumns[i],
				Err: &CountOverflowError{What: countColumns[i], Count: int(c.Int64)}}
		}
		out[i] = int32(c.Int64)
	}
	return out, nil
}

// LoadPreviousSessions reads every row of PreviousSessions in id order.
func LoadPreviousSessions(ctx context.Context, q Querier) ([]PreviousSession, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+previousSessionColumns+" FROM "+TablePreviousSessions+" ORDER BY id")
	if err != nil {
		return nil, &StorageError{Op: "query", Path: TablePreviousSessions, Err: err}
	}
	defer rows.Close()

	var sessions []PreviousSession
	for rows.Next() {
		var (
			p                 PreviousSession
			recorded, created any
			window            sql.NullString
			counts            [4]sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &recorded, &created, &window,
			&counts[0], &counts[1], &counts[2], &counts[3]); err != nil {
			return nil, &StorageError{Op: "scan", Path: TablePreviousSessions, Err: err}
		}
		source := fmt.Sprintf("%s[%d]", TablePreviousSessions, p.ID)
		if p.RecordingDateTime, err = parseTimestamp(recorded); err != nil {
			return nil, &ParseError{Source: source, Key: "recordingDateTime", Err: err}
		}
		if p.CreationDateTime, err = parseTimestamp(created); err != nil {
			return nil, &ParseError{Source: source, Key: "creationDateTime", Err: err}
		}
		if p.Windows, err = ParseWindows([]byte(window.String)); err != nil {
			return nil, withSource(err, source)
		}
		stored, err := storedCounts(source, counts)
		if err != nil {
			return nil, err
		}
		p.UnfilteredWindowCount, p.FilteredWindowCount = stored[0], stored[1]
		p.UnfilteredTabCount, p.FilteredTabCount = stored[2], stored[3]
		sessions = append(sessions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Path: TablePreviousSessions, Err: err}
	}
	return sessions, nil
}

// InsertSavedSession inserts s and returns the id allocated by the store.
// s.ID is never bound.
func InsertSavedSession(ctx context.Context, q Querier, s *SavedSession) (int64, error) {
	windows, err := MarshalWindows(s.Windows)
	if err != nil {
		return 0, fmt.Errorf("failed to encode windows of %q: %w", s.Name, err)
	}

	res, err := q.ExecContext(ctx, `INSERT INTO `+TableSavedSessions+` (
		name, generationDateTime, creationDateTime, modificationDateTime,
		tags, deleted, windows,
		unfilteredWindowCount, filteredWindowCount, unfilteredTabCount, filteredTabCount
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name,
		formatTimestamp(s.GenerationDateTime),
		formatTimestamp(s.CreationDateTime),
		formatTimestamp(s.ModificationDateTime),
		s.Tags,
		boolText(s.Deleted),
		windows,
		s.UnfilteredWindowCount, s.FilteredWindowCount,
		s.UnfilteredTabCount, s.FilteredTabCount,
	)
	if err != nil {
		return 0, &StorageError{Op: "insert", Path: TableSavedSessions, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "insert", Path: TableSavedSessions, Err: err}
	}
	return id, nil
}

// SeedSettings writes a fresh installation id and timestamp into Settings.
func SeedSettings(ctx context.Context, q Querier, now time.Time) (string, error) {
	id := uuid.NewString()
	if err := PutSetting(ctx, q, TableSettings, SettingInstallationID, id); err != nil {
		return "", err
	}
	if err := PutSetting(ctx, q, TableSettings, SettingInstallationTimeStamp, formatTimestamp(now)); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateStore runs PRAGMA integrity_check against the store at path. When
// schema is set the table layout is checked too.
func ValidateStore(ctx context.Context, path string, schema bool) error {
	// SQLite opens an empty file as an empty database that passes the check.
	if info, err := os.Stat(path); err == nil && info.Size() < sqliteHeaderSize {
		return &IntegrityError{Path: path, Detail: "empty or truncated file"}
	}

	db, err := OpenStore(ctx, path, OpenReadOnly)
	if err != nil {
		if KindOf(err) == ErrIoFailure && fileExists(path) {
			return &IntegrityError{Path: path, Err: err}
		}
		return err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return &IntegrityError{Path: path, Err: err}
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return &IntegrityError{Path: path, Err: err}
		}
		results = append(results, line)
	}
	if err := rows.Err(); err != nil {
		return &IntegrityError{Path: path, Err: err}
	}
	if len(results) != 1 || results[0] != "ok" {
		return &IntegrityError{Path: path, Detail: fmt.Sprintf("%q", results)}
	}

	if schema {
		if err := CheckSchema(ctx, db); err != nil {
			return err
		}
	}
	LogDebug("Store %s passed validation", path)
	return nil
}

// LoadBackup assembles a backup of the store at path.
func LoadBackup(ctx context.Context, path string, host HostEnvironment, gids GIDGenerator, now Clock, opts AssembleOptions) (*Backup, error) {
	db, err := OpenStore(ctx, path, OpenReadOnly)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return AssembleBackup(ctx, db, host, gids, now, opts)
}

// BackupStore assembles a backup of the store at path and writes it to w.
// Nothing is written when assembly fails.
func BackupStore(ctx context.Context, path string, w io.Writer, host HostEnvironment, gids GIDGenerator, now Clock, opts AssembleOptions) error {
	backup, err := LoadBackup(ctx, path, host, gids, now, opts)
	if err != nil {
		return err
	}
	return WriteBackup(w, backup)
}

// SaveBackup assembles a backup of the store at path and replaces target
// with it. An existing target is left untouched on any failure.
func SaveBackup(ctx context.Context, path, target string, host HostEnvironment, gids GIDGenerator, now Clock, opts AssembleOptions) error {
	backup, err := LoadBackup(ctx, path, host, gids, now, opts)
	if err != nil {
		return err
	}
	return WriteOutput(target, func(w io.Writer) error {
		return WriteBackup(w, backup)
	})
}

// ValidateBackupFile reads a possibly compressed backup and parses it.
func ValidateBackupFile(path string) (*Backup, error) {
	input, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	if input.Kind == InputStore {
		return nil, &ParseError{Source: path, Err: errors.New("file is a store, not a backup")}
	}
	backup, err := ParseBackup(input.Data)
	if err != nil {
		return nil, withSource(err, path)
	}
	return backup, nil
}

// InstallationID reads installationID from the store at path.
func InstallationID(ctx context.Context, path string) (string, error) {
	db, err := OpenStore(ctx, path, OpenReadOnly)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return StringSetting(ctx, db, TableSettings, SettingInstallationID)
}

// withSource replaces the generic source of a ParseError with a more
// specific one.
func withSource(err error, source string) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		return &ParseError{Source: source, Key: perr.Key, Err: perr.Err}
	}
	return err
}
