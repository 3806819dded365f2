package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// ImportOptions controls ImportFiles.
type ImportOptions struct {
	// Atomic runs the whole import in one transaction.
	Atomic bool
}

// ImportReport counts what happened to the sessions of an import.
type ImportReport struct {
	Files     int `json:"files" yaml:"files"`
	Inserted  int `json:"inserted" yaml:"inserted"`
	Discarded int `json:"discarded" yaml:"discarded"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// importPlan holds the rows of one input, converted before anything is inserted.
type importPlan struct {
	rows      []*SavedSession
	discarded int
	skipped   int
}

// ImportFiles inserts the saved sessions of every file into the store at
// storePath, in input order. Without opts.Atomic every row is committed on
// its own and rows of earlier files stay when a later file fails.
func ImportFiles(ctx context.Context, storePath string, files []string, opts ImportOptions) (*ImportReport, error) {
	db, err := OpenStore(ctx, storePath, OpenReadWrite)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var (
		q  Querier = db
		tx *sql.Tx
	)
	if opts.Atomic {
		tx, err = db.BeginTx(ctx, nil)
		if err != nil {
			return nil, &StorageError{Path: storePath, Op: "begin", Err: err}
		}
		defer func() { _ = tx.Rollback() }()
		q = tx
	}

	report := &ImportReport{}
	for _, file := range files {
		plan, err := planImport(ctx, file)
		if err != nil {
			return report, err
		}
		for _, row := range plan.rows {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			id, err := InsertSavedSession(ctx, q, row)
			if err != nil {
				return report, err
			}
			LogDebug("Inserted %q from %s as id %d", row.Name, file, id)
			report.Inserted++
		}
		report.Files++
		report.Discarded += plan.discarded
		report.Skipped += plan.skipped
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return report, &StorageError{Path: storePath, Op: "commit", Err: err}
		}
	}
	return report, nil
}

func planImport(ctx context.Context, file string) (*importPlan, error) {
	input, err := ReadInput(file)
	if err != nil {
		return nil, err
	}
	if input.Kind == InputStore {
		return planStoreImport(ctx, file)
	}
	return planBackupImport(file, input.Data)
}

// planStoreImport re-imports the saved sessions of another store.
func planStoreImport(ctx context.Context, file string) (*importPlan, error) {
	src, err := OpenStore(ctx, file, OpenReadOnly)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	sessions, err := LoadSavedSessions(ctx, src)
	if err != nil {
		return nil, err
	}
	plan := &importPlan{}
	for i := range sessions {
		row := sessions[i]
		row.ID = nil
		if err := recount(&row); err != nil {
			return nil, err
		}
		plan.rows = append(plan.rows, &row)
	}
	return plan, nil
}

// planBackupImport converts the sessions of a backup. current sessions are
// discarded; previous and unknown ones are skipped with a warning.
func planBackupImport(file string, data []byte) (*importPlan, error) {
	var doc struct {
		Sessions *[]json.RawMessage `json:"sessions"`
	}
	if err := decodeRecord(file, StripBOM(data), &doc); err != nil {
		return nil, err
	}
	if doc.Sessions == nil {
		return nil, &ParseError{Source: file, Key: "sessions", Err: ErrMissingField}
	}

	plan := &importPlan{}
	for i, raw := range *doc.Sessions {
		source := fmt.Sprintf("%s: sessions[%d]", file, i)
		typ, err := PeekSessionType(raw)
		if err != nil {
			return nil, withSource(err, source)
		}

		switch typ {
		case SessionCurrent:
			LogDebug("%s: discarding current session", source)
			plan.discarded++
		case SessionPrevious:
			LogWarn("%s: skipping previous session", source)
			plan.skipped++
		case SessionSaved:
			var session Session
			if err := decodeRecord(source, raw, &session); err != nil {
				return nil, err
			}
			row, err := ToStorage(&session)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", source, err)
			}
			plan.rows = append(plan.rows, row)
		default:
			LogWarn("%s: skipping session: %v %q", source, ErrUnknownSessionType, typ)
			plan.skipped++
		}
	}
	return plan, nil
}

func recount(s *SavedSession) error {
	windows, err := CountWindows(s.Windows)
	if err != nil {
		return err
	}
	tabs, err := CountTabs(s.Windows)
	if err != nil {
		return err
	}
	s.UnfilteredWindowCount, s.FilteredWindowCount = windows, windows
	s.UnfilteredTabCount, s.FilteredTabCount = tabs, tabs
	return nil
}
