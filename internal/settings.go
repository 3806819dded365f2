package internal

import (
	"context"
	"fmt"
	"time"
)

// Settings keys read when assembling a backup.
const (
	SettingInstallationID        = "installationID"
	SettingInstallationTimeStamp = "installationTimeStamp"
)

// UserSettings keys.
const (
	UserSettingExportFormat     = "sessionExport_Format"
	UserSettingExportScope      = "sessionExport_Scope"
	UserSettingExportShowTitles = "sessionExport_ShowTitles"
	UserSettingExportShowURLs   = "sessionExport_ShowURLs"
)

func settingValue(ctx context.Context, q Querier, table, key string) (any, error) {
	if table != TableSettings && table != TableUserSettings {
		return nil, &SettingError{Table: table, Key: key, Err: fmt.Errorf("%w: not a settings table", ErrSettingNotFound)}
	}

	var value any
	// table is one of the two constants checked above.
	err := q.QueryRowContext(ctx, "SELECT value FROM "+table+" WHERE key = ?", key).Scan(&value)
	if isNoRows(err) {
		return nil, &SettingError{Table: table, Key: key, Err: ErrSettingNotFound}
	}
	if err != nil {
		return nil, &SettingError{Table: table, Key: key, Err: &StorageError{Op: "query", Path: table, Err: err}}
	}
	return value, nil
}

// StringSetting fetches a setting as text
func StringSetting(ctx context.Context, q Querier, table, key string) (string, error) {
	value, err := settingValue(ctx, q, table, key)
	if err != nil {
		return "", err
	}
	s, err := valueText(value)
	if err != nil {
		return "", &SettingError{Table: table, Key: key, Err: err}
	}
	return s, nil
}

// TimeSetting fetches a setting as a timestamp
func TimeSetting(ctx context.Context, q Querier, table, key string) (time.Time, error) {
	value, err := settingValue(ctx, q, table, key)
	if err != nil {
		return time.Time{}, err
	}
	if value == nil {
		return time.Time{}, &SettingError{Table: table, Key: key, Err: fmt.Errorf("%w: value is NULL", ErrTypeMismatch)}
	}
	t, err := parseTimestamp(value)
	if err != nil {
		return time.Time{}, &SettingError{Table: table, Key: key, Err: err}
	}
	return t, nil
}

// PutSetting inserts or replaces a setting.
func PutSetting(ctx context.Context, q Querier, table, key string, value any) error {
	if table != TableSettings && table != TableUserSettings {
		return &SettingError{Table: table, Key: key, Err: fmt.Errorf("%w: not a settings table", ErrSettingNotFound)}
	}
	if _, err := q.ExecContext(ctx, "INSERT OR REPLACE INTO "+table+" (key, value) VALUES (?, ?)", key, value); err != nil {
		return &StorageError{Op: "insert", Path: table, Err: err}
	}
	return nil
}

// LoadUserSettings reads the known UserSettings keys. Missing keys stay nil.
func LoadUserSettings(ctx context.Context, q Querier) (*UserSettings, error) {
	var us UserSettings
	fields := []struct {
		key string
		dst **string
	}{
		{UserSettingExportFormat, &us.SessionExportFormat},
		{UserSettingExportScope, &us.SessionExportScope},
		{UserSettingExportShowTitles, &us.SessionExportShowTitles},
		{UserSettingExportShowURLs, &us.SessionExportShowURLs},
	}

	for _, f := range fields {
		s, err := StringSetting(ctx, q, TableUserSettings, f.key)
		if err != nil {
			if isSettingNotFound(err) {
				continue
			}
			return nil, err
		}
		*f.dst = &s
	}
	return &us, nil
}

func isSettingNotFound(err error) bool {
	return KindOf(err) == ErrSettingNotFound
}
