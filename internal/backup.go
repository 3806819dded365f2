package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Envelope literals describing the interchange format's origin.
const (
	BackupFormat        = "nxs.json.v1"
	SessionBuddyAppID   = "edacconmaakjimmfgnblocblbcdcpbko"
	SessionBuddyVersion = "3.6.4"
	SessionScopeAll     = "all"
)

// BOM is the UTF-8 byte order mark the extension prefixes to its backups.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Backup is the top-level document of a Session Buddy JSON backup
type Backup struct {
	Format           string    `json:"format"`
	Created          time.Time `json:"created"`
	SessionScope     string    `json:"sessionScope"`
	IncludeSession   bool      `json:"includeSession"`
	IncludeWindow    bool      `json:"includeWindow"`
	Platform         string    `json:"platform"`
	Language         string    `json:"language"`
	UA               string    `json:"ua"`
	SbID             string    `json:"sbId"`
	SbVersion        string    `json:"sbVersion"`
	SbInstallationID string    `json:"sbInstallationId"`
	SbInstalled      time.Time `json:"sbInstalled"`
	Sessions         []Session `json:"sessions"`
}

var backupKeys = []string{
	"format", "created", "sessionScope", "includeSession", "includeWindow",
	"platform", "language", "ua", "sbId", "sbVersion", "sbInstallationId",
	"sbInstalled", "sessions",
}

// Clock returns the current time.
type Clock func() time.Time

// AssembleOptions controls what goes into an assembled backup.
type AssembleOptions struct {
	IncludePrevious bool
}

// AssembleBackup builds a backup of the store behind q.
func AssembleBackup(ctx context.Context, q Querier, host HostEnvironment, gids GIDGenerator, now Clock, opts AssembleOptions) (*Backup, error) {
	installationID, err := StringSetting(ctx, q, TableSettings, SettingInstallationID)
	if err != nil {
		return nil, err
	}
	installed, err := TimeSetting(ctx, q, TableSettings, SettingInstallationTimeStamp)
	if err != nil {
		return nil, err
	}

	platform, err := host.Platform()
	if err != nil {
		return nil, err
	}
	ua, err := host.UserAgent()
	if err != nil {
		return nil, err
	}

	b := &Backup{
		Format:           BackupFormat,
		Created:          now().UTC().Truncate(time.Millisecond),
		SessionScope:     SessionScopeAll,
		IncludeSession:   true,
		IncludeWindow:    true,
		Platform:         platform,
		Language:         host.Language(),
		UA:               ua,
		SbID:             SessionBuddyAppID,
		SbVersion:        SessionBuddyVersion,
		SbInstallationID: installationID,
		SbInstalled:      installed,
		Sessions:         []Session{},
	}

	if opts.IncludePrevious {
		previous, err := LoadPreviousSessions(ctx, q)
		if err != nil {
			return nil, err
		}
		for i := range previous {
			b.Sessions = append(b.Sessions, PreviousToInterchange(&previous[i], gids))
		}
	}

	saved, err := LoadSavedSessions(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range saved {
		b.Sessions = append(b.Sessions, SavedToInterchange(&saved[i], gids))
	}

	LogDebug("Assembled backup with %d session(s)", len(b.Sessions))
	return b, nil
}

// WriteBackup writes b as a single line of UTF-8 JSON without a BOM.
func WriteBackup(w io.Writer, b *Backup) error {
	data, err := marshalCompact(b)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return &StorageError{Op: "write", Path: "backup", Err: err}
	}
	return nil
}

// StripBOM removes a single leading byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, BOM)
}

// ParseBackup strips one leading BOM and decodes a complete backup. Every
// envelope key must be present.
func ParseBackup(data []byte) (*Backup, error) {
	data = StripBOM(data)

	var keys map[string]json.RawMessage
	if err := decodeRecord("backup", data, &keys); err != nil {
		return nil, err
	}
	for _, key := range backupKeys {
		if _, ok := keys[key]; !ok {
			return nil, &ParseError{Source: "backup", Key: key, Err: ErrMissingField}
		}
	}

	var b Backup
	if err := decodeRecord("backup", data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
