package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/sbh/internal"
	"github.com/iksnae/sbh/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequenceGIDs struct{ n int }

func (s *sequenceGIDs) NewGID() string {
	s.n++
	return strings.Repeat("g", 31) + string(rune('0'+s.n))
}

var fixedNow = time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)

// stubBackupDeps pins the clock, gid source and host for deterministic backups.
func stubBackupDeps(t *testing.T) {
	t.Helper()
	origNow, origGIDs, origHost := now, gids, newHost
	t.Cleanup(func() { now, gids, newHost = origNow, origGIDs, origHost })

	now = func() time.Time { return fixedNow }
	gids = &sequenceGIDs{}
	newHost = func() internal.HostEnvironment {
		return &internal.SystemHost{GOOS: "linux", LanguageOverride: "en-US"}
	}
}

// seededStore creates a seeded store holding one saved session with two tabs.
func seededStore(t *testing.T) string {
	t.Helper()
	stubBackupDeps(t)
	path := filepath.Join(t.TempDir(), "session_buddy.db")
	_, err := execute(t, "new", path, "--seed")
	require.NoError(t, err)

	db := testutil.OpenDB(t, path)
	testutil.InsertSavedSessionRow(t, db, testutil.SavedRow{
		Name:       "Reading",
		Generated:  "2023-03-01T10:00:00.000Z",
		Created:    "2023-03-01T10:00:00.000Z",
		Modified:   "2023-03-02T10:00:00.000Z",
		Windows:    testutil.WindowsJSON(2),
		WindowsCnt: 1,
		TabsCnt:    2,
	})
	require.NoError(t, db.Close())
	return path
}

func TestNewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")

	_, err := execute(t, "new", path)
	require.NoError(t, err)
	assert.NoError(t, internal.ValidateStore(context.Background(), path, true))

	_, err = execute(t, "new", path)
	require.Error(t, err)
	assert.Equal(t, ExitCantCreate, ExitCode(err))
}

func TestNewCommand_SeedAndID(t *testing.T) {
	path := seededStore(t)

	out, err := execute(t, "id", path)
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 36)
}

func TestIDCommand_Unseeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.db")
	_, err := execute(t, "new", path)
	require.NoError(t, err)

	_, err = execute(t, "id", path)
	require.Error(t, err)
	assert.Equal(t, ExitNoInput, ExitCode(err))
}

func TestValidateCommands(t *testing.T) {
	path := seededStore(t)
	_, err := execute(t, "validate", "store", path, "--schema")
	assert.NoError(t, err)

	garbage := testutil.GarbageFile(t, t.TempDir(), 8192)
	_, err = execute(t, "validate", "store", garbage)
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))

	backup := testutil.WriteFile(t, t.TempDir(), "b.json", []byte(testutil.BackupJSON()))
	_, err = execute(t, "validate", "backup", backup)
	assert.NoError(t, err)

	broken := testutil.WriteFile(t, t.TempDir(), "broken.json", []byte(`{"format":`))
	_, err = execute(t, "validate", "backup", broken)
	require.Error(t, err)
	assert.Equal(t, ExitDataErr, ExitCode(err))
}

func TestBackupCommand_Stdout(t *testing.T) {
	path := seededStore(t)

	out, err := execute(t, "backup", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	b, err := internal.ParseBackup([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Linux", b.Platform)
	assert.Equal(t, "en-US", b.Language)
	assert.Equal(t, internal.UserAgentLinux, b.UA)
	assert.Equal(t, fixedNow, b.Created)
	require.Len(t, b.Sessions, 1)
	assert.Equal(t, internal.SessionSaved, b.Sessions[0].Type())
	assert.Equal(t, strings.Repeat("g", 31)+"1", b.Sessions[0].GID())
}

func TestBackupCommand_OutputDirectory(t *testing.T) {
	path := seededStore(t)
	dir := t.TempDir()

	_, err := execute(t, "backup", path, "-o", dir)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "session_buddy_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	b, err := internal.ValidateBackupFile(files[0])
	require.NoError(t, err)
	assert.Len(t, b.Sessions, 1)
}

func TestBackupCommand_Compressed(t *testing.T) {
	path := seededStore(t)
	target := filepath.Join(t.TempDir(), "backup.json.zst")

	_, err := execute(t, "backup", path, "--output", target)
	require.NoError(t, err)

	b, err := internal.ValidateBackupFile(target)
	require.NoError(t, err)
	assert.Len(t, b.Sessions, 1)
}

func TestBackupCommand_FailureKeepsExistingOutput(t *testing.T) {
	stubBackupDeps(t)
	store := filepath.Join(t.TempDir(), "unseeded.db")
	_, err := execute(t, "new", store)
	require.NoError(t, err)

	dir := t.TempDir()
	previous := []byte(`{"format":"nxs.json.v1","sessions":[]}`)
	target := testutil.WriteFile(t, dir, "previous-backup.json", previous)

	_, err = execute(t, "backup", store, "-o", target)
	require.Error(t, err)
	assert.Equal(t, ExitNoInput, ExitCode(err))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, previous, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	fresh := filepath.Join(dir, "fresh.json")
	_, err = execute(t, "backup", store, "-o", fresh)
	require.Error(t, err)
	assert.NoFileExists(t, fresh)
}

func TestBackupThenImport(t *testing.T) {
	source := seededStore(t)
	backup := filepath.Join(t.TempDir(), "backup.json")
	_, err := execute(t, "backup", source, "-o", backup)
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "restored.db")
	_, err = execute(t, "new", target)
	require.NoError(t, err)
	_, err = execute(t, "import", "--path", target, backup)
	require.NoError(t, err)

	out, err := execute(t, "dump", target)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/1\nhttps://example.com/2\n", out)
}

func TestImportCommand_RequiresPath(t *testing.T) {
	_, err := execute(t, "import", "backup.json")
	assert.Error(t, err)
}

func TestDumpCommand_Formats(t *testing.T) {
	path := seededStore(t)

	out, err := execute(t, "dump", path, "-f", "jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var entry internal.TabEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Reading", entry.SessionName)
	assert.Equal(t, "Tab 1", entry.Title)

	out, err = execute(t, "dump", path, "-f", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "## Reading")

	_, err = execute(t, "dump", path, "-f", "csv")
	assert.Error(t, err)
}

func TestDumpCommand_Unique(t *testing.T) {
	path := seededStore(t)
	db := testutil.OpenDB(t, path)
	testutil.InsertSavedSessionRow(t, db, testutil.SavedRow{
		Name: "Again", Generated: "2023-03-05T10:00:00.000Z", Modified: "2023-03-05T10:00:00.000Z",
		Windows: testutil.WindowsJSON(2),
	})
	require.NoError(t, db.Close())

	out, err := execute(t, "dump", path)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "\n"))

	out, err = execute(t, "dump", path, "--unique")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestStatsCommand(t *testing.T) {
	path := seededStore(t)

	out, err := execute(t, "stats", path, "-f", "json")
	require.NoError(t, err)
	var stats internal.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Sessions)
	assert.Equal(t, 2, stats.Tabs)
	assert.NotEmpty(t, stats.InstallationID)

	out, err = execute(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions: 1\n")
	assert.Contains(t, out, "Previous Sessions: 0\n")

	out, err = execute(t, "stats", path, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "tabs: 2")

	_, err = execute(t, "stats", path, "-f", "xml")
	assert.Error(t, err)
}

func TestSettingsCommand(t *testing.T) {
	path := seededStore(t)
	db := testutil.OpenDB(t, path)
	testutil.InsertSetting(t, db, internal.TableUserSettings, internal.UserSettingExportFormat, "json")
	require.NoError(t, db.Close())

	out, err := execute(t, "settings", path)
	require.NoError(t, err)
	assert.Equal(t, "sessionExport_Format: json\n", out)
}

func TestSearchCommand(t *testing.T) {
	root := t.TempDir()
	store := testutil.WriteFile(t, root, filepath.Join("Default", "databases",
		"chrome-extension_"+internal.SessionBuddyAppID+"_0", "1"), []byte("store"))

	out, err := execute(t, "search", root)
	require.NoError(t, err)
	assert.Equal(t, store+"\n", out)

	out, err = execute(t, "search", root, "--depth", "2")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, "search", filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitIOErr, ExitCode(err))
}

func TestMain(m *testing.M) {
	for _, name := range []string{"SBH_LOG_LEVEL", "SBH_SEARCH_DEPTH", "SBH_FOLLOW_LINKS", "SBH_LANGUAGE"} {
		_ = os.Unsetenv(name)
	}
	os.Exit(m.Run())
}
