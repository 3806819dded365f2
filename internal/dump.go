package internal

import (
	"context"
	"time"
)

// TabEntry is one tab of a saved session, flattened for dumping.
type TabEntry struct {
	SessionID   int64  `json:"sessionId" yaml:"sessionId"`
	SessionName string `json:"session" yaml:"session"`
	Window      int    `json:"window" yaml:"window"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// CollectTabs flattens sessions into tab entries in session, window and tab
// order. Tabs without a URL are left out.
func CollectTabs(sessions []SavedSession) []TabEntry {
	var entries []TabEntry
	for _, s := range sessions {
		var id int64
		if s.ID != nil {
			id = *s.ID
		}
		for wi := range s.Windows {
			for ti := range s.Windows[wi].Tabs {
				tab := &s.Windows[wi].Tabs[ti]
				if tab.URLOrEmpty() == "" {
					continue
				}
				entries = append(entries, TabEntry{
					SessionID:   id,
					SessionName: s.Name,
					Window:      wi,
					Title:       tab.TitleOrEmpty(),
					URL:         tab.URLOrEmpty(),
				})
			}
		}
	}
	return entries
}

// LoadStoreTabs reads the tabs of every saved session of the store at path.
func LoadStoreTabs(ctx context.Context, path string) ([]TabEntry, error) {
	db, err := OpenStore(ctx, path, OpenReadOnly)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	sessions, err := LoadSavedSessions(ctx, db)
	if err != nil {
		return nil, err
	}
	return CollectTabs(sessions), nil
}

// Stats summarizes a store
type Stats struct {
	Path           string     `json:"path" yaml:"path"`
	InstallationID string     `json:"installationId,omitempty" yaml:"installationId,omitempty"`
	Installed      *time.Time `json:"installed,omitempty" yaml:"installed,omitempty"`
	Sessions       int        `json:"sessions" yaml:"sessions"`
	Previous       int        `json:"previousSessions" yaml:"previousSessions"`
	Windows        int        `json:"windows" yaml:"windows"`
	Tabs           int        `json:"tabs" yaml:"tabs"`
	DuplicateURLs  int        `json:"duplicateUrls" yaml:"duplicateUrls"`
	Oldest         *time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest         *time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// CollectStats reads the store at path and summarizes it. Missing
// installation settings are left empty rather than failing.
func CollectStats(ctx context.Context, path string) (*Stats, error) {
	db, err := OpenStore(ctx, path, OpenReadOnly)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stats := &Stats{Path: path}

	if id, err := StringSetting(ctx, db, TableSettings, SettingInstallationID); err == nil {
		stats.InstallationID = id
	} else if !isSettingNotFound(err) {
		return nil, err
	}
	if installed, err := TimeSetting(ctx, db, TableSettings, SettingInstallationTimeStamp); err == nil {
		stats.Installed = &installed
	} else if !isSettingNotFound(err) {
		LogWarn("Ignoring installation timestamp: %v", err)
	}

	saved, err := LoadSavedSessions(ctx, db)
	if err != nil {
		return nil, err
	}
	previous, err := LoadPreviousSessions(ctx, db)
	if err != nil {
		return nil, err
	}

	stats.Sessions = len(saved)
	stats.Previous = len(previous)
	for i := range saved {
		s := &saved[i]
		stats.Windows += len(s.Windows)
		for wi := range s.Windows {
			stats.Tabs += s.Windows[wi].TabCount()
		}
		if t := s.CreationDateTime; !t.IsZero() {
			if stats.Oldest == nil || t.Before(*stats.Oldest) {
				stats.Oldest = timePtr(t)
			}
			if stats.Newest == nil || t.After(*stats.Newest) {
				stats.Newest = timePtr(t)
			}
		}
	}
	stats.DuplicateURLs = NewDeduplicator().CountDuplicates(CollectTabs(saved))
	return stats, nil
}
