package internal

// Tab mirrors chrome.tabs.Tab as stored by Session Buddy.
// https://developer.chrome.com/docs/extensions/reference/tabs/
//
// incognito, index, pinned and selected are always written. active and
// discarded are written only when true. Every other attribute is optional and
// left out when nil.
type Tab struct {
	// Whether the tab is active in its window.
	Active bool `json:"active"`

	// Whether the tab has produced sound over the past couple of seconds.
	Audible *bool `json:"audible"`

	// Whether the browser may discard the tab when resources are low.
	AutoDiscardable *bool `json:"autoDiscardable"`

	// Whether the tab content has been unloaded from memory.
	Discarded bool `json:"discarded"`

	FavIconURL *string `json:"favIconUrl"`

	// The ID of the group that the tab belongs to, -1 when ungrouped.
	GroupID *int64 `json:"groupId"`

	Height *int64 `json:"height"`

	Highlighted *bool `json:"highlighted"`

	ID *int64 `json:"id"`

	Incognito bool `json:"incognito"`

	// The zero-based index of the tab within its window.
	Index int64 `json:"index"`

	MutedInfo *MutedInfo `json:"mutedInfo"`

	// Only present while the opener tab still exists.
	OpenerTabID *int64 `json:"openerTabId"`

	// The URL the tab is navigating to, before it has committed.
	PendingURL *string `json:"pendingUrl"`

	Pinned bool `json:"pinned"`

	// Deprecated in Chrome in favour of highlighted; Session Buddy still uses it.
	Selected bool `json:"selected"`

	SessionID *string `json:"sessionId"`

	// "unloaded", "loading" or "complete".
	Status *string `json:"status"`

	Title *string `json:"title"`

	// The last committed URL of the main frame of the tab.
	URL *string `json:"url"`

	Width *int64 `json:"width"`

	WindowID *int64 `json:"windowId"`
}

// MarshalJSON implements json.Marshaler
func (t Tab) MarshalJSON() ([]byte, error) {
	return marshalObject(
		whenTrue("active", t.Active),
		whenPresent("audible", t.Audible),
		whenPresent("autoDiscardable", t.AutoDiscardable),
		whenTrue("discarded", t.Discarded),
		whenPresent("favIconUrl", t.FavIconURL),
		whenPresent("groupId", t.GroupID),
		whenPresent("height", t.Height),
		whenPresent("highlighted", t.Highlighted),
		whenPresent("id", t.ID),
		always("incognito", t.Incognito),
		always("index", t.Index),
		whenPresent("mutedInfo", t.MutedInfo),
		whenPresent("openerTabId", t.OpenerTabID),
		whenPresent("pendingUrl", t.PendingURL),
		always("pinned", t.Pinned),
		always("selected", t.Selected),
		whenPresent("sessionId", t.SessionID),
		whenPresent("status", t.Status),
		whenPresent("title", t.Title),
		whenPresent("url", t.URL),
		whenPresent("width", t.Width),
		whenPresent("windowId", t.WindowID),
	)
}

// ParseTab parses a single tab from interchange JSON
func ParseTab(data []byte) (*Tab, error) {
	var tab Tab
	if err := decodeRecord("tab", data, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// URLOrEmpty returns the committed URL, or "" when the tab has none.
func (t *Tab) URLOrEmpty() string {
	if t.URL == nil {
		return ""
	}
	return *t.URL
}

// TitleOrEmpty returns the title, or "" when the tab has none.
func (t *Tab) TitleOrEmpty() string {
	if t.Title == nil {
		return ""
	}
	return *t.Title
}

// MutedInfo is the tab's muted state and the reason for the last state change
type MutedInfo struct {
	// Not set if an extension was not the reason the muted state last changed.
	ExtensionID *string `json:"extensionId"`
	Muted       bool    `json:"muted"`
	// "user", "capture" or "extension".
	Reason *string `json:"reason"`
}

// MarshalJSON implements json.Marshaler
func (m MutedInfo) MarshalJSON() ([]byte, error) {
	return marshalObject(
		whenPresent("extensionId", m.ExtensionID),
		always("muted", m.Muted),
		whenPresent("reason", m.Reason),
	)
}

// ZoomSettings defines how zoom changes in a tab are handled and at what scope.
// It is what tabs.getZoomSettings returns; tab snapshots do not embed it.
type ZoomSettings struct {
	DefaultZoomFactor *float64 `json:"defaultZoomFactor"`
	// "automatic", "manual" or "disabled".
	Mode *string `json:"mode"`
	// "per-origin" or "per-tab".
	Scope *string `json:"scope"`
}

// MarshalJSON implements json.Marshaler
func (z ZoomSettings) MarshalJSON() ([]byte, error) {
	return marshalObject(
		whenPresent("defaultZoomFactor", z.DefaultZoomFactor),
		whenPresent("mode", z.Mode),
		whenPresent("scope", z.Scope),
	)
}

func (t Tab) clone() Tab {
	c := t
	c.Audible = clonePtr(t.Audible)
	c.AutoDiscardable = clonePtr(t.AutoDiscardable)
	c.FavIconURL = clonePtr(t.FavIconURL)
	c.GroupID = clonePtr(t.GroupID)
	c.Height = clonePtr(t.Height)
	c.Highlighted = clonePtr(t.Highlighted)
	c.ID = clonePtr(t.ID)
	c.OpenerTabID = clonePtr(t.OpenerTabID)
	c.PendingURL = clonePtr(t.PendingURL)
	c.SessionID = clonePtr(t.SessionID)
	c.Status = clonePtr(t.Status)
	c.Title = clonePtr(t.Title)
	c.URL = clonePtr(t.URL)
	c.Width = clonePtr(t.Width)
	c.WindowID = clonePtr(t.WindowID)
	if t.MutedInfo != nil {
		mi := *t.MutedInfo
		mi.ExtensionID = clonePtr(t.MutedInfo.ExtensionID)
		mi.Reason = clonePtr(t.MutedInfo.Reason)
		c.MutedInfo = &mi
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
