package internal

import "fmt"

// Window mirrors chrome.windows.Window as stored by Session Buddy.
// https://developer.chrome.com/docs/extensions/reference/windows
type Window struct {
	// Session Buddy specific, not part of the Chrome API.
	NxTitle *string `json:"nx_title"`

	AlwaysOnTop bool `json:"alwaysOnTop"`
	Focused     bool `json:"focused"`

	Height *int64 `json:"height"`
	ID     *int64 `json:"id"`

	Incognito bool `json:"incognito"`

	Left      *int64  `json:"left"`
	SessionID *string `json:"sessionId"`

	// "normal", "minimized", "maximized", "fullscreen" or "locked-fullscreen".
	State *string `json:"state"`

	// Nil when the window carries no tabs array at all.
	Tabs []Tab `json:"tabs"`

	Top *int64 `json:"top"`

	// "normal", "popup", "panel", "app" or "devtools".
	Type *string `json:"type"`

	Width *int64 `json:"width"`
}

// MarshalJSON implements json.Marshaler
func (w Window) MarshalJSON() ([]byte, error) {
	return marshalObject(
		whenPresent("nx_title", w.NxTitle),
		whenTrue("alwaysOnTop", w.AlwaysOnTop),
		whenTrue("focused", w.Focused),
		whenPresent("height", w.Height),
		whenPresent("id", w.ID),
		whenTrue("incognito", w.Incognito),
		whenPresent("left", w.Left),
		whenPresent("sessionId", w.SessionID),
		whenPresent("state", w.State),
		member{key: "tabs", value: w.Tabs, emit: w.Tabs != nil},
		whenPresent("top", w.Top),
		whenPresent("type", w.Type),
		whenPresent("width", w.Width),
	)
}

// TabCount returns the number of tabs, treating a missing tabs array as empty.
func (w *Window) TabCount() int {
	return len(w.Tabs)
}

// ParseWindow parses a single window from interchange JSON
func ParseWindow(data []byte) (*Window, error) {
	var window Window
	if err := decodeRecord("window", data, &window); err != nil {
		return nil, err
	}
	return &window, nil
}

// ParseWindows parses the JSON array stored in the windows column. An empty
// column yields an empty list.
func ParseWindows(data []byte) ([]Window, error) {
	if len(data) == 0 {
		return []Window{}, nil
	}
	var windows []Window
	if err := decodeRecord("windows", data, &windows); err != nil {
		return nil, err
	}
	if windows == nil {
		windows = []Window{}
	}
	return windows, nil
}

// MarshalWindows encodes windows for the windows column. A nil list is
// written as an empty array.
func MarshalWindows(windows []Window) (string, error) {
	if windows == nil {
		windows = []Window{}
	}
	data, err := marshalCompact(windows)
	if err != nil {
		return "", fmt.Errorf("failed to encode windows: %w", err)
	}
	return string(data), nil
}

// CloneWindows deep-copies a window list.
func CloneWindows(windows []Window) []Window {
	if windows == nil {
		return nil
	}
	out := make([]Window, len(windows))
	for i, w := range windows {
		c := w
		c.NxTitle = clonePtr(w.NxTitle)
		c.Height = clonePtr(w.Height)
		c.ID = clonePtr(w.ID)
		c.Left = clonePtr(w.Left)
		c.SessionID = clonePtr(w.SessionID)
		c.State = clonePtr(w.State)
		c.Top = clonePtr(w.Top)
		c.Type = clonePtr(w.Type)
		c.Width = clonePtr(w.Width)
		if w.Tabs != nil {
			c.Tabs = make([]Tab, len(w.Tabs))
			for j, t := range w.Tabs {
				c.Tabs[j] = t.clone()
			}
		}
		out[i] = c
	}
	return out
}
