package internal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// SessionType is the "type" tag of an interchange session
type SessionType string

const (
	SessionSaved    SessionType = "saved"
	SessionPrevious SessionType = "previous"
	SessionCurrent  SessionType = "current"
)

// SessionVariant is the per-type payload of a Session. It is implemented by
// SavedVariant, PreviousVariant and CurrentVariant only.
type SessionVariant interface {
	Type() SessionType
	sessionVariant()
}

// SavedVariant is the payload of a user-saved session.
type SavedVariant struct {
	ID   *int64
	GID  string
	Name string
}

// PreviousVariant is the payload of an automatically recorded session.
type PreviousVariant struct {
	ID  *int64
	GID string
}

// CurrentVariant marks the live browser session. It has no identity.
type CurrentVariant struct{}

func (SavedVariant) Type() SessionType    { return SessionSaved }
func (PreviousVariant) Type() SessionType { return SessionPrevious }
func (CurrentVariant) Type() SessionType  { return SessionCurrent }

func (SavedVariant) sessionVariant()    {}
func (PreviousVariant) sessionVariant() {}
func (CurrentVariant) sessionVariant()  {}

// Session is the interchange form of a session as it appears in a backup
type Session struct {
	Variant   SessionVariant
	Generated time.Time
	Created   *time.Time
	Modified  *time.Time
	Windows   []Window
}

// Type returns the variant tag.
func (s *Session) Type() SessionType {
	if s.Variant == nil {
		return SessionCurrent
	}
	return s.Variant.Type()
}

// ID returns the persisted identifier of saved and previous sessions.
func (s *Session) ID() *int64 {
	switch v := s.Variant.(type) {
	case SavedVariant:
		return v.ID
	case PreviousVariant:
		return v.ID
	}
	return nil
}

// GID returns the interchange id of saved and previous sessions.
func (s *Session) GID() string {
	switch v := s.Variant.(type) {
	case SavedVariant:
		return v.GID
	case PreviousVariant:
		return v.GID
	}
	return ""
}

// sessionJSON is the wire shape shared by all variants.
type sessionJSON struct {
	Type      SessionType `json:"type"`
	ID        *int64      `json:"id"`
	GID       string      `json:"gid"`
	Name      string      `json:"name"`
	Generated *time.Time  `json:"generated"`
	Created   *time.Time  `json:"created"`
	Modified  *time.Time  `json:"modified"`
	Windows   []Window    `json:"windows"`
}

// MarshalJSON implements json.Marshaler
func (s Session) MarshalJSON() ([]byte, error) {
	var name string
	if v, ok := s.Variant.(SavedVariant); ok {
		name = v.Name
	}
	windows := s.Windows
	if windows == nil {
		windows = []Window{}
	}
	return marshalObject(
		always("type", s.Type()),
		whenPresent("id", s.ID()),
		whenNonEmpty("gid", s.GID()),
		whenNonEmpty("name", name),
		always("generated", s.Generated),
		whenPresent("created", s.Created),
		whenPresent("modified", s.Modified),
		always("windows", windows),
	)
}

// UnmarshalJSON implements json.Unmarshaler. An unrecognized type tag fails
// with ErrUnknownSessionType.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if exact, ok := exactKeys(data, reflect.TypeOf(raw)); ok {
		data = exact
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case SessionSaved:
		s.Variant = SavedVariant{ID: raw.ID, GID: raw.GID, Name: raw.Name}
	case SessionPrevious:
		s.Variant = PreviousVariant{ID: raw.ID, GID: raw.GID}
	case SessionCurrent:
		s.Variant = CurrentVariant{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionType, raw.Type)
	}

	s.Generated = time.Time{}
	if raw.Generated != nil {
		s.Generated = *raw.Generated
	}
	s.Created = raw.Created
	s.Modified = raw.Modified
	s.Windows = raw.Windows
	return nil
}

// PeekSessionType reads only the "type" tag of an interchange session.
func PeekSessionType(data []byte) (SessionType, error) {
	var tagged struct {
		Type *SessionType `json:"type"`
	}
	if err := decodeRecord("session", data, &tagged); err != nil {
		return "", err
	}
	if tagged.Type == nil {
		return "", &ParseError{Source: "session", Key: "type", Err: ErrMissingField}
	}
	return *tagged.Type, nil
}

// SavedSession is a row of the SavedSessions table
type SavedSession struct {
	// Assigned by the store on insert; nil before insertion.
	ID                   *int64
	Name                 string
	GenerationDateTime   time.Time
	CreationDateTime     time.Time
	ModificationDateTime time.Time
	Tags                 string
	// Stored as the text "true"/"false".
	Deleted bool
	Windows []Window

	UnfilteredWindowCount int32
	FilteredWindowCount   int32
	UnfilteredTabCount    int32
	FilteredTabCount      int32
}

// PreviousSession is a row of the PreviousSessions table
type PreviousSession struct {
	ID                int64
	RecordingDateTime time.Time
	CreationDateTime  time.Time
	Windows           []Window

	UnfilteredWindowCount int32
	FilteredWindowCount   int32
	UnfilteredTabCount    int32
	FilteredTabCount      int32
}

// UserSettings holds the known keys of the UserSettings table. Keys absent
// from the store stay nil.
type UserSettings struct {
	SessionExportFormat     *string `json:"sessionExport_Format,omitempty" yaml:"sessionExport_Format,omitempty"`
	SessionExportScope      *string `json:"sessionExport_Scope,omitempty" yaml:"sessionExport_Scope,omitempty"`
	SessionExportShowTitles *string `json:"sessionExport_ShowTitles,omitempty" yaml:"sessionExport_ShowTitles,omitempty"`
	SessionExportShowURLs   *string `json:"sessionExport_ShowURLs,omitempty" yaml:"sessionExport_ShowURLs,omitempty"`
}

// ShowTitles interprets sessionExport_ShowTitles. ok is false when the key is
// absent or not a boolean text.
func (u *UserSettings) ShowTitles() (value, ok bool) {
	return textFlag(u.SessionExportShowTitles)
}

// ShowURLs interprets sessionExport_ShowURLs.
func (u *UserSettings) ShowURLs() (value, ok bool) {
	return textFlag(u.SessionExportShowURLs)
}

func textFlag(s *string) (bool, bool) {
	if s == nil {
		return false, false
	}
	b, err := parseBoolText(*s)
	if err != nil {
		return false, false
	}
	return b, true
}

// boolText encodes a flag the way the extension stores it.
func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func parseBoolText(s string) (bool, error) {
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean text", ErrTypeMismatch, s)
}
