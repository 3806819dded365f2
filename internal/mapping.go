package internal

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"
)

const (
	gidLength   = 32
	gidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GIDGenerator produces interchange ids for exported sessions.
type GIDGenerator interface {
	NewGID() string
}

// RandomGIDs draws 32 characters uniformly from [A-Za-z0-9].
type RandomGIDs struct{}

// NewGID implements GIDGenerator
func (RandomGIDs) NewGID() string {
	size := big.NewInt(int64(len(gidAlphabet)))
	b := make([]byte, gidLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is gone.
			panic(fmt.Sprintf("gid: reading random source: %v", err))
		}
		b[i] = gidAlphabet[n.Int64()]
	}
	return string(b)
}

// IsGID reports whether s has the shape of a gid.
func IsGID(s string) bool {
	if len(s) != gidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}

// CountOverflowError reports a count that does not fit the 32-bit columns.
type CountOverflowError struct {
	What  string
	Count int
}

func (e *CountOverflowError) Error() string {
	return fmt.Sprintf("%s count %d exceeds %d", e.What, e.Count, math.MaxInt32)
}

func (e *CountOverflowError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// CountWindows returns len(windows) as stored in the window count columns.
func CountWindows(windows []Window) (int32, error) {
	return toCount("window", len(windows))
}

// CountTabs sums the tabs of every window. Windows without a tabs array
// contribute zero.
func CountTabs(windows []Window) (int32, error) {
	total := 0
	for i := range windows {
		total += windows[i].TabCount()
		if total > math.MaxInt32 {
			return 0, &CountOverflowError{What: "tab", Count: total}
		}
	}
	return toCount("tab", total)
}

func toCount(what string, n int) (int32, error) {
	if n > math.MaxInt32 {
		return 0, &CountOverflowError{What: what, Count: n}
	}
	return int32(n), nil
}

// SavedToInterchange converts a stored saved session to its backup form with
// a fresh gid.
func SavedToInterchange(s *SavedSession, gids GIDGenerator) Session {
	return Session{
		Variant: SavedVariant{
			ID:   clonePtr(s.ID),
			GID:  gids.NewGID(),
			Name: s.Name,
		},
		Generated: s.GenerationDateTime,
		Created:   timePtr(s.CreationDateTime),
		Modified:  timePtr(s.ModificationDateTime),
		Windows:   CloneWindows(nonNilWindows(s.Windows)),
	}
}

// PreviousToInterchange converts a stored previous session to its backup
// form. The recording time becomes the generation time.
func PreviousToInterchange(p *PreviousSession, gids GIDGenerator) Session {
	id := p.ID
	return Session{
		Variant: PreviousVariant{
			ID:  &id,
			GID: gids.NewGID(),
		},
		Generated: p.RecordingDateTime,
		Created:   timePtr(p.CreationDateTime),
		Windows:   CloneWindows(nonNilWindows(p.Windows)),
	}
}

// ToStorage converts an interchange saved session into a SavedSession ready
// for insertion. The id is kept for reference but never written; counts are
// recomputed from the windows.
func ToStorage(s *Session) (*SavedSession, error) {
	saved, ok := s.Variant.(SavedVariant)
	if !ok {
		return nil, fmt.Errorf("%w: cannot store %q session as saved", ErrUnknownSessionType, s.Type())
	}
	if s.Modified == nil {
		return nil, &MissingFieldError{Record: "saved session", Field: "modified"}
	}

	windows := CloneWindows(nonNilWindows(s.Windows))
	windowCount, err := CountWindows(windows)
	if err != nil {
		return nil, err
	}
	tabCount, err := CountTabs(windows)
	if err != nil {
		return nil, err
	}

	created := s.Generated
	if s.Created != nil {
		created = *s.Created
	}

	return &SavedSession{
		ID:                    clonePtr(saved.ID),
		Name:                  saved.Name,
		GenerationDateTime:    s.Generated,
		CreationDateTime:      created,
		ModificationDateTime:  *s.Modified,
		Deleted:               false,
		Windows:               windows,
		UnfilteredWindowCount: windowCount,
		FilteredWindowCount:   windowCount,
		UnfilteredTabCount:    tabCount,
		FilteredTabCount:      tabCount,
	}, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNilWindows(windows []Window) []Window {
	if windows == nil {
		return []Window{}
	}
	return windows
}
