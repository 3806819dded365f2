package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedGIDs hands out a fixed sequence of gids.
type fixedGIDs struct {
	gids []string
	next int
}

func (f *fixedGIDs) NewGID() string {
	g := f.gids[f.next%len(f.gids)]
	f.next++
	return g
}

var (
	generatedAt = time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	modifiedAt  = time.Date(2023, 3, 2, 10, 0, 0, 0, time.UTC)
)

func sampleWindows() []Window {
	return []Window{
		{ID: ptr(int64(1)), Tabs: []Tab{
			{Index: 0, URL: ptr("https://a.example/")},
			{Index: 1, URL: ptr("https://b.example/")},
		}},
		{ID: ptr(int64(2))},
	}
}

func TestRandomGIDs(t *testing.T) {
	gen := RandomGIDs{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		gid := gen.NewGID()
		assert.Len(t, gid, 32)
		assert.True(t, IsGID(gid), "gid %q has characters outside [A-Za-z0-9]", gid)
		assert.False(t, seen[gid], "gid %q repeated", gid)
		seen[gid] = true
	}
}

func TestIsGID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abcdefghijklmnopqrstuvwxyz012345", true},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ012345", true},
		{"abc", false},
		{"abcdefghijklmnopqrstuvwxyz01234-", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsGID(tt.in), tt.in)
	}
}

func TestCountWindowsAndTabs(t *testing.T) {
	tests := []struct {
		name        string
		windows     []Window
		wantWindows int32
		wantTabs    int32
	}{
		{name: "nil", windows: nil, wantWindows: 0, wantTabs: 0},
		{name: "absent tabs count as zero", windows: sampleWindows(), wantWindows: 2, wantTabs: 2},
		{name: "empty tabs", windows: []Window{{Tabs: []Tab{}}}, wantWindows: 1, wantTabs: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := CountWindows(tt.windows)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWindows, w)

			n, err := CountTabs(tt.windows)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTabs, n)
		})
	}
}

func TestCountOverflowError(t *testing.T) {
	_, err := toCount("tab", 1<<31)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Equal(t, ErrMalformedRecord, KindOf(err))
}

func TestSavedToInterchange(t *testing.T) {
	saved := &SavedSession{
		ID:                   ptr(int64(5)),
		Name:                 "Research",
		GenerationDateTime:   generatedAt,
		CreationDateTime:     generatedAt,
		ModificationDateTime: modifiedAt,
		Windows:              sampleWindows(),
	}
	gids := &fixedGIDs{gids: []string{"gid1", "gid2"}}

	first := SavedToInterchange(saved, gids)
	second := SavedToInterchange(saved, gids)

	assert.Equal(t, SessionSaved, first.Type())
	require.NotNil(t, first.ID())
	assert.Equal(t, int64(5), *first.ID())
	assert.Equal(t, "gid1", first.GID())
	assert.Equal(t, "gid2", second.GID())
	assert.Equal(t, generatedAt, first.Generated)
	assert.Equal(t, modifiedAt, *first.Modified)

	*first.Windows[0].Tabs[0].URL = "https://changed.example/"
	assert.Equal(t, "https://a.example/", *saved.Windows[0].Tabs[0].URL)
}

func TestPreviousToInterchange(t *testing.T) {
	prev := &PreviousSession{
		ID:                7,
		RecordingDateTime: modifiedAt,
		CreationDateTime:  generatedAt,
	}
	s := PreviousToInterchange(prev, &fixedGIDs{gids: []string{"g"}})

	assert.Equal(t, SessionPrevious, s.Type())
	assert.Equal(t, int64(7), *s.ID())
	assert.Equal(t, modifiedAt, s.Generated)
	assert.Equal(t, generatedAt, *s.Created)
	assert.Nil(t, s.Modified)
	assert.NotNil(t, s.Windows)
}

func TestToStorage(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		wantKind error
	}{
		{
			name:     "previous sessions are not stored",
			session:  Session{Variant: PreviousVariant{}, Generated: generatedAt, Modified: &modifiedAt},
			wantKind: ErrUnknownSessionType,
		},
		{
			name:     "current sessions are not stored",
			session:  Session{Variant: CurrentVariant{}, Generated: generatedAt, Modified: &modifiedAt},
			wantKind: ErrUnknownSessionType,
		},
		{
			name:     "modified is required",
			session:  Session{Variant: SavedVariant{Name: "x"}, Generated: generatedAt},
			wantKind: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToStorage(&tt.session)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestToStorage_Counts(t *testing.T) {
	s := Session{
		Variant:   SavedVariant{ID: ptr(int64(3)), GID: "g", Name: "Research"},
		Generated: generatedAt,
		Modified:  &modifiedAt,
		Windows:   sampleWindows(),
	}
	saved, err := ToStorage(&s)
	require.NoError(t, err)

	assert.Equal(t, "Research", saved.Name)
	assert.Equal(t, generatedAt, saved.CreationDateTime, "created falls back to generated")
	assert.Equal(t, modifiedAt, saved.ModificationDateTime)
	assert.False(t, saved.Deleted)
	assert.Equal(t, int32(2), saved.UnfilteredWindowCount)
	assert.Equal(t, int32(2), saved.FilteredWindowCount)
	assert.Equal(t, int32(2), saved.UnfilteredTabCount)
	assert.Equal(t, int32(2), saved.FilteredTabCount)
}

func TestRoundTrip_StorageInterchangeStorage(t *testing.T) {
	created := generatedAt.Add(time.Hour)
	orig := &SavedSession{
		ID:                    ptr(int64(11)),
		Name:                  "Trip",
		GenerationDateTime:    generatedAt,
		CreationDateTime:      created,
		ModificationDateTime:  modifiedAt,
		Windows:               sampleWindows(),
		UnfilteredWindowCount: 2,
		FilteredWindowCount:   2,
		UnfilteredTabCount:    2,
		FilteredTabCount:      2,
	}

	interchange := SavedToInterchange(orig, RandomGIDs{})
	data, err := json.Marshal(interchange)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	back, err := ToStorage(&decoded)
	require.NoError(t, err)

	assert.Equal(t, orig, back)
}

func TestSession_MarshalJSON_KeyOrder(t *testing.T) {
	s := Session{
		Variant:   SavedVariant{ID: ptr(int64(1)), GID: "G", Name: "N"},
		Generated: generatedAt,
		Created:   &generatedAt,
		Modified:  &modifiedAt,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"saved","id":1,"gid":"G","name":"N","generated":"2023-03-01T10:00:00Z",`+
			`"created":"2023-03-01T10:00:00Z","modified":"2023-03-02T10:00:00Z","windows":[]}`,
		string(data))
}

func TestSession_MarshalJSON_Previous(t *testing.T) {
	s := Session{Variant: PreviousVariant{ID: ptr(int64(2)), GID: "G"}, Generated: generatedAt}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"previous","id":2,"gid":"G","generated":"2023-03-01T10:00:00Z","windows":[]}`, string(data))
}

func TestSession_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantType SessionType
		wantErr  error
	}{
		{name: "saved", data: `{"type":"saved","name":"a","generated":"2023-03-01T10:00:00Z","windows":[]}`, wantType: SessionSaved},
		{name: "previous", data: `{"type":"previous","generated":"2023-03-01T10:00:00Z"}`, wantType: SessionPrevious},
		{name: "current", data: `{"type":"current","windows":[{"tabs":[]}]}`, wantType: SessionCurrent},
		{name: "unknown", data: `{"type":"archived"}`, wantErr: ErrUnknownSessionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			err := json.Unmarshal([]byte(tt.data), &s)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, s.Type())
		})
	}
}

func TestSession_CurrentHasNoIdentity(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"type":"current","id":4,"gid":"x"}`), &s))
	assert.Nil(t, s.ID())
	assert.Empty(t, s.GID())
}

func TestPeekSessionType(t *testing.T) {
	typ, err := PeekSessionType([]byte(`{"type":"current","windows":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, SessionCurrent, typ)

	_, err = PeekSessionType([]byte(`{"windows":[]}`))
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = PeekSessionType([]byte(`{"Type":"saved"}`))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSession_UnmarshalJSON_KeysAreCaseSensitive(t *testing.T) {
	var s Session
	require.NoError(t, decodeRecord("session", []byte(
		`{"type":"saved","Name":"upper","name":"lower","generated":"2023-03-01T10:00:00Z","Modified":"2023-03-02T10:00:00Z"}`), &s))
	assert.Nil(t, s.Modified)
	assert.Equal(t, SavedVariant{Name: "lower"}, s.Variant)

	_, err := ToStorage(&s)
	assert.ErrorIs(t, err, ErrMissingField)
}
