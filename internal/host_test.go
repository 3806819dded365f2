package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHost_PlatformAndUserAgent(t *testing.T) {
	tests := []struct {
		goos         string
		wantPlatform string
		wantUA       string
		wantErr      bool
	}{
		{goos: "windows", wantPlatform: "Win32", wantUA: UserAgentWindows},
		{goos: "linux", wantPlatform: "Linux", wantUA: UserAgentLinux},
		{goos: "darwin", wantPlatform: "Mac OS", wantUA: UserAgentMacOS},
		{goos: "freebsd", wantPlatform: "BSD", wantUA: UserAgentBSD},
		{goos: "openbsd", wantPlatform: "BSD", wantUA: UserAgentBSD},
		{goos: "plan9", wantErr: true},
		{goos: "js", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			h := &SystemHost{GOOS: tt.goos}
			platform, perr := h.Platform()
			ua, uerr := h.UserAgent()
			if tt.wantErr {
				assert.ErrorIs(t, perr, ErrUnsupportedPlatform)
				assert.ErrorIs(t, uerr, ErrUnsupportedPlatform)
				return
			}
			require.NoError(t, perr)
			require.NoError(t, uerr)
			assert.Equal(t, tt.wantPlatform, platform)
			assert.Equal(t, tt.wantUA, ua)
		})
	}
}

func TestSystemHost_Language(t *testing.T) {
	tests := []struct {
		name     string
		override string
		env      map[string]string
		want     string
	}{
		{name: "nothing set", want: "en-US"},
		{name: "LANG", env: map[string]string{"LANG": "de_DE.UTF-8"}, want: "de-DE"},
		{name: "LC_ALL wins", env: map[string]string{"LC_ALL": "fr_FR", "LANG": "de_DE.UTF-8"}, want: "fr-FR"},
		{name: "LC_MESSAGES before LANG", env: map[string]string{"LC_MESSAGES": "pt_BR.UTF-8", "LANG": "de_DE"}, want: "pt-BR"},
		{name: "C locale ignored", env: map[string]string{"LC_ALL": "C", "LANG": "ja_JP.UTF-8"}, want: "ja-JP"},
		{name: "POSIX only", env: map[string]string{"LANG": "POSIX"}, want: "en-US"},
		{name: "modifier stripped", env: map[string]string{"LANG": "ca_ES@valencia"}, want: "ca-ES"},
		{name: "override", override: "nl_NL", env: map[string]string{"LANG": "de_DE"}, want: "nl-NL"},
		{name: "invalid override falls through", override: "???", env: map[string]string{"LANG": "de_DE"}, want: "de-DE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &SystemHost{
				GOOS:             "linux",
				LanguageOverride: tt.override,
				Getenv:           func(k string) string { return tt.env[k] },
			}
			assert.Equal(t, tt.want, h.Language())
		})
	}
}

func TestNewSystemHost(t *testing.T) {
	h := NewSystemHost("en_GB")
	assert.NotEmpty(t, h.GOOS)
	assert.Equal(t, "en-GB", h.Language())
}
