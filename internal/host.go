package internal

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/text/language"
)

// User agents written into backups, one per supported platform family.
const (
	UserAgentLinux   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"
	UserAgentMacOS   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"
	UserAgentWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36 Edg/111.0.1661.41"
	UserAgentBSD     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"
)

const defaultLanguage = "en-US"

// HostEnvironment describes the machine a backup is produced on.
type HostEnvironment interface {
	Platform() (string, error)
	UserAgent() (string, error)
	Language() string
}

// SystemHost inspects the running process. LanguageOverride, when set, wins
// over the locale environment.
type SystemHost struct {
	GOOS             string
	LanguageOverride string
	Getenv           func(string) string
}

// NewSystemHost returns a SystemHost for the current OS.
func NewSystemHost(languageOverride string) *SystemHost {
	return &SystemHost{
		GOOS:             runtime.GOOS,
		LanguageOverride: languageOverride,
		Getenv:           os.Getenv,
	}
}

// Platform returns the platform name as the browser reports it
func (h *SystemHost) Platform() (string, error) {
	switch h.GOOS {
	case "windows":
		return "Win32", nil
	case "linux":
		return "Linux", nil
	case "darwin":
		return "Mac OS", nil
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return "BSD", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, h.GOOS)
}

// UserAgent returns the user agent literal for the platform
func (h *SystemHost) UserAgent() (string, error) {
	switch h.GOOS {
	case "windows":
		return UserAgentWindows, nil
	case "linux":
		return UserAgentLinux, nil
	case "darwin":
		return UserAgentMacOS, nil
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return UserAgentBSD, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, h.GOOS)
}

// Language returns the UI language as a BCP 47 tag, en-US when unknown
func (h *SystemHost) Language() string {
	if tag, ok := canonicalLanguage(h.LanguageOverride); ok {
		return tag
	}
	getenv := h.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := canonicalLanguage(getenv(name)); ok {
			return tag
		}
	}
	return defaultLanguage
}

// canonicalLanguage turns a POSIX locale such as "de_DE.UTF-8@euro" into a
// BCP 47 tag ("de-DE").
func canonicalLanguage(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
