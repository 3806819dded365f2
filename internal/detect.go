package internal

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// DetectSearchRoot returns the directory browser profiles live under on this
// OS. On WSL the Windows user's local AppData is used. It falls back to the
// working directory when nothing can be determined.
func DetectSearchRoot() string {
	switch runtime.GOOS {
	case "linux":
		if IsWSL() {
			if root := wslLocalAppData(); root != "" {
				return root
			}
		}
		if dir, err := os.UserConfigDir(); err == nil {
			return dir
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
	}
	LogDebug("No platform profile directory for %s, searching the working directory", runtime.GOOS)
	return "."
}

// IsWSL reports whether the process runs under the Windows Subsystem for Linux
func IsWSL() bool {
	if os.Getenv("WSL_DISTRO_NAME") != "" {
		return true
	}
	release, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(release)), "microsoft")
}

func wslLocalAppData() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join("/mnt/c/Users", u.Username, "AppData", "Local")
}
