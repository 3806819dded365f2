package internal

import (
	"os/user"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWSL_DistroName(t *testing.T) {
	t.Setenv("WSL_DISTRO_NAME", "Ubuntu")
	assert.True(t, IsWSL())
}

func TestDetectSearchRoot(t *testing.T) {
	root := DetectSearchRoot()
	assert.NotEmpty(t, root)

	if _, err := user.Current(); err == nil && runtime.GOOS == "linux" {
		t.Setenv("WSL_DISTRO_NAME", "Ubuntu")
		assert.True(t, strings.HasPrefix(DetectSearchRoot(), "/mnt/c/Users/"))
	}
}
