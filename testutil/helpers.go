package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// WriteFile writes data to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
	return path
}

// Gzip compresses data for compressed backup fixtures
func Gzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to gzip fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to gzip fixture: %v", err)
	}
	return buf.Bytes()
}

// Zstd compresses data for compressed backup fixtures
func Zstd(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("Failed to create zstd encoder: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// GarbageFile writes a file of the given size that is not a SQLite database
func GarbageFile(t *testing.T, dir string, size int) string {
	t.Helper()
	data := bytes.Repeat([]byte("not a session buddy store. "), size/27+1)
	return WriteFile(t, dir, "garbage.db", data[:size])
}
