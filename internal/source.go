package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// InputKind is what an import or validate input turned out to be.
type InputKind int

const (
	// InputBackup is a JSON backup document.
	InputBackup InputKind = iota
	// InputStore is another Session Buddy SQLite store.
	InputStore
)

func (k InputKind) String() string {
	if k == InputStore {
		return "store"
	}
	return "backup"
}

const (
	mimeSQLite = "application/vnd.sqlite3"
	mimeGzip   = "application/gzip"
	mimeZstd   = "application/zstd"
)

// Input is a sniffed input file. Data holds the decompressed content of a
// backup and is nil for stores.
type Input struct {
	Path string
	Kind InputKind
	Data []byte
}

// ReadInput reads path and classifies it. Compressed backups are inflated.
func ReadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(mimeSQLite):
		return &Input{Path: path, Kind: InputStore}, nil
	case mtype.Is(mimeGzip):
		data, err = gunzip(data)
	case mtype.Is(mimeZstd):
		data, err = unzstd(data)
	}
	if err != nil {
		return nil, &StorageError{Path: path, Op: "decompress", Err: err}
	}

	LogDebug("Read %s as %s (%s)", path, InputBackup, mtype.String())
	return &Input{Path: path, Kind: InputBackup, Data: data}, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip failed: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func unzstd(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd failed: %w", err)
	}
	defer r.Close()
	return r.DecodeAll(data, nil)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressor wraps w according to the suffix of path: ".gz" and ".zst"
// select compression, anything else writes through.
func compressor(path string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".zst":
		return zstd.NewWriter(w)
	}
	return nopWriteCloser{w}, nil
}

// WriteOutput writes path through write, compressing it when the suffix asks
// for it. The content goes to a temporary file in the same directory that
// is renamed over path only after everything was written.
func WriteOutput(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &StorageError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w, err := compressor(path, tmp)
	if err != nil {
		return &StorageError{Path: path, Op: "create", Err: err}
	}
	if err = write(w); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	if err = tmp.Chmod(0644); err != nil {
		return &StorageError{Path: path, Op: "chmod", Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &StorageError{Path: path, Op: "rename", Err: err}
	}
	return nil
}

// BackupFileName names a backup after the store's modification time, e.g.
// session_buddy_2023_04_01_12_30_00.json.
func BackupFileName(mtime time.Time) string {
	return "session_buddy_" + mtime.Format("2006_01_02_15_04_05") + ".json"
}

// ResolveBackupTarget returns the file a backup of store is written to when
// out is given. A directory gets a file named after the store's mtime.
func ResolveBackupTarget(store, out string) (string, error) {
	info, err := os.Stat(out)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return "", &StorageError{Path: out, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return out, nil
	}

	storeInfo, err := os.Stat(store)
	if err != nil {
		return "", &StorageError{Path: store, Op: "stat", Err: err}
	}
	return filepath.Join(out, BackupFileName(storeInfo.ModTime())), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
