package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// StorePattern matches the files the extension keeps under a browser
// profile, relative to the search root.
var StorePattern = fmt.Sprintf("**/databases/chrome-extension_%s_*/*", SessionBuddyAppID)

// SearchOptions bounds a store search.
type SearchOptions struct {
	// MaxDepth is the deepest path component, counted from root, that is
	// still visited.
	MaxDepth    int
	FollowLinks bool
}

// FindStores walks root for Session Buddy store files and returns their
// paths in sorted order.
func FindStores(ctx context.Context, root string, opts SearchOptions) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, &StorageError{Path: root, Op: "search", Err: err}
	}
	if strings.HasPrefix(filepath.ToSlash(root), "/mnt/c") && IsWSL() {
		LogInfo("Searching Windows drives from WSL may take a while; pass a narrower path to speed it up")
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: opts.FollowLinks}

	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			LogDebug("Skipping %s: %v", p, err)
			return nil
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		if d.IsDir() {
			if depth >= opts.MaxDepth {
				return fastwalk.SkipDir
			}
			return nil
		}
		if depth > opts.MaxDepth || !isRegularFile(p, d) {
			return nil
		}

		if ok, _ := doublestar.Match(StorePattern, rel); ok {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Path: root, Op: "search", Err: err}
	}

	sort.Strings(matches)
	LogDebug("Found %d store file(s) under %s", len(matches), root)
	return matches, nil
}

func isRegularFile(path string, d os.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
