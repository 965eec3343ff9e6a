package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/BaSui01/clinicalflow/pipeline"
)

// DefaultPattern selects the input files of a batch.
const DefaultPattern = "*.txt"

// DirReader supplies batch items from the files of one directory.
type DirReader struct {
	dir     string
	pattern string
	logger  *zap.Logger
}

// NewDirReader creates a reader for files in dir matching pattern.
// An empty pattern means DefaultPattern.
func NewDirReader(dir, pattern string, logger *zap.Logger) *DirReader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirReader{dir: dir, pattern: pattern, logger: logger.With(zap.String("component", "input"))}
}

// Read returns one item per matching regular file, sorted by name. Symlinks
// are followed. The item
// identifier is the file name. A missing directory yields no items; files
// that cannot be read are logged and skipped.
func (r *DirReader) Read() ([]pipeline.Item, error) {
	if _, err := filepath.Match(r.pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid input pattern %q: %w", r.pattern, err)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("input directory not found", zap.String("dir", r.dir))
			return []pipeline.Item{}, nil
		}
		return nil, fmt.Errorf("read input dir %s: %w", r.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if ok, _ := filepath.Match(r.pattern, e.Name()); !ok {
			continue
		}
		if r.isRegular(e) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	items := make([]pipeline.Item, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			r.logger.Error("skipping unreadable input", zap.String("file", name), zap.Error(err))
			continue
		}
		items = append(items, pipeline.Item{Identifier: name, Text: string(data)})
	}

	if len(items) == 0 {
		r.logger.Warn("no input files found", zap.String("dir", r.dir), zap.String("pattern", r.pattern))
	} else {
		r.logger.Info("inputs loaded", zap.String("dir", r.dir), zap.Int("files", len(items)))
	}
	return items, nil
}

// isRegular reports whether e is a regular file or a symlink resolving to one.
func (r *DirReader) isRegular(e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(r.dir, e.Name()))
	if err != nil {
		r.logger.Error("skipping unreadable input", zap.String("file", e.Name()), zap.Error(err))
		return false
	}
	return info.Mode().IsRegular()
}
