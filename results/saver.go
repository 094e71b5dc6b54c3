package results

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	defaultDir = "enrichment_results"

	// unknownIdentifier names files for results that carry no neighborhood.
	unknownIdentifier = "unknown_location"

	timestampLayout = "20060102_150405"
)

// Saver writes enrichment results to JSON files in a results directory.
type Saver struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Saver.
type Option func(*Saver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Saver) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDir sets the results directory.
func WithDir(dir string) Option {
	return func(s *Saver) error {
		if dir == "" {
			return ErrDirRequired
		}
		s.dir = dir
		return nil
	}
}

// WithClock replaces the time source used for filename timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Saver) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSaver creates a Saver and ensures the results directory exists.
func NewSaver(opts ...Option) (*Saver, error) {
	s := &Saver{
		dir:    defaultDir,
		logger: slog.Default().With("component", "results"),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}

	return s, nil
}

// NormalizeIdentifier lowercases a neighborhood name and flattens it to a
// filename-safe token. Commas are removed, spaces and dashes become
// underscores, and runs of underscores collapse.
func NormalizeIdentifier(identifier string) string {
	normalized := strings.ToLower(identifier)
	normalized = strings.ReplaceAll(normalized, ",", "")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for strings.Contains(normalized, "__") {
		normalized = strings.ReplaceAll(normalized, "__", "_")
	}
	return strings.Trim(normalized, "_")
}

// filename builds <identifier>_<kind>_<timestamp>.json.
func (s *Saver) filename(identifier, kind string) string {
	normalized := NormalizeIdentifier(identifier)
	if normalized == "" {
		normalized = unknownIdentifier
	}
	timestamp := s.now().Format(timestampLayout)
	return normalized + "_" + kind + "_" + timestamp + ".json"
}

// Save writes result as an indented JSON file named after identifier and
// kind. An empty identifier falls back to a sentinel name. Returns the
// path of the written file.
func (s *Saver) Save(result any, identifier, kind string) (string, error) {
	path := filepath.Join(s.dir, s.filename(identifier, kind))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	s.logger.Info("saved result", "path", path, "kind", kind)
	return path, nil
}

// List returns saved result files, most recent name first. A non-empty
// identifier filters to files for that neighborhood.
func (s *Saver) List(identifier string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	normalized := NormalizeIdentifier(identifier)

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if normalized != "" && !strings.Contains(strings.ToLower(name), normalized) {
			continue
		}
		files = append(files, filepath.Join(s.dir, name))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}
