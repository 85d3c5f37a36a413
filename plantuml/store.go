package plantuml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FilenameFor derives the content-addressed artifact filename for resolved
// diagram text. Identical text and format always map to the same name, so
// a second render of the same content can reuse the stored artifact.
func FilenameFor(text string, f Format) string {
	return "diagram-" + Hash(text) + "." + f.Extension()
}

// Store persists rendered artifacts under a single output directory.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore builds a store from an already-defaulted Config.
func NewStore(cfg Config) *Store {
	return &Store{
		dir:    cfg.OutputDir,
		logger: cfg.Logger,
	}
}

// Exists reports whether an artifact is already present. The output
// directory is created first if absent, so a missing directory and a
// missing artifact are indistinguishable to the caller.
func (s *Store) Exists(name string) (bool, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrStorage, err)
}

// Write stores data under name and returns name. The write goes through a
// temp file and a rename, so a concurrent writer of the same artifact can
// never leave it truncated or interleaved. Repeating a write for the same
// name is a harmless overwrite with identical content.
func (s *Store) Write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.logger.Debug("artifact written", "name", name, "bytes", len(data))
	return name, nil
}

// PublicURL joins the configured prefix and an artifact filename with
// exactly one separator, collapsing duplicate separators anywhere in the
// result.
func PublicURL(prefix, name string) string {
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	joined := prefix + name
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}
