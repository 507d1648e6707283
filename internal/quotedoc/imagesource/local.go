package imagesource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBaseDirs are tried in order for relative references
var DefaultBaseDirs = []string{".", "public", "uploads"}

// LocalSource reads references from disk
type LocalSource struct {
	baseDirs []string
}

func NewLocalSource(baseDirs ...string) *LocalSource {
	if len(baseDirs) == 0 {
		baseDirs = DefaultBaseDirs
	}
	return &LocalSource{baseDirs: baseDirs}
}

func (s *LocalSource) Accepts(ref string) bool {
	return !IsRemote(ref) && !strings.Contains(ref, "://")
}

// Fetch returns the first readable candidate. Absolute paths are tried as-is
// before the base directories.
func (s *LocalSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	for _, candidate := range s.candidates(ref) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Size() > maxImageBytes {
			return nil, fmt.Errorf("%s: file too large", candidate)
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		return data, nil
	}
	return nil, fs.ErrNotExist
}

func (s *LocalSource) candidates(ref string) []string {
	var out []string
	if filepath.IsAbs(ref) {
		out = append(out, ref)
	}
	rel := strings.TrimLeft(filepath.FromSlash(ref), string(filepath.Separator))
	for _, dir := range s.baseDirs {
		out = append(out, filepath.Join(dir, rel))
	}
	return out
}
