// Package workspace handles the on-disk project conventions: the *.qfproj
// project descriptor, the .questfoundry workspace directory, and seed
// resolution for loops that need one.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const (
	// Dir is the conventional workspace directory name.
	Dir = ".questfoundry"
	// ProjectExt is the project descriptor file extension.
	ProjectExt = ".qfproj"
	// SeedEnv is the environment variable consulted for a story seed.
	SeedEnv = "QF_SEED"
	// SeedFile is the seed file name inside the workspace directory.
	SeedFile = "seed.txt"
)

// ArtifactTypes are the artifact subdirectories under the hot workspace.
var ArtifactTypes = []string{"hooks", "canon", "codex", "tus", "artifacts"}

// Project is the metadata stored in a *.qfproj descriptor.
type Project struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// FindProjectFile returns the first *.qfproj file in dir, if any.
func FindProjectFile(dir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ProjectExt))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// FindProjectRoot searches upward from start for a directory containing a
// .questfoundry workspace.
func FindProjectRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, Dir)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadProject reads project metadata from a descriptor file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}
	return &p, nil
}

// Exists reports whether the workspace directory is present under dir.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, Dir))
	return err == nil && info.IsDir()
}

// Init creates the project descriptor and workspace layout under dir.
// Fails if a descriptor already exists.
func Init(dir, name, description string) (*Project, error) {
	if _, found := FindProjectFile(dir); found {
		return nil, fmt.Errorf("project already exists in %s", dir)
	}

	ws := filepath.Join(dir, Dir)
	for _, sub := range ArtifactTypes {
		if err := os.MkdirAll(filepath.Join(ws, "hot", sub), 0755); err != nil {
			return nil, fmt.Errorf("creating workspace: %w", err)
		}
	}
	for _, sub := range []string{"cache", "sessions"} {
		if err := os.MkdirAll(filepath.Join(ws, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating workspace: %w", err)
		}
	}

	p := &Project{
		Name:        name,
		Description: description,
		Version:     "0.1.0",
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling project metadata: %w", err)
	}
	path := filepath.Join(dir, slug.Make(name)+ProjectExt)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing project file: %w", err)
	}
	return p, nil
}

// ArtifactCount counts JSON artifacts of one type in the hot workspace.
func ArtifactCount(dir, artifactType string) int {
	matches, err := filepath.Glob(filepath.Join(dir, Dir, "hot", artifactType, "*.json"))
	if err != nil {
		return 0
	}
	return len(matches)
}

// ResolveSeed resolves the story seed for seed-requiring loops. Precedence:
// explicit flag value, then the QF_SEED environment variable, then the
// workspace seed file. Returns the seed and where it came from, or ok=false
// when no non-empty seed is available.
func ResolveSeed(dir, flagValue string) (seed, source string, ok bool) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, "flag", true
	}
	if v := strings.TrimSpace(os.Getenv(SeedEnv)); v != "" {
		return v, "environment", true
	}
	data, err := os.ReadFile(filepath.Join(dir, Dir, SeedFile))
	if err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v, "workspace", true
		}
	}
	return "", "", false
}
