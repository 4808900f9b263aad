package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitAndLoad(t *testing.T) {
	dir := t.TempDir()

	project, err := Init(dir, "Midnight Garden", "A haunted botanical mystery")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if project.Name != "Midnight Garden" {
		t.Errorf("unexpected project name %q", project.Name)
	}

	// Descriptor name is the slug of the project name.
	path, found := FindProjectFile(dir)
	if !found {
		t.Fatal("expected project file after Init")
	}
	if filepath.Base(path) != "midnight-garden.qfproj" {
		t.Errorf("unexpected descriptor name %s", filepath.Base(path))
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Name != project.Name || loaded.Description != project.Description {
		t.Errorf("loaded project does not match: %+v", loaded)
	}

	if !Exists(dir) {
		t.Error("expected workspace directory after Init")
	}
	for _, sub := range ArtifactTypes {
		hot := filepath.Join(dir, Dir, "hot", sub)
		if info, err := os.Stat(hot); err != nil || !info.IsDir() {
			t.Errorf("missing workspace directory %s", hot)
		}
	}

	// Second Init in the same directory must refuse.
	if _, err := Init(dir, "Other", ""); err == nil {
		t.Error("expected error initializing over an existing project")
	}
}

func TestFindProjectFileEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, found := FindProjectFile(dir); found {
		t.Error("expected no project file in empty directory")
	}
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, "Nested", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	root, found := FindProjectRoot(nested)
	if !found {
		t.Fatal("expected to find project root from nested directory")
	}
	if root != dir {
		// Resolve symlinks so macOS /var vs /private/var does not flake.
		want, _ := filepath.EvalSymlinks(dir)
		got, _ := filepath.EvalSymlinks(root)
		if got != want {
			t.Errorf("expected root %s, got %s", dir, root)
		}
	}
}

func TestArtifactCount(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, "Counting", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	hooks := filepath.Join(dir, Dir, "hot", "hooks")
	for _, name := range []string{"h1.json", "h2.json"} {
		if err := os.WriteFile(filepath.Join(hooks, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	// Non-JSON files do not count as artifacts.
	if err := os.WriteFile(filepath.Join(hooks, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if got := ArtifactCount(dir, "hooks"); got != 2 {
		t.Errorf("expected 2 hook artifacts, got %d", got)
	}
	if got := ArtifactCount(dir, "canon"); got != 0 {
		t.Errorf("expected 0 canon artifacts, got %d", got)
	}
}

func TestResolveSeed(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	t.Run("no seed anywhere", func(t *testing.T) {
		t.Setenv(SeedEnv, "")
		_, _, ok := ResolveSeed(dir, "")
		if ok {
			t.Error("expected no seed")
		}
	})

	t.Run("workspace file", func(t *testing.T) {
		t.Setenv(SeedEnv, "")
		seedPath := filepath.Join(dir, Dir, SeedFile)
		if err := os.WriteFile(seedPath, []byte("  a lighthouse keeper's last log\n"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		seed, source, ok := ResolveSeed(dir, "")
		if !ok {
			t.Fatal("expected seed from workspace file")
		}
		if seed != "a lighthouse keeper's last log" {
			t.Errorf("expected trimmed seed, got %q", seed)
		}
		if source != "workspace" {
			t.Errorf("expected workspace source, got %q", source)
		}
	})

	t.Run("environment beats workspace", func(t *testing.T) {
		t.Setenv(SeedEnv, "a city that forgets itself")
		seed, source, ok := ResolveSeed(dir, "")
		if !ok || seed != "a city that forgets itself" || source != "environment" {
			t.Errorf("expected environment seed, got %q from %q (ok=%v)", seed, source, ok)
		}
	})

	t.Run("flag beats environment", func(t *testing.T) {
		t.Setenv(SeedEnv, "a city that forgets itself")
		seed, source, ok := ResolveSeed(dir, "the last train out of winter")
		if !ok || seed != "the last train out of winter" || source != "flag" {
			t.Errorf("expected flag seed, got %q from %q (ok=%v)", seed, source, ok)
		}
	})

	t.Run("whitespace-only values are empty", func(t *testing.T) {
		t.Setenv(SeedEnv, "   ")
		seed, source, ok := ResolveSeed(dir, "  ")
		if !ok {
			return
		}
		// Workspace file from the earlier subtest may still provide a seed.
		if source != "workspace" {
			t.Errorf("expected workspace fallback, got %q (%q)", source, seed)
		}
	})
}
