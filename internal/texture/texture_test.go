package texture

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("dds"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "crate.dds"))
	writeFile(t, filepath.Join(root, "sub", "Wall.DDS"))
	writeFile(t, filepath.Join(root, "readme.txt"))

	idx := BuildIndex(root)
	if len(idx) != 2 {
		t.Fatalf("expected 2 indexed textures, got %d", len(idx))
	}

	// Lookups are case-insensitive in both directions.
	if _, ok := idx.Lookup("CRATE.DDS"); !ok {
		t.Error("upper-case lookup failed")
	}
	if _, ok := idx.Lookup("wall.dds"); !ok {
		t.Error("lower-case lookup failed")
	}
	if _, ok := idx.Lookup("missing.dds"); ok {
		t.Error("missing texture should not resolve")
	}
}

func TestBuildIndexFirstPathWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "tex.dds"))
	writeFile(t, filepath.Join(root, "b", "tex.dds"))

	idx := BuildIndex(root)
	if len(idx) != 1 {
		t.Fatalf("expected 1 entry for duplicate names, got %d", len(idx))
	}
	path, _ := idx.Lookup("tex.dds")
	if filepath.Base(filepath.Dir(path)) != "a" {
		t.Errorf("expected first-walked path to win, got %s", path)
	}
}

func TestBuildIndexMissingRoot(t *testing.T) {
	if idx := BuildIndex(""); len(idx) != 0 {
		t.Error("empty root should yield an empty index")
	}
	if idx := BuildIndex("/nonexistent/textures"); len(idx) != 0 {
		t.Error("missing root should yield an empty index")
	}
}

func TestCopyTo(t *testing.T) {
	root := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(root, "crate.dds"))

	idx := BuildIndex(root)
	found, missing := idx.CopyTo(dst, map[string]bool{
		"crate.dds": true,
		"gone.dds":  true,
		"":          true, // blank names are ignored
	})
	if found != 1 {
		t.Errorf("found = %d, want 1", found)
	}
	if len(missing) != 1 || missing[0] != "gone.dds" {
		t.Errorf("missing = %v, want [gone.dds]", missing)
	}
	if _, err := os.Stat(filepath.Join(dst, "crate.dds")); err != nil {
		t.Error("texture not copied")
	}

	// A second run counts the existing copy without touching the index.
	found, missing = idx.CopyTo(dst, map[string]bool{"crate.dds": true})
	if found != 1 || len(missing) != 0 {
		t.Errorf("recopy: found=%d missing=%v", found, missing)
	}
}

func TestFindTexturesFolder(t *testing.T) {
	root := t.TempDir()
	texDir := filepath.Join(root, "Textures")
	modelDir := filepath.Join(root, "Models", "Houses")
	if err := os.MkdirAll(texDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindTexturesFolder(modelDir); got != texDir {
		t.Errorf("FindTexturesFolder = %q, want %q", got, texDir)
	}
	if got := FindTexturesFolder(filepath.Join(root, "Models")); got != texDir {
		t.Errorf("FindTexturesFolder = %q, want %q", got, texDir)
	}
}

func TestEnsureDDS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"crate.dds", "crate.dds"},
		{"crate.DDS", "crate.DDS"},
		{"crate.png", "crate.dds"},
		{"crate.JPG", "crate.dds"},
		{"crate.tga", "crate.dds"},
		{"crate", "crate.dds"},
		{" crate.bmp ", "crate.dds"},
		{"crate.custom", "crate.custom"},
	}
	for _, tt := range tests {
		if got := EnsureDDS(tt.in); got != tt.want {
			t.Errorf("EnsureDDS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
