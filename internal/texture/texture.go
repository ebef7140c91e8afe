// Package texture locates and copies the DDS textures referenced by
// model materials. Game archives mix filename casing freely, so every
// lookup is case-insensitive.
package texture

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/antaloor-vdf/internal/logger"
)

// Index maps an upper-cased DDS filename to its path on disk.
type Index map[string]string

// BuildIndex walks root and records every .dds file. The first path
// found for a name wins. A missing or empty root yields an empty index.
func BuildIndex(root string) Index {
	index := make(Index)
	if root == "" {
		return index
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".dds") {
			return nil
		}
		key := strings.ToUpper(name)
		if _, exists := index[key]; !exists {
			index[key] = path
		}
		return nil
	})
	if err != nil {
		logger.Warn("texture index walk failed", zap.String("root", root), zap.Error(err))
	}
	return index
}

// Lookup resolves a texture filename to its indexed path.
func (idx Index) Lookup(name string) (string, bool) {
	path, ok := idx[strings.ToUpper(name)]
	return path, ok
}

// CopyTo copies the named textures into dstDir. Textures already
// present at the destination count as found. Returns the found count
// and the sorted names that could not be resolved or copied.
func (idx Index) CopyTo(dstDir string, names map[string]bool) (int, []string) {
	var found int
	var missing []string

	sorted := make([]string, 0, len(names))
	for name := range names {
		if name != "" {
			sorted = append(sorted, name)
		}
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		dst := filepath.Join(dstDir, name)
		if _, err := os.Stat(dst); err == nil {
			found++
			continue
		}
		src, ok := idx.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if err := copyFile(src, dst); err != nil {
			logger.Warn("texture copy failed",
				zap.String("texture", name), zap.Error(err))
			missing = append(missing, name)
			continue
		}
		found++
	}
	return found, missing
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// FindTexturesFolder searches for a Textures directory starting at
// start and walking up to ten parent levels.
func FindTexturesFolder(start string) string {
	current, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for i := 0; i < 10; i++ {
		candidate := filepath.Join(current, "Textures")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		candidate = filepath.Join(parent, "Textures")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		current = parent
	}
	return ""
}

// EnsureDDS rewrites a texture filename to carry the .dds extension the
// engine expects. Unknown extensions are kept as-is.
func EnsureDDS(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tga", ".bmp", ".tif", ".tiff":
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".dds"
	case "":
		return name + ".dds"
	}
	return name
}
