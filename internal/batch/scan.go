// Package batch converts whole folders of VDF models to OBJ using a
// worker pool. Models ship as base/_LOD file pairs; the scanner groups
// them so each pair becomes one work item.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pair is one base VDF with its optional _LOD companion.
type Pair struct {
	Base    string // path to the base .vdf
	LOD     string // path to the _LOD .vdf, empty when absent
	Display string // name shown in logs and the manifest
	RelDir  string // directory relative to the scan root, "" at the root
}

// FindPairs scans a single directory for VDF files and groups base
// models with their _LOD companions. Matching is case-insensitive.
func FindPairs(dir string) ([]Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".vdf") {
			names = append(names, e.Name())
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})

	lods := make(map[string]string)
	var bases []string
	for _, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.HasSuffix(strings.ToUpper(stem), "_LOD") {
			key := strings.ToUpper(stem[:len(stem)-4])
			lods[key] = filepath.Join(dir, name)
		} else {
			bases = append(bases, name)
		}
	}

	pairs := make([]Pair, 0, len(bases))
	for _, name := range bases {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		pairs = append(pairs, Pair{
			Base:    filepath.Join(dir, name),
			LOD:     lods[strings.ToUpper(stem)],
			Display: stem,
		})
	}
	return pairs, nil
}

// FindPairsRecursive walks root and collects pairs from every
// directory containing VDF files. Display names carry the relative
// directory so output stays unambiguous.
func FindPairsRecursive(root string) ([]Pair, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	dirSet := make(map[string]bool)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".vdf") {
			dirSet[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	dirs := make([]string, 0, len(dirSet))
	for dir := range dirSet {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var all []Pair
	for _, dir := range dirs {
		pairs, err := FindPairs(dir)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." {
			rel = ""
		}
		for _, p := range pairs {
			if rel != "" {
				p.Display = filepath.ToSlash(filepath.Join(rel, p.Display))
				p.RelDir = rel
			}
			all = append(all, p)
		}
	}
	return all, nil
}
