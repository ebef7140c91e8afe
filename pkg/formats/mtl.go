package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MTLMaterial is one material definition from a Wavefront MTL library.
type MTLMaterial struct {
	Name       string
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Shininess  float32    // Ns
	Alpha      float32    // d, or 1-Tr
	DiffuseMap string     // map_Kd, basename only
	BumpMap    string     // map_bump / bump
	AmbientMap string     // map_Ka
}

// NewMTLMaterial returns a material with the defaults the game's
// shaders assume.
func NewMTLMaterial(name string) *MTLMaterial {
	return &MTLMaterial{
		Name:      name,
		Diffuse:   [3]float32{0.5, 0.5, 0.5},
		Specular:  [3]float32{0.5, 0.5, 0.5},
		Shininess: 16,
		Alpha:     1,
	}
}

// ParseMTL parses MTL data from a byte slice. Unknown keys are skipped;
// malformed values leave the defaults in place.
func ParseMTL(data []byte) (map[string]*MTLMaterial, error) {
	materials := make(map[string]*MTLMaterial)
	var current *MTLMaterial

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		key = strings.ToLower(key)
		val = strings.TrimSpace(val)

		if key == "newmtl" {
			current = NewMTLMaterial(val)
			materials[current.Name] = current
			continue
		}
		if current == nil {
			continue
		}
		switch key {
		case "kd":
			if c, ok := parseFloats(val, 3); ok {
				current.Diffuse = [3]float32{c[0], c[1], c[2]}
			}
		case "ks":
			if c, ok := parseFloats(val, 3); ok {
				current.Specular = [3]float32{c[0], c[1], c[2]}
			}
		case "ns":
			if f, err := strconv.ParseFloat(val, 32); err == nil {
				current.Shininess = float32(f)
			}
		case "d":
			if f, err := strconv.ParseFloat(val, 32); err == nil {
				current.Alpha = float32(f)
			}
		case "tr":
			if f, err := strconv.ParseFloat(val, 32); err == nil {
				current.Alpha = 1 - float32(f)
			}
		case "map_kd":
			current.DiffuseMap = mapFilename(val)
		case "map_bump", "bump":
			current.BumpMap = mapFilename(val)
		case "map_ka":
			current.AmbientMap = mapFilename(val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning MTL data: %w", err)
	}
	return materials, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) (map[string]*MTLMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	return ParseMTL(data)
}

// mapFilename strips "-option value" pairs from a map_* statement and
// returns the basename of the remaining path.
func mapFilename(val string) string {
	parts := strings.Fields(val)
	i := 0
	for i < len(parts) && strings.HasPrefix(parts[i], "-") {
		i += 2
	}
	if i >= len(parts) {
		return ""
	}
	return filepath.Base(strings.Join(parts[i:], " "))
}
