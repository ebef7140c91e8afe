// Package formats provides parsers and writers for model interchange
// file formats.
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

// OBJVertexRef is one face corner: indices into the position, texcoord
// and normal arrays, zero-based, -1 when absent.
type OBJVertexRef struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is one triangle of face corners.
type OBJFace [3]OBJVertexRef

// OBJGroup is a named group of faces bound to one material.
type OBJGroup struct {
	Name     string
	Material string
	Faces    []OBJFace
}

// OBJ is a parsed Wavefront OBJ file. Faces are triangulated on parse;
// polygons with more than three corners become triangle fans.
type OBJ struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Groups    []*OBJGroup
	Materials map[string]*MTLMaterial
	MTLLibs   []string // mtllib references, unresolved
}

// ParseOBJ parses OBJ data from a byte slice. Material libraries are
// recorded in MTLLibs but not loaded; use ParseOBJFile to resolve them
// relative to the file.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{Materials: make(map[string]*MTLMaterial)}
	var (
		group    *OBJGroup
		material string
	)

	ensureGroup := func(name string) {
		group = &OBJGroup{Name: name, Material: material}
		obj.Groups = append(obj.Groups, group)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		val = strings.TrimSpace(val)

		switch key {
		case "v":
			if c, ok := parseFloats(val, 3); ok {
				obj.Positions = append(obj.Positions, [3]float32{c[0], c[1], c[2]})
			}
		case "vn":
			if c, ok := parseFloats(val, 3); ok {
				obj.Normals = append(obj.Normals, [3]float32{c[0], c[1], c[2]})
			}
		case "vt":
			// Some exporters emit 3-component texcoords; keep u,v.
			if c, ok := parseFloats(val, 2); ok {
				obj.TexCoords = append(obj.TexCoords, [2]float32{c[0], c[1]})
			}
		case "mtllib":
			if val != "" {
				obj.MTLLibs = append(obj.MTLLibs, val)
			}
		case "usemtl":
			material = val
			name := "default"
			if group != nil {
				name = group.Name
			}
			ensureGroup(name)
		case "g", "o":
			name := val
			if name == "" {
				name = "default"
			}
			ensureGroup(name)
		case "f":
			if group == nil {
				ensureGroup("default")
			}
			corners := parseFaceCorners(val)
			for i := 1; i+1 < len(corners); i++ {
				group.Faces = append(group.Faces, OBJFace{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning OBJ data: %w", err)
	}

	obj.Groups = mergeGroupsByMaterial(obj.Groups)
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk and loads its material
// libraries from the same directory.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for _, lib := range obj.MTLLibs {
		mats, err := ParseMTLFile(filepath.Join(dir, lib))
		if err != nil {
			// Missing material libraries are tolerated; geometry still
			// loads.
			continue
		}
		for name, m := range mats {
			obj.Materials[name] = m
		}
	}
	return obj, nil
}

// mergeGroupsByMaterial drops empty groups and merges groups sharing a
// material, keeping first-seen order. Exporters commonly split one
// logical mesh across many g/usemtl runs.
func mergeGroupsByMaterial(groups []*OBJGroup) []*OBJGroup {
	var (
		order  []string
		merged = make(map[string]*OBJGroup)
	)
	for _, g := range groups {
		if len(g.Faces) == 0 {
			continue
		}
		key := g.Material
		if key == "" {
			key = g.Name
		}
		if dst, ok := merged[key]; ok {
			dst.Faces = append(dst.Faces, g.Faces...)
			continue
		}
		dup := &OBJGroup{Name: g.Name, Material: g.Material}
		dup.Faces = append(dup.Faces, g.Faces...)
		merged[key] = dup
		order = append(order, key)
	}
	out := make([]*OBJGroup, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// parseFaceCorners splits "v/vt/vn" face tokens. A corner with an
// unparsable position index is dropped; missing vt/vn become -1.
func parseFaceCorners(val string) []OBJVertexRef {
	var corners []OBJVertexRef
	for _, token := range strings.Fields(val) {
		parts := strings.Split(token, "/")
		vi, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		ref := OBJVertexRef{Position: vi - 1, TexCoord: -1, Normal: -1}
		if len(parts) > 1 && parts[1] != "" {
			if vti, err := strconv.Atoi(parts[1]); err == nil {
				ref.TexCoord = vti - 1
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if vni, err := strconv.Atoi(parts[2]); err == nil {
				ref.Normal = vni - 1
			}
		}
		corners = append(corners, ref)
	}
	return corners
}

// parseFloats parses exactly count whitespace-separated floats from the
// head of text.
func parseFloats(text string, count int) ([]float32, bool) {
	fields := strings.Fields(text)
	if len(fields) < count {
		return nil, false
	}
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}
