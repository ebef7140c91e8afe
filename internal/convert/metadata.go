package convert

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

// MetadataVersion is written into every sidecar file.
const MetadataVersion = "1.0"

// Metadata is the JSON sidecar written next to an exported OBJ. It
// carries everything needed to rebuild a faithful VDF from edited
// geometry, including a base64 copy of the model tree with the vertex
// and face payloads blanked.
type Metadata struct {
	ToolkitVersion string         `json:"toolkit_version"`
	SourceVDF      string         `json:"source_vdf"`
	SourcePath     string         `json:"source_path"`
	Created        string         `json:"created"`
	MeshCount      int            `json:"mesh_count"`
	TotalVertices  int            `json:"total_vertices"`
	TotalTriangles int            `json:"total_triangles"`
	Meshes         []MeshMetadata `json:"meshes"`
	Locator        LocatorInfo    `json:"locator"`
	AniFileName    string         `json:"ani_file_name"`
	RawNTFSkeleton string         `json:"raw_ntf_skeleton"`
}

// MeshMetadata summarizes one mesh node.
type MeshMetadata struct {
	Name          string         `json:"name"`
	VertexCount   int            `json:"vertex_count"`
	FaceCount     int            `json:"face_count"`
	TriangleCount int            `json:"triangle_count"`
	VertexFormat  int            `json:"vertex_format"`
	Shader        map[string]any `json:"shader"`
	ExtraProps    map[string]any `json:"extra_properties"`
}

// LocatorInfo records the pivot node.
type LocatorInfo struct {
	IsLocator int32    `json:"IsLocator"`
	LPos      [4]int32 `json:"LPos"`
}

// BuildSkeleton clones the tree with every Vertexes and Faces payload
// replaced by empty bytes, serializes the clone and base64-encodes it.
func BuildSkeleton(root *ntf.Node) string {
	skeleton := cloneSkeleton(root)
	return base64.StdEncoding.EncodeToString(ntf.Serialize(skeleton))
}

func cloneSkeleton(node *ntf.Node) *ntf.Node {
	out := &ntf.Node{Type: node.Type, HasType: node.HasType}
	for _, e := range node.Entries {
		switch {
		case e.Chunk != nil:
			c := e.Chunk.Clone()
			if c.Name == "Vertexes" || c.Name == "Faces" {
				c.Value = ntf.Raw{}
			}
			out.AddChunk(c)
		case e.Child != nil:
			out.AddChild(cloneSkeleton(e.Child))
		}
	}
	return out
}

// BuildMetadata assembles the sidecar for a parsed model tree.
func BuildMetadata(root *ntf.Node, sourceVDF, sourcePath string) *Metadata {
	meta := &Metadata{
		ToolkitVersion: MetadataVersion,
		SourceVDF:      sourceVDF,
		SourcePath:     sourcePath,
		Created:        time.Now().Format("2006-01-02T15:04:05"),
		Locator:        LocatorInfo{IsLocator: 1},
		RawNTFSkeleton: BuildSkeleton(root),
	}

	for _, mn := range ntf.FindMeshNodes(root) {
		nv, _ := mn.Uint("NumVertexes")
		nf, _ := mn.Uint("NumFaces")
		nt := int(nf) / 3
		format, ok := mn.Int("VertexFormat")
		if !ok {
			format = 1
		}

		entry := MeshMetadata{
			VertexCount:   int(nv),
			FaceCount:     int(nf),
			TriangleCount: nt,
			VertexFormat:  int(format),
			Shader:        map[string]any{},
			ExtraProps:    map[string]any{},
		}
		entry.Name, _ = mn.Str("Name")
		if shader := mn.ShaderChild(); shader != nil {
			entry.Shader = shaderDetails(shader)
			if name, ok := shader.Str("Name"); ok {
				entry.Name = name
			}
		}

		meta.TotalVertices += int(nv)
		meta.TotalTriangles += nt
		meta.Meshes = append(meta.Meshes, entry)
	}
	meta.MeshCount = len(meta.Meshes)

	for _, n := range ntf.FindNodes(root, func(n *ntf.Node) bool {
		_, ok := n.Int("IsLocator")
		return ok
	}) {
		if v, ok := n.Int("IsLocator"); ok {
			meta.Locator.IsLocator = v
		}
		if c := n.Chunk("LPos"); c != nil {
			if pos, ok := c.Value.(ntf.Vec4I); ok {
				meta.Locator.LPos = pos
			}
		}
		break
	}

	for _, n := range ntf.FindNodes(root, func(n *ntf.Node) bool {
		return n.Chunk("AniFileName") != nil
	}) {
		meta.AniFileName, _ = n.Str("AniFileName")
		break
	}
	return meta
}

// shaderDetails flattens a shader node's chunks into a JSON-friendly map.
func shaderDetails(shader *ntf.Node) map[string]any {
	details := map[string]any{
		"ShaderName": "",
		"TexS0":      "",
		"TexS1":      "",
		"TexS2":      "",
	}
	for key := range details {
		if s, ok := shader.Str(key); ok {
			details[key] = s
		}
	}
	for _, c := range shader.Chunks() {
		if _, taken := details[c.Name]; taken {
			continue
		}
		switch v := c.Value.(type) {
		case ntf.Text:
			details[c.Name] = string(v)
		case ntf.Float32:
			details[c.Name] = float64(v)
		case ntf.Int32:
			details[c.Name] = int64(v)
		case ntf.UInt32:
			details[c.Name] = uint64(v)
		case ntf.Vec4F:
			details[c.Name] = []float64{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
		case ntf.Vec4I:
			details[c.Name] = []int64{int64(v[0]), int64(v[1]), int64(v[2]), int64(v[3])}
		}
	}
	return details
}

// RestoreSkeleton decodes the base64 skeleton back into a model tree.
func RestoreSkeleton(meta *Metadata) (*ntf.Node, error) {
	raw, err := base64.StdEncoding.DecodeString(meta.RawNTFSkeleton)
	if err != nil {
		return nil, fmt.Errorf("decoding skeleton: %w", err)
	}
	return ntf.Parse(raw)
}

// BuildVDFFromMetadata rebuilds a VDF using the metadata skeleton as a
// template: mesh nodes keep every chunk and child the original had,
// only the geometry payloads and counters are replaced. Meshes are
// matched to skeleton nodes by position; extra meshes are dropped.
func BuildVDFFromMetadata(meshes []*ProcessedMesh, meta *Metadata, overrides map[int]map[string]string) ([]byte, error) {
	root, err := RestoreSkeleton(meta)
	if err != nil {
		return nil, err
	}
	nodes := ntf.FindMeshNodes(root)

	for i, mesh := range meshes {
		if i >= len(nodes) {
			break
		}
		mn := nodes[i]

		setCountChunk(mn, "NumVertexes", uint32(len(mesh.Vertices)))
		setCountChunk(mn, "NumFaces", uint32(len(mesh.Indices)))
		mn.SetChunkValue("Vertexes", ntf.Raw(ntf.EncodeVertexBuffer(mesh.Vertices)))
		mn.SetChunkValue("Faces", ntf.Raw(ntf.EncodeIndices(mesh.Indices)))
		RefreshBounds(mn, mesh.Vertices)

		if ovr := overrides[i]; ovr != nil {
			if shader := mn.ShaderChild(); shader != nil {
				for _, key := range []string{"TexS0", "TexS1", "TexS2", "ShaderName"} {
					if v, ok := ovr[key]; ok && v != "" {
						shader.SetChunkValue(key, ntf.Text(v))
					}
				}
			}
		}
	}
	return ntf.Serialize(root), nil
}

// SaveMetadata writes the sidecar with two-space indentation.
func SaveMetadata(path string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// LoadMetadata reads a sidecar file.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	meta := &Metadata{}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", path, err)
	}
	return meta, nil
}
