// Package convert implements the conversion pipelines between VDF
// model files and Wavefront OBJ/MTL, including metadata sidecars.
package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/antaloor-vdf/internal/logger"
	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

// ShaderInfo is the material summary of a shader node (type -253).
type ShaderInfo struct {
	Name        string
	ShaderName  string
	TexDiffuse  string // TexS0
	TexBump     string // TexS1
	TexLightmap string // TexS2
	SpecColor   [4]float32
	DestColor   [4]float32
	Alpha       float32
}

// NewShaderInfo returns a ShaderInfo with the engine's default colors.
func NewShaderInfo() *ShaderInfo {
	return &ShaderInfo{
		SpecColor: [4]float32{0.5, 0.5, 0.5, 16},
		DestColor: [4]float32{0.5, 0.5, 0.5, 1},
		Alpha:     1,
	}
}

// ExtractShaderInfo reads the material fields of a shader node.
func ExtractShaderInfo(node *ntf.Node) *ShaderInfo {
	info := NewShaderInfo()
	if s, ok := node.Str("Name"); ok {
		info.Name = s
	} else {
		info.Name = "default"
	}
	info.ShaderName, _ = node.Str("ShaderName")
	info.TexDiffuse, _ = node.Str("TexS0")
	info.TexBump, _ = node.Str("TexS1")
	info.TexLightmap, _ = node.Str("TexS2")
	if v, ok := node.Vec4("SpecColor"); ok {
		info.SpecColor = v
	}
	if v, ok := node.Vec4("DestColor"); ok {
		info.DestColor = v
	}
	// Game files store the blend factor as AFactor; Alpha is accepted
	// as a fallback since built materials carry that name.
	if v, ok := node.Float("AFactor"); ok {
		info.Alpha = v
	} else if v, ok := node.Float("Alpha"); ok {
		info.Alpha = v
	}
	return info
}

// MeshData is one decoded mesh with its material.
type MeshData struct {
	Name      string
	Vertices  []ntf.Vertex
	Triangles []ntf.Triangle
	Material  *ShaderInfo // nil when the node has no shader child
}

// ExtractMeshes decodes every geometry-bearing node in the tree. Size
// mismatches degrade to the stride-inferred decoder with a warning;
// they never fail the extraction.
func ExtractMeshes(root *ntf.Node) []*MeshData {
	var meshes []*MeshData
	for _, node := range ntf.FindMeshNodes(root) {
		rawVerts, _ := node.Bytes("Vertexes")
		rawFaces, _ := node.Bytes("Faces")
		numVerts, _ := node.Uint("NumVertexes")
		numFaces, _ := node.Uint("NumFaces")
		format, ok := node.Int("VertexFormat")
		if !ok {
			format = 1
		}
		if numVerts == 0 || numFaces == 0 {
			continue
		}

		mesh := &MeshData{}
		if format == 1 && len(rawVerts) == int(numVerts)*ntf.VertexFormat1Stride {
			mesh.Vertices, _ = ntf.DecodeVertexFormat1(rawVerts, int(numVerts))
		} else {
			logger.Warn("vertex buffer size mismatch, using stride-inferred decode",
				zap.Int32("format", format),
				zap.Uint32("declared", numVerts),
				zap.Int("bytes", len(rawVerts)))
			mesh.Vertices = ntf.DecodeVertexBuffer(rawVerts, int(numVerts), format)
		}
		mesh.Triangles = ntf.DecodeIndexBuffer(rawFaces, int(numFaces))

		if shader := node.ShaderChild(); shader != nil {
			mesh.Material = ExtractShaderInfo(shader)
			mesh.Name = mesh.Material.Name
		}
		if mesh.Name == "" {
			if name, ok := node.Str("Name"); ok {
				mesh.Name = name
			} else {
				mesh.Name = fmt.Sprintf("mesh_%d", len(meshes))
			}
		}
		meshes = append(meshes, mesh)
	}
	return meshes
}
