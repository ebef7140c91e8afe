package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/antaloor-vdf/internal/logger"
	"github.com/Faultbox/antaloor-vdf/pkg/formats"
	"github.com/Faultbox/antaloor-vdf/pkg/math"
	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

// ProcessedMesh is an OBJ group reindexed for encoding: one vertex per
// distinct (position, texcoord, normal) corner, flat triangle indices.
type ProcessedMesh struct {
	Name         string
	MaterialName string
	Vertices     []ntf.Vertex
	Indices      []uint16
}

// ProcessGroup flattens an OBJ group into a ProcessedMesh. Corners
// sharing the same position, texcoord and normal references collapse
// into one vertex. Missing normals default to +Y, missing texcoords to
// zero. Tangents are computed from the resulting geometry.
func ProcessGroup(obj *formats.OBJ, group *formats.OBJGroup) *ProcessedMesh {
	mesh := &ProcessedMesh{
		Name:         group.Name,
		MaterialName: group.Material,
	}

	vertexMap := make(map[formats.OBJVertexRef]uint16)
	var positions, normals []math.Vec3
	var uvs []math.Vec2

	for _, face := range group.Faces {
		for _, ref := range face {
			idx, seen := vertexMap[ref]
			if !seen {
				idx = uint16(len(positions))
				vertexMap[ref] = idx

				if ref.Position >= 0 && ref.Position < len(obj.Positions) {
					p := obj.Positions[ref.Position]
					positions = append(positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
				} else {
					positions = append(positions, math.Vec3{})
				}
				if ref.Normal >= 0 && ref.Normal < len(obj.Normals) {
					n := obj.Normals[ref.Normal]
					normals = append(normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
				} else {
					normals = append(normals, math.Vec3{Y: 1})
				}
				if ref.TexCoord >= 0 && ref.TexCoord < len(obj.TexCoords) {
					uv := obj.TexCoords[ref.TexCoord]
					uvs = append(uvs, math.Vec2{X: uv[0], Y: uv[1]})
				} else {
					uvs = append(uvs, math.Vec2{})
				}
			}
			mesh.Indices = append(mesh.Indices, idx)
		}
	}

	if len(positions) > 65535 {
		logger.Warn("group exceeds uint16 vertex limit, indices will overflow",
			zap.String("group", group.Name),
			zap.Int("vertices", len(positions)))
	}

	tangents := ComputeTangents(positions, normals, uvs, mesh.Indices)

	mesh.Vertices = make([]ntf.Vertex, len(positions))
	for i := range mesh.Vertices {
		mesh.Vertices[i] = ntf.Vertex{
			Position: positions[i],
			Normal:   normals[i],
			NormalW:  255,
			Tangent:  tangents[i],
			TangentW: 255,
			UV1:      uvs[i],
		}
	}
	return mesh
}

// ProcessOBJ converts every group of a parsed OBJ, with groups merged
// by material first so each material yields a single mesh.
func ProcessOBJ(obj *formats.OBJ) []*ProcessedMesh {
	meshes := make([]*ProcessedMesh, 0, len(obj.Groups))
	for _, group := range obj.Groups {
		mesh := ProcessGroup(obj, group)
		if len(mesh.Indices) == 0 {
			continue
		}
		logger.Info("processed group",
			zap.String("group", mesh.Name),
			zap.Int("vertices", len(mesh.Vertices)),
			zap.Int("triangles", len(mesh.Indices)/3))
		meshes = append(meshes, mesh)
	}
	return meshes
}
