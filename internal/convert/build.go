package convert

import (
	"github.com/Faultbox/antaloor-vdf/internal/texture"
	"github.com/Faultbox/antaloor-vdf/pkg/formats"
	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

// KnownShaders lists the engine shader names accepted by the renderer.
var KnownShaders = []string{
	"buildings_lmap",
	"equipment_base",
	"vegetation_base",
	"vegetation_lmap",
	"character_base",
	"terrain_base",
	"decal_base",
	"water_base",
	"particle_base",
}

const (
	DefaultShader    = "buildings_lmap"
	DefaultNearRange = 0.0
	DefaultFarRange  = 100.0
)

// BuildOptions parameterizes VDF and MTR construction.
// TextureOverrides maps a mesh index to replacement values for the
// TexS0, TexS1, TexS2 and ShaderName fields of its shader.
type BuildOptions struct {
	ShaderName       string
	NearRange        float32
	FarRange         float32
	TextureOverrides map[int]map[string]string
}

// DefaultBuildOptions returns the engine defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		ShaderName: DefaultShader,
		NearRange:  DefaultNearRange,
		FarRange:   DefaultFarRange,
	}
}

// BuildVDF assembles a complete model tree from processed meshes: an
// empty AniFileName, a zeroed locator child, then one mesh child per
// group, each carrying its shader child.
func BuildVDF(meshes []*ProcessedMesh, materials map[string]*formats.MTLMaterial, opts BuildOptions) []byte {
	root := ntf.NewRoot()
	root.AddChunk(ntf.NewChunk("AniFileName", ntf.Text("")))

	locator := ntf.NewNode(ntf.NodeLocatorType)
	locator.AddChunk(ntf.NewChunk("IsLocator", ntf.Int32(1)))
	locator.AddChunk(ntf.NewChunk("LPos", ntf.Vec4I{}))
	locator.AddChunk(ntf.NewChunk("LDir", ntf.Vec4F{}))
	root.AddChild(locator)

	for i, mesh := range meshes {
		node := ntf.NewNode(ntf.NodeFrameDataA)
		node.AddChunk(ntf.NewChunk("Type", ntf.Int32(1)))
		node.AddChunk(ntf.NewChunk("Name", ntf.Text(mesh.Name)))
		node.AddChunk(ntf.NewChunk("VertexFormat", ntf.Int32(1)))
		node.AddChunk(ntf.NewChunk("NumVertexes", ntf.UInt32(uint32(len(mesh.Vertices)))))
		// NumFaces counts indices, not triangles
		node.AddChunk(ntf.NewChunk("NumFaces", ntf.UInt32(uint32(len(mesh.Indices)))))
		node.AddChunk(ntf.NewChunk("Vertexes", ntf.Raw(ntf.EncodeVertexBuffer(mesh.Vertices))))
		node.AddChunk(ntf.NewChunk("Faces", ntf.Raw(ntf.EncodeIndices(mesh.Indices))))
		node.AddChild(buildShaderNode(mesh, materials, opts, opts.TextureOverrides[i]))
		root.AddChild(node)
	}
	return ntf.Serialize(root)
}

// BuildMTR assembles a material reference file: shader children only,
// one per mesh, in the same NTF encoding.
func BuildMTR(meshes []*ProcessedMesh, materials map[string]*formats.MTLMaterial, opts BuildOptions) []byte {
	root := ntf.NewRoot()
	for _, mesh := range meshes {
		root.AddChild(buildShaderNode(mesh, materials, opts, nil))
	}
	return ntf.Serialize(root)
}

func buildShaderNode(mesh *ProcessedMesh, materials map[string]*formats.MTLMaterial, opts BuildOptions, overrides map[string]string) *ntf.Node {
	matName := mesh.MaterialName
	if matName == "" {
		matName = mesh.Name
	}

	texS0, texS1, texS2 := "", "", ""
	specColor := ntf.Vec4F{0.5, 0.5, 0.5, 16}
	destColor := ntf.Vec4F{0.5, 0.5, 0.5, 1}
	alpha := float32(1)

	if mat := materials[mesh.MaterialName]; mat != nil {
		texS0 = texture.EnsureDDS(mat.DiffuseMap)
		texS1 = texture.EnsureDDS(mat.BumpMap)
		texS2 = texture.EnsureDDS(mat.AmbientMap)
		specColor = ntf.Vec4F{mat.Specular[0], mat.Specular[1], mat.Specular[2], mat.Shininess}
		destColor = ntf.Vec4F{mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2], mat.Alpha}
		alpha = mat.Alpha
	}

	shaderName := opts.ShaderName
	if v, ok := overrides["ShaderName"]; ok && v != "" {
		shaderName = v
	}
	if v, ok := overrides["TexS0"]; ok && v != "" {
		texS0 = v
	}
	if v, ok := overrides["TexS1"]; ok && v != "" {
		texS1 = v
	}
	if v, ok := overrides["TexS2"]; ok && v != "" {
		texS2 = v
	}

	shader := ntf.NewNode(ntf.NodeShader)
	shader.AddChunk(ntf.NewChunk("Name", ntf.Text(matName)))
	shader.AddChunk(ntf.NewChunk("ShaderName", ntf.Text(shaderName)))
	shader.AddChunk(ntf.NewChunk("TexS0", ntf.Text(texS0)))
	shader.AddChunk(ntf.NewChunk("TexS1", ntf.Text(texS1)))
	shader.AddChunk(ntf.NewChunk("TexS2", ntf.Text(texS2)))
	shader.AddChunk(ntf.NewChunk("SpecColor", specColor))
	shader.AddChunk(ntf.NewChunk("DestColor", destColor))
	shader.AddChunk(ntf.NewChunk("Alpha", ntf.Float32(alpha)))
	shader.AddChunk(ntf.NewChunk("NearRange", ntf.Float32(opts.NearRange)))
	shader.AddChunk(ntf.NewChunk("FarRange", ntf.Float32(opts.FarRange)))
	return shader
}

// setCountChunk updates a counter chunk in place, matching whichever
// integer kind the existing chunk uses.
func setCountChunk(n *ntf.Node, name string, v uint32) bool {
	c := n.Chunk(name)
	if c == nil {
		return false
	}
	switch c.Kind {
	case ntf.KindUInt32:
		c.Value = ntf.UInt32(v)
	case ntf.KindInt32:
		c.Value = ntf.Int32(int32(v))
	default:
		return false
	}
	return true
}

// RefreshBounds recomputes the TMin/TMax chunks of a mesh node from its
// vertices, including the copies held by any bounding-box child.
func RefreshBounds(node *ntf.Node, verts []ntf.Vertex) {
	tmin, tmax := ntf.ComputeBounds(verts)
	node.SetChunkValue("TMin", tmin)
	node.SetChunkValue("TMax", tmax)
	for _, child := range node.Children() {
		if child.Type == ntf.NodeBBox {
			child.SetChunkValue("TMin", tmin)
			child.SetChunkValue("TMax", tmax)
		}
	}
}
