package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/antaloor-vdf/internal/logger"
	"github.com/Faultbox/antaloor-vdf/internal/texture"
	"github.com/Faultbox/antaloor-vdf/pkg/formats"
	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

// ExportStats summarizes one VDF to OBJ conversion.
type ExportStats struct {
	Groups          int
	Materials       int
	TotalVertices   int
	TotalTriangles  int
	HasLOD          bool
	TexturesFound   int
	TexturesMissing []string
}

// ExportVDF converts a VDF model (plus its optional _LOD companion)
// into an OBJ, an MTL, a metadata sidecar and copies of the referenced
// textures. Returns the path of the written OBJ.
func ExportVDF(basePath, lodPath, outputDir, metadataDir string, texIndex texture.Index) (string, *ExportStats, error) {
	baseName := strings.TrimSuffix(filepath.Base(basePath), filepath.Ext(basePath))

	root, err := ntf.ParseFile(basePath)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %s: %w", filepath.Base(basePath), err)
	}
	baseMeshes := ExtractMeshes(root)
	if len(baseMeshes) == 0 {
		return "", nil, fmt.Errorf("no mesh data in %s", filepath.Base(basePath))
	}

	var lodMeshes []*MeshData
	if lodPath != "" {
		lodRoot, err := ntf.ParseFile(lodPath)
		if err != nil {
			logger.Warn("skipping unreadable LOD file",
				zap.String("path", lodPath), zap.Error(err))
		} else {
			lodMeshes = ExtractMeshes(lodRoot)
		}
	}

	var groups []formats.OBJMeshGroup
	materials := make(map[string]*ShaderInfo)
	var matOrder []string
	addMeshes := func(meshes []*MeshData, prefix string) {
		for _, mesh := range meshes {
			groups = append(groups, meshToGroup(prefix+mesh.Name, mesh))
			if mesh.Material != nil {
				if _, seen := materials[mesh.Material.Name]; !seen {
					materials[mesh.Material.Name] = mesh.Material
					matOrder = append(matOrder, mesh.Material.Name)
				}
			}
		}
	}
	addMeshes(baseMeshes, baseName+"_")
	addMeshes(lodMeshes, baseName+"_LOD_")
	if len(materials) == 0 {
		def := NewShaderInfo()
		def.Name = "default"
		materials["default"] = def
		matOrder = append(matOrder, "default")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating output dir: %w", err)
	}
	objPath := filepath.Join(outputDir, baseName+".obj")
	mtlName := baseName + ".mtl"
	if err := formats.WriteOBJFile(objPath, groups, mtlName); err != nil {
		return "", nil, err
	}
	mtls := make([]*formats.MTLMaterial, 0, len(matOrder))
	for _, name := range matOrder {
		mtls = append(mtls, shaderToMTL(materials[name]))
	}
	if err := formats.WriteMTLFile(filepath.Join(outputDir, mtlName), mtls); err != nil {
		return "", nil, err
	}

	if metadataDir != "" {
		if err := os.MkdirAll(metadataDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("creating metadata dir: %w", err)
		}
		meta := BuildMetadata(root, baseName+".vdf", basePath)
		metaPath := filepath.Join(metadataDir, baseName+"_vdf_metadata.json")
		if err := SaveMetadata(metaPath, meta); err != nil {
			return "", nil, err
		}
	}

	stats := &ExportStats{
		Groups:    len(groups),
		Materials: len(materials),
		HasLOD:    len(lodMeshes) > 0,
	}
	for _, g := range groups {
		stats.TotalVertices += len(g.Positions)
		stats.TotalTriangles += len(g.Faces)
	}

	if texIndex != nil {
		names := make(map[string]bool)
		for _, mat := range materials {
			for _, t := range []string{mat.TexDiffuse, mat.TexBump, mat.TexLightmap} {
				if t != "" {
					names[t] = true
				}
			}
		}
		found, missing := texIndex.CopyTo(outputDir, names)
		stats.TexturesFound = found
		stats.TexturesMissing = missing
	}
	return objPath, stats, nil
}

func meshToGroup(name string, mesh *MeshData) formats.OBJMeshGroup {
	g := formats.OBJMeshGroup{Name: name}
	if mesh.Material != nil {
		g.Material = mesh.Material.Name
	}
	g.Positions = make([][3]float32, len(mesh.Vertices))
	g.Normals = make([][3]float32, len(mesh.Vertices))
	g.TexCoords = make([][2]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		g.Positions[i] = [3]float32{v.Position.X, v.Position.Y, v.Position.Z}
		g.Normals[i] = [3]float32{v.Normal.X, v.Normal.Y, v.Normal.Z}
		g.TexCoords[i] = [2]float32{v.UV1.X, v.UV1.Y}
	}
	g.Faces = make([][3]int, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		g.Faces[i] = [3]int{int(t[0]), int(t[1]), int(t[2])}
	}
	return g
}

func shaderToMTL(s *ShaderInfo) *formats.MTLMaterial {
	m := formats.NewMTLMaterial(s.Name)
	m.Diffuse = [3]float32{s.DestColor[0], s.DestColor[1], s.DestColor[2]}
	m.Specular = [3]float32{s.SpecColor[0], s.SpecColor[1], s.SpecColor[2]}
	m.Shininess = s.SpecColor[3]
	m.Alpha = s.Alpha
	m.DiffuseMap = s.TexDiffuse
	m.BumpMap = s.TexBump
	m.AmbientMap = s.TexLightmap
	return m
}

// ImportOptions parameterizes OBJ to VDF conversion.
type ImportOptions struct {
	Build    BuildOptions
	WriteMTR bool
	Metadata *Metadata // when set, rebuild through the NTF skeleton
}

// ImportStats summarizes one OBJ to VDF conversion.
type ImportStats struct {
	Groups         int
	TotalVertices  int
	TotalTriangles int
	VDFSize        int
	MTRPath        string
	UsedMetadata   bool
}

// ImportOBJ converts an OBJ file into a VDF (and, unless disabled, an
// MTR) in outputDir. Returns the path of the written VDF.
func ImportOBJ(objPath, outputDir string, opts ImportOptions) (string, *ImportStats, error) {
	baseName := strings.TrimSuffix(filepath.Base(objPath), filepath.Ext(objPath))

	obj, err := formats.ParseOBJFile(objPath)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %s: %w", filepath.Base(objPath), err)
	}
	meshes := ProcessOBJ(obj)
	if len(meshes) == 0 {
		return "", nil, fmt.Errorf("no geometry in %s", filepath.Base(objPath))
	}

	var vdfData []byte
	if opts.Metadata != nil {
		vdfData, err = BuildVDFFromMetadata(meshes, opts.Metadata, opts.Build.TextureOverrides)
		if err != nil {
			return "", nil, err
		}
	} else {
		vdfData = BuildVDF(meshes, obj.Materials, opts.Build)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating output dir: %w", err)
	}
	vdfPath := filepath.Join(outputDir, baseName+".vdf")
	if err := os.WriteFile(vdfPath, vdfData, 0o644); err != nil {
		return "", nil, fmt.Errorf("writing VDF: %w", err)
	}

	stats := &ImportStats{
		Groups:       len(meshes),
		VDFSize:      len(vdfData),
		UsedMetadata: opts.Metadata != nil,
	}
	for _, m := range meshes {
		stats.TotalVertices += len(m.Vertices)
		stats.TotalTriangles += len(m.Indices) / 3
	}

	if opts.WriteMTR {
		mtrData := BuildMTR(meshes, obj.Materials, opts.Build)
		stats.MTRPath = filepath.Join(outputDir, baseName+".mtr")
		if err := os.WriteFile(stats.MTRPath, mtrData, 0o644); err != nil {
			return "", nil, fmt.Errorf("writing MTR: %w", err)
		}
	}

	logger.Info("converted OBJ",
		zap.String("vdf", vdfPath),
		zap.Int("groups", stats.Groups),
		zap.Int("vertices", stats.TotalVertices),
		zap.Int("triangles", stats.TotalTriangles))
	return vdfPath, stats, nil
}
