package formats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const sampleOBJ = `# comment
mtllib crate.mtl

v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1

g crate
usemtl wood
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJ_Counts(t *testing.T) {
	obj, err := ParseOBJ([]byte(sampleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ() error: %v", err)
	}
	if len(obj.Positions) != 4 {
		t.Errorf("position count = %d, want 4", len(obj.Positions))
	}
	if len(obj.TexCoords) != 4 {
		t.Errorf("texcoord count = %d, want 4", len(obj.TexCoords))
	}
	if len(obj.Normals) != 1 {
		t.Errorf("normal count = %d, want 1", len(obj.Normals))
	}
	if len(obj.MTLLibs) != 1 || obj.MTLLibs[0] != "crate.mtl" {
		t.Errorf("MTLLibs = %v, want [crate.mtl]", obj.MTLLibs)
	}
}

func TestParseOBJ_QuadTriangulation(t *testing.T) {
	obj, err := ParseOBJ([]byte(sampleOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ() error: %v", err)
	}
	if len(obj.Groups) != 1 {
		t.Fatalf("group count = %d, want 1", len(obj.Groups))
	}
	g := obj.Groups[0]
	if g.Material != "wood" {
		t.Errorf("material = %q, want %q", g.Material, "wood")
	}
	// A quad fans into two triangles sharing corner 0.
	if len(g.Faces) != 2 {
		t.Fatalf("face count = %d, want 2", len(g.Faces))
	}
	if g.Faces[0][0].Position != 0 || g.Faces[1][0].Position != 0 {
		t.Error("fan triangulation should anchor on the first corner")
	}
	if g.Faces[0][2].Position != 2 || g.Faces[1][1].Position != 2 {
		t.Errorf("fan order wrong: %v", g.Faces)
	}
}

func TestParseOBJ_VertexRefForms(t *testing.T) {
	tests := []struct {
		name string
		face string
		want OBJVertexRef
	}{
		{"position only", "f 1 2 3", OBJVertexRef{0, -1, -1}},
		{"position and texcoord", "f 1/4 2/5 3/6", OBJVertexRef{0, 3, -1}},
		{"position and normal", "f 1//7 2//7 3//7", OBJVertexRef{0, -1, 6}},
		{"full triplet", "f 1/4/7 2/5/7 3/6/7", OBJVertexRef{0, 3, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(tt.face + "\n"))
			if err != nil {
				t.Fatalf("ParseOBJ() error: %v", err)
			}
			if len(obj.Groups) != 1 || len(obj.Groups[0].Faces) != 1 {
				t.Fatal("expected a single implicit group with one face")
			}
			if got := obj.Groups[0].Faces[0][0]; got != tt.want {
				t.Errorf("corner = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOBJ_GroupMergeByMaterial(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
g a
usemtl metal
f 1 2 3
g b
usemtl wood
f 1 2 3
g c
usemtl metal
f 1 3 2
`
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ() error: %v", err)
	}
	if len(obj.Groups) != 2 {
		t.Fatalf("group count = %d, want 2 (metal groups merged)", len(obj.Groups))
	}
	if obj.Groups[0].Material != "metal" || len(obj.Groups[0].Faces) != 2 {
		t.Errorf("merged metal group = %q with %d faces, want 2",
			obj.Groups[0].Material, len(obj.Groups[0].Faces))
	}
	if obj.Groups[1].Material != "wood" || len(obj.Groups[1].Faces) != 1 {
		t.Errorf("wood group = %q with %d faces, want 1",
			obj.Groups[1].Material, len(obj.Groups[1].Faces))
	}
}

func TestParseMTL(t *testing.T) {
	src := `
newmtl wood
Kd 0.8 0.6 0.4
Ks 0.1 0.1 0.1
Ns 32.0
d 0.9
map_Kd -bm 0.5 textures/wood_diffuse.png
map_bump wood_bump.png

newmtl glass
Tr 0.7
`
	mats, err := ParseMTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseMTL() error: %v", err)
	}
	wood := mats["wood"]
	if wood == nil {
		t.Fatal("material 'wood' missing")
	}
	if wood.Diffuse != [3]float32{0.8, 0.6, 0.4} {
		t.Errorf("Kd = %v", wood.Diffuse)
	}
	if wood.Shininess != 32 {
		t.Errorf("Ns = %v, want 32", wood.Shininess)
	}
	if wood.Alpha != 0.9 {
		t.Errorf("d = %v, want 0.9", wood.Alpha)
	}
	if wood.DiffuseMap != "wood_diffuse.png" {
		t.Errorf("map_Kd = %q, want basename with options stripped", wood.DiffuseMap)
	}
	if wood.BumpMap != "wood_bump.png" {
		t.Errorf("map_bump = %q", wood.BumpMap)
	}

	glass := mats["glass"]
	if glass == nil {
		t.Fatal("material 'glass' missing")
	}
	if diff := glass.Alpha - 0.3; diff < -0.001 || diff > 0.001 {
		t.Errorf("Tr 0.7 should yield alpha ~0.3, got %v", glass.Alpha)
	}
}

func TestParseOBJFile_ResolvesMTL(t *testing.T) {
	dir := t.TempDir()
	mtl := "newmtl wood\nKd 1 0 0\n"
	if err := os.WriteFile(filepath.Join(dir, "crate.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "crate.obj"), []byte(sampleOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	obj, err := ParseOBJFile(filepath.Join(dir, "crate.obj"))
	if err != nil {
		t.Fatalf("ParseOBJFile() error: %v", err)
	}
	if obj.Materials["wood"] == nil {
		t.Fatal("mtllib was not resolved")
	}
	if obj.Materials["wood"].Diffuse != [3]float32{1, 0, 0} {
		t.Errorf("Kd = %v, want red", obj.Materials["wood"].Diffuse)
	}
}

func TestWriteOBJ_ReadBack(t *testing.T) {
	groups := []OBJMeshGroup{
		{
			Name:      "crate_mesh0",
			Material:  "wood",
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			TexCoords: [][2]float32{{0, 0}, {1, 0}, {0, 1}},
			Faces:     [][3]int{{0, 1, 2}},
		},
		{
			Name:      "crate_mesh1",
			Material:  "metal",
			Positions: [][3]float32{{5, 0, 0}, {6, 0, 0}, {5, 1, 0}},
			Normals:   [][3]float32{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			TexCoords: [][2]float32{{0, 0}, {1, 0}, {0, 1}},
			Faces:     [][3]int{{0, 1, 2}},
		},
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, groups, "crate.mtl"); err != nil {
		t.Fatalf("WriteOBJ() error: %v", err)
	}

	obj, err := ParseOBJ(buf.Bytes())
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	if len(obj.Positions) != 6 {
		t.Errorf("position count = %d, want 6", len(obj.Positions))
	}
	if len(obj.Groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(obj.Groups))
	}
	// Second group's face indices must be offset past the first group's
	// vertices.
	face := obj.Groups[1].Faces[0]
	if face[0].Position != 3 {
		t.Errorf("offset face corner = %d, want 3", face[0].Position)
	}
	if obj.Positions[face[0].Position] != [3]float32{5, 0, 0} {
		t.Errorf("offset face resolves to %v, want {5 0 0}", obj.Positions[face[0].Position])
	}
}

func TestWriteMTL_ReadBack(t *testing.T) {
	mat := NewMTLMaterial("wood")
	mat.Diffuse = [3]float32{0.8, 0.6, 0.4}
	mat.DiffuseMap = "wood.dds"

	var buf bytes.Buffer
	if err := WriteMTL(&buf, []*MTLMaterial{mat}); err != nil {
		t.Fatalf("WriteMTL() error: %v", err)
	}
	mats, err := ParseMTL(buf.Bytes())
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	got := mats["wood"]
	if got == nil {
		t.Fatal("written material did not parse back")
	}
	if got.Diffuse != [3]float32{0.8, 0.6, 0.4} {
		t.Errorf("Kd = %v", got.Diffuse)
	}
	if got.DiffuseMap != "wood.dds" {
		t.Errorf("map_Kd = %q", got.DiffuseMap)
	}
}
