package formats

import (
	"fmt"
	"io"
	"os"
)

// OBJMeshGroup is one mesh ready to be written as an OBJ group: parallel
// position/normal/texcoord arrays and triangle indices local to the
// group.
type OBJMeshGroup struct {
	Name      string
	Material  string
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Faces     [][3]int
}

// WriteOBJ writes groups as a Wavefront OBJ document. Vertex indices
// are offset per group so groups stay independently editable.
func WriteOBJ(w io.Writer, groups []OBJMeshGroup, mtlLib string) error {
	if _, err := fmt.Fprintf(w, "# antaloor-vdf model export\nmtllib %s\n\n", mtlLib); err != nil {
		return err
	}
	offset := 0
	for _, g := range groups {
		fmt.Fprintf(w, "g %s\n", g.Name)
		if g.Material != "" {
			fmt.Fprintf(w, "usemtl %s\n", g.Material)
		}
		for _, p := range g.Positions {
			fmt.Fprintf(w, "v %.6f %.6f %.6f\n", p[0], p[1], p[2])
		}
		for _, t := range g.TexCoords {
			fmt.Fprintf(w, "vt %.6f %.6f\n", t[0], t[1])
		}
		for _, n := range g.Normals {
			fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", n[0], n[1], n[2])
		}
		for _, f := range g.Faces {
			i0, i1, i2 := f[0]+1+offset, f[1]+1+offset, f[2]+1+offset
			if _, err := fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n",
				i0, i0, i0, i1, i1, i1, i2, i2, i2); err != nil {
				return err
			}
		}
		offset += len(g.Positions)
		fmt.Fprintln(w)
	}
	return nil
}

// WriteOBJFile writes groups to an OBJ file on disk.
func WriteOBJFile(path string, groups []OBJMeshGroup, mtlLib string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	defer f.Close()
	if err := WriteOBJ(f, groups, mtlLib); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return f.Close()
}

// WriteMTL writes materials as a Wavefront MTL library, in slice order.
func WriteMTL(w io.Writer, materials []*MTLMaterial) error {
	if _, err := fmt.Fprint(w, "# antaloor-vdf material export\n\n"); err != nil {
		return err
	}
	for _, m := range materials {
		fmt.Fprintf(w, "newmtl %s\nKa 0.2 0.2 0.2\n", m.Name)
		fmt.Fprintf(w, "Kd %.4f %.4f %.4f\n", m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
		fmt.Fprintf(w, "Ks %.4f %.4f %.4f\n", m.Specular[0], m.Specular[1], m.Specular[2])
		fmt.Fprintf(w, "Ns %.1f\n", m.Shininess)
		fmt.Fprintf(w, "d %.4f\nillum 2\n", m.Alpha)
		if m.DiffuseMap != "" {
			fmt.Fprintf(w, "map_Kd %s\n", m.DiffuseMap)
		}
		if m.BumpMap != "" {
			fmt.Fprintf(w, "map_bump %s\n", m.BumpMap)
		}
		if m.AmbientMap != "" {
			fmt.Fprintf(w, "map_Ka %s\n", m.AmbientMap)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteMTLFile writes materials to an MTL file on disk.
func WriteMTLFile(path string, materials []*MTLMaterial) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating MTL file: %w", err)
	}
	defer f.Close()
	if err := WriteMTL(f, materials); err != nil {
		return fmt.Errorf("writing MTL file: %w", err)
	}
	return f.Close()
}
