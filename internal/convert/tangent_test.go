package convert

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/antaloor-vdf/pkg/math"
)

func TestComputeTangentsFlatQuad(t *testing.T) {
	// A quad in the XY plane with UVs aligned to the axes. The U
	// direction increases along +X, so tangents must point at +X.
	positions := []math.Vec3{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	normals := []math.Vec3{
		{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1},
	}
	uvs := []math.Vec2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}

	tangents := ComputeTangents(positions, normals, uvs, indices)
	if len(tangents) != 4 {
		t.Fatalf("expected 4 tangents, got %d", len(tangents))
	}
	for i, tan := range tangents {
		if stdmath.Abs(float64(tan.X-1)) > 1e-5 || stdmath.Abs(float64(tan.Y)) > 1e-5 || stdmath.Abs(float64(tan.Z)) > 1e-5 {
			t.Errorf("tangent %d = %+v, want (1, 0, 0)", i, tan)
		}
	}
}

func TestComputeTangentsOrthogonal(t *testing.T) {
	// Tilted triangle: tangents must stay unit length and
	// perpendicular to the vertex normal after orthogonalization.
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 1}, {X: 0, Y: 2, Z: 1},
	}
	n := math.Vec3{X: 0.3, Y: 0.1, Z: 0.9}.Normalize()
	normals := []math.Vec3{n, n, n}
	uvs := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	indices := []uint16{0, 1, 2}

	tangents := ComputeTangents(positions, normals, uvs, indices)
	for i, tan := range tangents {
		if d := stdmath.Abs(float64(tan.Dot(n))); d > 1e-5 {
			t.Errorf("tangent %d not perpendicular to normal, dot=%g", i, d)
		}
		if l := tan.Length(); stdmath.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("tangent %d not unit length: %g", i, l)
		}
	}
}

func TestComputeTangentsDegenerateUV(t *testing.T) {
	// All UVs identical: no gradient exists, so every vertex falls
	// back to an arbitrary perpendicular tangent.
	positions := []math.Vec3{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
	}
	normals := []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}}
	uvs := []math.Vec2{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}
	indices := []uint16{0, 1, 2}

	tangents := ComputeTangents(positions, normals, uvs, indices)
	for i, tan := range tangents {
		if l := tan.Length(); stdmath.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("fallback tangent %d not unit length: %g", i, l)
		}
		if d := stdmath.Abs(float64(tan.Dot(normals[i]))); d > 1e-5 {
			t.Errorf("fallback tangent %d not perpendicular, dot=%g", i, d)
		}
	}
}

func TestArbitraryTangentAxes(t *testing.T) {
	for _, n := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, {Y: -1}, {Z: -1}} {
		tan := arbitraryTangent(n)
		if d := stdmath.Abs(float64(tan.Dot(n))); d > 1e-5 {
			t.Errorf("arbitraryTangent(%+v) not perpendicular, dot=%g", n, d)
		}
		if l := tan.Length(); stdmath.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("arbitraryTangent(%+v) not unit length: %g", n, l)
		}
	}
}
