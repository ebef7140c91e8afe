package convert

import (
	stdmath "math"

	"github.com/Faultbox/antaloor-vdf/pkg/math"
)

// ComputeTangents derives per-vertex tangents from triangle geometry
// using the UV-space tangent derivation, accumulated per vertex and
// then Gram-Schmidt orthogonalized against the vertex normal.
func ComputeTangents(positions, normals []math.Vec3, uvs []math.Vec2, indices []uint16) []math.Vec3 {
	accum := make([]math.Vec3, len(positions))

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			continue
		}

		e1 := positions[i1].Sub(positions[i0])
		e2 := positions[i2].Sub(positions[i0])

		du1 := uvs[i1].X - uvs[i0].X
		dv1 := uvs[i1].Y - uvs[i0].Y
		du2 := uvs[i2].X - uvs[i0].X
		dv2 := uvs[i2].Y - uvs[i0].Y

		denom := du1*dv2 - du2*dv1
		if stdmath.Abs(float64(denom)) < 1e-10 {
			// Degenerate UV triangle
			continue
		}
		r := 1.0 / denom

		tan := math.Vec3{
			X: (dv2*e1.X - dv1*e2.X) * r,
			Y: (dv2*e1.Y - dv1*e2.Y) * r,
			Z: (dv2*e1.Z - dv1*e2.Z) * r,
		}
		accum[i0] = accum[i0].Add(tan)
		accum[i1] = accum[i1].Add(tan)
		accum[i2] = accum[i2].Add(tan)
	}

	tangents := make([]math.Vec3, len(positions))
	for i := range tangents {
		n := normals[i]
		t := accum[i]

		// Gram-Schmidt: t' = normalize(t - n * dot(n, t))
		t = t.Sub(n.Scale(n.Dot(t)))
		if t.Length() > 1e-10 {
			tangents[i] = t.Normalize()
		} else {
			tangents[i] = arbitraryTangent(n)
		}
	}
	return tangents
}

// arbitraryTangent picks any unit vector perpendicular to the normal,
// used when a vertex has no usable UV gradient.
func arbitraryTangent(n math.Vec3) math.Vec3 {
	ax := stdmath.Abs(float64(n.X))
	ay := stdmath.Abs(float64(n.Y))
	az := stdmath.Abs(float64(n.Z))

	var up math.Vec3
	switch {
	case ax < ay && ax < az:
		up = math.Vec3{X: 1}
	case ay < az:
		up = math.Vec3{Y: 1}
	default:
		up = math.Vec3{Z: 1}
	}

	t := up.Cross(n)
	if t.Length() > 1e-10 {
		return t.Normalize()
	}
	return math.Vec3{X: 1}
}
