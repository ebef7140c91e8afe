package ntf

import (
	"encoding/binary"
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/antaloor-vdf/pkg/math"
)

// Vertex buffer errors.
var (
	ErrVertexDataShort = errors.New("vertex data too short")
)

// VertexFormat1Stride is the record size of the canonical packed vertex
// layout: position 3xf32, normal UBYTE4N, tangent UBYTE4N, UV1 2xf32,
// UV2 2xf32 (lightmap).
const VertexFormat1Stride = 36

// Vertex is one decoded record of a Vertexes chunk. The fourth bytes of
// the packed normal and tangent are auxiliary data with no geometric
// meaning; they are carried through raw so a format-1 decode/encode
// cycle is byte-identical.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	NormalW  uint8
	Tangent  math.Vec3
	TangentW uint8
	UV1      math.Vec2
	UV2      math.Vec2
}

// Triangle is one face of an index buffer.
type Triangle [3]uint16

// PackUnit quantizes a [-1,1] component to an unsigned byte. Values
// outside the range clamp to [0,255], never wrap.
func PackUnit(x float32) uint8 {
	v := int(stdmath.Round(float64(x)*127 + 128))
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// UnpackUnit is the inverse affine map of PackUnit.
func UnpackUnit(b uint8) float32 {
	return float32(int(b)-128) / 127
}

// DecodeVertexFormat1 decodes count records of the canonical 36-byte
// layout. The buffer must hold at least count*36 bytes.
func DecodeVertexFormat1(raw []byte, count int) ([]Vertex, error) {
	if need := count * VertexFormat1Stride; len(raw) < need {
		return nil, fmt.Errorf("%w: %d < %d", ErrVertexDataShort, len(raw), need)
	}
	verts := make([]Vertex, count)
	for i := range verts {
		rec := raw[i*VertexFormat1Stride:]
		v := &verts[i]
		v.Position = readVec3(rec)
		v.Normal = math.Vec3{
			X: UnpackUnit(rec[12]),
			Y: UnpackUnit(rec[13]),
			Z: UnpackUnit(rec[14]),
		}
		v.NormalW = rec[15]
		v.Tangent = math.Vec3{
			X: UnpackUnit(rec[16]),
			Y: UnpackUnit(rec[17]),
			Z: UnpackUnit(rec[18]),
		}
		v.TangentW = rec[19]
		v.UV1 = readVec2(rec[20:])
		v.UV2 = readVec2(rec[28:])
	}
	return verts, nil
}

// DecodeVertexBuffer decodes a Vertexes chunk payload. Format 1 with a
// matching size uses the exact layout; anything else falls back to a
// stride-inferred best-effort decode that reads position, normal and UV
// only when the stride is large enough and substitutes defaults
// otherwise. The fallback is display-oriented: it does not recover
// tangents and is not byte-exact under re-encoding.
func DecodeVertexBuffer(raw []byte, count int, format int32) []Vertex {
	if count <= 0 {
		return nil
	}
	if format == 1 && len(raw) == count*VertexFormat1Stride {
		verts, _ := DecodeVertexFormat1(raw, count)
		return verts
	}
	stride := len(raw) / count
	if stride <= 0 {
		return nil
	}
	verts := make([]Vertex, count)
	for i := range verts {
		rec := raw[i*stride:]
		v := &verts[i]
		if stride >= 12 {
			v.Position = readVec3(rec)
		}
		if stride >= 20 {
			v.Normal = math.Vec3{
				X: UnpackUnit(rec[12]),
				Y: UnpackUnit(rec[13]),
				Z: UnpackUnit(rec[14]),
			}
			v.NormalW = rec[15]
		} else {
			v.Normal = math.Vec3{Y: 1}
		}
		if stride >= 28 {
			uvOff := 16
			if stride >= VertexFormat1Stride {
				uvOff = 20
			}
			v.UV1 = readVec2(rec[uvOff:])
		}
	}
	return verts
}

// EncodeVertexBuffer packs vertices into the canonical 36-byte layout.
// Normal and tangent components go through PackUnit; the auxiliary
// fourth bytes are written verbatim.
func EncodeVertexBuffer(verts []Vertex) []byte {
	buf := make([]byte, 0, len(verts)*VertexFormat1Stride)
	for i := range verts {
		v := &verts[i]
		buf = appendVec3(buf, v.Position)
		buf = append(buf,
			PackUnit(v.Normal.X), PackUnit(v.Normal.Y), PackUnit(v.Normal.Z), v.NormalW,
			PackUnit(v.Tangent.X), PackUnit(v.Tangent.Y), PackUnit(v.Tangent.Z), v.TangentW)
		buf = appendVec2(buf, v.UV1)
		buf = appendVec2(buf, v.UV2)
	}
	return buf
}

// DecodeIndexBuffer decodes a Faces chunk payload into triangles.
// declared is the NumFaces value, which counts indices, not triangles.
// The index count is clamped to what the buffer actually holds and a
// partial trailing triangle is dropped.
func DecodeIndexBuffer(raw []byte, declared int) []Triangle {
	if declared < 3 {
		return nil
	}
	count := declared
	if avail := len(raw) / 2; count > avail {
		count = avail
	}
	var tris []Triangle
	for i := 0; i+2 < count; i += 3 {
		tris = append(tris, Triangle{
			binary.LittleEndian.Uint16(raw[i*2:]),
			binary.LittleEndian.Uint16(raw[i*2+2:]),
			binary.LittleEndian.Uint16(raw[i*2+4:]),
		})
	}
	return tris
}

// EncodeIndexBuffer emits triangles as a flat little-endian uint16
// index stream.
func EncodeIndexBuffer(tris []Triangle) []byte {
	buf := make([]byte, 0, len(tris)*6)
	for _, t := range tris {
		for _, idx := range t {
			buf = binary.LittleEndian.AppendUint16(buf, idx)
		}
	}
	return buf
}

// EncodeIndices emits a flat index slice as little-endian uint16.
func EncodeIndices(indices []uint16) []byte {
	buf := make([]byte, 0, len(indices)*2)
	for _, idx := range indices {
		buf = binary.LittleEndian.AppendUint16(buf, idx)
	}
	return buf
}

// ComputeBounds returns the componentwise min/max of the positions as
// TMin/TMax 4-vectors with w fixed at 0. An empty mesh yields zeros.
func ComputeBounds(verts []Vertex) (Vec4F, Vec4F) {
	if len(verts) == 0 {
		return Vec4F{}, Vec4F{}
	}
	lo := verts[0].Position
	hi := verts[0].Position
	for i := 1; i < len(verts); i++ {
		lo = lo.Min(verts[i].Position)
		hi = hi.Max(verts[i].Position)
	}
	return Vec4F{lo.X, lo.Y, lo.Z, 0}, Vec4F{hi.X, hi.Y, hi.Z, 0}
}

func readVec3(b []byte) math.Vec3 {
	return math.Vec3{
		X: stdmath.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: stdmath.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: stdmath.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func readVec2(b []byte) math.Vec2 {
	return math.Vec2{
		X: stdmath.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: stdmath.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
	}
}

func appendVec3(buf []byte, v math.Vec3) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v.X))
	buf = binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v.Y))
	return binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v.Z))
}

func appendVec2(buf []byte, v math.Vec2) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v.X))
	return binary.LittleEndian.AppendUint32(buf, stdmath.Float32bits(v.Y))
}
