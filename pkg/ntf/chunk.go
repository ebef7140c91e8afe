package ntf

import "fmt"

// Kind identifies the payload encoding of a Chunk.
type Kind uint8

// Chunk kind tags as stored on disk.
const (
	KindInt32  Kind = 17
	KindUInt32 Kind = 18
	KindFloat  Kind = 19
	KindVec4   Kind = 20 // 4 x int32 when the chunk is named "LPos", else 4 x float32
	KindMat4   Kind = 21
	KindText   Kind = 22
	KindRaw    Kind = 23
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindUInt32:
		return "uint32"
	case KindFloat:
		return "float32"
	case KindVec4:
		return "float32[4]"
	case KindMat4:
		return "float32[16]"
	case KindText:
		return "text"
	case KindRaw:
		return "binary"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Value is the payload of a Chunk. The concrete type is determined by
// the chunk's Kind, except Kind 20 which holds Vec4I for chunks named
// "LPos" and Vec4F for every other name.
type Value interface {
	isValue()
}

// Int32 is the payload of a KindInt32 chunk.
type Int32 int32

// UInt32 is the payload of a KindUInt32 chunk.
type UInt32 uint32

// Float32 is the payload of a KindFloat chunk.
type Float32 float32

// Vec4F is the float arm of a KindVec4 chunk.
type Vec4F [4]float32

// Vec4I is the integer arm of a KindVec4 chunk (name "LPos" only).
type Vec4I [4]int32

// Mat4 is the payload of a KindMat4 chunk. The element order is opaque:
// it is round-tripped, never reinterpreted.
type Mat4 [16]float32

// Text is the payload of a KindText chunk.
type Text string

// Raw is the payload of a KindRaw chunk, and the forward-compatible
// fallback for unknown kinds.
type Raw []byte

func (Int32) isValue()   {}
func (UInt32) isValue()  {}
func (Float32) isValue() {}
func (Vec4F) isValue()   {}
func (Vec4I) isValue()   {}
func (Mat4) isValue()    {}
func (Text) isValue()    {}
func (Raw) isValue()     {}

// Chunk is a named, typed leaf value attached to a Node.
type Chunk struct {
	Kind  Kind
	Name  string
	Value Value
}

// NewChunk builds a chunk with the kind inferred from the value type.
// Vec4 name semantics follow the codec: use Vec4I only for LPos.
func NewChunk(name string, value Value) *Chunk {
	var kind Kind
	switch value.(type) {
	case Int32:
		kind = KindInt32
	case UInt32:
		kind = KindUInt32
	case Float32:
		kind = KindFloat
	case Vec4F, Vec4I:
		kind = KindVec4
	case Mat4:
		kind = KindMat4
	case Text:
		kind = KindText
	case Raw:
		kind = KindRaw
	}
	return &Chunk{Kind: kind, Name: name, Value: value}
}

// Clone deep-copies the chunk. Raw payloads are copied, not aliased, so
// a cloned chunk can be mutated independently of its source.
func (c *Chunk) Clone() *Chunk {
	out := &Chunk{Kind: c.Kind, Name: c.Name, Value: c.Value}
	if raw, ok := c.Value.(Raw); ok {
		cp := make(Raw, len(raw))
		copy(cp, raw)
		out.Value = cp
	}
	return out
}

// decodeChunk reads one chunk body (kind tag, length-prefixed name,
// kind-dependent payload) from r. end bounds the text/raw payloads; it
// is the entry's declared end, already clamped to the buffer.
func decodeChunk(r *Reader, end int) *Chunk {
	kind := Kind(r.U8())
	name := r.Str()
	c := &Chunk{Kind: kind, Name: name}
	switch kind {
	case KindInt32:
		c.Value = Int32(r.I32())
	case KindUInt32:
		c.Value = UInt32(r.U32())
	case KindFloat:
		c.Value = Float32(r.F32())
	case KindVec4:
		if name == "LPos" {
			var v Vec4I
			for i := range v {
				v[i] = r.I32()
			}
			c.Value = v
		} else {
			var v Vec4F
			for i := range v {
				v[i] = r.F32()
			}
			c.Value = v
		}
	case KindMat4:
		var v Mat4
		for i := range v {
			v[i] = r.F32()
		}
		c.Value = v
	case KindText:
		c.Value = Text(r.ReadTo(end))
	case KindRaw:
		c.Value = Raw(r.ReadTo(end))
	default:
		// Unknown kinds carry their payload through opaquely.
		c.Value = Raw(r.ReadTo(end))
	}
	return c
}

// encode writes the chunk body (kind tag, name, payload) to a fresh
// buffer. The Vec4 branch mirrors decodeChunk's name condition exactly;
// packing by runtime value type alone would be ambiguous for trees built
// from scratch.
func (c *Chunk) encode() []byte {
	w := NewWriter()
	w.U8(uint8(c.Kind))
	w.Str(c.Name)
	switch c.Kind {
	case KindInt32:
		w.I32(int32(c.Value.(Int32)))
	case KindUInt32:
		w.U32(uint32(c.Value.(UInt32)))
	case KindFloat:
		w.F32(float32(c.Value.(Float32)))
	case KindVec4:
		if c.Name == "LPos" {
			for _, v := range c.Value.(Vec4I) {
				w.I32(v)
			}
		} else {
			for _, v := range c.Value.(Vec4F) {
				w.F32(v)
			}
		}
	case KindMat4:
		for _, v := range c.Value.(Mat4) {
			w.F32(v)
		}
	case KindText:
		w.Write([]byte(c.Value.(Text)))
	case KindRaw:
		w.Write(c.Value.(Raw))
	default:
		w.Write(c.Value.(Raw))
	}
	return w.Bytes()
}
