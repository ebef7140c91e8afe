package ntf

// Node type tags with known semantics.
const (
	NodeShader      int32 = -253
	NodeFrameDataA  int32 = -254
	NodeFrameDataB  int32 = -255
	NodeBBox        int32 = -252
	NodeFarLOD      int32 = -65535
	NodeLocatorType int32 = 5
)

// Entry is one ordered slot in a Node: either a Chunk or a child Node,
// never both. Sibling order is meaningless for lookup but load-bearing
// for serialization, so chunks and children share a single sequence.
type Entry struct {
	Chunk *Chunk
	Child *Node
}

// Node is a vertex of the NTF tree. A Node owns its chunks and children
// exclusively; trees are strict (no sharing, no cycles).
type Node struct {
	Type    int32
	HasType bool // false only for a synthetic root
	Entries []Entry
}

// NewNode returns an empty node carrying the given type tag.
func NewNode(nodeType int32) *Node {
	return &Node{Type: nodeType, HasType: true}
}

// NewRoot returns an empty synthetic root with no type tag.
func NewRoot() *Node {
	return &Node{}
}

// AddChunk appends a chunk entry, preserving call order.
func (n *Node) AddChunk(c *Chunk) {
	n.Entries = append(n.Entries, Entry{Chunk: c})
}

// AddChild appends a child entry, preserving call order.
func (n *Node) AddChild(child *Node) {
	n.Entries = append(n.Entries, Entry{Child: child})
}

// Chunks returns the node's chunks in entry order.
func (n *Node) Chunks() []*Chunk {
	var out []*Chunk
	for _, e := range n.Entries {
		if e.Chunk != nil {
			out = append(out, e.Chunk)
		}
	}
	return out
}

// Children returns the node's child nodes in entry order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, e := range n.Entries {
		if e.Child != nil {
			out = append(out, e.Child)
		}
	}
	return out
}

// Chunk returns the first chunk with the given name, or nil.
func (n *Node) Chunk(name string) *Chunk {
	for _, e := range n.Entries {
		if e.Chunk != nil && e.Chunk.Name == name {
			return e.Chunk
		}
	}
	return nil
}

// SetChunkValue replaces the value of the first chunk with the given
// name in place and reports whether one was found. It never inserts a
// new chunk.
func (n *Node) SetChunkValue(name string, value Value) bool {
	c := n.Chunk(name)
	if c == nil {
		return false
	}
	c.Value = value
	return true
}

// Int returns the value of the named Int32 chunk.
func (n *Node) Int(name string) (int32, bool) {
	if c := n.Chunk(name); c != nil {
		if v, ok := c.Value.(Int32); ok {
			return int32(v), true
		}
	}
	return 0, false
}

// Uint returns the value of the named UInt32 chunk. Some files store
// counts as int32, so that arm is accepted too.
func (n *Node) Uint(name string) (uint32, bool) {
	if c := n.Chunk(name); c != nil {
		switch v := c.Value.(type) {
		case UInt32:
			return uint32(v), true
		case Int32:
			return uint32(v), true
		}
	}
	return 0, false
}

// Float returns the value of the named Float chunk.
func (n *Node) Float(name string) (float32, bool) {
	if c := n.Chunk(name); c != nil {
		if v, ok := c.Value.(Float32); ok {
			return float32(v), true
		}
	}
	return 0, false
}

// Str returns the value of the named Text chunk.
func (n *Node) Str(name string) (string, bool) {
	if c := n.Chunk(name); c != nil {
		if v, ok := c.Value.(Text); ok {
			return string(v), true
		}
	}
	return "", false
}

// Bytes returns the payload of the named Raw chunk.
func (n *Node) Bytes(name string) ([]byte, bool) {
	if c := n.Chunk(name); c != nil {
		if v, ok := c.Value.(Raw); ok {
			return []byte(v), true
		}
	}
	return nil, false
}

// Vec4 returns the value of the named float-vector chunk.
func (n *Node) Vec4(name string) ([4]float32, bool) {
	if c := n.Chunk(name); c != nil {
		if v, ok := c.Value.(Vec4F); ok {
			return [4]float32(v), true
		}
	}
	return [4]float32{}, false
}

// Name returns the node's "Name" chunk value; font nodes use "FontName"
// instead.
func (n *Node) Name() string {
	if s, ok := n.Str("Name"); ok {
		return s
	}
	if s, ok := n.Str("FontName"); ok {
		return s
	}
	return ""
}

// IsMesh reports whether the node carries mesh geometry: Type == 1 and
// a Vertexes chunk.
func (n *Node) IsMesh() bool {
	t, ok := n.Int("Type")
	return ok && t == 1 && n.Chunk("Vertexes") != nil
}

// ShaderChild returns the node's shader/material child (type -253), or
// nil.
func (n *Node) ShaderChild() *Node {
	for _, child := range n.Children() {
		if child.HasType && child.Type == NodeShader {
			return child
		}
	}
	return nil
}

// Clone deep-copies the node, its chunks and its subtree.
func (n *Node) Clone() *Node {
	out := &Node{Type: n.Type, HasType: n.HasType}
	for _, e := range n.Entries {
		if e.Chunk != nil {
			out.AddChunk(e.Chunk.Clone())
		} else {
			out.AddChild(e.Child.Clone())
		}
	}
	return out
}

// Transplant replaces the node's entries with deep copies of the source
// node's entries. The node keeps its own position within its parent;
// only its content changes. Source and target stay independently
// mutable.
func (n *Node) Transplant(src *Node) {
	entries := make([]Entry, 0, len(src.Entries))
	for _, e := range src.Entries {
		if e.Chunk != nil {
			entries = append(entries, Entry{Chunk: e.Chunk.Clone()})
		} else {
			entries = append(entries, Entry{Child: e.Child.Clone()})
		}
	}
	n.Entries = entries
}

// FindNodes walks the subtree depth-first and collects every node for
// which pred returns true, the node itself included.
func FindNodes(n *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if pred(cur) {
			out = append(out, cur)
		}
		for _, child := range cur.Children() {
			walk(child)
		}
	}
	walk(n)
	return out
}

// FindShaders collects every shader node (type -253) in the subtree.
func FindShaders(root *Node) []*Node {
	return FindNodes(root, func(n *Node) bool {
		return n.HasType && n.Type == NodeShader
	})
}

// FindMeshNodes collects every geometry-bearing node in the subtree.
func FindMeshNodes(root *Node) []*Node {
	return FindNodes(root, (*Node).IsMesh)
}

// CountNodes returns the number of nodes in the subtree.
func CountNodes(n *Node) int {
	c := 1
	for _, child := range n.Children() {
		c += CountNodes(child)
	}
	return c
}
