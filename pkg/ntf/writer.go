package ntf

import (
	"bytes"
	"fmt"
	"os"
)

// Serialize emits the tree as a complete NTF file buffer. For any tree
// produced by Parse the output is byte-identical to the original file.
func Serialize(root *Node) []byte {
	content := serializeNodeList(root)
	w := NewWriter()
	w.Write(Magic)
	// Parse collapses a single typed wrapper at the top; restore it so
	// the inverse holds. An untyped root is written as a bare list.
	if root.HasType {
		w.U8(flagChild)
		w.U32(uint32(4 + 4 + len(content)))
		w.I32(root.Type)
	}
	w.Write(content)
	return w.Bytes()
}

// SerializeFile writes the tree to disk as an NTF file.
func SerializeFile(path string, root *Node) error {
	if err := os.WriteFile(path, Serialize(root), 0644); err != nil {
		return fmt.Errorf("writing NTF file: %w", err)
	}
	return nil
}

// serializeNodeList emits the node's entries in stored order.
func serializeNodeList(node *Node) []byte {
	w := NewWriter()
	for _, e := range node.Entries {
		if e.Chunk != nil {
			body := e.Chunk.encode()
			w.U8(flagChunk)
			w.U32(uint32(len(body) + 4))
			w.Write(body)
		} else {
			body := serializeNodeList(e.Child)
			w.U8(flagChild)
			w.U32(uint32(4 + 4 + len(body)))
			childType := int32(-1) // sentinel for trees built from scratch
			if e.Child.HasType {
				childType = e.Child.Type
			}
			w.I32(childType)
			w.Write(body)
		}
	}
	return w.Bytes()
}

// Verify re-serializes the tree and reports whether the result matches
// the original buffer byte-for-byte.
func Verify(original []byte, root *Node) bool {
	return bytes.Equal(original, Serialize(root))
}
