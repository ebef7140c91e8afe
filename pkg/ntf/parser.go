package ntf

import (
	"errors"
	"fmt"
	"os"
)

// Magic is the 4-byte header every NTF file starts with.
var Magic = []byte{0x9F, 0x99, 0x66, 0xF6}

// Entry flags preceding every size field.
const (
	flagChunk = 1
	flagChild = 2
)

// Parse errors. Truncation anywhere, including a file shorter than the
// magic, reports the cursor's ErrTruncatedData.
var (
	ErrInvalidMagic   = errors.New("invalid NTF magic")
	ErrMalformedEntry = errors.New("malformed NTF entry")
)

// Parse parses a complete NTF file buffer and returns the root node.
// Redundant single-child wrapper levels at the top are collapsed so
// callers find real content at a predictable depth; Serialize restores
// them. No partial tree is returned on error.
func Parse(data []byte) (*Node, error) {
	if len(data) < len(Magic) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedData, len(data))
	}
	for i, b := range Magic {
		if data[i] != b {
			return nil, fmt.Errorf("%w: got % x, want % x", ErrInvalidMagic, data[:4], Magic)
		}
	}

	root := NewRoot()
	if err := parseNodeList(NewReader(data[len(Magic):]), root); err != nil {
		return nil, err
	}

	for {
		children := root.Children()
		if len(children) != 1 || len(root.Chunks()) != 0 {
			break
		}
		root = children[0]
	}
	return root, nil
}

// ParseFile reads and parses an NTF file from disk.
func ParseFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading NTF file: %w", err)
	}
	return Parse(data)
}

// parseNodeList consumes entries until the reader's end boundary,
// appending them to node. Each entry is a 1-byte flag and a u32 size
// counting from the start of the size field to the end of the entry.
func parseNodeList(r *Reader, node *Node) error {
	for !r.AtEnd() {
		flag := r.U8()
		start := r.Offset()
		size := r.U32()
		if r.Err() != nil {
			return fmt.Errorf("entry header at offset %d: %w", start, r.Err())
		}
		if size < 4 {
			// A size that does not cover its own field would walk the
			// cursor backwards.
			return fmt.Errorf("%w: size %d at offset %d", ErrMalformedEntry, size, start)
		}
		end := start + int(size)
		if end > r.Len() {
			end = r.Len()
		}
		switch flag {
		case flagChunk:
			c := decodeChunk(r, end)
			if r.Err() != nil {
				return fmt.Errorf("chunk %q at offset %d: %w", c.Name, start, r.Err())
			}
			node.AddChunk(c)
		case flagChild:
			childType := r.I32()
			if r.Err() != nil {
				return fmt.Errorf("child header at offset %d: %w", start, r.Err())
			}
			child := NewNode(childType)
			if err := parseNodeList(r.Slice(end), child); err != nil {
				return err
			}
			node.AddChild(child)
		default:
			// Unknown flags are tolerated and skipped.
			r.Skip(end)
		}
	}
	return nil
}
