package ntf

import (
	"bytes"
	"errors"
	"testing"
)

// Helpers for building synthetic NTF buffers.

func chunkEntry(kind Kind, name string, payload []byte) []byte {
	body := NewWriter()
	body.U8(uint8(kind))
	body.Str(name)
	body.Write(payload)

	w := NewWriter()
	w.U8(flagChunk)
	w.U32(uint32(body.Len() + 4))
	w.Write(body.Bytes())
	return w.Bytes()
}

func childEntry(childType int32, inner []byte) []byte {
	w := NewWriter()
	w.U8(flagChild)
	w.U32(uint32(4 + 4 + len(inner)))
	w.I32(childType)
	w.Write(inner)
	return w.Bytes()
}

func i32le(v int32) []byte {
	w := NewWriter()
	w.I32(v)
	return w.Bytes()
}

func ntfFile(entries ...[]byte) []byte {
	buf := append([]byte{}, Magic...)
	for _, e := range entries {
		buf = append(buf, e...)
	}
	return buf
}

func TestParse_MagicValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid magic", ntfFile(), nil},
		{"wrong magic", []byte{'G', 'R', 'S', 'M'}, ErrInvalidMagic},
		{"one byte off", []byte{0x9F, 0x99, 0x66, 0xF7}, ErrInvalidMagic},
		{"empty data", []byte{}, ErrTruncatedData},
		{"short data", []byte{0x9F, 0x99}, ErrTruncatedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Parse() error = %v, want nil", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MinimalFile(t *testing.T) {
	// One int32 chunk named "Test" holding 42. Entry payload is
	// kind(1) + name_len(4) + "Test"(4) + value(4) = 13 bytes, so the
	// size field reads 17 and the whole file is 22 bytes.
	data := ntfFile(chunkEntry(KindInt32, "Test", i32le(42)))
	if len(data) != 22 {
		t.Fatalf("fixture length = %d, want 22", len(data))
	}

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if root.HasType {
		t.Error("synthetic root should carry no type tag")
	}
	chunks := root.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Name != "Test" {
		t.Errorf("chunk name = %q, want %q", chunks[0].Name, "Test")
	}
	if v, ok := chunks[0].Value.(Int32); !ok || v != 42 {
		t.Errorf("chunk value = %#v, want Int32(42)", chunks[0].Value)
	}

	if got := Serialize(root); !bytes.Equal(got, data) {
		t.Errorf("re-serialized file differs:\n got %x\nwant %x", got, data)
	}
}

func TestParse_EntryOrderPreserved(t *testing.T) {
	data := ntfFile(
		chunkEntry(KindInt32, "A", i32le(1)),
		childEntry(10, chunkEntry(KindInt32, "X", i32le(0))),
		chunkEntry(KindInt32, "B", i32le(2)),
		childEntry(20, nil),
	)

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var shape []string
	for _, e := range root.Entries {
		if e.Chunk != nil {
			shape = append(shape, "chunk:"+e.Chunk.Name)
		} else {
			shape = append(shape, "child")
		}
	}
	want := []string{"chunk:A", "child", "chunk:B", "child"}
	if len(shape) != len(want) {
		t.Fatalf("entries = %v, want %v", shape, want)
	}
	for i := range want {
		if shape[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, shape[i], want[i])
		}
	}

	if got := Serialize(root); !bytes.Equal(got, data) {
		t.Error("interleaved entries do not round-trip byte-for-byte")
	}
}

func TestParse_NestedChildren(t *testing.T) {
	inner := chunkEntry(KindText, "Name", []byte("leaf"))
	data := ntfFile(
		chunkEntry(KindInt32, "Type", i32le(1)),
		childEntry(NodeShader, childEntry(5, inner)),
	)

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	children := root.Children()
	if len(children) != 1 || children[0].Type != NodeShader {
		t.Fatalf("expected one shader child, got %d", len(children))
	}
	grand := children[0].Children()
	if len(grand) != 1 || grand[0].Type != 5 {
		t.Fatalf("expected one nested child of type 5")
	}
	if name, _ := grand[0].Str("Name"); name != "leaf" {
		t.Errorf("nested Name = %q, want %q", name, "leaf")
	}

	if got := Serialize(root); !bytes.Equal(got, data) {
		t.Error("nested tree does not round-trip byte-for-byte")
	}
}

func TestParse_WrapperCollapsing(t *testing.T) {
	// A single typed child with no sibling chunks is collapsed into the
	// root; Serialize re-wraps it because the root keeps its type tag.
	inner := append(
		chunkEntry(KindText, "Name", []byte("model")),
		chunkEntry(KindInt32, "Type", i32le(1))...)
	data := ntfFile(childEntry(-1, inner))

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !root.HasType || root.Type != -1 {
		t.Errorf("collapsed root type = (%v, %d), want (true, -1)", root.HasType, root.Type)
	}
	if name, _ := root.Str("Name"); name != "model" {
		t.Errorf("root Name = %q, want %q", name, "model")
	}

	if got := Serialize(root); !bytes.Equal(got, data) {
		t.Errorf("wrapped file does not round-trip:\n got %x\nwant %x", got, data)
	}
}

func TestParse_NoCollapseWithSiblingChunk(t *testing.T) {
	data := ntfFile(
		chunkEntry(KindText, "AniFileName", nil),
		childEntry(-254, nil),
	)

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if root.HasType {
		t.Error("root with a sibling chunk must not be collapsed")
	}
	if got := Serialize(root); !bytes.Equal(got, data) {
		t.Error("unwrapped file does not round-trip byte-for-byte")
	}
}

func TestParse_UnknownFlagSkipped(t *testing.T) {
	skip := NewWriter()
	skip.U8(7)
	skip.U32(9) // size field + 5 payload bytes
	skip.Write([]byte{1, 2, 3, 4, 5})

	data := ntfFile(skip.Bytes(), chunkEntry(KindInt32, "After", i32le(1)))

	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(root.Entries) != 1 {
		t.Fatalf("entry count = %d, want 1 (unknown entry skipped)", len(root.Entries))
	}
	if v, _ := root.Int("After"); v != 1 {
		t.Error("entry after the skipped one was not parsed")
	}
}

func TestParse_MalformedSize(t *testing.T) {
	bad := NewWriter()
	bad.U8(flagChunk)
	bad.U32(2) // smaller than the size field itself

	_, err := Parse(ntfFile(bad.Bytes()))
	if !errors.Is(err, ErrMalformedEntry) {
		t.Errorf("Parse() error = %v, want ErrMalformedEntry", err)
	}
}

func TestParse_TruncatedScalarChunk(t *testing.T) {
	entry := chunkEntry(KindMat4, "Transform", make([]byte, 8)) // needs 64
	_, err := Parse(ntfFile(entry))
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("Parse() error = %v, want ErrTruncatedData", err)
	}
}

func TestParse_OvercountedTextSize(t *testing.T) {
	// A declared size past the end of the buffer clamps; the text chunk
	// absorbs what is actually there.
	body := NewWriter()
	body.U8(uint8(KindText))
	body.Str("Name")
	body.Write([]byte("ab"))

	w := NewWriter()
	w.U8(flagChunk)
	w.U32(uint32(body.Len() + 4 + 50)) // overcounted
	w.Write(body.Bytes())

	root, err := Parse(ntfFile(w.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if name, _ := root.Str("Name"); name != "ab" {
		t.Errorf("text = %q, want %q", name, "ab")
	}
}

func TestVerify(t *testing.T) {
	data := ntfFile(chunkEntry(KindInt32, "Test", i32le(42)))
	root, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !Verify(data, root) {
		t.Error("Verify() = false for an unmodified tree")
	}

	root.SetChunkValue("Test", Int32(43))
	if Verify(data, root) {
		t.Error("Verify() = true after a mutation")
	}
}
