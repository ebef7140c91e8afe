// Package ntf implements the NTF binary node-tree container used by
// Two Worlds model, material and animation-reference files (.vdf, .mtr,
// .chm, .chv, .xfn, .hor). A parsed tree re-serializes to the exact
// original byte sequence, including the original ordering of sibling
// entries.
package ntf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Cursor errors.
var (
	ErrTruncatedData = errors.New("truncated NTF data")
)

// Reader is a sequential little-endian cursor over a byte buffer.
// The first out-of-bounds read records a sticky error; subsequent reads
// return zero values. Callers check Err at structural boundaries.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first read error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the total buffer length.
func (r *Reader) Len() int {
	return len(r.data)
}

// AtEnd reports whether the cursor has reached the end of the buffer.
func (r *Reader) AtEnd() bool {
	return r.off >= len(r.data)
}

func (r *Reader) fail(n int) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedData, n, r.off, len(r.data)-r.off)
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.fail(n)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// U8 reads one byte.
func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// I32 reads a little-endian signed 32-bit integer.
func (r *Reader) I32() int32 {
	return int32(r.U32())
}

// U32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// F32 reads a little-endian 32-bit float.
func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Str reads a u32 length prefix followed by that many bytes. The bytes
// are returned as-is in the string so that names and text payloads
// round-trip exactly even when they are not clean ASCII.
func (r *Reader) Str() string {
	n := r.U32()
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

// Slice returns a new Reader over [offset, end) and advances this cursor
// to end. The boundary is clamped to the buffer, never an error.
func (r *Reader) Slice(end int) *Reader {
	return NewReader(r.ReadTo(end))
}

// ReadTo returns the raw bytes [offset, end) and advances to end. The
// boundary is clamped to the buffer, never an error.
func (r *Reader) ReadTo(end int) []byte {
	if end > len(r.data) {
		end = len(r.data)
	}
	if end < r.off {
		end = r.off
	}
	b := r.data[r.off:end]
	r.off = end
	return b
}

// Skip advances the cursor to end, clamped to the buffer.
func (r *Reader) Skip(end int) {
	r.ReadTo(end)
}

// Writer is a growable little-endian byte sink, the write-side mirror
// of Reader.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.buf = append(w.buf, b...)
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

// I32 appends a little-endian signed 32-bit integer.
func (w *Writer) I32(v int32) {
	w.U32(uint32(v))
}

// U32 appends a little-endian unsigned 32-bit integer.
func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// F32 appends a little-endian 32-bit float.
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// Str appends a u32 length prefix followed by the string bytes.
func (w *Writer) Str(s string) {
	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}
