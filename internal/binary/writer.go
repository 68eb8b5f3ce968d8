package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Writer provides buffered writing utilities for mixed text and binary output.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Grow ensures room for another n bytes.
func (w *Writer) Grow(n int) {
	w.buf.Grow(n)
}

// Linef writes a formatted line terminated by '\n'.
func (w *Writer) Linef(format string, args ...any) {
	fmt.Fprintf(w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// WriteU16LE writes a little-endian uint16 (fixed 2 bytes).
func (w *Writer) WriteU16LE(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteTo flushes the buffered bytes to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	return w.buf.WriteTo(dst)
}
