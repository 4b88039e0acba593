/*
Package stream implements a positioned little-endian reader over a seekable
byte stream.

All fixed-width reads either fill completely or fail with
io.ErrUnexpectedEOF; a reader never hands back zeroed or partial values.
*/
package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var errSeekRange = errors.New("stream: seek outside of stream")

// Reader reads typed values from an io.ReadSeeker, tracking the current
// offset and the total size so that end-of-stream can be tested without
// attempting a read.
type Reader struct {
	r    io.ReadSeeker
	pos  int64
	size int64

	tmp [8]byte
}

// NewReader returns a Reader positioned at the start of rs.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{
		r:    rs,
		size: size,
	}, nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Size returns the total length of the stream.
func (r *Reader) Size() int64 {
	return r.size
}

// Offset returns the current position.
func (r *Reader) Offset() int64 {
	return r.pos
}

// EOF reports whether the current position is at or past the end.
func (r *Reader) EOF() bool {
	return r.pos >= r.size
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 {
	if r.pos >= r.size {
		return 0
	}
	return r.size - r.pos
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.pos += int64(n)
	return n, err
}

// Bytes reads exactly n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if int64(n) > r.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if err := readFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// String reads exactly n bytes and returns them as a string.
func (r *Reader) String(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) fill(n int) ([]byte, error) {
	if err := readFull(r, r.tmp[:n]); err != nil {
		return nil, err
	}
	return r.tmp[:n], nil
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian unsigned 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16 reads a little-endian signed 16-bit value.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 reads a little-endian unsigned 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian signed 32-bit value.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Float32 reads a little-endian IEEE 754 single precision value.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// ReadStruct decodes a fixed-size value, as understood by encoding/binary,
// in little-endian byte order.
func (r *Reader) ReadStruct(v interface{}) error {
	if n := binary.Size(v); n < 0 || int64(n) > r.Remaining() {
		return io.ErrUnexpectedEOF
	}
	err := binary.Read(r, binary.LittleEndian, v)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Skip advances the position by n bytes. It is an error to skip past the
// end of the stream.
func (r *Reader) Skip(n int64) error {
	return r.seek(r.pos + n)
}

// SeekTo moves to the absolute offset off.
func (r *Reader) SeekTo(off int64) error {
	return r.seek(off)
}

func (r *Reader) seek(off int64) error {
	if off < 0 {
		return errSeekRange
	}
	if off > r.size {
		return io.ErrUnexpectedEOF
	}
	pos, err := r.r.Seek(off, io.SeekStart)
	if err != nil {
		return err
	}
	r.pos = pos
	return nil
}
