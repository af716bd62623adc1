package store

// streaming.go wraps import readers to clean up spreadsheet exports without
// loading the whole file first:
//
//   - bomSkipper drops a leading UTF-8 BOM written by Excel on Windows
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - sizeLimiter fails the read once the configured size is exceeded
//
// wrapForImport applies them in the right order.

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrFileTooLarge is returned when an import exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// sanitizeChunkSize is how much the sanitizer reads from its source at once.
const sanitizeChunkSize = 32 * 1024

// utf8Sanitizer replaces invalid UTF-8 bytes with '?' on the fly.
// Incomplete multi-byte sequences at a read boundary are carried over to
// the next chunk. Cleaned bytes are buffered, so callers may read with a
// buffer of any size.
type utf8Sanitizer struct {
	reader  io.Reader
	chunk   []byte
	pending []byte
	out     []byte
	err     error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		reader:  r,
		chunk:   make([]byte, sanitizeChunkSize+utf8.UTFMax),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads the next chunk behind any carried-over bytes and cleans it.
// It is only called once out has been drained.
func (s *utf8Sanitizer) fill() {
	k := copy(s.chunk, s.pending)
	s.pending = s.pending[:0]

	n, err := s.reader.Read(s.chunk[k : k+sanitizeChunkSize])
	n += k
	s.err = err

	data := s.chunk[:n]
	if isAllASCII(data) {
		s.out = data
		return
	}
	s.out = data[:s.sanitize(data, err != nil)]
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// Unless atEOF, a trailing incomplete sequence is copied to pending.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTrailingBytes(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && !utf8.FullRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input.
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// incompleteTrailingBytes returns how many bytes at the end of data start a
// multi-byte sequence that is not yet complete.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a sequence starting with b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// bomSkipper drops the UTF-8 BOM (EF BB BF) if the stream starts with one.
type bomSkipper struct {
	reader  io.Reader
	checked bool
	buf     []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{reader: r}
}

func (r *bomSkipper) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		head := make([]byte, 3)
		n, err := io.ReadFull(r.reader, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			r.buf = head[:n]
		}
	}

	if len(r.buf) > 0 {
		n := copy(p, r.buf)
		r.buf = r.buf[n:]
		return n, nil
	}
	return r.reader.Read(p)
}

// sizeLimiter fails with ErrFileTooLarge once more than limit bytes are read.
// A limit of zero or less disables the check.
type sizeLimiter struct {
	reader    io.Reader
	limit     int64
	bytesRead int64
}

func (r *sizeLimiter) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	if r.limit > 0 && r.bytesRead > r.limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, r.limit)
	}
	return n, err
}

// wrapForImport applies BOM stripping, UTF-8 sanitising and the size limit.
// The BOM must go first so it is never seen as invalid text.
func wrapForImport(r io.Reader, limit int64) io.Reader {
	limited := &sizeLimiter{reader: r, limit: limit}
	return newUTF8Sanitizer(newBOMSkipper(limited))
}
