package whisper

import (
	"io"
)

// Container is the random-access byte store a Whisper handle is built on.
// *os.File satisfies it directly; memContainer backs an equivalent
// in-memory buffer so tests don't need a real filesystem.
type Container interface {
	io.ReadWriteSeeker
	Truncate(size int64) error
	Sync() error
	Close() error
}

// memContainer is a Container backed by a growable in-memory buffer.
type memContainer struct {
	buf []byte
	pos int64
}

// newMemContainer returns an empty in-memory Container.
func newMemContainer() *memContainer {
	return &memContainer{}
}

func (m *memContainer) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memContainer) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}

	n := copy(m.buf[m.pos:end], p)
	m.pos = end

	return n, nil
}

func (m *memContainer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64

	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	default:
		return 0, newErr("Seek", IOError, errInvalidWhence)
	}

	if newPos < 0 {
		return 0, newErr("Seek", IOError, errNegativeSeek)
	}

	m.pos = newPos

	return m.pos, nil
}

func (m *memContainer) Truncate(size int64) error {
	if size < 0 {
		return newErr("Truncate", IOError, errNegativeSeek)
	}

	if size <= int64(len(m.buf)) {
		m.buf = m.buf[:size]
		return nil
	}

	grown := make([]byte, size)
	copy(grown, m.buf)
	m.buf = grown

	return nil
}

func (m *memContainer) Sync() error  { return nil }
func (m *memContainer) Close() error { return nil }

var (
	errInvalidWhence = simpleErr("invalid whence")
	errNegativeSeek  = simpleErr("negative position")
)

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
