package whisper

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemContainerReadWriteSeek(t *testing.T) {
	c := newMemContainer()

	n, err := c.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	pos, err := c.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.Zero(t, pos)

	buf := make([]byte, 5)
	n, err = c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(buf))

	_, err = c.Read(buf)
	require.ErrorIs(t, err, io.EOF)
}

func TestMemContainerSeekWhences(t *testing.T) {
	c := newMemContainer()
	_, err := c.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := c.Seek(-3, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(7), pos)

	pos, err = c.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(9), pos)

	_, err = c.Seek(-100, io.SeekStart)
	require.Error(t, err)
}

func TestMemContainerTruncate(t *testing.T) {
	c := newMemContainer()
	_, err := c.Write([]byte("0123456789"))
	require.NoError(t, err)

	require.NoError(t, c.Truncate(4))
	require.Len(t, c.buf, 4)

	require.NoError(t, c.Truncate(8))
	require.Len(t, c.buf, 8)

	require.Error(t, c.Truncate(-1))
}
