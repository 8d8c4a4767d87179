package whisper

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadHeaderPreservesPosition(t *testing.T) {
	c := newMemContainer()
	w, err := CreateContainer(c, newTestArchives())
	require.NoError(t, err)
	_ = w

	_, err = c.Seek(5, io.SeekStart)
	require.NoError(t, err)

	_, err = readHeader(c)
	require.NoError(t, err)

	pos, err := c.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(5), pos)
}

func TestReadHeaderTruncatedFileIsCorrupt(t *testing.T) {
	c := newMemContainer()
	_, err := c.Write([]byte{0, 0, 0, 1})

	require.NoError(t, err)

	_, err = readHeader(c)
	require.Error(t, err)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, CorruptFile, werr.Kind)
}
