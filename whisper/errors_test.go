package whisper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorUnwrapAndIs(t *testing.T) {
	sentinel := errors.New("disk is gone")
	werr := newErr("Open", IOError, sentinel)

	require.ErrorIs(t, werr, sentinel)

	var target *Error
	require.ErrorAs(t, werr, &target)
	require.Equal(t, IOError, target.Kind)
	require.Equal(t, "Open", target.Op)
}

func TestErrfHasNoCauseOtherThanMessage(t *testing.T) {
	werr := errf("ValidateArchiveList", InvalidConfiguration, "bad archive %d", 3)
	require.Contains(t, werr.Error(), "bad archive 3")
	require.Contains(t, werr.Error(), "invalid configuration")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "corrupt file", CorruptFile.String())
	require.Equal(t, "unknown error", Kind(0).String())
}
