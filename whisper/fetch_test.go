package whisper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchEmptyArchiveReturnsAllUnknown(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	resp, err := w.Fetch(now - 20)
	require.NoError(t, err)

	for _, v := range resp.Values {
		require.Nil(t, v)
	}
}

func TestFetchClampsToMaxRetention(t *testing.T) {
	w := openFineWhisper(t)

	maxRetention := w.MaxRetention()
	resp, err := w.Fetch(0)
	require.NoError(t, err)

	now := uint32(time.Now().Unix())
	oldest := now - maxRetention
	step := resp.Step

	require.LessOrEqual(t, oldest, resp.FromTime+step)
}

func TestFetchInvalidInterval(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())

	_, err := w.Fetch(now, now-10)
	require.Error(t, err)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, InvalidTimeInterval, werr.Kind)
}
