package whisper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestArchiveViewUpdateAndEachPoint(t *testing.T) {
	archives := []ArchiveInfo{{SecondsPerPoint: 1, Points: 10}}

	c := newMemContainer()
	w, err := CreateContainer(c, archives, WithXFilesFactor(0))
	require.NoError(t, err)

	now := uint32(time.Now().Unix())
	base := now - 5

	view := w.Archives()[0]
	require.NoError(t, view.Update(
		Point{Timestamp: base + 2, Value: 3},
		Point{Timestamp: base, Value: 1},
		Point{Timestamp: base + 1, Value: 2},
	))

	written := map[uint32]float64{}

	err = view.EachPoint(func(p Point) error {
		if p.Timestamp != 0 {
			written[p.Timestamp] = p.Value
		}

		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 1.0, written[base])
	require.Equal(t, 2.0, written[base+1])
	require.Equal(t, 3.0, written[base+2])
}

func TestArchiveViewInfo(t *testing.T) {
	archives := []ArchiveInfo{
		{SecondsPerPoint: 60, Points: 60},
		{SecondsPerPoint: 300, Points: 13},
	}

	c := newMemContainer()
	w, err := CreateContainer(c, archives)
	require.NoError(t, err)

	views := w.Archives()
	require.Len(t, views, 2)
	require.Equal(t, uint32(60), views[0].Info().SecondsPerPoint())
	require.Equal(t, uint32(300), views[1].Info().SecondsPerPoint())
}
