package whisper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFineArchives() []ArchiveInfo {
	return []ArchiveInfo{
		{SecondsPerPoint: 1, Points: 120},
		{SecondsPerPoint: 10, Points: 60},
	}
}

func openFineWhisper(t *testing.T) *Whisper {
	t.Helper()

	c := newMemContainer()
	w, err := CreateContainer(c, newFineArchives(), WithXFilesFactor(0.5), WithAggregationMethod(Average))
	require.NoError(t, err)

	return w
}

func TestUpdateSlotLocality(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	ts := now - now%1 - 5

	require.NoError(t, w.Update(Point{Timestamp: ts, Value: 42}))

	resp, err := w.Fetch(ts - 2)
	require.NoError(t, err)

	found := false
	for _, v := range resp.Values {
		if v != nil && *v == 42 {
			found = true
		}
	}
	require.True(t, found, "written value should appear somewhere in the fetched window")
}

func TestUpdateOverwriteSameSlot(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	ts := now - 10

	require.NoError(t, w.Update(Point{Timestamp: ts, Value: 1}))
	require.NoError(t, w.Update(Point{Timestamp: ts, Value: 2}))

	resp, err := w.Fetch(ts - 1)
	require.NoError(t, err)

	var last *float64
	for _, v := range resp.Values {
		if v != nil {
			last = v
		}
	}

	require.NotNil(t, last)
	require.Equal(t, float64(2), *last)
}

func TestUpdateIdempotentWrite(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	ts := now - 10

	require.NoError(t, w.Update(Point{Timestamp: ts, Value: 7}))
	first, err := w.Fetch(ts - 1)
	require.NoError(t, err)

	require.NoError(t, w.Update(Point{Timestamp: ts, Value: 7}))
	second, err := w.Fetch(ts - 1)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestUpdateRingWrap(t *testing.T) {
	archives := []ArchiveInfo{{SecondsPerPoint: 1, Points: 5}}

	c := newMemContainer()
	w, err := CreateContainer(c, archives, WithXFilesFactor(0))
	require.NoError(t, err)

	now := uint32(time.Now().Unix())
	t0 := now - 10

	require.NoError(t, w.Update(Point{Timestamp: t0, Value: 100}))

	archive := w.header.Archives[0]
	base, err := w.readBasePoint(archive)
	require.NoError(t, err)
	firstOffset := pointOffset(archive, base, t0)

	t1 := t0 + archive.SecondsPerPoint*archive.Points
	require.NoError(t, w.Update(Point{Timestamp: t1, Value: 200}))

	secondOffset := pointOffset(archive, base, t1)
	require.Equal(t, firstOffset, secondOffset)
}

func TestUpdateRejectsTooOld(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	maxRetention := w.MaxRetention()

	err := w.Update(Point{Timestamp: now - maxRetention})
	require.Error(t, err)

	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, TimestampNotCovered, werr.Kind)

	require.NoError(t, w.Update(Point{Timestamp: now - maxRetention + 1, Value: 1}))
}

func TestUpdateManyGroupsContiguousRuns(t *testing.T) {
	w := openFineWhisper(t)

	now := uint32(time.Now().Unix())
	base := now - 50

	points := []Point{
		{Timestamp: base, Value: 1},
		{Timestamp: base + 1, Value: 2},
		{Timestamp: base + 2, Value: 3},
		{Timestamp: base + 10, Value: 99}, // disjoint run
	}

	require.NoError(t, w.UpdateMany(points))

	resp, err := w.Fetch(base - 1)
	require.NoError(t, err)

	want := map[uint32]float64{
		base:      1,
		base + 1:  2,
		base + 2:  3,
		base + 10: 99,
	}

	seen := map[uint32]float64{}
	cur := resp.FromTime
	for _, v := range resp.Values {
		if v != nil {
			seen[cur] = *v
		}
		cur += resp.Step
	}

	for ts, val := range want {
		got, ok := seen[ts]
		require.True(t, ok, "expected a value at %d", ts)
		require.Equal(t, val, got)
	}
}

func TestUpdateVariadic(t *testing.T) {
	w := openFineWhisper(t)
	now := uint32(time.Now().Unix())

	require.NoError(t, UpdateVariadic(w))
	require.NoError(t, UpdateVariadic(w, Point{Timestamp: now - 1, Value: 5}))
	require.NoError(t, UpdateVariadic(w, []Point{
		{Timestamp: now - 3, Value: 1},
		{Timestamp: now - 2, Value: 2},
	}))

	_, err := w.Fetch(now - 10)
	require.NoError(t, err)
}
