package whisper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointRoundTrip(t *testing.T) {
	cases := []Point{
		{Timestamp: 0, Value: 0},
		{Timestamp: 1, Value: 1.5},
		{Timestamp: math.MaxUint32, Value: -123.456},
		{Timestamp: 1700000000, Value: math.Inf(1)},
		{Timestamp: 1700000000, Value: math.Inf(-1)},
	}

	for _, p := range cases {
		got := decodePoint(encodePoint(p))
		require.Equal(t, p, got)
	}
}

func TestDecodePointsTotal(t *testing.T) {
	buf := make([]byte, pointSize*3)
	points := decodePoints(buf)
	require.Len(t, points, 3)

	for _, p := range points {
		require.Zero(t, p.Timestamp)
		require.Zero(t, p.Value)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	m := metadata{
		AggregationMethod: uint32(Average),
		MaxRetention:      86400,
		XFilesFactor:      0.5,
		ArchiveCount:      2,
	}

	got := decodeMetadata(encodeMetadata(m))
	require.Equal(t, m, got)
}

func TestArchiveInfoRoundTrip(t *testing.T) {
	a := ArchiveInfo{Offset: 28, SecondsPerPoint: 60, Points: 1440}

	got := decodeArchiveInfo(encodeArchiveInfo(a))
	require.Equal(t, a, got)
	require.Equal(t, uint32(60*1440), a.Retention())
	require.Equal(t, uint32(1440*pointSize), a.Size())
	require.Equal(t, a.Offset+a.Size(), a.End())
}

func TestAggregationMethodString(t *testing.T) {
	require.Equal(t, "average", Average.String())
	require.Equal(t, "sum", Sum.String())
	require.Equal(t, "last", Last.String())
	require.Equal(t, "max", Max.String())
	require.Equal(t, "min", Min.String())
	require.Equal(t, "unknown", AggregationMethod(0).String())
}

func TestParseAggregationMethod(t *testing.T) {
	m, ok := parseAggregationMethod("sum")
	require.True(t, ok)
	require.Equal(t, Sum, m)

	_, ok = parseAggregationMethod("bogus")
	require.False(t, ok)
}
