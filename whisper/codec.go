package whisper

import (
	"encoding/binary"
)

// Fixed on-disk record widths, big-endian throughout.
const (
	metadataSize = 16 // u32 + u32 + f32 + u32
	archiveSize  = 12 // u32 + u32 + u32
	pointSize    = 12 // u32 + f64
)

// AggregationMethod is the on-disk aggregation code. Code 0 is reserved and
// invalid for new files, but is accepted (not rejected) when reading.
type AggregationMethod uint32

// Aggregation codes, as stored on disk.
const (
	Average AggregationMethod = 1
	Sum     AggregationMethod = 2
	Last    AggregationMethod = 3
	Max     AggregationMethod = 4
	Min     AggregationMethod = 5
)

func (m AggregationMethod) String() string {
	switch m {
	case Average:
		return "average"
	case Sum:
		return "sum"
	case Last:
		return "last"
	case Max:
		return "max"
	case Min:
		return "min"
	default:
		return "unknown"
	}
}

func parseAggregationMethod(name string) (AggregationMethod, bool) {
	switch name {
	case "average":
		return Average, true
	case "sum":
		return Sum, true
	case "last":
		return Last, true
	case "max":
		return Max, true
	case "min":
		return Min, true
	default:
		return 0, false
	}
}

// metadata is the 16-byte record at file offset 0.
type metadata struct {
	AggregationMethod uint32
	MaxRetention      uint32
	XFilesFactor      float32
	ArchiveCount      uint32
}

func decodeMetadata(buf []byte) metadata {
	return metadata{
		AggregationMethod: binary.BigEndian.Uint32(buf[0:4]),
		MaxRetention:      binary.BigEndian.Uint32(buf[4:8]),
		XFilesFactor:      decodeFloat32(buf[8:12]),
		ArchiveCount:      binary.BigEndian.Uint32(buf[12:16]),
	}
}

func encodeMetadata(m metadata) []byte {
	buf := make([]byte, metadataSize)
	binary.BigEndian.PutUint32(buf[0:4], m.AggregationMethod)
	binary.BigEndian.PutUint32(buf[4:8], m.MaxRetention)
	encodeFloat32(buf[8:12], m.XFilesFactor)
	binary.BigEndian.PutUint32(buf[12:16], m.ArchiveCount)

	return buf
}

// ArchiveInfo is the 12-byte descriptor record for one archive, stored
// immediately after the header in file-declared (finest-first) order.
type ArchiveInfo struct {
	Offset          uint32
	SecondsPerPoint uint32
	Points          uint32
}

// Retention returns the archive's retention window in seconds (S*N).
func (a ArchiveInfo) Retention() uint32 {
	return a.SecondsPerPoint * a.Points
}

// Size returns the archive's byte length (12*N).
func (a ArchiveInfo) Size() uint32 {
	return a.Points * pointSize
}

// End returns the absolute byte offset just past the archive's last point.
func (a ArchiveInfo) End() uint32 {
	return a.Offset + a.Size()
}

func decodeArchiveInfo(buf []byte) ArchiveInfo {
	return ArchiveInfo{
		Offset:          binary.BigEndian.Uint32(buf[0:4]),
		SecondsPerPoint: binary.BigEndian.Uint32(buf[4:8]),
		Points:          binary.BigEndian.Uint32(buf[8:12]),
	}
}

func encodeArchiveInfo(a ArchiveInfo) []byte {
	buf := make([]byte, archiveSize)
	binary.BigEndian.PutUint32(buf[0:4], a.Offset)
	binary.BigEndian.PutUint32(buf[4:8], a.SecondsPerPoint)
	binary.BigEndian.PutUint32(buf[8:12], a.Points)

	return buf
}

// Point is one 12-byte ring slot: an interval (0 means unwritten) and its
// value. The codec is total — any 12-byte slice decodes to a Point.
type Point struct {
	Timestamp uint32
	Value     float64
}

func decodePoint(buf []byte) Point {
	return Point{
		Timestamp: binary.BigEndian.Uint32(buf[0:4]),
		Value:     decodeFloat64(buf[4:12]),
	}
}

func encodePoint(p Point) []byte {
	buf := make([]byte, pointSize)
	binary.BigEndian.PutUint32(buf[0:4], p.Timestamp)
	encodeFloat64(buf[4:12], p.Value)

	return buf
}

// decodePoints walks buf as a sequence of pointSize-byte records.
func decodePoints(buf []byte) []Point {
	n := len(buf) / pointSize
	points := make([]Point, n)

	for i := 0; i < n; i++ {
		points[i] = decodePoint(buf[i*pointSize : (i+1)*pointSize])
	}

	return points
}

func encodePoints(points []Point) []byte {
	buf := make([]byte, len(points)*pointSize)

	for i, p := range points {
		copy(buf[i*pointSize:(i+1)*pointSize], encodePoint(p))
	}

	return buf
}
