package whisper

import (
	"encoding/binary"
	"math"
)

func decodeFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(buf))
}

func encodeFloat32(buf []byte, v float32) {
	binary.BigEndian.PutUint32(buf, math.Float32bits(v))
}

func decodeFloat64(buf []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(buf))
}

func encodeFloat64(buf []byte, v float64) {
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
}
