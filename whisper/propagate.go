package whisper

import "go.uber.org/zap"

// propagate recomputes lower's slot covering timestamp (already quantized
// to higher.SecondsPerPoint) from higher's neighborhood, gated by the
// handle's x-files-factor. It returns false (with a nil error) when there
// isn't enough known data to write — that halts further cascading in the
// caller, it is not a failure.
func (w *Whisper) propagate(timestamp uint32, higher, lower ArchiveInfo) (bool, error) {
	lowerStart := timestamp - timestamp%lower.SecondsPerPoint

	higherBase, err := w.readBasePoint(higher)
	if err != nil {
		return false, err
	}

	var higherFirstOffset uint32
	if higherBase.Timestamp == 0 {
		higherFirstOffset = higher.Offset
	} else {
		higherFirstOffset = pointOffset(higher, higherBase, lowerStart)
	}

	pointsPerBucket := lower.SecondsPerPoint / higher.SecondsPerPoint
	windowBytes := pointsPerBucket * pointSize

	relativeFirst := higherFirstOffset - higher.Offset
	relativeLast := (relativeFirst + windowBytes) % higher.Size()
	higherLastOffset := higher.Offset + relativeLast

	points, err := w.readPointsBetweenOffsets(higher, higherFirstOffset, higherLastOffset)
	if err != nil {
		return false, err
	}

	var known []float64

	currentInterval := lowerStart
	for _, p := range points {
		if p.Timestamp == currentInterval {
			known = append(known, p.Value)
		}

		currentInterval += higher.SecondsPerPoint
	}

	total := len(points)
	if len(known) == 0 {
		return false, nil
	}

	if float32(len(known))/float32(total) < w.header.Metadata.XFilesFactor {
		w.log.Debug("propagation gated by x-files-factor",
			zap.Uint32("interval", lowerStart),
			zap.Int("known", len(known)),
			zap.Int("total", total),
			zap.Float32("xFilesFactor", w.header.Metadata.XFilesFactor))

		return false, nil
	}

	value, err := aggregate(AggregationMethod(w.header.Metadata.AggregationMethod), known)
	if err != nil {
		return false, err
	}

	if err := w.writePoint(lower, Point{Timestamp: lowerStart, Value: value}); err != nil {
		return false, err
	}

	return true, nil
}
