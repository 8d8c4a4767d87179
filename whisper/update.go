package whisper

import "sort"

// Update writes a single point, cascading the write down through every
// coarser archive via propagation until an archive reports it doesn't
// have enough known data to aggregate (which is not itself an error).
func (w *Whisper) Update(point Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen("Update"); err != nil {
		return err
	}

	now := nowSeconds()

	age := now - point.Timestamp
	if age >= w.header.Metadata.MaxRetention {
		return errf("Update", TimestampNotCovered,
			"timestamp %d is %d seconds old, older than max retention %d",
			point.Timestamp, age, w.header.Metadata.MaxRetention)
	}

	archiveIndex, ok := w.selectArchiveIndexStrict(age)
	if !ok {
		return errf("Update", TimestampNotCovered, "no archive covers age %d", age)
	}

	archive := w.header.Archives[archiveIndex]
	quantized := point.Timestamp - point.Timestamp%archive.SecondsPerPoint

	if err := w.writePoint(archive, Point{Timestamp: quantized, Value: point.Value}); err != nil {
		return err
	}

	higher := archive

	for _, lower := range w.header.Archives[archiveIndex+1:] {
		more, err := w.propagate(quantized, higher, lower)
		if err != nil {
			return err
		}

		if !more {
			break
		}

		higher = lower
	}

	return w.maybeFlush("Update")
}

// selectArchiveIndexStrict returns the index of the finest archive whose
// retention strictly exceeds age, in declared order.
func (w *Whisper) selectArchiveIndexStrict(age uint32) (int, bool) {
	for i, a := range w.header.Archives {
		if a.Retention() > age {
			return i, true
		}
	}

	return 0, false
}

// UpdateMany writes many points in one pass, grouping them per archive and
// propagating the distinct quantized intervals each archive's batch
// covers down into every coarser archive. Points older than the coarsest
// archive's retention are silently dropped, matching the single-point
// Update's TimestampNotCovered semantics applied in bulk.
func (w *Whisper) UpdateMany(points []Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen("UpdateMany"); err != nil {
		return err
	}

	if len(points) == 0 {
		return nil
	}

	now := nowSeconds()

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })

	archiveIndex := 0
	var bucket []Point

	flush := func() error {
		if len(bucket) == 0 {
			return nil
		}

		chronological := make([]Point, len(bucket))
		for i, p := range bucket {
			chronological[len(bucket)-1-i] = p
		}

		if err := w.archiveUpdateMany(archiveIndex, chronological); err != nil {
			return err
		}

		bucket = bucket[:0]

		return nil
	}

	for _, p := range sorted {
		age := now - p.Timestamp

		for w.header.Archives[archiveIndex].Retention() < age {
			if err := flush(); err != nil {
				return err
			}

			archiveIndex++
			if archiveIndex >= len(w.header.Archives) {
				// Points older than the coarsest archive are dropped.
				return w.maybeFlush("UpdateMany")
			}
		}

		bucket = append(bucket, p)
	}

	if err := flush(); err != nil {
		return err
	}

	return w.maybeFlush("UpdateMany")
}

// archiveUpdateMany writes chronologically-sorted points (already
// filtered to archive archiveIndex's retention window) into that archive,
// splitting them into maximal runs of consecutive quantized intervals so
// each run can be written as one contiguous span, then propagates every
// distinct interval the batch touches down into coarser archives.
func (w *Whisper) archiveUpdateMany(archiveIndex int, points []Point) error {
	archive := w.header.Archives[archiveIndex]
	step := archive.SecondsPerPoint

	quantized := quantizeAll(points, step)
	runs := splitContiguousRuns(quantized, step)

	for _, run := range runs {
		if err := w.writeSpan(archive, run[0].Timestamp, encodePoints(run)); err != nil {
			return err
		}
	}

	higher := archive

	for _, lower := range w.header.Archives[archiveIndex+1:] {
		intervals := distinctQuantizedIntervals(points, lower.SecondsPerPoint)

		cascaded := true

		for _, interval := range intervals {
			more, err := w.propagate(interval, higher, lower)
			if err != nil {
				return err
			}

			if !more {
				cascaded = false
				break
			}
		}

		if !cascaded {
			break
		}

		higher = lower
	}

	return nil
}

// quantizeAll rounds every point's timestamp down to a multiple of step.
// points arrives in chronological (oldest-first) order; when two points
// collapse onto the same quantized interval, the later (newer) one wins,
// same as two single-point Update calls at the same interval would.
func quantizeAll(points []Point, step uint32) []Point {
	index := make(map[uint32]int, len(points))

	var out []Point

	for _, p := range points {
		t := p.Timestamp - p.Timestamp%step

		if i, ok := index[t]; ok {
			out[i].Value = p.Value
			continue
		}

		index[t] = len(out)
		out = append(out, Point{Timestamp: t, Value: p.Value})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })

	return out
}

// splitContiguousRuns groups quantized, timestamp-ascending points into
// maximal runs whose intervals are consecutive multiples of step.
func splitContiguousRuns(points []Point, step uint32) [][]Point {
	var runs [][]Point

	var current []Point

	for _, p := range points {
		if len(current) > 0 && p.Timestamp != current[len(current)-1].Timestamp+step {
			runs = append(runs, current)
			current = nil
		}

		current = append(current, p)
	}

	if len(current) > 0 {
		runs = append(runs, current)
	}

	return runs
}

// distinctQuantizedIntervals returns, in ascending order, the distinct
// intervals points would quantize to at the given step.
func distinctQuantizedIntervals(points []Point, step uint32) []uint32 {
	seen := make(map[uint32]bool, len(points))

	var out []uint32

	for _, p := range points {
		t := p.Timestamp - p.Timestamp%step
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func (w *Whisper) maybeFlush(op string) error {
	if !w.autoFlush {
		return nil
	}

	if err := w.container.Sync(); err != nil {
		return newErr(op, IOError, err)
	}

	return nil
}

// UpdateVariadic is the canonical adapter for the legacy "any mixture of
// scalar pairs and nested lists" call surface: it accepts any number of
// Point and []Point arguments, flattens them once, and routes to Update
// for a single point or UpdateMany for more than one. An empty result is
// a no-op.
func UpdateVariadic(w *Whisper, args ...interface{}) error {
	var flat []Point

	for _, arg := range args {
		switch v := arg.(type) {
		case Point:
			flat = append(flat, v)
		case []Point:
			flat = append(flat, v...)
		default:
			return errf("Update", InvalidConfiguration, "unsupported update argument type %T", arg)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return w.Update(flat[0])
	default:
		return w.UpdateMany(flat)
	}
}
