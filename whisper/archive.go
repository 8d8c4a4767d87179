package whisper

import (
	"io"
	"sort"
)

// ArchiveView is a non-owning reference to one of a Whisper handle's
// archives, addressed by index. It must not outlive the handle it came
// from. Archive descriptors are immutable after create, so holding just
// the index alongside the handle avoids any cyclic ownership.
type ArchiveView struct {
	w   *Whisper
	idx int
}

// Archives returns a view over every archive, finest first.
func (w *Whisper) Archives() []ArchiveView {
	views := make([]ArchiveView, len(w.header.Archives))
	for i := range w.header.Archives {
		views[i] = ArchiveView{w: w, idx: i}
	}

	return views
}

// Info returns the archive's retention shape.
func (v ArchiveView) Info() Retention {
	return Retention{info: v.w.header.Archives[v.idx]}
}

// Fetch reads this specific archive's series for [from, until), bypassing
// the finest-archive selection Whisper.Fetch performs.
func (v ArchiveView) Fetch(from, until uint32) (FetchResponse, error) {
	v.w.mu.Lock()
	defer v.w.mu.Unlock()

	if err := v.w.checkOpen("ArchiveView.Fetch"); err != nil {
		return FetchResponse{}, err
	}

	if !(from < until) {
		return FetchResponse{}, errf("ArchiveView.Fetch", InvalidTimeInterval,
			"invalid time interval: from %d must be before until %d", from, until)
	}

	archive := v.w.header.Archives[v.idx]
	step := archive.SecondsPerPoint
	fromInterval := (from - from%step) + step
	untilInterval := (until - until%step) + step
	numPoints := (untilInterval - fromInterval) / step

	base, err := v.w.readBasePoint(archive)
	if err != nil {
		return FetchResponse{}, err
	}

	if base.Timestamp == 0 {
		return FetchResponse{
			FromTime:  fromInterval,
			UntilTime: untilInterval,
			Step:      step,
			Values:    make([]*float64, numPoints),
		}, nil
	}

	fromOffset := pointOffset(archive, base, fromInterval)
	untilOffset := pointOffset(archive, base, untilInterval)

	points, err := v.w.readPointsBetweenOffsets(archive, fromOffset, untilOffset)
	if err != nil {
		return FetchResponse{}, err
	}

	values := make([]*float64, len(points))
	currentInterval := fromInterval

	for i, p := range points {
		if p.Timestamp == currentInterval {
			val := p.Value
			values[i] = &val
		}

		currentInterval += step
	}

	return FetchResponse{
		FromTime:  fromInterval,
		UntilTime: untilInterval,
		Step:      step,
		Values:    values,
	}, nil
}

// EachPoint walks every slot in this archive's ring, in physical (offset)
// order starting at the archive's base, calling fn with the raw decoded
// point (interval 0 for never-written slots). Stopping early is done by
// returning a non-nil error from fn, which EachPoint then returns as-is.
func (v ArchiveView) EachPoint(fn func(Point) error) error {
	v.w.mu.Lock()
	defer v.w.mu.Unlock()

	if err := v.w.checkOpen("ArchiveView.EachPoint"); err != nil {
		return err
	}

	archive := v.w.header.Archives[v.idx]

	buf := make([]byte, archive.Size())
	if _, err := v.w.container.Seek(int64(archive.Offset), 0); err != nil {
		return newErr("ArchiveView.EachPoint", IOError, err)
	}

	if _, err := io.ReadFull(v.w.container, buf); err != nil {
		return newErr("ArchiveView.EachPoint", IOError, err)
	}

	for _, p := range decodePoints(buf) {
		if err := fn(p); err != nil {
			return err
		}
	}

	return nil
}

// Update writes points directly into this archive's ring through the same
// per-archive batch write UpdateMany uses, skipping UpdateMany's age check
// and archive selection. Like that batch write, it then propagates the
// intervals it touched into every coarser archive.
func (v ArchiveView) Update(points ...Point) error {
	v.w.mu.Lock()
	defer v.w.mu.Unlock()

	if err := v.w.checkOpen("ArchiveView.Update"); err != nil {
		return err
	}

	if len(points) == 0 {
		return nil
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	return v.w.archiveUpdateMany(v.idx, sorted)
}
