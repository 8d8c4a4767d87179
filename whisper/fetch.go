package whisper

// FetchResponse is the result of Fetch: a dense value series over
// [FromTime, UntilTime) at Step-second resolution, with nil entries at
// "unknown" slots (never written, or overwritten by a later ring wrap).
type FetchResponse struct {
	FromTime  uint32
	UntilTime uint32
	Step      uint32
	Values    []*float64
}

// Fetch returns the stored series between from and until (exclusive),
// selecting the finest archive whose retention covers the window. until
// defaults to the current time when no argument is given; passing more
// than one is a programmer error and only the first is used.
func (w *Whisper) Fetch(from uint32, until ...uint32) (FetchResponse, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen("Fetch"); err != nil {
		return FetchResponse{}, err
	}

	now := nowSeconds()
	untilTime := now

	if len(until) > 0 {
		untilTime = until[0]
	}

	oldest := now - w.header.Metadata.MaxRetention
	fromTime := from

	if fromTime < oldest {
		fromTime = oldest
	}

	if !(fromTime < untilTime) {
		return FetchResponse{}, errf("Fetch", InvalidTimeInterval,
			"invalid time interval: from %d must be before until %d", fromTime, untilTime)
	}

	if untilTime > now || untilTime < fromTime {
		untilTime = now
	}

	archive, ok := w.selectArchive(now - fromTime)
	if !ok {
		// now - fromTime was clamped to <= MaxRetention above, so the
		// coarsest archive always covers it; this should be unreachable.
		archive = w.header.Archives[len(w.header.Archives)-1]
	}

	step := archive.SecondsPerPoint
	fromInterval := (fromTime - fromTime%step) + step
	untilInterval := (untilTime - untilTime%step) + step

	numPoints := (untilInterval - fromInterval) / step

	base, err := w.readBasePoint(archive)
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

	points, err := w.readPointsBetweenOffsets(archive, fromOffset, untilOffset)
	if err != nil {
		return FetchResponse{}, err
	}

	values := make([]*float64, len(points))
	currentInterval := fromInterval

	for i, p := range points {
		if p.Timestamp == currentInterval {
			v := p.Value
			values[i] = &v
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

// selectArchive returns the finest archive (declared order, first match
// wins) whose retention covers a span of coveredSeconds.
func (w *Whisper) selectArchive(coveredSeconds uint32) (ArchiveInfo, bool) {
	for _, a := range w.header.Archives {
		if a.Retention() >= coveredSeconds {
			return a, true
		}
	}

	return ArchiveInfo{}, false
}
