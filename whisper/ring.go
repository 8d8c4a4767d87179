package whisper

import "io"

// mod returns the mathematical (non-negative) modulo of a by m, unlike
// Go's %, which can yield a negative remainder for a negative dividend.
// Ring-offset arithmetic over signed byte deltas relies on this.
func mod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}

	return r
}

// readBasePoint reads the first point (the ring's anchor) of archive a.
func (w *Whisper) readBasePoint(a ArchiveInfo) (Point, error) {
	buf := make([]byte, pointSize)

	if _, err := w.container.Seek(int64(a.Offset), 0); err != nil {
		return Point{}, newErr("readBasePoint", IOError, err)
	}

	if _, err := io.ReadFull(w.container, buf); err != nil {
		return Point{}, newErr("readBasePoint", IOError, err)
	}

	return decodePoint(buf), nil
}

// pointOffset computes the byte offset of the slot for timestamp within
// archive a, given the archive's base point. If the archive has never
// been written (base.Timestamp == 0), the slot is the archive's first
// byte — the write that lands there becomes the new anchor.
func pointOffset(a ArchiveInfo, base Point, timestamp uint32) uint32 {
	if base.Timestamp == 0 {
		return a.Offset
	}

	delta := int64(timestamp) - int64(base.Timestamp)
	pointDelta := delta / int64(a.SecondsPerPoint)
	byteDelta := pointDelta * pointSize

	return a.Offset + uint32(mod(byteDelta, int64(a.Size())))
}

// readPointsBetweenOffsets reads the ring range [start, end) of archive a,
// splitting the read across the ring seam when start >= end.
func (w *Whisper) readPointsBetweenOffsets(a ArchiveInfo, start, end uint32) ([]Point, error) {
	if start < end {
		buf := make([]byte, end-start)

		if _, err := w.container.Seek(int64(start), 0); err != nil {
			return nil, newErr("readPointsBetweenOffsets", IOError, err)
		}

		if _, err := io.ReadFull(w.container, buf); err != nil {
			return nil, newErr("readPointsBetweenOffsets", IOError, err)
		}

		return decodePoints(buf), nil
	}

	prefixLen := a.End() - start
	suffixLen := end - a.Offset
	buf := make([]byte, prefixLen+suffixLen)

	if _, err := w.container.Seek(int64(start), 0); err != nil {
		return nil, newErr("readPointsBetweenOffsets", IOError, err)
	}

	if _, err := io.ReadFull(w.container, buf[:prefixLen]); err != nil {
		return nil, newErr("readPointsBetweenOffsets", IOError, err)
	}

	if _, err := w.container.Seek(int64(a.Offset), 0); err != nil {
		return nil, newErr("readPointsBetweenOffsets", IOError, err)
	}

	if _, err := io.ReadFull(w.container, buf[prefixLen:]); err != nil {
		return nil, newErr("readPointsBetweenOffsets", IOError, err)
	}

	return decodePoints(buf), nil
}

// writePoint writes a single point into archive a at the slot its own
// timestamp maps to.
func (w *Whisper) writePoint(a ArchiveInfo, p Point) error {
	return w.writeSpan(a, p.Timestamp, encodePoint(p))
}

// writeSpan writes bytes (a run of contiguous-interval points, already
// encoded) starting at the slot for startTimestamp, splitting the write
// across the ring seam if it would cross the archive's end.
func (w *Whisper) writeSpan(a ArchiveInfo, startTimestamp uint32, bytes []byte) error {
	base, err := w.readBasePoint(a)
	if err != nil {
		return err
	}

	offset := pointOffset(a, base, startTimestamp)

	if _, err := w.container.Seek(int64(offset), 0); err != nil {
		return newErr("writeSpan", IOError, err)
	}

	spaceToEnd := a.End() - offset
	if uint32(len(bytes)) <= spaceToEnd {
		if _, err := w.container.Write(bytes); err != nil {
			return newErr("writeSpan", IOError, err)
		}

		return nil
	}

	if _, err := w.container.Write(bytes[:spaceToEnd]); err != nil {
		return newErr("writeSpan", IOError, err)
	}

	pos, err := w.container.Seek(0, 1)
	if err != nil {
		return newErr("writeSpan", IOError, err)
	}

	if uint32(pos) != a.End() {
		return errf("writeSpan", ArchiveBoundaryExceeded,
			"expected to be at archive end %d after prefix write, got %d", a.End(), pos)
	}

	if _, err := w.container.Seek(int64(a.Offset), 0); err != nil {
		return newErr("writeSpan", IOError, err)
	}

	if _, err := w.container.Write(bytes[spaceToEnd:]); err != nil {
		return newErr("writeSpan", IOError, err)
	}

	return nil
}

