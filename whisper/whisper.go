// Package whisper implements a fixed-size, round-robin time-series file
// format compatible with Graphite's Whisper format, along with the engine
// that creates, reads, updates, and downsamples such files.
package whisper

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/whisperdb/whisper/internal/options"
)

// Whisper is an open handle on a single whisper file. It is safe to share
// across goroutines within one process (a mutex serializes access), but
// the file format itself does not define semantics for multiple
// independent writers across processes.
type Whisper struct {
	mu        sync.Mutex
	header    Header
	container Container
	ownsFile  bool
	autoFlush bool
	closed    bool
	log       *zap.Logger
}

// Retention is a read-only view of one archive's shape, returned by
// Retentions(). It mirrors the accessor surface a real consumer expects —
// see _examples/other_examples/26b8c580_ljurk-go-whisper-tools, which
// calls exactly SecondsPerPoint() and NumberOfPoints() on these.
type Retention struct {
	info ArchiveInfo
}

// SecondsPerPoint returns the archive's temporal step.
func (r Retention) SecondsPerPoint() uint32 { return r.info.SecondsPerPoint }

// NumberOfPoints returns the archive's capacity in slots.
func (r Retention) NumberOfPoints() uint32 { return r.info.Points }

// Retention returns the archive's retention window in seconds.
func (r Retention) Retention() uint32 { return r.info.Retention() }

// Offset returns the archive's absolute byte offset within the file.
func (r Retention) Offset() uint32 { return r.info.Offset }

// Size returns the archive's byte length.
func (r Retention) Size() uint32 { return r.info.Size() }

// Open opens a whisper file at path for reading and writing.
func Open(path string, opts ...OpenOption) (*Whisper, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0666)
	if err != nil {
		return nil, newErr("Open", IOError, err)
	}

	w, err := OpenContainer(file, opts...)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	w.ownsFile = true

	return w, nil
}

// OpenContainer opens an already-open Container (a real file, or an
// in-memory buffer in tests) as a whisper handle.
func OpenContainer(container Container, opts ...OpenOption) (*Whisper, error) {
	cfg := defaultOpenConfig()
	if err := options.Apply[*openConfig](cfg, opts...); err != nil {
		return nil, newErr("Open", InvalidConfiguration, err)
	}

	header, err := readHeader(container)
	if err != nil {
		return nil, err
	}

	return &Whisper{
		header:    header,
		container: container,
		autoFlush: cfg.autoFlush,
		log:       cfg.logger,
	}, nil
}

// Close releases the underlying container. Any subsequent call on w fails
// with IOError.
func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	if w.ownsFile {
		if err := w.container.Close(); err != nil {
			return newErr("Close", IOError, err)
		}
	}

	return nil
}

// Closed reports whether Close has been called on w.
func (w *Whisper) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closed
}

func (w *Whisper) checkOpen(op string) error {
	if w.closed {
		return newErr(op, IOError, errClosed)
	}

	return nil
}

var errClosed = simpleErr("operation on closed whisper handle")

// MaxRetention returns the maximum retention period recorded in the
// header (the coarsest archive's S*N, fixed at create time).
func (w *Whisper) MaxRetention() uint32 {
	return w.header.Metadata.MaxRetention
}

// XFilesFactor returns the minimum known-fraction required for
// propagation to write a coarser aggregate.
func (w *Whisper) XFilesFactor() float32 {
	return w.header.Metadata.XFilesFactor
}

// AggregationMethod returns the configured propagation aggregation
// function.
func (w *Whisper) AggregationMethod() AggregationMethod {
	w.mu.Lock()
	defer w.mu.Unlock()

	return AggregationMethod(w.header.Metadata.AggregationMethod)
}

// Header returns the decoded header: aggregation metadata plus every
// archive descriptor, in file-declared order.
func (w *Whisper) Header() Header {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.header
}

// Retentions returns a read-only view of every archive, finest first.
func (w *Whisper) Retentions() []Retention {
	out := make([]Retention, len(w.header.Archives))
	for i, a := range w.header.Archives {
		out[i] = Retention{info: a}
	}

	return out
}

// SetAggregationMethod rewrites the header's aggregation method in place.
func (w *Whisper) SetAggregationMethod(method AggregationMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen("SetAggregationMethod"); err != nil {
		return err
	}

	w.header.Metadata.AggregationMethod = uint32(method)

	if _, err := w.container.Seek(0, 0); err != nil {
		return newErr("SetAggregationMethod", IOError, err)
	}

	if _, err := w.container.Write(encodeMetadata(w.header.Metadata)); err != nil {
		return newErr("SetAggregationMethod", IOError, err)
	}

	return nil
}

func nowSeconds() uint32 {
	return uint32(time.Now().Unix())
}
