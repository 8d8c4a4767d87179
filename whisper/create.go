package whisper

import (
	"os"

	"go.uber.org/zap"

	"github.com/whisperdb/whisper/internal/options"
)

const createChunkSize = 16384

// Create creates a new whisper file at path with the given archives and
// options, then opens it as a handle. It fails with InvalidConfiguration
// if path already exists and WithOverwrite(true) was not given, or if the
// archive list or options fail validation.
func Create(path string, archives []ArchiveInfo, opts ...CreateOption) (*Whisper, error) {
	cfg := defaultCreateConfig()
	if err := options.Apply[*createConfig](cfg, opts...); err != nil {
		return nil, newErr("Create", InvalidConfiguration, err)
	}

	if err := validateCreateConfig(cfg); err != nil {
		return nil, err
	}

	if err := ValidateArchiveList(archives); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil && !cfg.overwrite {
		return nil, errf("Create", InvalidConfiguration, "file %q already exists", path)
	} else if err == nil && cfg.overwrite {
		if err := os.Remove(path); err != nil {
			return nil, newErr("Create", IOError, err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return nil, newErr("Create", IOError, err)
	}

	w, err := createIn(file, archives, cfg)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return nil, err
	}

	w.ownsFile = true

	return w, nil
}

// CreateContainer is Create's counterpart for an already-open Container
// (typically an in-memory buffer in tests). Options that only make sense
// for filesystem paths (WithOverwrite) are accepted but have no effect:
// the container is always written from its current contents.
func CreateContainer(container Container, archives []ArchiveInfo, opts ...CreateOption) (*Whisper, error) {
	cfg := defaultCreateConfig()
	if err := options.Apply[*createConfig](cfg, opts...); err != nil {
		return nil, newErr("Create", InvalidConfiguration, err)
	}

	if err := validateCreateConfig(cfg); err != nil {
		return nil, err
	}

	if err := ValidateArchiveList(archives); err != nil {
		return nil, err
	}

	return createIn(container, archives, cfg)
}

func validateCreateConfig(cfg *createConfig) error {
	if cfg.xFilesFactor < 0.0 || cfg.xFilesFactor > 1.0 {
		return errf("Create", InvalidConfiguration, "xFilesFactor %v must be in [0.0, 1.0]", cfg.xFilesFactor)
	}

	switch cfg.aggregationMethod {
	case Average, Sum, Last, Max, Min:
	default:
		return errf("Create", InvalidConfiguration, "unknown aggregation method %d", cfg.aggregationMethod)
	}

	return nil
}

func createIn(container Container, archives []ArchiveInfo, cfg *createConfig) (*Whisper, error) {
	oldest := uint32(0)
	for _, a := range archives {
		if r := a.Retention(); r > oldest {
			oldest = r
		}
	}

	meta := metadata{
		AggregationMethod: uint32(cfg.aggregationMethod),
		MaxRetention:      oldest,
		XFilesFactor:      cfg.xFilesFactor,
		ArchiveCount:      uint32(len(archives)),
	}

	if _, err := container.Write(encodeMetadata(meta)); err != nil {
		return nil, newErr("Create", IOError, err)
	}

	headerSize := uint32(metadataSize) + uint32(archiveSize)*uint32(len(archives))
	offset := headerSize
	placed := make([]ArchiveInfo, len(archives))

	for i, a := range archives {
		a.Offset = offset
		placed[i] = a

		if _, err := container.Write(encodeArchiveInfo(a)); err != nil {
			return nil, newErr("Create", IOError, err)
		}

		offset += a.Size()
	}

	archiveBytes := offset - headerSize

	if cfg.sparse {
		if err := reserveSparse(container, archiveBytes); err != nil {
			return nil, err
		}

		cfg.logger.Debug("allocated archive regions sparsely", zap.Uint32("bytes", archiveBytes))
	} else {
		if err := reserveDense(container, archiveBytes); err != nil {
			return nil, err
		}

		cfg.logger.Debug("allocated archive regions densely", zap.Uint32("bytes", archiveBytes))
	}

	if err := container.Sync(); err != nil {
		cfg.logger.Warn("fsync after create failed", zap.Error(err))
	}

	return &Whisper{
		header:    Header{Metadata: meta, Archives: placed},
		container: container,
		log:       cfg.logger,
	}, nil
}

// reserveDense writes zeros across the whole archive region in chunks.
func reserveDense(c Container, size uint32) error {
	chunk := make([]byte, createChunkSize)
	remaining := size

	for remaining > 0 {
		n := uint32(len(chunk))
		if remaining < n {
			n = remaining
		}

		if _, err := c.Write(chunk[:n]); err != nil {
			return newErr("Create", IOError, err)
		}

		remaining -= n
	}

	return nil
}

// reserveSparse seeks to the last byte of the archive region and writes a
// single zero byte, relying on the filesystem to report the intervening
// range as zeros (a sparse file).
func reserveSparse(c Container, size uint32) error {
	if size == 0 {
		return nil
	}

	if _, err := c.Seek(int64(size)-1, 1); err != nil {
		return newErr("Create", IOError, err)
	}

	if _, err := c.Write([]byte{0}); err != nil {
		return newErr("Create", IOError, err)
	}

	return nil
}
