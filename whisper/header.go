package whisper

import (
	"io"
)

// Header is the decoded 16-byte metadata record plus its archive
// descriptors, in file-declared (finest-first) order.
type Header struct {
	Metadata metadata
	Archives []ArchiveInfo
}

// readHeader decodes the header from c, saving and restoring the caller's
// file position. Any I/O or decode failure is wrapped as CorruptFile.
func readHeader(c Container) (Header, error) {
	currentPos, err := c.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, newErr("readHeader", CorruptFile, err)
	}

	defer func() {
		_, _ = c.Seek(currentPos, io.SeekStart)
	}()

	if _, err := c.Seek(0, io.SeekStart); err != nil {
		return Header{}, newErr("readHeader", CorruptFile, err)
	}

	metaBuf := make([]byte, metadataSize)
	if _, err := io.ReadFull(c, metaBuf); err != nil {
		return Header{}, newErr("readHeader", CorruptFile, err)
	}

	meta := decodeMetadata(metaBuf)

	archives := make([]ArchiveInfo, meta.ArchiveCount)
	archiveBuf := make([]byte, archiveSize)

	for i := uint32(0); i < meta.ArchiveCount; i++ {
		if _, err := io.ReadFull(c, archiveBuf); err != nil {
			return Header{}, newErr("readHeader", CorruptFile, err)
		}

		archives[i] = decodeArchiveInfo(archiveBuf)
	}

	return Header{Metadata: meta, Archives: archives}, nil
}
