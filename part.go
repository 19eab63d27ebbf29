package opc

import (
	"io"

	"github.com/klauspost/compress/zip"
)

// Part is a named, typed resource of a package.
//
// Streams returned by ReadStream and WriteStream are scoped resources: the
// caller must close them on every path. At most one writer may be active on
// a part at a time; readers see an independent snapshot taken when the
// stream was opened.
type Part interface {
	// Name returns the part name.
	Name() PartName
	// ContentType returns the content type the part was created with.
	ContentType() ContentType
	// ReadStream returns a reader over a snapshot of the part's bytes.
	ReadStream() (io.ReadCloser, error)
	// WriteStream returns a writer appending to the part's bytes.
	WriteStream() (io.WriteCloser, error)
	// Save writes the part into the archive through its marshaller. It
	// returns false without an error when the archive could not be written.
	Save(zw *zip.Writer) (bool, error)
	// Load replaces the part's bytes with everything read from r.
	Load(r io.Reader) error
	// Size returns the number of bytes held, 0 if never written.
	Size() int64
	// Clear discards the part's bytes.
	Clear()
	// Flush commits buffered state, if any.
	Flush() error
	// Close releases resources held by the part.
	Close() error
}

// partHeader carries the identity shared by every Part implementation.
type partHeader struct {
	name        PartName
	contentType ContentType
}

func (h *partHeader) Name() PartName { return h.name }

func (h *partHeader) ContentType() ContentType { return h.contentType }

func emptyStream() io.ReadCloser {
	return io.NopCloser(eofReader{})
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
