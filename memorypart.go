package opc

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// MemoryPart is a Part whose bytes live in memory. The buffer is allocated on
// the first write.
type MemoryPart struct {
	partHeader
	data   *bytes.Buffer
	writer *memoryPartWriter
}

// NewMemoryPart returns an empty part.
func NewMemoryPart(name PartName, ct ContentType) *MemoryPart {
	return &MemoryPart{partHeader: partHeader{name: name, contentType: ct}}
}

// ReadStream returns a reader over a copy of the current bytes, positioned
// at the start. Later writes to the part are not visible through it.
func (p *MemoryPart) ReadStream() (io.ReadCloser, error) {
	if p.data == nil {
		return emptyStream(), nil
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(p.data.Bytes()))), nil
}

// WriteStream returns a writer appending directly to the part's buffer.
// ErrWriterActive is returned while a previous writer is still open.
func (p *MemoryPart) WriteStream() (io.WriteCloser, error) {
	if p.writer != nil {
		return nil, ErrWriterActive
	}
	p.buffer()
	p.writer = &memoryPartWriter{part: p}
	return p.writer, nil
}

func (p *MemoryPart) buffer() *bytes.Buffer {
	if p.data == nil {
		p.data = new(bytes.Buffer)
	}
	return p.data
}

// Save writes the part with a ZipPartMarshaller.
func (p *MemoryPart) Save(zw *zip.Writer) (bool, error) {
	return ZipPartMarshaller{}.Marshal(p, zw)
}

// Load replaces the part's bytes with the content of r.
func (p *MemoryPart) Load(r io.Reader) error {
	if p.writer != nil {
		return ErrWriterActive
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	p.data = buf
	return nil
}

// Size returns the buffer length, or 0 if the part was never written.
func (p *MemoryPart) Size() int64 {
	if p.data == nil {
		return 0
	}
	return int64(p.data.Len())
}

// Clear drops the buffer.
func (p *MemoryPart) Clear() {
	p.data = nil
}

func (p *MemoryPart) Flush() error { return nil }

func (p *MemoryPart) Close() error { return nil }

type memoryPartWriter struct {
	part   *MemoryPart
	closed bool
}

func (w *memoryPartWriter) Write(b []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.part.buffer().Write(b)
}

// Flush leaves the buffer readable from offset 0. The buffer is never read
// in place, only copied by ReadStream, so its read offset is always at the
// start and there is nothing to move.
func (w *memoryPartWriter) Flush() error {
	if w.closed {
		return os.ErrClosed
	}
	return nil
}

func (w *memoryPartWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.part.writer == w {
		w.part.writer = nil
	}
	return nil
}
