package opc

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// CompressedPart is a Part that keeps its bytes compressed in memory. It
// trades CPU on every read for a smaller footprint, which pays off for large
// media parts that are rarely read.
//
// Writes are staged and only become visible, recompressed together with the
// existing bytes, when the writer is closed.
type CompressedPart struct {
	partHeader
	comp   Compression
	stored []byte
	size   uint64
	writer *compressedPartWriter
}

// NewCompressedPart returns an empty part holding its bytes with comp.
func NewCompressedPart(name PartName, ct ContentType, comp Compression) (*CompressedPart, error) {
	switch comp {
	case CompNone, CompZSTD, CompLZ4, CompBR:
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidPayload, comp)
	}
	return &CompressedPart{partHeader: partHeader{name: name, contentType: ct}, comp: comp}, nil
}

// Compression returns the in-memory compression of the part.
func (p *CompressedPart) Compression() Compression { return p.comp }

// StoredSize returns the number of compressed bytes held.
func (p *CompressedPart) StoredSize() int { return len(p.stored) }

// ReadStream decompresses the part into a fresh buffer.
func (p *CompressedPart) ReadStream() (io.ReadCloser, error) {
	plain, err := p.plain()
	if err != nil {
		return nil, err
	}
	if plain == nil {
		return emptyStream(), nil
	}
	return io.NopCloser(bytes.NewReader(plain)), nil
}

func (p *CompressedPart) plain() ([]byte, error) {
	if p.stored == nil {
		return nil, nil
	}
	plain, err := decompressBytes(p.comp, p.stored, p.size)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", p.name, err)
	}
	return plain, nil
}

func (p *CompressedPart) set(plain []byte) error {
	stored, err := compressBytes(p.comp, plain)
	if err != nil {
		return fmt.Errorf("part %s: %w", p.name, err)
	}
	if stored == nil {
		stored = []byte{}
	}
	p.stored = stored
	p.size = uint64(len(plain))
	return nil
}

// WriteStream returns a writer whose bytes are appended to the part on
// Close. ErrWriterActive is returned while a previous writer is still open.
func (p *CompressedPart) WriteStream() (io.WriteCloser, error) {
	if p.writer != nil {
		return nil, ErrWriterActive
	}
	p.writer = &compressedPartWriter{part: p}
	return p.writer, nil
}

// Save writes the part with a ZipPartMarshaller.
func (p *CompressedPart) Save(zw *zip.Writer) (bool, error) {
	return ZipPartMarshaller{}.Marshal(p, zw)
}

// Load replaces the part's bytes with the content of r.
func (p *CompressedPart) Load(r io.Reader) error {
	if p.writer != nil {
		return ErrWriterActive
	}
	plain, err := readAll(r)
	if err != nil {
		return err
	}
	return p.set(plain)
}

// Size returns the uncompressed length.
func (p *CompressedPart) Size() int64 { return int64(p.size) }

func (p *CompressedPart) Clear() {
	p.stored = nil
	p.size = 0
}

func (p *CompressedPart) Flush() error { return nil }

func (p *CompressedPart) Close() error { return nil }

type compressedPartWriter struct {
	part    *CompressedPart
	staged  bytes.Buffer
	closed  bool
	flushed bool
}

func (w *compressedPartWriter) Write(b []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.staged.Write(b)
}

// Flush commits the staged bytes to the part.
func (w *compressedPartWriter) Flush() error {
	if w.closed {
		return os.ErrClosed
	}
	if w.staged.Len() == 0 && w.flushed {
		return nil
	}
	existing, err := w.part.plain()
	if err != nil {
		return err
	}
	if err := w.part.set(append(existing, w.staged.Bytes()...)); err != nil {
		return err
	}
	w.staged.Reset()
	w.flushed = true
	return nil
}

func (w *compressedPartWriter) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	if w.part.writer == w {
		w.part.writer = nil
	}
	return err
}
