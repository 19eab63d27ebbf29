package opc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zip"
)

// PartMarshaller writes a part into an archive.
//
// Marshal returns false with a nil error when the archive itself could not
// be written, leaving the reaction to the caller. Any other failure, such as
// a part whose bytes cannot be read, is returned as an error.
type PartMarshaller interface {
	Marshal(p Part, zw *zip.Writer) (bool, error)
}

// ContextMarshaller is implemented by marshallers whose entry copy can stop
// once ctx is done. Package.SaveContext prefers it over Marshal.
type ContextMarshaller interface {
	MarshalContext(ctx context.Context, p Part, zw *zip.Writer) (bool, error)
}

// PartUnmarshaller rebuilds a part from the bytes of its archive entry.
type PartUnmarshaller interface {
	Unmarshal(uc UnmarshalContext, src io.Reader) (Part, error)
}

// UnmarshalContext describes the entry being unmarshalled.
type UnmarshalContext struct {
	PartName    PartName
	ContentType ContentType
	// Entry is the archive entry, if the part is read from an archive.
	Entry *zip.File
	// Limits are the limits in force for the open operation.
	Limits Limits
	// Compression is the in-memory compression for new parts.
	Compression Compression
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger()
	}
	return l
}

// ZipPartMarshaller writes a part's bytes unchanged as the entry named after
// the part.
type ZipPartMarshaller struct {
	Logger *slog.Logger
}

func (m ZipPartMarshaller) Marshal(p Part, zw *zip.Writer) (bool, error) {
	return m.MarshalContext(context.Background(), p, zw)
}

func (m ZipPartMarshaller) MarshalContext(ctx context.Context, p Part, zw *zip.Writer) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: nil part", ErrInvalidPayload)
	}
	rc, err := p.ReadStream()
	if err != nil {
		return false, fmt.Errorf("read part %s: %w", p.Name(), err)
	}
	defer rc.Close()
	return marshalEntry(ctx, loggerOrDiscard(m.Logger), zw, p.Name(), rc)
}

// PropertiesMarshaller writes a *PropertiesPart as a core properties
// document.
type PropertiesMarshaller struct {
	Logger *slog.Logger
}

func (m PropertiesMarshaller) Marshal(p Part, zw *zip.Writer) (bool, error) {
	return m.MarshalContext(context.Background(), p, zw)
}

func (m PropertiesMarshaller) MarshalContext(ctx context.Context, p Part, zw *zip.Writer) (bool, error) {
	pp, ok := p.(*PropertiesPart)
	if !ok {
		return false, fmt.Errorf("%w: %T is not a core properties part", ErrInvalidPayload, p)
	}
	data, err := marshalCoreProperties(pp.Core)
	if err != nil {
		return false, fmt.Errorf("marshal core properties: %w", err)
	}
	return marshalEntry(ctx, loggerOrDiscard(m.Logger), zw, pp.Name(), bytes.NewReader(data))
}

func marshalEntry(ctx context.Context, logger *slog.Logger, zw *zip.Writer, name PartName, src io.Reader) (bool, error) {
	fh := &zip.FileHeader{Name: ZipEntryName(name), Method: zip.Deflate}
	err := writeZipEntry(ctx, zw, fh, src)
	if errors.Is(err, ErrContainerIO) {
		logger.Warn("cannot write part to archive", "part", name.String(), "err", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DefaultUnmarshaller loads an entry into a MemoryPart, or into a
// CompressedPart when the context asks for in-memory compression.
type DefaultUnmarshaller struct{}

func (DefaultUnmarshaller) Unmarshal(uc UnmarshalContext, src io.Reader) (Part, error) {
	var part Part
	if uc.Compression == CompNone {
		part = NewMemoryPart(uc.PartName, uc.ContentType)
	} else {
		cp, err := NewCompressedPart(uc.PartName, uc.ContentType, uc.Compression)
		if err != nil {
			return nil, err
		}
		part = cp
	}
	maxSize := uc.Limits.withDefaults().MaxPartSize
	if err := part.Load(io.LimitReader(src, int64(maxSize)+1)); err != nil {
		return nil, fmt.Errorf("load part %s: %w", uc.PartName, err)
	}
	if uint64(part.Size()) > maxSize {
		return nil, fmt.Errorf("%w: part %s larger than %d bytes", ErrLimitExceeded, uc.PartName, maxSize)
	}
	return part, nil
}

// PropertiesUnmarshaller parses a core properties document into a
// *PropertiesPart.
type PropertiesUnmarshaller struct{}

func (PropertiesUnmarshaller) Unmarshal(uc UnmarshalContext, src io.Reader) (Part, error) {
	maxSize := uc.Limits.withDefaults().MaxPartSize
	core, err := unmarshalCoreProperties(io.LimitReader(src, int64(maxSize)))
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", uc.PartName, err)
	}
	pp := NewPropertiesPart(uc.PartName)
	pp.Core = core
	return pp, nil
}
