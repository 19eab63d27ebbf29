package opc

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Save writes the package to w as a ZIP archive: the content types entry
// first, then every part in insertion order through the marshaller
// registered for its content type.
func (p *Package) Save(w io.Writer, opts ...WriteOption) error {
	return p.SaveContext(context.Background(), w, opts...)
}

// SaveContext is like Save but stops once ctx is done, between parts and
// between chunks of each entry written by a ContextMarshaller. Any failure
// aborts the whole save; what was written to w by then is unspecified and
// should be discarded.
func (p *Package) SaveContext(ctx context.Context, w io.Writer, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	for _, name := range p.order {
		if _, _, err := p.contentTypes.ContentType(p, name); err != nil {
			return err
		}
	}

	zw := zip.NewWriter(w)
	level := cfg.deflateLevel
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	if err := p.contentTypes.SaveTo(ctx, zw); err != nil {
		return fmt.Errorf("save content types: %w", err)
	}
	for _, name := range p.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		part := p.parts[name]
		m := p.marshaller(part.ContentType())
		var ok bool
		var err error
		if cm, isCtx := m.(ContextMarshaller); isCtx {
			ok, err = cm.MarshalContext(ctx, part, zw)
		} else {
			ok, err = m.Marshal(part, zw)
		}
		if err != nil {
			return fmt.Errorf("save part %s: %w", name, err)
		}
		if !ok {
			return fmt.Errorf("%w: part %s could not be saved with %T", ErrContainerIO, name, m)
		}
	}
	if err := zipClose(zw); err != nil {
		return fmt.Errorf("%w: close archive: %v", ErrContainerIO, err)
	}
	p.cfg.logger.Debug("package saved", "parts", len(p.order))
	return nil
}

// SaveFile saves the package to path. The file is removed again if the save
// fails.
func (p *Package) SaveFile(path string, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = p.Save(f, opts...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
