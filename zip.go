package opc

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ContentTypesEntryName is the reserved archive entry holding the content
// types document.
const ContentTypesEntryName = "[Content_Types].xml"

// copyChunkSize is the granularity at which entry copies check for
// cancellation.
const copyChunkSize = 8 << 10

// Function variables for testing injection.
var (
	zipCreateHeader = func(zw *zip.Writer, fh *zip.FileHeader) (io.Writer, error) { return zw.CreateHeader(fh) }
	zipClose        = func(zw *zip.Writer) error { return zw.Close() }
	zipOpen         = func(zf *zip.File) (io.ReadCloser, error) { return zf.Open() }
)

// ZipEntryName maps a part name to its archive entry name by removing the
// single leading separator.
func ZipEntryName(name PartName) string {
	return strings.TrimPrefix(name.String(), "/")
}

// PartNameFromZipEntry maps an archive entry name to a part name by adding a
// single leading separator. Entry names that already start with a separator
// are rejected.
func PartNameFromZipEntry(entry string) (PartName, error) {
	return NewPartName("/" + entry)
}

// ZipContainer writes entries into ZIP archives. It implements
// ContainerWriter.
type ZipContainer struct {
	// Store disables compression for written entries.
	Store bool
}

// WriteEntry wraps dst in a new archive, writes src as its entry name and
// closes the archive.
//
// The copy runs in chunks and stops with ctx's error once ctx is done. Write
// failures on the archive are reported wrapped in ErrContainerIO; read
// failures on src are returned as they are.
func (c ZipContainer) WriteEntry(ctx context.Context, dst io.Writer, name string, src io.Reader) error {
	zw := zip.NewWriter(dst)
	if err := c.AppendEntry(ctx, zw, name, src); err != nil {
		return err
	}
	if err := zipClose(zw); err != nil {
		return fmt.Errorf("%w: close archive: %v", ErrContainerIO, err)
	}
	return nil
}

// AppendEntry writes src as the entry name of the open archive zw and leaves
// the archive open. Errors are reported as for WriteEntry.
func (c ZipContainer) AppendEntry(ctx context.Context, zw *zip.Writer, name string, src io.Reader) error {
	method := zip.Deflate
	if c.Store {
		method = zip.Store
	}
	return writeZipEntry(ctx, zw, &zip.FileHeader{Name: name, Method: method}, src)
}

// writeZipEntry opens the entry, copies src into it and leaves it complete.
// The archive writer finalizes an entry when the next one is created or the
// archive is closed.
func writeZipEntry(ctx context.Context, zw *zip.Writer, fh *zip.FileHeader, src io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := zipCreateHeader(zw, fh)
	if err != nil {
		return fmt.Errorf("%w: create entry %s: %v", ErrContainerIO, fh.Name, err)
	}
	if _, err := copyChunks(ctx, w, src); err != nil {
		return fmt.Errorf("entry %s: %w", fh.Name, err)
	}
	return nil
}

// copyChunks copies src to dst in copyChunkSize pieces, checking ctx before
// each piece.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, fmt.Errorf("%w: write: %v", ErrContainerIO, werr)
			}
			if wn != n {
				return written, fmt.Errorf("%w: write: %v", ErrContainerIO, io.ErrShortWrite)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
