package opc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

// OpenFile opens the package stored at path. The file must exist; its
// header is sniffed before the archive is parsed, so OLE2 compound files and
// raw XML fail with ErrOLE2Format or ErrRawXMLFormat.
//
// All parts are read into memory and the file is closed before OpenFile
// returns.
func OpenFile(path string, opts ...Option) (*Package, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer f.Close()
	if _, err := SniffReaderAt(f); err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	return open(f, fi.Size(), newConfig(opts))
}

// Open reads a package from r, which holds size bytes.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	if _, err := SniffReaderAt(r); err != nil {
		return nil, err
	}
	return open(r, size, newConfig(opts))
}

// OpenReader reads a package from a stream. The stream is sniffed first and
// then buffered in memory, up to Limits.MaxArchiveSize bytes.
func OpenReader(r io.Reader, opts ...Option) (*Package, error) {
	cfg := newConfig(opts)
	sr, _, err := SniffReader(r)
	if err != nil {
		return nil, err
	}
	data, err := readAll(io.LimitReader(sr, int64(cfg.limits.MaxArchiveSize)+1))
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}
	if uint64(len(data)) > cfg.limits.MaxArchiveSize {
		return nil, fmt.Errorf("%w: archive larger than %d bytes", ErrLimitExceeded, cfg.limits.MaxArchiveSize)
	}
	return open(bytes.NewReader(data), int64(len(data)), cfg)
}

func open(r io.ReaderAt, size int64, cfg config) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	pkg := newPackage(cfg)
	if err := pkg.load(zr); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Package) load(zr *zip.Reader) error {
	limits := p.cfg.limits
	if len(zr.File) > limits.MaxParts+1 {
		return fmt.Errorf("%w: archive has %d entries", ErrLimitExceeded, len(zr.File))
	}

	var ctEntry *zip.File
	for _, zf := range zr.File {
		if strings.EqualFold(zf.Name, ContentTypesEntryName) {
			ctEntry = zf
			break
		}
	}
	if ctEntry == nil {
		return fmt.Errorf("%w: package has no %s entry", ErrInvalidFormat, ContentTypesEntryName)
	}
	if err := p.loadContentTypes(ctEntry); err != nil {
		return err
	}

	var total uint64
	for _, zf := range zr.File {
		if zf == ctEntry || strings.HasSuffix(zf.Name, "/") {
			continue
		}
		if zf.UncompressedSize64 > limits.MaxPartSize {
			return fmt.Errorf("%w: entry %s is %d bytes", ErrLimitExceeded, zf.Name, zf.UncompressedSize64)
		}
		total += zf.UncompressedSize64
		if total > limits.MaxTotalSize {
			return fmt.Errorf("%w: parts exceed %d bytes", ErrLimitExceeded, limits.MaxTotalSize)
		}
		part, err := p.loadPart(zf)
		if err != nil {
			return err
		}
		p.insert(part)
	}
	p.cfg.logger.Debug("package opened", "parts", len(p.order),
		"defaults", len(p.contentTypes.defaults), "overrides", len(p.contentTypes.overrides))
	return nil
}

func (p *Package) loadContentTypes(zf *zip.File) error {
	maxSize := p.cfg.limits.MaxContentTypesSize
	if zf.UncompressedSize64 > maxSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrLimitExceeded, zf.Name, zf.UncompressedSize64)
	}
	rc, err := zipOpen(zf)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrInvalidFormat, zf.Name, err)
	}
	defer rc.Close()
	return p.contentTypes.Load(io.LimitReader(rc, int64(maxSize)))
}

func (p *Package) loadPart(zf *zip.File) (Part, error) {
	name, err := PartNameFromZipEntry(zf.Name)
	if err != nil {
		return nil, err
	}
	if p.HasPart(name) {
		return nil, fmt.Errorf("%w: duplicate entry for part %s", ErrInvalidFormat, name)
	}
	raw, ok := p.contentTypes.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: part %s has no content type", ErrInvalidFormat, name)
	}
	ct, err := ParseContentType(raw)
	if err != nil {
		return nil, err
	}
	rc, err := zipOpen(zf)
	if err != nil {
		return nil, fmt.Errorf("%w: open entry %s: %v", ErrInvalidFormat, zf.Name, err)
	}
	defer rc.Close()
	uc := UnmarshalContext{
		PartName:    name,
		ContentType: ct,
		Entry:       zf,
		Limits:      p.cfg.limits,
		Compression: p.cfg.compression,
	}
	part, err := p.unmarshaller(ct).Unmarshal(uc, rc)
	if err != nil {
		return nil, err
	}
	if pp, ok := part.(*PropertiesPart); ok {
		if existing, dup := p.corePropertiesPart(); dup {
			return nil, fmt.Errorf("%w: second core properties part %s (first is %s)", ErrInvalidFormat, pp.Name(), existing.Name())
		}
	}
	return part, nil
}
