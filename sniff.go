package opc

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Format is the kind of container detected from the first bytes of an input.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatOLE2
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatOLE2:
		return "ole2"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// sniffLen is the number of header bytes inspected.
const sniffLen = 8

// ole2Signature is the OLE2 compound file magic D0 CF 11 E0 A1 B1 1A E1 read
// as a little-endian uint64.
const ole2Signature uint64 = 0xE11AB1A1E011CFD0

var (
	xmlPrefix = []byte("<?xml")

	zipLocalFileHeader = []byte{'P', 'K', 0x03, 0x04}
	zipEndOfCentralDir = []byte{'P', 'K', 0x05, 0x06}
	zipSpannedMarker   = []byte{'P', 'K', 0x07, 0x08}
)

// DetectFormat classifies header, the first bytes of an input. Fewer than
// eight bytes are accepted; an OLE2 signature needs all eight.
func DetectFormat(header []byte) Format {
	switch {
	case len(header) >= sniffLen && binary.LittleEndian.Uint64(header[:sniffLen]) == ole2Signature:
		return FormatOLE2
	case bytes.HasPrefix(header, xmlPrefix):
		return FormatXML
	case bytes.HasPrefix(header, zipLocalFileHeader),
		bytes.HasPrefix(header, zipEndOfCentralDir),
		bytes.HasPrefix(header, zipSpannedMarker):
		return FormatZip
	default:
		return FormatUnknown
	}
}

// checkFormat rejects headers that are known not to be packages. Anything
// else, including unrecognized headers, is left to the archive reader.
func checkFormat(header []byte) (Format, error) {
	f := DetectFormat(header)
	switch f {
	case FormatOLE2:
		return f, ErrOLE2Format
	case FormatXML:
		return f, ErrRawXMLFormat
	}
	return f, nil
}

// SniffReader inspects the header of r without consuming it. The returned
// reader yields the complete original input, header included.
//
// ErrOLE2Format or ErrRawXMLFormat is returned when r is a legacy compound
// file or plain XML; in that case no ZIP parsing should be attempted.
func SniffReader(r io.Reader) (io.Reader, Format, error) {
	br, ok := r.(*bufio.Reader)
	if !ok || br.Size() < sniffLen {
		br = bufio.NewReader(r)
	}
	header, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, FormatUnknown, fmt.Errorf("sniff header: %w", err)
	}
	f, err := checkFormat(header)
	return br, f, err
}

// SniffReaderAt inspects the header of r. Reading at an offset does not move
// any stream position, so r is left as it was.
func SniffReaderAt(r io.ReaderAt) (Format, error) {
	var buf [sniffLen]byte
	n, err := r.ReadAt(buf[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("sniff header: %w", err)
	}
	return checkFormat(buf[:n])
}
