package opc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipPartMarshaller_WritesEntry(t *testing.T) {
	p := newTestMemoryPart()
	writePart(t, p, []byte("<w:document/>"))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	ok, err := ZipPartMarshaller{}.Marshal(p, zw)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, zw.Close())

	assert.Equal(t, map[string]string{"word/document.xml": "<w:document/>"}, readEntries(t, buf.Bytes()))
}

func TestPartSave_UsesZipPartMarshaller(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mp := newTestMemoryPart()
	writePart(t, mp, []byte("a"))
	ok, err := mp.Save(zw)
	require.NoError(t, err)
	assert.True(t, ok)

	cp, err := NewCompressedPart(MustPartName("/media/image1.png"), ctPNG, CompBR)
	require.NoError(t, err)
	writePart(t, cp, []byte("b"))
	ok, err = cp.Save(zw)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, zw.Close())

	assert.Equal(t, map[string]string{"word/document.xml": "a", "media/image1.png": "b"}, readEntries(t, buf.Bytes()))
}

func TestMarshal_ContainerFailureReturnsFalse(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	origCreate := zipCreateHeader
	zipCreateHeader = func(*zip.Writer, *zip.FileHeader) (io.Writer, error) { return nil, io.ErrClosedPipe }
	defer func() { zipCreateHeader = origCreate }()

	p := newTestMemoryPart()
	ok, err := ZipPartMarshaller{Logger: logger}.Marshal(p, zip.NewWriter(io.Discard))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "part=/word/document.xml")

	pp := NewPropertiesPart(CorePropertiesPartName)
	ok, err = PropertiesMarshaller{}.Marshal(pp, zip.NewWriter(io.Discard))
	assert.NoError(t, err)
	assert.False(t, ok)
}

type failingReadPart struct{ *MemoryPart }

func (failingReadPart) ReadStream() (io.ReadCloser, error) { return nil, io.ErrUnexpectedEOF }

func TestZipPartMarshaller_ReadFailureIsError(t *testing.T) {
	p := failingReadPart{newTestMemoryPart()}
	ok, err := ZipPartMarshaller{}.Marshal(p, zip.NewWriter(io.Discard))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	_, err = ZipPartMarshaller{}.Marshal(nil, zip.NewWriter(io.Discard))
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestPropertiesMarshaller_RejectsOtherParts(t *testing.T) {
	_, err := PropertiesMarshaller{}.Marshal(newTestMemoryPart(), zip.NewWriter(io.Discard))
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestPropertiesMarshaller_RoundTrip(t *testing.T) {
	pp := NewPropertiesPart(CorePropertiesPartName)
	pp.Core.Title = StringProperty("Quarterly")
	require.NoError(t, pp.SetCreatedString("2021-06-01T10:00:00Z"))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	ok, err := PropertiesMarshaller{}.Marshal(pp, zw)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, zw.Close())

	entries := readEntries(t, buf.Bytes())
	doc, found := entries["docProps/core.xml"]
	require.True(t, found)

	part, err := PropertiesUnmarshaller{}.Unmarshal(UnmarshalContext{PartName: CorePropertiesPartName}, strings.NewReader(doc))
	require.NoError(t, err)
	back, ok := part.(*PropertiesPart)
	require.True(t, ok)
	assert.Equal(t, "Quarterly", *back.Core.Title)
	assert.Equal(t, "2021-06-01T10:00:00Z", back.CreatedString())
}

func TestDefaultUnmarshaller(t *testing.T) {
	uc := UnmarshalContext{PartName: MustPartName("/media/image1.png"), ContentType: ctPNG}
	part, err := DefaultUnmarshaller{}.Unmarshal(uc, strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.IsType(t, &MemoryPart{}, part)
	assert.Equal(t, "png bytes", string(readPart(t, part)))
	assert.True(t, part.ContentType().Equal(ctPNG))

	uc.Compression = CompZSTD
	part, err = DefaultUnmarshaller{}.Unmarshal(uc, strings.NewReader("png bytes"))
	require.NoError(t, err)
	require.IsType(t, &CompressedPart{}, part)
	assert.Equal(t, CompZSTD, part.(*CompressedPart).Compression())
	assert.Equal(t, "png bytes", string(readPart(t, part)))
}

func TestDefaultUnmarshaller_PartTooLarge(t *testing.T) {
	uc := UnmarshalContext{
		PartName:    MustPartName("/media/image1.png"),
		ContentType: ctPNG,
		Limits:      Limits{MaxPartSize: 4},
	}
	_, err := DefaultUnmarshaller{}.Unmarshal(uc, strings.NewReader("12345"))
	assert.True(t, errors.Is(err, ErrLimitExceeded))

	_, err = DefaultUnmarshaller{}.Unmarshal(uc, strings.NewReader("1234"))
	assert.NoError(t, err)
}

func TestMarshalContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestMemoryPart()
	writePart(t, p, []byte("a"))
	ok, err := ZipPartMarshaller{}.MarshalContext(ctx, p, zip.NewWriter(io.Discard))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	ok, err = PropertiesMarshaller{}.MarshalContext(ctx, NewPropertiesPart(CorePropertiesPartName), zip.NewWriter(io.Discard))
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
