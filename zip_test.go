package opc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipEntryNameMapping(t *testing.T) {
	name := MustPartName("/word/document.xml")
	assert.Equal(t, "word/document.xml", ZipEntryName(name))

	back, err := PartNameFromZipEntry("word/document.xml")
	require.NoError(t, err)
	assert.Equal(t, name, back)

	_, err = PartNameFromZipEntry("/word/document.xml")
	assert.True(t, errors.Is(err, ErrInvalidPartName))
	_, err = PartNameFromZipEntry("word/")
	assert.True(t, errors.Is(err, ErrInvalidPartName))
}

func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[zf.Name] = string(b)
	}
	return out
}

func TestZipContainer_RawWriter(t *testing.T) {
	var buf bytes.Buffer
	payload := strings.Repeat("0123456789", 3000)
	require.NoError(t, ZipContainer{}.WriteEntry(context.Background(), &buf, "a/b.txt", strings.NewReader(payload)))
	assert.Equal(t, map[string]string{"a/b.txt": payload}, readEntries(t, buf.Bytes()))
}

func TestZipContainer_OpenArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	c := ZipContainer{Store: true}
	require.NoError(t, c.AppendEntry(context.Background(), zw, "one.txt", strings.NewReader("1")))
	require.NoError(t, c.AppendEntry(context.Background(), zw, "two.txt", strings.NewReader("2")))
	require.NoError(t, zw.Close())

	assert.Equal(t, map[string]string{"one.txt": "1", "two.txt": "2"}, readEntries(t, buf.Bytes()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, zip.Store, zr.File[0].Method)
}

func TestZipContainer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ZipContainer{}.WriteEntry(ctx, io.Discard, "x", strings.NewReader("x"))
	assert.True(t, errors.Is(err, context.Canceled))
}

type cancelAfterReader struct {
	r      io.Reader
	cancel context.CancelFunc
	reads  int
}

func (c *cancelAfterReader) Read(p []byte) (int, error) {
	c.reads++
	if c.reads == 2 {
		c.cancel()
	}
	return c.r.Read(p)
}

func TestCopyChunks_CancelBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancelAfterReader{r: bytes.NewReader(make([]byte, 4*copyChunkSize)), cancel: cancel}

	var dst bytes.Buffer
	n, err := copyChunks(ctx, &dst, src)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int64(2*copyChunkSize), n)
}

func TestCopyChunks_Errors(t *testing.T) {
	_, err := copyChunks(context.Background(), errWriter{}, strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrContainerIO))

	_, err = copyChunks(context.Background(), io.Discard, iotest.ErrReader(io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrContainerIO))
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestCopyChunks_ShortWrite(t *testing.T) {
	_, err := copyChunks(context.Background(), shortWriter{}, strings.NewReader("abcd"))
	assert.True(t, errors.Is(err, ErrContainerIO))
}

func TestZipContainer_FailingDestination(t *testing.T) {
	err := ZipContainer{}.WriteEntry(context.Background(), errWriter{}, "x", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrContainerIO), "got %v", err)
}

func TestZipContainer_InjectedFailures(t *testing.T) {
	origCreate := zipCreateHeader
	zipCreateHeader = func(*zip.Writer, *zip.FileHeader) (io.Writer, error) { return nil, io.ErrClosedPipe }
	err := ZipContainer{}.WriteEntry(context.Background(), io.Discard, "x", strings.NewReader("x"))
	zipCreateHeader = origCreate
	assert.True(t, errors.Is(err, ErrContainerIO))

	origClose := zipClose
	zipClose = func(*zip.Writer) error { return io.ErrClosedPipe }
	err = ZipContainer{}.WriteEntry(context.Background(), io.Discard, "x", strings.NewReader("x"))
	zipClose = origClose
	assert.True(t, errors.Is(err, ErrContainerIO))
}
