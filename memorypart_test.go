package opc

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func newTestMemoryPart() *MemoryPart {
	return NewMemoryPart(MustPartName("/word/document.xml"), ctMain)
}

func readPart(t *testing.T, p Part) []byte {
	t.Helper()
	rc, err := p.ReadStream()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func writePart(t *testing.T, p Part, data []byte) {
	t.Helper()
	w, err := p.WriteStream()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryPart_NeverWritten(t *testing.T) {
	p := newTestMemoryPart()
	if p.Size() != 0 {
		t.Fatalf("size %d", p.Size())
	}
	if got := readPart(t, p); len(got) != 0 {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryPart_WriteReportsSize(t *testing.T) {
	p := newTestMemoryPart()
	data := bytes.Repeat([]byte{0xAB}, 1000)
	writePart(t, p, data)
	if p.Size() != 1000 {
		t.Fatalf("size %d", p.Size())
	}
	if !bytes.Equal(readPart(t, p), data) {
		t.Fatal("content mismatch")
	}
}

func TestMemoryPart_WritesAppend(t *testing.T) {
	p := newTestMemoryPart()
	writePart(t, p, []byte("abc"))
	writePart(t, p, []byte("def"))
	if got := string(readPart(t, p)); got != "abcdef" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryPart_ReadersAreIndependent(t *testing.T) {
	p := newTestMemoryPart()
	writePart(t, p, []byte("hello"))

	r1, _ := p.ReadStream()
	r2, _ := p.ReadStream()
	defer r1.Close()
	defer r2.Close()

	buf := make([]byte, 2)
	if _, err := io.ReadFull(r1, buf); err != nil {
		t.Fatal(err)
	}
	writePart(t, p, []byte(" world"))

	rest1, _ := io.ReadAll(r1)
	all2, _ := io.ReadAll(r2)
	if string(rest1) != "llo" {
		t.Fatalf("r1 rest %q", rest1)
	}
	if string(all2) != "hello" {
		t.Fatalf("r2 %q", all2)
	}
}

func TestMemoryPart_OneWriterAtATime(t *testing.T) {
	p := newTestMemoryPart()
	w, err := p.WriteStream()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.WriteStream(); !errors.Is(err, ErrWriterActive) {
		t.Fatalf("expected ErrWriterActive, got %v", err)
	}
	if err := p.Load(strings.NewReader("x")); !errors.Is(err, ErrWriterActive) {
		t.Fatalf("expected ErrWriterActive, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := w.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected os.ErrClosed, got %v", err)
	}
	w2, err := p.WriteStream()
	if err != nil {
		t.Fatal(err)
	}
	w2.Close()
}

func TestMemoryPart_FlushKeepsReadable(t *testing.T) {
	p := newTestMemoryPart()
	w, _ := p.WriteStream()
	w.Write([]byte("abc"))
	if err := w.(interface{ Flush() error }).Flush(); err != nil {
		t.Fatal(err)
	}
	if got := string(readPart(t, p)); got != "abc" {
		t.Fatalf("got %q", got)
	}
	w.Close()
}

func TestMemoryPart_LoadReplacesAndClear(t *testing.T) {
	p := newTestMemoryPart()
	writePart(t, p, []byte("old"))
	if err := p.Load(strings.NewReader("new content")); err != nil {
		t.Fatal(err)
	}
	if got := string(readPart(t, p)); got != "new content" {
		t.Fatalf("got %q", got)
	}
	p.Clear()
	if p.Size() != 0 || len(readPart(t, p)) != 0 {
		t.Fatal("expected empty part after Clear")
	}
}
