package catz

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

// MaybeGZReader reads r, gunzipping it if it starts with the gzip magic bytes.
// Plain input passes through unchanged, so `zcat` is optional.
// Close releases the gzip reader, if any; it does not close r.
type MaybeGZReader struct {
	r   io.Reader
	gzr *gzip.Reader
}

func NewMaybeGZReader(r io.Reader) (*MaybeGZReader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return &MaybeGZReader{r: br}, nil
	}
	gzr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return &MaybeGZReader{r: gzr, gzr: gzr}, nil
}

// Read satisfies the io.Reader interface.
func (g *MaybeGZReader) Read(p []byte) (int, error) {
	return g.r.Read(p)
}

func (g *MaybeGZReader) Compressed() bool {
	return g.gzr != nil
}

// Close satisfies the io.Closer interface.
func (g *MaybeGZReader) Close() error {
	if g.gzr == nil {
		return nil
	}
	return g.gzr.Close()
}

// GZWriter gzips to w. Close flushes and finishes the gzip stream;
// it does not close w.
type GZWriter struct {
	gzw *gzip.Writer
}

func NewGZWriter(w io.Writer, level int) (*GZWriter, error) {
	gzw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return &GZWriter{gzw: gzw}, nil
}

func (g *GZWriter) Write(p []byte) (int, error) {
	return g.gzw.Write(p)
}

func (g *GZWriter) Close() error {
	if err := g.gzw.Flush(); err != nil {
		return err
	}
	return g.gzw.Close()
}
