package compress

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	dbz2 "github.com/dsnet/compress/bzip2"
)

// Codec compresses and decompresses vector-file payloads.
type Codec interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

// Names lists the supported codec names.
var Names = []string{"none", "zlib", "bzip2"}

func Get(name string) (Codec, error) {
	switch name {
	case "", "none":
		return noop{}, nil
	case "zlib":
		return zlibCodec{}, nil
	case "bzip2":
		return bzip2Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", name)
	}
}

type noop struct{}

func (noop) Compress(b []byte) ([]byte, error)   { return b, nil }
func (noop) Decompress(b []byte) ([]byte, error) { return b, nil }

type zlibCodec struct{}

func (zlibCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (zlibCodec) Decompress(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type bzip2Codec struct{}

func (bzip2Codec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := dbz2.NewWriter(&buf, &dbz2.WriterConfig{Level: dbz2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (bzip2Codec) Decompress(b []byte) ([]byte, error) {
	r, err := dbz2.NewReader(bytes.NewReader(b), &dbz2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
