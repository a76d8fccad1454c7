// Package container reads and writes the vector-set file format: a four
// byte magic, a length-prefixed JSON header, then the (optionally
// compressed) JSON payload of vectors.
package container

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"example.com/edsign/pkg/compress"
	"example.com/edsign/pkg/vectors"
)

const magic = "EDV1"

type Header struct {
	Version     int       `json:"v"`
	Created     time.Time `json:"t"`
	Compression string    `json:"c"`
	Suite       string    `json:"suite,omitempty"`
	Count       int       `json:"n"`
}

func Write(w io.Writer, h *Header, payload []byte) error {
	hb, err := json.Marshal(h)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, magic); err != nil {
		return err
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(hb)))
	if _, err = w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err = w.Write(hb); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func Read(r io.Reader) (*Header, []byte, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, nil, err
	}
	if string(m[:]) != magic {
		return nil, nil, fmt.Errorf("bad magic")
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	hb := make([]byte, n)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, nil, err
	}
	var h Header
	if err := json.Unmarshal(hb, &h); err != nil {
		return nil, nil, err
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return &h, payload, nil
}

// WriteVectors serializes a vector suite with the named compression codec.
func WriteVectors(w io.Writer, suite string, vecs []vectors.Vector, compression string) error {
	codec, err := compress.Get(compression)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(vecs)
	if err != nil {
		return err
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return err
	}
	h := Header{
		Version:     1,
		Created:     time.Now().UTC(),
		Compression: compression,
		Suite:       suite,
		Count:       len(vecs),
	}
	return Write(w, &h, payload)
}

// ReadVectors parses a vector-set file written by WriteVectors.
func ReadVectors(r io.Reader) (*Header, []vectors.Vector, error) {
	h, payload, err := Read(r)
	if err != nil {
		return nil, nil, err
	}
	codec, err := compress.Get(h.Compression)
	if err != nil {
		return nil, nil, err
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, nil, err
	}
	var vecs []vectors.Vector
	if err := json.Unmarshal(raw, &vecs); err != nil {
		return nil, nil, err
	}
	if h.Count != len(vecs) {
		return nil, nil, fmt.Errorf("header count %d, payload has %d vectors", h.Count, len(vecs))
	}
	return h, vecs, nil
}
