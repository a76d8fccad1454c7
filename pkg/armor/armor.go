package armor

import (
	"bytes"
	"fmt"
	"io"

	pgparmor "github.com/ProtonMail/go-crypto/openpgp/armor"
)

// Block types for armored key and signature files.
const (
	TypePublicKey  = "EDSIGN PUBLIC KEY"
	TypePrivateKey = "EDSIGN PRIVATE KEY"
	TypeSignature  = "EDSIGN SIGNATURE"
)

// Encode wraps raw bytes in an ASCII armor block of the given type.
func Encode(blockType string, raw []byte, headers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := pgparmor.Encode(&buf, blockType, headers)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses an armor block and returns its type, headers and payload.
func Decode(data []byte) (blockType string, headers map[string]string, raw []byte, err error) {
	block, err := pgparmor.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, nil, err
	}
	raw, err = io.ReadAll(block.Body)
	if err != nil {
		return "", nil, nil, err
	}
	return block.Type, block.Header, raw, nil
}

// DecodeTyped decodes an armor block and enforces the expected type.
func DecodeTyped(data []byte, wantType string) ([]byte, error) {
	gotType, _, raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if gotType != wantType {
		return nil, fmt.Errorf("armor block is %q (want %q)", gotType, wantType)
	}
	return raw, nil
}
