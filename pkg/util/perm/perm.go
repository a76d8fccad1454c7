package perm

import (
	"fmt"
	"os"
)

// Check0600 verifies file permissions are -rw-------
func Check0600(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := st.Mode().Perm()
	if mode != 0o600 {
		return fmt.Errorf("file %s permissions %o (want 0600)", path, mode)
	}
	return nil
}

// WriteFile0600 writes private key material with owner-only permissions,
// truncating any existing file.
func WriteFile0600(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
