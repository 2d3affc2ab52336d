package paths

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// classifyLimit is the number of leading bytes inspected when classifying a
// file as text or binary. A NUL byte past this boundary is never seen.
const classifyLimit = 1024

// IsTextFile reports whether the file at path is a text file: it reads up to
// the first 1024 bytes and classifies the file as binary if any of them is
// NUL. A zero-byte file is text.
func IsTextFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, classifyLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return bytes.IndexByte(buf[:n], 0) < 0, nil
}
