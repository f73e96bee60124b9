package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// MaxInflatedSize bounds how large an inflated object payload may be before
// Inflate gives up and reports corruption, guarding against zip-bomb style
// loose objects. 2^31-1 matches spec's default.
const MaxInflatedSize = 1<<31 - 1

// Deflate compresses data at zlib's default level. This is the byte sequence
// written verbatim to a loose object file.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// Inflate decompresses a zlib-framed loose object, refusing to read more than
// maxSize bytes of output.
func Inflate(data []byte, maxSize int64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer r.Close()

	limited := io.LimitReader(r, maxSize+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if int64(len(out)) > maxSize {
		return nil, fmt.Errorf("inflate: object exceeds maximum size of %d bytes", maxSize)
	}
	return out, nil
}
