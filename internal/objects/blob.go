package objects

import (
	"fmt"
	"io"
	"os"
)

// Blob is a file's raw content, verbatim and without normalization.
type Blob struct {
	content []byte
}

// NewBlob wraps raw file content as a Blob.
func NewBlob(content []byte) *Blob {
	return &Blob{content: content}
}

// NewBlobFromFile reads filePath and wraps it as a Blob.
func NewBlobFromFile(filePath string) (*Blob, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return NewBlob(content), nil
}

// ParseBlob wraps a raw payload already read from the object store.
func ParseBlob(payload []byte) *Blob {
	return &Blob{content: payload}
}

func (b *Blob) Type() Type      { return TypeBlob }
func (b *Blob) Payload() []byte { return b.content }
func (b *Blob) Content() []byte { return b.content }
func (b *Blob) Size() int       { return len(b.content) }

// PrettyPrint writes the blob's content verbatim, matching `cat-file -p`.
func (b *Blob) PrettyPrint(w io.Writer) error {
	_, err := w.Write(b.content)
	return err
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob{size: %d bytes}", b.Size())
}
