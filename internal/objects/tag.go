package objects

import (
	"fmt"
	"io"
)

// Tag is a read-only stub: this core never writes annotated tags, but a
// repository it interoperates with may contain one, and cat-file must be
// able to identify and display it rather than fail outright.
type Tag struct {
	payload []byte
}

// ParseTag wraps a raw tag payload. Tag objects are opaque here: this core
// has no writer for them and no caller needs their structured fields.
func ParseTag(payload []byte) *Tag {
	return &Tag{payload: payload}
}

func (t *Tag) Type() Type      { return TypeTag }
func (t *Tag) Payload() []byte { return t.payload }

// PrettyPrint writes the tag's payload verbatim, matching `cat-file -p`.
func (t *Tag) PrettyPrint(w io.Writer) error {
	_, err := w.Write(t.payload)
	return err
}

func (t *Tag) String() string {
	return fmt.Sprintf("Tag{size: %d bytes}", len(t.payload))
}
