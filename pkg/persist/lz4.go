package persist

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec wraps another codec in LZ4 frame compression. Gob reports of
// large histories shrink well because author names and paths repeat.
type LZ4Codec struct {
	Inner Codec
}

// NewLZ4Codec wraps inner in LZ4 framing.
func NewLZ4Codec(inner Codec) *LZ4Codec {
	return &LZ4Codec{Inner: inner}
}

// Encode implements Codec.Encode; the frame is finalized on Close.
func (c *LZ4Codec) Encode(w io.Writer, report any) error {
	zw := lz4.NewWriter(w)

	if err := c.Inner.Encode(zw, report); err != nil {
		_ = zw.Close()

		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode.
func (c *LZ4Codec) Decode(r io.Reader, report any) error {
	return c.Inner.Decode(lz4.NewReader(r), report)
}

// Extension implements Codec.Extension by stacking ".lz4" on the inner
// codec's extension.
func (c *LZ4Codec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}
