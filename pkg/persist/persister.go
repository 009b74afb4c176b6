package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CodecForPath picks the codec a path's extension chain names.
func CodecForPath(path string) (Codec, error) {
	base := path
	compressed := false

	if strings.HasSuffix(base, lz4Extension) {
		compressed = true
		base = strings.TrimSuffix(base, lz4Extension)
	}

	var inner Codec

	switch filepath.Ext(base) {
	case jsonExtension:
		inner = NewJSONCodec()
	case gobExtension:
		inner = NewGobCodec()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, path)
	}

	if compressed {
		return NewLZ4Codec(inner), nil
	}

	return inner, nil
}

// SaveFile encodes the report into path with the codec its extension
// names.
func SaveFile(path string, report any) error {
	codec, err := CodecForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := codec.Encode(file, report); err != nil {
		_ = file.Close()

		return fmt.Errorf("encode report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	return nil
}

// LoadFile decodes the report file at path into report, which must be a
// pointer to the target struct.
func LoadFile(path string, report any) error {
	codec, err := CodecForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer file.Close()

	if err := codec.Decode(file, report); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	return nil
}
