// Package persist saves and restores aggregation reports. The on-disk
// codec is picked from the file extension: .json and .gob, each optionally
// wrapped in LZ4 framing as .json.lz4 or .gob.lz4.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	gobExtension  = ".gob"
	lz4Extension  = ".lz4"
)

// reportIndent keeps saved JSON reports diffable.
const reportIndent = "  "

// ErrUnknownExtension reports a path whose extension names no codec.
var ErrUnknownExtension = errors.New("persist: unknown report extension")

// Codec defines how a report is serialized and deserialized.
type Codec interface {
	// Encode writes the report to the writer.
	Encode(w io.Writer, report any) error
	// Decode reads the report from the reader.
	Decode(r io.Reader, report any) error
	// Extension returns the file extension selecting this codec.
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with the standard report indentation.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: reportIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, report any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, report any) error {
	decoder := json.NewDecoder(r)

	err := decoder.Decode(report)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// GobCodec implements Codec using gob encoding, the compact binary choice
// for reports only this tool reads back.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.Encode using gob encoding.
func (c *GobCodec) Encode(w io.Writer, report any) error {
	encoder := gob.NewEncoder(w)

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using gob decoding.
func (c *GobCodec) Decode(r io.Reader, report any) error {
	decoder := gob.NewDecoder(r)

	err := decoder.Decode(report)
	if err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for gob files.
func (c *GobCodec) Extension() string {
	return gobExtension
}
