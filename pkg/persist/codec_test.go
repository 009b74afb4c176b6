package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testReport is a report-shaped struct for round-trip codec testing.
type testReport struct {
	Author  string         `json:"author"`
	Commits int            `json:"commits"`
	Weeks   map[string]int `json:"weeks"`
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewJSONCodec()

	original := testReport{
		Author:  "Bob Smith",
		Commits: 42,
		Weeks:   map[string]int{"2024-03-11": 1, "2024-03-18": 2},
	}

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, original))

	var decoded testReport

	require.NoError(t, codec.Decode(&buf, &decoded))

	assert.Equal(t, original, decoded)
}

func TestJSONCodec_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".json", NewJSONCodec().Extension())
}

func TestJSONCodec_CompactNoIndent(t *testing.T) {
	t.Parallel()

	codec := &JSONCodec{Indent: ""}

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, testReport{Author: "compact", Commits: 1}))

	// Compact JSON has at most one trailing newline (from json.Encoder).
	assert.LessOrEqual(t, strings.Count(buf.String(), "\n"), 1)
}

func TestJSONCodec_PrettyPrint(t *testing.T) {
	t.Parallel()

	codec := NewJSONCodec()

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, testReport{Author: "pretty", Commits: 1}))

	assert.Contains(t, buf.String(), reportIndent)
}

func TestJSONCodec_DecodeError(t *testing.T) {
	t.Parallel()

	var decoded testReport

	err := NewJSONCodec().Decode(strings.NewReader("not valid json{{{"), &decoded)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "json decode")
}

func TestJSONCodec_EncodeError(t *testing.T) {
	t.Parallel()

	// Channels cannot be JSON-encoded.
	var buf bytes.Buffer

	err := NewJSONCodec().Encode(&buf, make(chan int))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "json encode")
}

func TestGobCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewGobCodec()

	original := testReport{
		Author:  "gob-test",
		Commits: 123,
		Weeks:   map[string]int{"2024-03-11": 10},
	}

	var buf bytes.Buffer

	require.NoError(t, codec.Encode(&buf, original))

	var decoded testReport

	require.NoError(t, codec.Decode(&buf, &decoded))

	assert.Equal(t, original, decoded)
}

func TestGobCodec_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".gob", NewGobCodec().Extension())
}

func TestGobCodec_DecodeError(t *testing.T) {
	t.Parallel()

	var decoded testReport

	err := NewGobCodec().Decode(strings.NewReader("not gob data"), &decoded)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gob decode")
}

func TestGobCodec_EncodeError(t *testing.T) {
	t.Parallel()

	// Functions cannot be gob-encoded.
	var buf bytes.Buffer

	err := NewGobCodec().Encode(&buf, func() {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gob encode")
}

func TestLZ4Codec_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codec Codec
	}{
		{name: "json_inner", codec: NewLZ4Codec(NewJSONCodec())},
		{name: "gob_inner", codec: NewLZ4Codec(NewGobCodec())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			original := testReport{
				Author:  "Bob Smith",
				Commits: 7,
				Weeks:   map[string]int{"2024-03-11": 3, "2024-03-18": 4},
			}

			var buf bytes.Buffer

			require.NoError(t, tt.codec.Encode(&buf, original))

			var decoded testReport

			require.NoError(t, tt.codec.Decode(&buf, &decoded))

			assert.Equal(t, original, decoded)
		})
	}
}

func TestLZ4Codec_Extension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".json.lz4", NewLZ4Codec(NewJSONCodec()).Extension())
	assert.Equal(t, ".gob.lz4", NewLZ4Codec(NewGobCodec()).Extension())
}

func TestLZ4Codec_OutputIsFramed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, NewLZ4Codec(NewJSONCodec()).Encode(&buf, testReport{Author: "x"}))

	// LZ4 frame magic number.
	require.GreaterOrEqual(t, buf.Len(), 4)
	assert.Equal(t, []byte{0x04, 0x22, 0x4d, 0x18}, buf.Bytes()[:4])
}
