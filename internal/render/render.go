// Package render serializes impact reports into the supported output
// formats: json, yaml, text, table and plot.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
)

// Canonical output format names.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatText  = "text"
	FormatTable = "table"
	FormatPlot  = "plot"

	// formatHTMLAlias is a short CLI alias for plot output, which is HTML.
	formatHTMLAlias = "html"
)

// ErrUnsupportedFormat indicates the requested output format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Options control presentation details of the text format. The zero value
// autodetects the terminal width and honors NO_COLOR.
type Options struct {
	Width   int
	NoColor bool
}

// NormalizeFormat canonicalizes a user-provided output format string.
func NormalizeFormat(format string) string {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == formatHTMLAlias {
		return FormatPlot
	}

	return normalized
}

// Formats returns the canonical output formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatText, FormatTable, FormatPlot}
}

// ValidateFormat checks whether a format is supported and returns its
// canonical name.
func ValidateFormat(format string) (string, error) {
	normalized := NormalizeFormat(format)
	if slices.Contains(Formats(), normalized) {
		return normalized, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Render writes the report to the writer in the requested format.
func Render(writer io.Writer, report impact.Report, format string, opts Options) error {
	normalized, err := ValidateFormat(format)
	if err != nil {
		return err
	}

	switch normalized {
	case FormatJSON:
		errJSON := json.NewEncoder(writer).Encode(report)
		if errJSON != nil {
			return fmt.Errorf("json encode: %w", errJSON)
		}

		return nil
	case FormatYAML:
		data, errYAML := yaml.Marshal(report)
		if errYAML != nil {
			return fmt.Errorf("yaml marshal: %w", errYAML)
		}

		_, errWrite := writer.Write(data)
		if errWrite != nil {
			return fmt.Errorf("yaml write: %w", errWrite)
		}

		return nil
	case FormatText:
		return renderText(writer, report, opts)
	case FormatTable:
		return renderTable(writer, report)
	case FormatPlot:
		return renderPlot(writer, report)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
