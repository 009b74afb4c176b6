// Package schema validates serialized reports against the canonical
// report JSON schema.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed report-schema.json
var reportSchema []byte

// Report returns the canonical report schema document.
func Report() []byte {
	return reportSchema
}

// Issue is one schema violation found in a document.
type Issue struct {
	Field       string
	Description string
}

// String renders the issue as "field: description".
func (i Issue) String() string {
	return i.Field + ": " + i.Description
}

// ValidateReport checks a JSON document against the report schema and
// returns one issue per violation. Empty issues mean the document
// conforms. The error return reports validation machinery failures,
// including documents that are not JSON at all.
func ValidateReport(document []byte) ([]Issue, error) {
	schemaLoader := gojsonschema.NewBytesLoader(reportSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		issues = append(issues, Issue{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}

	return issues, nil
}
