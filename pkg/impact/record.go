// Package impact turns raw numstat log streams into per-author
// contribution reports. The stream is parsed into commit records, each
// record's changed paths are filtered through ignore rules and its author
// normalized through rename rules, and the surviving line counts are
// folded into one row per author. A commit's impact is the larger of its
// kept insertions and deletions; an author's impact is the sum over their
// commits.
package impact

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord reports a commit block that violates the log stream
// contract.
var ErrMalformedRecord = errors.New("impact: malformed log record")

// RecordError locates a malformed commit block. Block counts records from
// one in stream order; zero stands for content before the first record
// marker.
type RecordError struct {
	Msg   string
	Block int
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("impact: block %d: %s", e.Block, e.Msg)
}

// Unwrap makes the error match ErrMalformedRecord.
func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

func recordErrorf(block int, format string, args ...any) error {
	return &RecordError{Block: block, Msg: fmt.Sprintf(format, args...)}
}

// Delta is one changed path within a commit. Binary marks entries whose
// counts were not numeric in the log (binary files); they carry the path
// but never contribute to sums.
type Delta struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// Commit is one parsed record of the log stream.
type Commit struct {
	Hash        string
	AuthorEmail string
	AuthorName  string
	Date        time.Time
	Deltas      []Delta
}

// LineStats is an author's line counts within one language.
type LineStats struct {
	Insertions int `json:"insertions" yaml:"insertions"`
	Deletions  int `json:"deletions" yaml:"deletions"`
}

// UserImpact is one row of the report.
type UserImpact struct {
	Author     string               `json:"author"     yaml:"author"`
	Commits    int                  `json:"commits"    yaml:"commits"`
	Insertions int                  `json:"insertions" yaml:"insertions"`
	Deletions  int                  `json:"deletions"  yaml:"deletions"`
	Impact     int                  `json:"impact"     yaml:"impact"`
	Week       time.Time            `json:"week"       yaml:"week"`
	Languages  map[string]LineStats `json:"languages,omitempty" yaml:"languages,omitempty"`
}
