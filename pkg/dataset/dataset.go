// Package dataset reads the tweet CSV files consumed by the classifier and
// writes the prediction file it produces.
package dataset

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/zpam/sentiment/pkg/learning"
)

// ErrResourceUnavailable matches every failure to open an input or create an
// output file.
var ErrResourceUnavailable = errors.New("resource unavailable")

// ResourceError describes a file that could not be opened or created
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrResourceUnavailable) hold for every ResourceError
func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceUnavailable
}

// OpenInput opens path for reading
func OpenInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}

// CreateOutput creates or truncates path for writing
func CreateOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &ResourceError{Op: "create", Path: path, Err: err}
	}
	return f, nil
}

// TestRecord is one unlabeled post to classify
type TestRecord struct {
	ID   int64
	Text string
}

// GroundTruth maps test ids to their actual label
type GroundTruth map[int64]learning.Label

// Lookup returns the label for id and whether it is known
func (gt GroundTruth) Lookup(id int64) (learning.Label, bool) {
	label, ok := gt[id]
	return label, ok
}

// Stats counts what a reader did with the rows it saw
type Stats struct {
	Rows      int `json:"rows"`
	Records   int `json:"records"`
	ShortRows int `json:"short_rows"`
	BadFields int `json:"bad_fields"`
}

// Skipped returns the number of rows that did not produce a record
func (s Stats) Skipped() int {
	return s.ShortRows + s.BadFields
}
