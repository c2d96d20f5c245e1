package dataset

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/zpam/sentiment/pkg/learning"
)

// PredictionWriter writes one "<label>, <id>" line per classified post
type PredictionWriter struct {
	w     *bufio.Writer
	count int
}

// NewPredictionWriter buffers writes to w; call Flush when done
func NewPredictionWriter(w io.Writer) *PredictionWriter {
	return &PredictionWriter{w: bufio.NewWriter(w)}
}

// Write appends one prediction
func (pw *PredictionWriter) Write(label learning.Label, id int64) error {
	if _, err := fmt.Fprintf(pw.w, "%d, %d\n", int(label), id); err != nil {
		return errors.Wrapf(err, "writing prediction for %d", id)
	}
	pw.count++
	return nil
}

// Count returns the number of predictions written
func (pw *PredictionWriter) Count() int {
	return pw.count
}

// Flush writes any buffered predictions
func (pw *PredictionWriter) Flush() error {
	return errors.Wrap(pw.w.Flush(), "flushing predictions")
}
