package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zpam/sentiment/pkg/learning"
)

// rowReader walks CSV rows and silently drops the ones that cannot carry a
// record: rows with too few fields and rows the csv parser rejects.
type rowReader struct {
	csv    *csv.Reader
	layout Layout
	min    int
	stats  Stats
}

func newRowReader(r io.Reader, layout Layout, fields ...field) (*rowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // allow variable number of fields
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	if layout.Comma != 0 {
		cr.Comma = layout.Comma
	}

	rr := &rowReader{csv: cr, layout: layout}

	if layout.Header {
		header, err := cr.Read()
		if err == io.EOF {
			return rr, rr.layout.require(fields...)
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading header")
		}
		resolved, err := layout.resolve(header)
		if err != nil {
			return nil, err
		}
		rr.layout = resolved
	}
	if err := rr.layout.require(fields...); err != nil {
		return nil, err
	}
	rr.min = rr.layout.minFields()

	return rr, nil
}

// next returns the next row with enough fields, or io.EOF
func (rr *rowReader) next() ([]string, error) {
	for {
		row, err := rr.csv.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rr.stats.Rows++
				rr.stats.BadFields++
				continue
			}
			return nil, errors.Wrap(err, "reading row")
		}

		rr.stats.Rows++
		if len(row) < rr.min {
			rr.stats.ShortRows++
			continue
		}
		return row, nil
	}
}

func (rr *rowReader) label(row []string) (learning.Label, bool) {
	label, err := learning.ParseLabel(row[rr.layout.LabelColumn])
	if err != nil {
		rr.stats.BadFields++
		return 0, false
	}
	return label, true
}

func (rr *rowReader) id(row []string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(row[rr.layout.IDColumn]), 10, 64)
	if err != nil {
		rr.stats.BadFields++
		return 0, false
	}
	return id, true
}

// ReadTraining streams (label, text) records to fn. Rows that are too short or
// whose label is not an integer are skipped and only counted. Label values are
// passed through unchanged; deciding which labels to learn from is the
// trainer's job.
func ReadTraining(r io.Reader, layout Layout, fn func(learning.Record) error) (Stats, error) {
	rr, err := newRowReader(r, layout, labelField, textField)
	if err != nil {
		return Stats{}, err
	}

	for {
		row, err := rr.next()
		if err == io.EOF {
			return rr.stats, nil
		}
		if err != nil {
			return rr.stats, err
		}

		label, ok := rr.label(row)
		if !ok {
			continue
		}

		rr.stats.Records++
		if err := fn(learning.Record{Label: label, Text: row[rr.layout.TextColumn]}); err != nil {
			return rr.stats, err
		}
	}
}

// ReadTests streams (id, text) records to fn
func ReadTests(r io.Reader, layout Layout, fn func(TestRecord) error) (Stats, error) {
	rr, err := newRowReader(r, layout, idField, textField)
	if err != nil {
		return Stats{}, err
	}

	for {
		row, err := rr.next()
		if err == io.EOF {
			return rr.stats, nil
		}
		if err != nil {
			return rr.stats, err
		}

		id, ok := rr.id(row)
		if !ok {
			continue
		}

		rr.stats.Records++
		if err := fn(TestRecord{ID: id, Text: row[rr.layout.TextColumn]}); err != nil {
			return rr.stats, err
		}
	}
}

// ReadGroundTruth loads (label, id) rows into a lookup. A repeated id keeps
// the last label seen.
func ReadGroundTruth(r io.Reader, layout Layout) (GroundTruth, Stats, error) {
	rr, err := newRowReader(r, layout, labelField, idField)
	if err != nil {
		return nil, Stats{}, err
	}

	truth := make(GroundTruth)
	for {
		row, err := rr.next()
		if err == io.EOF {
			return truth, rr.stats, nil
		}
		if err != nil {
			return truth, rr.stats, err
		}

		label, ok := rr.label(row)
		if !ok {
			continue
		}
		id, ok := rr.id(row)
		if !ok {
			continue
		}

		rr.stats.Records++
		truth[id] = label
	}
}
