package dataset

import (
	"fmt"
	"strings"
)

// Layout says where the fields of a record live in a CSV row. A negative
// column means the field is not read. When Header is set the first row is a
// header; any non-empty *Name field is then looked up in it and overrides the
// positional column.
type Layout struct {
	Header bool
	Comma  rune

	LabelColumn int
	TextColumn  int
	IDColumn    int

	LabelName string
	TextName  string
	IDName    string
}

// TrainingLayout is label in column 0 and text in column 5
func TrainingLayout() Layout {
	return Layout{LabelColumn: 0, TextColumn: 5, IDColumn: -1}
}

// TestingLayout is id in column 0 and text in column 4
func TestingLayout() Layout {
	return Layout{IDColumn: 0, TextColumn: 4, LabelColumn: -1}
}

// GroundTruthLayout is label in column 0 and id in column 1
func GroundTruthLayout() Layout {
	return Layout{LabelColumn: 0, IDColumn: 1, TextColumn: -1}
}

// resolve applies header names and returns the layout with final positions
func (l Layout) resolve(header []string) (Layout, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	lookup := func(name string, column *int) error {
		if name == "" {
			return nil
		}
		i, ok := index[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("column %q not found in header %v", name, header)
		}
		*column = i
		return nil
	}

	if err := lookup(l.LabelName, &l.LabelColumn); err != nil {
		return l, err
	}
	if err := lookup(l.TextName, &l.TextColumn); err != nil {
		return l, err
	}
	if err := lookup(l.IDName, &l.IDColumn); err != nil {
		return l, err
	}

	return l, nil
}

// minFields is the number of fields a row needs to carry every used column
func (l Layout) minFields() int {
	n := 0
	for _, c := range []int{l.LabelColumn, l.TextColumn, l.IDColumn} {
		if c+1 > n {
			n = c + 1
		}
	}
	return n
}

type field int

const (
	labelField field = iota
	textField
	idField
)

// require fails when a field the reader needs has no column
func (l Layout) require(fields ...field) error {
	for _, f := range fields {
		switch {
		case f == labelField && l.LabelColumn < 0:
			return fmt.Errorf("layout has no label column")
		case f == textField && l.TextColumn < 0:
			return fmt.Errorf("layout has no text column")
		case f == idField && l.IDColumn < 0:
			return fmt.Errorf("layout has no id column")
		}
	}
	return nil
}
