package learning

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Label is a sentiment class in the dataset's convention
type Label int

const (
	Negative Label = 0
	Positive Label = 4
)

// Valid reports whether the label is one of the two recognized classes
func (l Label) Valid() bool {
	return l == Negative || l == Positive
}

func (l Label) String() string {
	switch l {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	default:
		return "label(" + strconv.Itoa(int(l)) + ")"
	}
}

// ParseLabel parses an integer label field. Any integer is accepted; use
// Valid to check whether it names a recognized class.
func ParseLabel(field string) (Label, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing label %q", field)
	}
	return Label(n), nil
}
