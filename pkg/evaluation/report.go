package evaluation

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// DefaultPrecision is the number of decimals the accuracy is written with
const DefaultPrecision = 3

// WriteReport writes the accuracy artifact: the accuracy on the first line,
// then one "<actual>, <id>" line per misclassified post in processing order.
func (r *Result) WriteReport(w io.Writer, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%.*f\n", precision, r.Accuracy()); err != nil {
		return errors.Wrap(err, "writing accuracy")
	}
	for _, miss := range r.Errors {
		if _, err := fmt.Fprintf(bw, "%d, %d\n", int(miss.Actual), miss.ID); err != nil {
			return errors.Wrapf(err, "writing error line for %d", miss.ID)
		}
	}

	return errors.Wrap(bw.Flush(), "flushing accuracy report")
}
