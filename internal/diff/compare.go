package diff

// Options configures one comparison.
type Options struct {
	// Key names the unique key column for keyed matching. Empty selects
	// positional matching.
	Key string
}

// Compare diffs two normalized tables and shapes the outcome.
//
// With a key, both tables are validated before any matching happens and
// the left table's failure is reported alone, without evaluating the
// right table. Without a key, rows match by position and no validation
// applies. Column-set differences are reported in the summary but never
// fail the comparison.
func Compare(left, right *Table, opts Options) (*Result, error) {
	cols := DiffColumns(left, right)

	if opts.Key == "" {
		return shape(comparePositional(left, right, cols)), nil
	}

	if err := ValidateKey(left, opts.Key, left.label); err != nil {
		return nil, err
	}
	if err := ValidateKey(right, opts.Key, right.label); err != nil {
		return nil, err
	}

	return shape(compareKeyed(left, right, cols, opts.Key)), nil
}
