package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names read by the chart recipes.
const (
	ColPclass     = "Pclass"
	ColSurvived   = "Survived"
	ColSex        = "Sex"
	ColAge        = "Age"
	ColEmbarked   = "Embarked"
	ColSibSp      = "SibSp"
	ColParch      = "Parch"
	ColFamilySize = "family_size"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrMalformed      = errors.New("malformed dataset")
)

// Table is an immutable column-oriented dataset.
// Accessors return copies, so a *Table can be shared between goroutines without locking.
type Table struct {
	names   []string
	index   map[string]int
	columns [][]string
	rows    int
}

// NewTable builds a table from a header and row-major records.
func NewTable(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: empty header", ErrMalformed)
	}

	t := &Table{
		names:   make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		columns: make([][]string, len(header)),
		rows:    len(records),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformed, i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformed, name)
		}
		t.names[i] = name
		t.index[name] = i
		t.columns[i] = make([]string, len(records))
	}

	for r, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrMalformed, r+1, len(rec), len(header))
		}
		for c, cell := range rec {
			t.columns[c][r] = strings.TrimSpace(cell)
		}
	}
	return t, nil
}

func (t *Table) Len() int { return t.rows }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Strings returns a copy of the raw cells of a column.
func (t *Table) Strings(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return append([]string(nil), t.columns[i]...), nil
}

// Floats parses a column as numbers. Empty or non-numeric cells become NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, nil
}

// withColumn returns a new table with the column appended.
func (t *Table) withColumn(name string, values []string) *Table {
	next := &Table{
		names:   append(t.Columns(), name),
		index:   make(map[string]int, len(t.names)+1),
		columns: append(append([][]string(nil), t.columns...), values),
		rows:    t.rows,
	}
	for i, n := range next.names {
		next.index[n] = i
	}
	return next
}

// without returns a new table lacking the named columns.
func (t *Table) without(drop ...string) *Table {
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	next := &Table{index: make(map[string]int, len(t.names)), rows: t.rows}
	for i, n := range t.names {
		if skip[n] {
			continue
		}
		next.index[n] = len(next.names)
		next.names = append(next.names, n)
		next.columns = append(next.columns, t.columns[i])
	}
	return next
}
