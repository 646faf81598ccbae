package dataset

import (
	"fmt"
)

// ColumnType defines the declared type of a column
type ColumnType string

const (
	Numeric     ColumnType = "numeric"
	Categorical ColumnType = "categorical"
	Text        ColumnType = "text"
)

// Value is a single cell. Missing cells carry neither a number nor a string.
type Value struct {
	Num     float64 `json:"num,omitempty"`
	Str     string  `json:"str,omitempty"`
	Missing bool    `json:"missing,omitempty"`
}

// Num creates a numeric value
func Num(v float64) Value {
	return Value{Num: v}
}

// Str creates a string value
func Str(s string) Value {
	return Value{Str: s}
}

// NA creates a missing value marker
func NA() Value {
	return Value{Missing: true}
}

// Column is a named, typed sequence of values
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []Value    `json:"values"`
}

// MissingCount returns the number of missing markers in the column
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Missing {
			n++
		}
	}
	return n
}

// MissingRatio returns the fraction of missing values (0 for an empty column)
func (c Column) MissingRatio() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(len(c.Values))
}

// Dataset is an immutable in-memory table of typed columns.
// All columns share the same row count and column names are unique.
// Transformations return a new Dataset; the source is never mutated, so
// analyses can always be re-run against the untouched original.
type Dataset struct {
	columns []Column
	byName  map[string]int
}

// New builds a Dataset from columns, enforcing the structural invariants
func New(columns ...Column) (*Dataset, error) {
	byName := make(map[string]int, len(columns))
	rows := -1
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := byName[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
		byName[col.Name] = i
	}
	return &Dataset{columns: columns, byName: byName}, nil
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// Names returns the column names in declaration order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Columns returns all columns in declaration order
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// NumericValues returns the non-missing numeric values of a column in row order
func (d *Dataset) NumericValues(name string) ([]float64, error) {
	col, ok := d.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if col.Type != Numeric {
		return nil, fmt.Errorf("column %q is %s, not numeric", name, col.Type)
	}
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if !v.Missing {
			out = append(out, v.Num)
		}
	}
	return out, nil
}

// PairwiseComplete returns the paired values of two numeric columns using only
// rows where both are non-missing. The per-pair sample size therefore varies
// with the missingness of each pair, not of the whole row set.
func (d *Dataset) PairwiseComplete(a, b string) (x, y []float64, err error) {
	colA, ok := d.Column(a)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found", a)
	}
	colB, ok := d.Column(b)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not found", b)
	}
	for i := range colA.Values {
		if colA.Values[i].Missing || colB.Values[i].Missing {
			continue
		}
		x = append(x, colA.Values[i].Num)
		y = append(y, colB.Values[i].Num)
	}
	return x, y, nil
}

// CompleteRows returns a dense row-major matrix over the named numeric columns,
// keeping only rows with no missing value in any of them (listwise deletion).
// The returned index slice maps each matrix row back to its source row.
func (d *Dataset) CompleteRows(names []string) ([][]float64, []int, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		col, ok := d.Column(name)
		if !ok {
			return nil, nil, fmt.Errorf("column %q not found", name)
		}
		if col.Type != Numeric {
			return nil, nil, fmt.Errorf("column %q is %s, not numeric", name, col.Type)
		}
		cols[i] = col
	}
	var matrix [][]float64
	var rowIdx []int
	for r := 0; r < d.RowCount(); r++ {
		complete := true
		for _, col := range cols {
			if col.Values[r].Missing {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		row := make([]float64, len(cols))
		for c, col := range cols {
			row[c] = col.Values[r].Num
		}
		matrix = append(matrix, row)
		rowIdx = append(rowIdx, r)
	}
	return matrix, rowIdx, nil
}

// Group is an ordered slice of numeric observations sharing one grouping label
type Group struct {
	Label  string
	Values []float64
}

// GroupedNumeric splits a numeric column by the labels of a grouping column.
// Groups appear in order of first appearance; rows missing either cell are
// skipped. Numeric grouping columns are labeled by their formatted value.
func (d *Dataset) GroupedNumeric(valueCol, groupCol string) ([]Group, error) {
	vc, ok := d.Column(valueCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found", valueCol)
	}
	if vc.Type != Numeric {
		return nil, fmt.Errorf("column %q is %s, not numeric", valueCol, vc.Type)
	}
	gc, ok := d.Column(groupCol)
	if !ok {
		return nil, fmt.Errorf("column %q not found", groupCol)
	}

	var groups []Group
	index := make(map[string]int)
	for i := range vc.Values {
		if vc.Values[i].Missing || gc.Values[i].Missing {
			continue
		}
		label := gc.Values[i].Str
		if gc.Type == Numeric {
			label = fmt.Sprintf("%g", gc.Values[i].Num)
		}
		gi, seen := index[label]
		if !seen {
			gi = len(groups)
			index[label] = gi
			groups = append(groups, Group{Label: label})
		}
		groups[gi].Values = append(groups[gi].Values, vc.Values[i].Num)
	}
	return groups, nil
}

// FilterRows returns a new Dataset containing only rows where keep is true,
// preserving relative row order
func (d *Dataset) FilterRows(keep []bool) (*Dataset, error) {
	if len(keep) != d.RowCount() {
		return nil, fmt.Errorf("keep mask has %d entries, dataset has %d rows", len(keep), d.RowCount())
	}
	cols := make([]Column, len(d.columns))
	for i, col := range d.columns {
		vals := make([]Value, 0, len(col.Values))
		for r, v := range col.Values {
			if keep[r] {
				vals = append(vals, v)
			}
		}
		cols[i] = Column{Name: col.Name, Type: col.Type, Values: vals}
	}
	return New(cols...)
}

// DropColumns returns a new Dataset without the named columns
func (d *Dataset) DropColumns(names ...string) (*Dataset, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var cols []Column
	for _, col := range d.columns {
		if !drop[col.Name] {
			cols = append(cols, col)
		}
	}
	return New(cols...)
}

// ReplaceColumn returns a new Dataset with one column swapped out
func (d *Dataset) ReplaceColumn(col Column) (*Dataset, error) {
	if _, ok := d.byName[col.Name]; !ok {
		return nil, fmt.Errorf("column %q not found", col.Name)
	}
	cols := make([]Column, len(d.columns))
	copy(cols, d.columns)
	cols[d.byName[col.Name]] = col
	return New(cols...)
}
