package clean

import (
	"fmt"
	"strings"

	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// Report is the pre-clean health check of a Dataset: duplicate rows, missing
// cells and IQR outliers, the diagnostics a user reviews before choosing a
// cleaning policy.
type Report struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// CheckedColumns lists the columns used for duplicate detection.
	// Unique identifier-looking columns are excluded so row IDs do not
	// mask genuine duplicates.
	CheckedColumns   []string       `json:"checked_columns"`
	DuplicateRows    []int          `json:"duplicate_rows"` // every member of a duplicate group
	TotalMissing     int            `json:"total_missing"`
	MissingByColumn  map[string]int `json:"missing_by_column"`
	OutliersByColumn map[string]int `json:"outliers_by_column"` // 1.5*IQR fence, numeric columns only
}

// QualityReport inspects a Dataset without modifying it
func QualityReport(ds *dataset.Dataset) Report {
	report := Report{
		Rows:             ds.RowCount(),
		Cols:             ds.ColumnCount(),
		MissingByColumn:  make(map[string]int),
		OutliersByColumn: make(map[string]int),
	}

	report.CheckedColumns = duplicateCheckColumns(ds)
	report.DuplicateRows = duplicateRows(ds, report.CheckedColumns)

	for _, col := range ds.Columns() {
		if n := col.MissingCount(); n > 0 {
			report.MissingByColumn[col.Name] = n
			report.TotalMissing += n
		}
		if col.Type == dataset.Numeric {
			if n := iqrOutliers(col); n > 0 {
				report.OutliersByColumn[col.Name] = n
			}
		}
	}
	return report
}

// duplicateCheckColumns excludes columns that look like unique row identifiers
func duplicateCheckColumns(ds *dataset.Dataset) []string {
	var checked []string
	for _, col := range ds.Columns() {
		name := strings.ToLower(col.Name)
		if strings.Contains(name, "id") && allUnique(col) {
			continue
		}
		checked = append(checked, col.Name)
	}
	if len(checked) == 0 {
		return ds.Names()
	}
	return checked
}

func allUnique(col dataset.Column) bool {
	seen := make(map[string]bool, len(col.Values))
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		key := v.Str
		if col.Type == dataset.Numeric {
			key = fmt.Sprintf("%g", v.Num)
		}
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

// duplicateRows returns the indices of every row that participates in a
// duplicate group over the checked columns, first occurrences included, so a
// caller can surface the whole group rather than only the trailing copies.
func duplicateRows(ds *dataset.Dataset, checked []string) []int {
	cols := make([]dataset.Column, 0, len(checked))
	for _, name := range checked {
		if col, ok := ds.Column(name); ok {
			cols = append(cols, col)
		}
	}
	groups := make(map[string][]int)
	order := []string{}
	for r := 0; r < ds.RowCount(); r++ {
		key := rowKey(cols, r)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	var dups []int
	for _, key := range order {
		if rows := groups[key]; len(rows) > 1 {
			dups = append(dups, rows...)
		}
	}
	return dups
}

func rowKey(cols []dataset.Column, row int) string {
	var b strings.Builder
	for _, col := range cols {
		v := col.Values[row]
		switch {
		case v.Missing:
			b.WriteString("\x00na")
		case col.Type == dataset.Numeric:
			fmt.Fprintf(&b, "\x00%g", v.Num)
		default:
			b.WriteString("\x00")
			b.WriteString(v.Str)
		}
	}
	return b.String()
}

func iqrOutliers(col dataset.Column) int {
	var vals []float64
	for _, v := range col.Values {
		if !v.Missing {
			vals = append(vals, v.Num)
		}
	}
	if len(vals) < 4 {
		return 0
	}
	q1 := numeric.Quantile(vals, 0.25)
	q3 := numeric.Quantile(vals, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	n := 0
	for _, v := range vals {
		if v < lo || v > hi {
			n++
		}
	}
	return n
}
