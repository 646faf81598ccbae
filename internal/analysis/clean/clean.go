// Package clean implements the missing-value strategies and structural
// cleanup applied to a Dataset before analysis. All operations are pure:
// they return a new Dataset and never touch the source.
package clean

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
	"statlab/domain/dataset"
)

// Policy enumerates the missing-value strategies
type Policy string

const (
	DropRow        Policy = "drop-row"
	DropColumn     Policy = "drop-column"
	ImputeMean     Policy = "impute-mean"
	ImputeMedian   Policy = "impute-median"
	ImputeMode     Policy = "impute-mode"
	ImputeConstant Policy = "impute-constant"
)

// Options configures one cleaning pass
type Options struct {
	Policy Policy
	// Constant substitutes missing entries under ImputeConstant. Its numeric
	// or string part is used according to each target column's type.
	Constant dataset.Value
	// DropColumnThreshold is the missing-ratio above which DropColumn removes
	// a target column. Zero means the engine default of 0.5.
	DropColumnThreshold float64
}

// Apply runs one cleaning pass over the target columns and returns a new
// Dataset. After a successful pass no target column contains a missing marker,
// except under DropColumn, where columns below the threshold survive with
// their markers intact.
func Apply(ds *dataset.Dataset, opts Options, targets []string) (*dataset.Dataset, error) {
	if len(targets) == 0 {
		return nil, core.NewInvalidConfigError("targets", "no target columns given")
	}
	for _, name := range targets {
		if _, ok := ds.Column(name); !ok {
			return nil, core.NewColumnNotFoundError(name)
		}
	}

	switch opts.Policy {
	case DropRow:
		return dropRows(ds, targets)
	case DropColumn:
		threshold := opts.DropColumnThreshold
		if threshold == 0 {
			threshold = 0.5
		}
		return dropColumns(ds, targets, threshold)
	case ImputeMean, ImputeMedian:
		return imputeStatistic(ds, targets, opts.Policy)
	case ImputeMode:
		return imputeMode(ds, targets)
	case ImputeConstant:
		return imputeConstant(ds, targets, opts.Constant)
	default:
		return nil, core.NewInvalidConfigError("policy", fmt.Sprintf("unknown cleaning policy %q", opts.Policy))
	}
}

func dropRows(ds *dataset.Dataset, targets []string) (*dataset.Dataset, error) {
	keep := make([]bool, ds.RowCount())
	kept := 0
	for r := range keep {
		keep[r] = true
	}
	for _, name := range targets {
		col, _ := ds.Column(name)
		for r, v := range col.Values {
			if v.Missing {
				keep[r] = false
			}
		}
	}
	for _, k := range keep {
		if k {
			kept++
		}
	}
	if kept == 0 {
		return nil, fmt.Errorf("%w: drop-row removed every row", core.ErrEmptyResult)
	}
	return ds.FilterRows(keep)
}

func dropColumns(ds *dataset.Dataset, targets []string, threshold float64) (*dataset.Dataset, error) {
	var remove []string
	for _, name := range targets {
		col, _ := ds.Column(name)
		if col.MissingRatio() > threshold {
			remove = append(remove, name)
		}
	}
	if len(remove) == ds.ColumnCount() {
		return nil, fmt.Errorf("%w: drop-column removed every column", core.ErrEmptyResult)
	}
	if len(remove) == 0 {
		// Nothing exceeded the threshold; return an identical copy.
		return dataset.New(ds.Columns()...)
	}
	return ds.DropColumns(remove...)
}

func imputeStatistic(ds *dataset.Dataset, targets []string, policy Policy) (*dataset.Dataset, error) {
	out := ds
	for _, name := range targets {
		col, _ := out.Column(name)
		if col.Type != dataset.Numeric {
			return nil, core.NewTypeMismatchError(name, string(col.Type), string(dataset.Numeric))
		}
		observed, err := out.NumericValues(name)
		if err != nil {
			return nil, err
		}
		if len(observed) == 0 {
			return nil, core.NewInsufficientDataError(fmt.Sprintf("column %q", name), 0, 1)
		}
		var fill float64
		if policy == ImputeMean {
			fill, err = stats.Mean(observed)
		} else {
			fill, err = stats.Median(observed)
		}
		if err != nil {
			return nil, core.NewDegenerateInputError(fmt.Sprintf("column %q", name), err.Error())
		}
		out, err = fillMissing(out, col, dataset.Num(fill))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func imputeMode(ds *dataset.Dataset, targets []string) (*dataset.Dataset, error) {
	out := ds
	for _, name := range targets {
		col, _ := out.Column(name)
		mode, n := modeValue(col)
		if n == 0 {
			return nil, core.NewInsufficientDataError(fmt.Sprintf("column %q", name), 0, 1)
		}
		var err error
		out, err = fillMissing(out, col, mode)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// modeValue returns the most frequent non-missing value, first-seen on ties
func modeValue(col dataset.Column) (dataset.Value, int) {
	counts := make(map[string]int)
	first := make(map[string]dataset.Value)
	order := []string{}
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		key := v.Str
		if col.Type == dataset.Numeric {
			key = fmt.Sprintf("%g", v.Num)
		}
		if _, seen := counts[key]; !seen {
			first[key] = v
			order = append(order, key)
		}
		counts[key]++
	}
	best, bestCount := dataset.Value{}, 0
	for _, key := range order {
		if counts[key] > bestCount {
			best, bestCount = first[key], counts[key]
		}
	}
	return best, bestCount
}

func imputeConstant(ds *dataset.Dataset, targets []string, constant dataset.Value) (*dataset.Dataset, error) {
	if constant.Missing {
		return nil, core.NewInvalidConfigError("constant", "imputation constant cannot itself be missing")
	}
	out := ds
	for _, name := range targets {
		col, _ := out.Column(name)
		fill := constant
		if col.Type == dataset.Numeric {
			fill = dataset.Num(constant.Num)
		} else {
			fill = dataset.Str(constant.Str)
		}
		var err error
		out, err = fillMissing(out, col, fill)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fillMissing(ds *dataset.Dataset, col dataset.Column, fill dataset.Value) (*dataset.Dataset, error) {
	vals := make([]dataset.Value, len(col.Values))
	for i, v := range col.Values {
		if v.Missing {
			vals[i] = fill
		} else {
			vals[i] = v
		}
	}
	return ds.ReplaceColumn(dataset.Column{Name: col.Name, Type: col.Type, Values: vals})
}

// DropDuplicateRows removes rows that duplicate an earlier row over the given
// subset of columns (all columns when subset is empty), keeping the first
// occurrence and preserving relative order.
func DropDuplicateRows(ds *dataset.Dataset, subset []string) (*dataset.Dataset, error) {
	if len(subset) == 0 {
		subset = ds.Names()
	}
	cols := make([]dataset.Column, len(subset))
	for i, name := range subset {
		col, ok := ds.Column(name)
		if !ok {
			return nil, core.NewColumnNotFoundError(name)
		}
		cols[i] = col
	}
	seen := make(map[string]bool)
	keep := make([]bool, ds.RowCount())
	for r := 0; r < ds.RowCount(); r++ {
		key := rowKey(cols, r)
		if !seen[key] {
			seen[key] = true
			keep[r] = true
		}
	}
	return ds.FilterRows(keep)
}
