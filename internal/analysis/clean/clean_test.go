package clean

import (
	"errors"
	"testing"

	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/testkit"
)

func TestApply_DropRow(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumnNA("a", []float64{1, 0, 3}, 1),
		testkit.NumericColumn("b", 10, 20, 30),
	)

	out, err := Apply(ds, Options{Policy: DropRow}, []string{"a"})
	if err != nil {
		t.Fatalf("drop-row: %v", err)
	}
	if out.RowCount() != 2 {
		t.Fatalf("expected 2 rows after drop-row, got %d", out.RowCount())
	}
	a, _ := out.NumericValues("a")
	if a[0] != 1 || a[1] != 3 {
		t.Fatalf("expected a=[1 3], got %v", a)
	}
	b, _ := out.NumericValues("b")
	if b[0] != 10 || b[1] != 30 {
		t.Fatalf("other columns must drop the same rows, got b=%v", b)
	}
	if ds.RowCount() != 3 {
		t.Fatal("source dataset must not be mutated")
	}
}

func TestApply_DropRow_AllRowsMissing(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{0, 0}, 0, 1))
	_, err := Apply(ds, Options{Policy: DropRow}, []string{"a"})
	if !errors.Is(err, core.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestApply_DropColumn_Threshold(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumnNA("mostly_missing", []float64{0, 0, 0, 4}, 0, 1, 2),
		testkit.NumericColumnNA("mostly_present", []float64{1, 2, 3, 0}, 3),
	)

	out, err := Apply(ds, Options{Policy: DropColumn, DropColumnThreshold: 0.5},
		[]string{"mostly_missing", "mostly_present"})
	if err != nil {
		t.Fatalf("drop-column: %v", err)
	}
	if _, ok := out.Column("mostly_missing"); ok {
		t.Fatal("column with 75% missing should be dropped at threshold 0.5")
	}
	if _, ok := out.Column("mostly_present"); !ok {
		t.Fatal("column with 25% missing should survive threshold 0.5")
	}
}

func TestApply_DropColumn_AllColumnsRemoved(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{0, 0}, 0, 1))
	_, err := Apply(ds, Options{Policy: DropColumn, DropColumnThreshold: 0.5}, []string{"a"})
	if !errors.Is(err, core.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestApply_ImputeMean(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{1, 0, 3}, 1))
	out, err := Apply(ds, Options{Policy: ImputeMean}, []string{"a"})
	if err != nil {
		t.Fatalf("impute-mean: %v", err)
	}
	col, _ := out.Column("a")
	if col.Values[1].Missing || col.Values[1].Num != 2 {
		t.Fatalf("expected missing cell filled with mean 2, got %+v", col.Values[1])
	}
}

func TestApply_ImputeMedian(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{1, 2, 100, 0}, 3))
	out, err := Apply(ds, Options{Policy: ImputeMedian}, []string{"a"})
	if err != nil {
		t.Fatalf("impute-median: %v", err)
	}
	col, _ := out.Column("a")
	if col.Values[3].Num != 2 {
		t.Fatalf("expected median 2, got %v", col.Values[3].Num)
	}
}

func TestApply_ImputeMean_RejectsCategorical(t *testing.T) {
	ds := testkit.MustDataset(testkit.CategoricalColumn("g", "x", "y"))
	_, err := Apply(ds, Options{Policy: ImputeMean}, []string{"g"})
	if !errors.Is(err, core.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestApply_ImputeMean_AllMissing(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{0, 0}, 0, 1))
	_, err := Apply(ds, Options{Policy: ImputeMean}, []string{"a"})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestApply_ImputeMode_FirstSeenOnTies(t *testing.T) {
	col := testkit.CategoricalColumn("g", "b", "a", "b", "a", "")
	col.Values[4] = dataset.NA()
	ds := testkit.MustDataset(col)

	out, err := Apply(ds, Options{Policy: ImputeMode}, []string{"g"})
	if err != nil {
		t.Fatalf("impute-mode: %v", err)
	}
	filled, _ := out.Column("g")
	if filled.Values[4].Str != "b" {
		t.Fatalf("tie should resolve to first-seen value b, got %q", filled.Values[4].Str)
	}
}

func TestApply_ImputeConstant(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumnNA("a", []float64{1, 0}, 1))
	out, err := Apply(ds, Options{Policy: ImputeConstant, Constant: dataset.Num(-1)}, []string{"a"})
	if err != nil {
		t.Fatalf("impute-constant: %v", err)
	}
	col, _ := out.Column("a")
	if col.Values[1].Num != -1 {
		t.Fatalf("expected -1 fill, got %v", col.Values[1].Num)
	}

	_, err = Apply(ds, Options{Policy: ImputeConstant, Constant: dataset.NA()}, []string{"a"})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("missing constant should be rejected, got %v", err)
	}
}

func TestApply_UnknownPolicy(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumn("a", 1))
	_, err := Apply(ds, Options{Policy: "zap"}, []string{"a"})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestApply_UnknownTarget(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumn("a", 1))
	_, err := Apply(ds, Options{Policy: DropRow}, []string{"nope"})
	if !errors.Is(err, core.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestDropDuplicateRows_KeepsFirst(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("a", 1, 2, 1, 3),
		testkit.CategoricalColumn("g", "x", "y", "x", "z"),
	)
	out, err := DropDuplicateRows(ds, nil)
	if err != nil {
		t.Fatalf("drop duplicates: %v", err)
	}
	if out.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", out.RowCount())
	}
	a, _ := out.NumericValues("a")
	if a[0] != 1 || a[1] != 2 || a[2] != 3 {
		t.Fatalf("expected first occurrences in order, got %v", a)
	}
}

func TestQualityReport(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("user_id", 1, 2, 3, 4, 5, 6),
		testkit.NumericColumnNA("score", []float64{10, 10, 11, 12, 0, 100}, 4),
		testkit.CategoricalColumn("grp", "a", "a", "b", "b", "c", "c"),
	)

	report := QualityReport(ds)
	if report.Rows != 6 || report.Cols != 3 {
		t.Fatalf("unexpected shape %dx%d", report.Rows, report.Cols)
	}
	if report.TotalMissing != 1 || report.MissingByColumn["score"] != 1 {
		t.Fatalf("expected 1 missing in score, got %+v", report.MissingByColumn)
	}
	for _, name := range report.CheckedColumns {
		if name == "user_id" {
			t.Fatal("unique id column should be excluded from duplicate checks")
		}
	}
	if report.OutliersByColumn["score"] == 0 {
		t.Fatal("value 100 should be flagged as an IQR outlier")
	}
}

func TestQualityReport_DuplicateGroupsIncludeFirstOccurrence(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("a", 1, 2, 1),
		testkit.CategoricalColumn("g", "x", "y", "x"),
	)
	report := QualityReport(ds)
	if len(report.DuplicateRows) != 2 {
		t.Fatalf("expected both members of the duplicate group, got %v", report.DuplicateRows)
	}
	if report.DuplicateRows[0] != 0 || report.DuplicateRows[1] != 2 {
		t.Fatalf("expected rows [0 2], got %v", report.DuplicateRows)
	}
}
