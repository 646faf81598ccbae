package analysis

import (
	"statlab/domain/core"
)

// Result is the uniform output envelope of the engine. It is a tagged union:
// Kind names the variant and exactly one payload pointer is non-nil, so
// callers cannot read fields irrelevant to the analysis they requested.
// Results are immutable once built and cheaply serializable.
type Result struct {
	ID             core.ResultID     `json:"id"`
	RequestID      core.RequestID    `json:"request_id"`
	Kind           Kind              `json:"kind"`
	CreatedAt      core.Timestamp    `json:"created_at"`
	Interpretation string            `json:"interpretation,omitempty"`
	Charts         []ChartDescriptor `json:"charts,omitempty"`

	Descriptive *DescriptiveResult `json:"descriptive,omitempty"`
	TTest       *TTestResult       `json:"ttest,omitempty"`
	Anova       *AnovaResult       `json:"anova,omitempty"`
	Correlation *CorrelationResult `json:"correlation,omitempty"`
	Regression  *RegressionResult  `json:"regression,omitempty"`
	PCA         *PCAResult         `json:"pca,omitempty"`
	KMeans      *KMeansResult      `json:"kmeans,omitempty"`
}

// NewResult stamps an envelope for the given request
func NewResult(req Request) Result {
	return Result{
		ID:        core.ResultID(core.NewID()),
		RequestID: req.ID,
		Kind:      req.Kind,
		CreatedAt: core.Now(),
	}
}

// ColumnSummary holds the descriptive statistics of one numeric column.
// Variance, StdDev and Skewness are undefined (Degenerate=true) when fewer
// than two non-missing values exist; they are never reported as zero.
type ColumnSummary struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	Variance   float64 `json:"variance"` // sample variance, divisor n-1
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Q1         float64 `json:"q1"` // linear interpolation between order statistics
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Skewness   float64 `json:"skewness"` // adjusted Fisher-Pearson
	Degenerate bool    `json:"degenerate,omitempty"`
}

// CategoryCount is one row of a categorical frequency table
type CategoryCount struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// FrequencyTable summarizes a categorical or text column
type FrequencyTable struct {
	Column string          `json:"column"`
	Counts []CategoryCount `json:"counts"`
}

// DescriptiveResult is the payload of a describe request
type DescriptiveResult struct {
	Summaries   []ColumnSummary  `json:"summaries"`
	Frequencies []FrequencyTable `json:"frequencies,omitempty"`
}

// GroupSummary reports per-group diagnostics for group comparisons
type GroupSummary struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// LeveneResult reports the variance-homogeneity pre-check
type LeveneResult struct {
	Statistic     float64 `json:"statistic"`
	PValue        float64 `json:"p_value"`
	EqualVariance bool    `json:"equal_variance"`
}

// TTestResult is the payload of a t-test request
type TTestResult struct {
	Variant        TTestVariant   `json:"variant"`
	Groups         []GroupSummary `json:"groups"`
	Statistic      float64        `json:"statistic"`
	DF             float64        `json:"df"` // fractional under Welch-Satterthwaite
	PValue         float64        `json:"p_value"`
	Alpha          float64        `json:"alpha"`
	RejectNull     bool           `json:"reject_null"`
	MeanDifference float64        `json:"mean_difference"`
	CohensD        float64        `json:"cohens_d"`
	Levene         *LeveneResult  `json:"levene,omitempty"` // absent for paired
}

// TukeyComparison is one pair of the Tukey HSD post-hoc sweep
type TukeyComparison struct {
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	MeanDiff    float64 `json:"mean_diff"`
	QStatistic  float64 `json:"q_statistic"`
	Significant bool    `json:"significant"`
}

// AnovaResult is the payload of a one-way ANOVA request
type AnovaResult struct {
	Groups     []GroupSummary    `json:"groups"`
	SSBetween  float64           `json:"ss_between"`
	SSWithin   float64           `json:"ss_within"`
	DFBetween  int               `json:"df_between"` // k-1
	DFWithin   int               `json:"df_within"`  // N-k
	FStatistic float64           `json:"f_statistic"`
	PValue     float64           `json:"p_value"`
	Alpha      float64           `json:"alpha"`
	RejectNull bool              `json:"reject_null"`
	EtaSquared float64           `json:"eta_squared"`
	Levene     *LeveneResult     `json:"levene,omitempty"`
	PostHoc    []TukeyComparison `json:"post_hoc,omitempty"` // populated when F is significant
}

// CorrelationResult is the payload of a correlation request. Cells are
// pairwise-complete: SampleSizes[i][j] records the N behind each coefficient.
type CorrelationResult struct {
	Method      CorrelationMethod `json:"method"`
	Columns     []string          `json:"columns"`
	Matrix      [][]float64       `json:"matrix"`
	PValues     [][]float64       `json:"p_values"`
	SampleSizes [][]int           `json:"sample_sizes"`
}

// Coefficient reports one regression term with its inference
type Coefficient struct {
	Name       string  `json:"name"`
	Estimate   float64 `json:"estimate"`
	StdError   float64 `json:"std_error"`
	TStatistic float64 `json:"t_statistic"`
	PValue     float64 `json:"p_value"`
}

// RegressionResult is the payload of a regression request
type RegressionResult struct {
	Dependent    string        `json:"dependent"`
	Coefficients []Coefficient `json:"coefficients"`
	RSquared     float64       `json:"r_squared"`
	AdjRSquared  float64       `json:"adj_r_squared"`
	FStatistic   float64       `json:"f_statistic"`
	FPValue      float64       `json:"f_p_value"`
	DFModel      int           `json:"df_model"`
	DFResidual   int           `json:"df_residual"`
	Observations int           `json:"observations"`
	Fitted       []float64     `json:"fitted"`
	Residuals    []float64     `json:"residuals"`
}

// PCAComponent is one principal component ordered by descending eigenvalue
type PCAComponent struct {
	Eigenvalue      float64   `json:"eigenvalue"`
	ExplainedRatio  float64   `json:"explained_ratio"`
	CumulativeRatio float64   `json:"cumulative_ratio"`
	Loadings        []float64 `json:"loadings"` // one entry per input column
}

// PCAResult is the payload of a PCA request
type PCAResult struct {
	Columns      []string       `json:"columns"`
	Standardized bool           `json:"standardized"`
	Components   []PCAComponent `json:"components"`
	Scores       [][]float64    `json:"scores"` // projected row coordinates
	SampleSize   int            `json:"sample_size"`
}

// StopReason records which k-means stop condition fired
type StopReason string

const (
	StopConverged     StopReason = "converged"
	StopMaxIterations StopReason = "max-iterations"
)

// ClusterSummary reports one final cluster
type ClusterSummary struct {
	Index    int       `json:"index"`
	Size     int       `json:"size"`
	Centroid []float64 `json:"centroid"` // on the original scale
	WithinSS float64   `json:"within_ss"`
}

// KMeansResult is the payload of a k-means request
type KMeansResult struct {
	K             int              `json:"k"`
	Columns       []string         `json:"columns"`
	Assignments   []int            `json:"assignments"` // aligned with RowIndex
	RowIndex      []int            `json:"row_index"`   // source rows that were complete
	Clusters      []ClusterSummary `json:"clusters"`
	TotalWithinSS float64          `json:"total_within_ss"`
	Iterations    int              `json:"iterations"`
	Stop          StopReason       `json:"stop"`
	Standardized  bool             `json:"standardized"`
}
