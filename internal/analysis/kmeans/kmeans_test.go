package kmeans

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/internal/testkit"
)

func kmeansConfig(k int, init analysis.KMeansInit) analysis.KMeansConfig {
	return analysis.KMeansConfig{
		K:             k,
		Init:          init,
		MaxIterations: 300,
		Tolerance:     1e-6,
	}
}

func seededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestKMeans_TwoObviousClusters(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumn("v", 1, 1, 1, 10, 10, 10))

	for _, init := range []analysis.KMeansInit{analysis.InitRandomSeeded, analysis.InitFarthestFirst} {
		result, charts, err := KMeans(context.Background(), ds, []string{"v"},
			kmeansConfig(2, init), seededRNG(42))
		if err != nil {
			t.Fatalf("%s: %v", init, err)
		}
		if result.Stop != analysis.StopConverged {
			t.Fatalf("%s: expected convergence, got %s", init, result.Stop)
		}

		var got []float64
		for _, c := range result.Clusters {
			got = append(got, c.Centroid[0])
			if c.Size != 3 {
				t.Fatalf("%s: expected clusters of 3, got %d", init, c.Size)
			}
			if c.WithinSS != 0 {
				t.Fatalf("%s: identical points should have zero within-cluster SS, got %v", init, c.WithinSS)
			}
		}
		if !(got[0] == 1 && got[1] == 10) && !(got[0] == 10 && got[1] == 1) {
			t.Fatalf("%s: expected centroids {1, 10}, got %v", init, got)
		}
		if result.TotalWithinSS != 0 {
			t.Fatalf("%s: expected zero total within-cluster SS, got %v", init, result.TotalWithinSS)
		}
		if len(charts) != 1 {
			t.Fatalf("%s: expected one scatter chart, got %d", init, len(charts))
		}
	}
}

func TestKMeans_KEqualsRowCount(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("a", 1, 5, 9, 13),
		testkit.NumericColumn("b", 2, 6, 10, 14),
	)

	for _, init := range []analysis.KMeansInit{analysis.InitRandomSeeded, analysis.InitFarthestFirst} {
		result, _, err := KMeans(context.Background(), ds, []string{"a", "b"},
			kmeansConfig(4, init), seededRNG(7))
		if err != nil {
			t.Fatalf("%s: %v", init, err)
		}
		if result.TotalWithinSS != 0 {
			t.Fatalf("%s: singleton clusters should have zero SS, got %v", init, result.TotalWithinSS)
		}
		for _, c := range result.Clusters {
			if c.Size != 1 {
				t.Fatalf("%s: k=n should give singleton clusters, got size %d", init, c.Size)
			}
		}
	}
}

func TestKMeans_DeterministicForSeed(t *testing.T) {
	ds := testkit.BlobDataset([][]float64{{0, 0}, {10, 10}, {-10, 5}}, 8, 1.0, 21)

	run := func(seed int64) *analysis.KMeansResult {
		result, _, err := KMeans(context.Background(), ds, []string{"f1", "f2"},
			kmeansConfig(3, analysis.InitRandomSeeded), seededRNG(seed))
		if err != nil {
			t.Fatalf("kmeans: %v", err)
		}
		return result
	}

	first, second := run(99), run(99)
	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Fatal("same seed must reproduce identical assignments")
	}
	if !reflect.DeepEqual(first.Clusters, second.Clusters) {
		t.Fatal("same seed must reproduce identical cluster summaries")
	}
}

func TestKMeans_SeparatedBlobsRecovered(t *testing.T) {
	ds := testkit.BlobDataset([][]float64{{0, 0}, {20, 20}}, 10, 1.0, 5)

	result, _, err := KMeans(context.Background(), ds, []string{"f1", "f2"},
		kmeansConfig(2, analysis.InitFarthestFirst), seededRNG(1))
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	if result.Stop != analysis.StopConverged {
		t.Fatalf("expected convergence, got %s", result.Stop)
	}
	sizes := []int{result.Clusters[0].Size, result.Clusters[1].Size}
	if sizes[0] != 10 || sizes[1] != 10 {
		t.Fatalf("well-separated blobs should split 10/10, got %v", sizes)
	}
	for _, c := range result.Clusters {
		nearOrigin := math.Hypot(c.Centroid[0], c.Centroid[1]) < 3
		nearFar := math.Hypot(c.Centroid[0]-20, c.Centroid[1]-20) < 3
		if !nearOrigin && !nearFar {
			t.Fatalf("centroid far from both blob centers: %v", c.Centroid)
		}
	}
}

func TestKMeans_StandardizedCentroidsOnOriginalScale(t *testing.T) {
	// Feature scales differ by orders of magnitude
	ds := testkit.MustDataset(
		testkit.NumericColumn("small", 1, 1.1, 0.9, 5, 5.1, 4.9),
		testkit.NumericColumn("large", 1000, 1100, 900, 5000, 5100, 4900),
	)
	cfg := kmeansConfig(2, analysis.InitFarthestFirst)
	cfg.Standardize = true

	result, _, err := KMeans(context.Background(), ds, []string{"small", "large"}, cfg, seededRNG(3))
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	if !result.Standardized {
		t.Fatal("result should record standardization")
	}
	for _, c := range result.Clusters {
		if c.Centroid[1] < 500 {
			t.Fatalf("centroids must be reported on the original scale, got %v", c.Centroid)
		}
	}
}

func TestKMeans_InvalidK(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumn("v", 1, 2, 3))
	for _, k := range []int{0, 4} {
		_, _, err := KMeans(context.Background(), ds, []string{"v"},
			kmeansConfig(k, analysis.InitRandomSeeded), seededRNG(1))
		if !errors.Is(err, core.ErrInvalidConfig) {
			t.Fatalf("k=%d: expected ErrInvalidConfig, got %v", k, err)
		}
	}
}

func TestKMeans_Cancellation(t *testing.T) {
	ds := testkit.MustDataset(testkit.NumericColumn("v", 1, 2, 3, 4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := KMeans(ctx, ds, []string{"v"},
		kmeansConfig(2, analysis.InitRandomSeeded), seededRNG(1))
	if !errors.Is(err, core.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestKMeans_SkipsIncompleteRows(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumnNA("a", []float64{1, 1, 10, 10, 0}, 4),
		testkit.NumericColumn("b", 1, 1, 10, 10, 99),
	)
	result, _, err := KMeans(context.Background(), ds, []string{"a", "b"},
		kmeansConfig(2, analysis.InitFarthestFirst), seededRNG(1))
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	if len(result.Assignments) != 4 {
		t.Fatalf("expected 4 usable rows, got %d", len(result.Assignments))
	}
	if !reflect.DeepEqual(result.RowIndex, []int{0, 1, 2, 3}) {
		t.Fatalf("row index should map back to source rows, got %v", result.RowIndex)
	}
}
