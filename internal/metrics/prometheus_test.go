package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveItem(t *testing.T) {
	okBefore := testutil.ToFloat64(itemsTotal.WithLabelValues("sequential", "metrics-test", StatusSuccess))
	errBefore := testutil.ToFloat64(itemsTotal.WithLabelValues("sequential", "metrics-test", StatusError))

	ObserveItem("sequential", "metrics-test", nil)
	ObserveItem("sequential", "metrics-test", nil)
	ObserveItem("sequential", "metrics-test", errors.New("boom"))

	if got := testutil.ToFloat64(itemsTotal.WithLabelValues("sequential", "metrics-test", StatusSuccess)) - okBefore; got != 2 {
		t.Errorf("success delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(itemsTotal.WithLabelValues("sequential", "metrics-test", StatusError)) - errBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestObserveSpawnAndBest(t *testing.T) {
	before := testutil.ToFloat64(workerSpawns.WithLabelValues(SpawnRetry))
	ObserveSpawn(SpawnRetry)
	if got := testutil.ToFloat64(workerSpawns.WithLabelValues(SpawnRetry)) - before; got != 1 {
		t.Errorf("spawn delta = %v, want 1", got)
	}

	ObserveBest("metrics-test/best", 250*time.Millisecond)
	if got := testutil.ToFloat64(bestSeconds.WithLabelValues("metrics-test/best")); got != 0.25 {
		t.Errorf("best gauge = %v, want 0.25", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	ObserveRun("thread-pool", "metrics-test", 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "fermatbench.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fermatbench_run_duration_seconds") {
		t.Error("textfile should contain the run duration histogram")
	}
}
