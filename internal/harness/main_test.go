package harness

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/worker"
)

// TestMain turns the test binary into a worker process when the harness
// re-executes it for process-pool runs.
func TestMain(m *testing.M) {
	if os.Getenv(worker.EnvWorker) == "1" {
		if err := worker.ServeStdio(context.Background(), fermat.NewDefaultRegistry(), nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}
