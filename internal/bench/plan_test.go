package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agbru/fermatbench/internal/harness"
	"github.com/agbru/fermatbench/internal/parallel"
)

func TestDefaultMatrix(t *testing.T) {
	t.Parallel()
	var labels []string
	for _, c := range DefaultMatrix().Configs() {
		labels = append(labels, c.Label())
	}
	assert.Equal(t, []string{
		"sequential/reference",
		"thread-pool[4,dynamic]/reference",
		"process-pool[4,static]/reference",
		"process-pool[4,dynamic]/reference",
		"sequential/optimized",
		"thread-pool[4,dynamic]/optimized",
		"process-pool[4,static]/optimized",
		"process-pool[4,dynamic]/optimized",
	}, labels)

	for _, c := range DefaultMatrix().Configs() {
		if c.Model == harness.ThreadPool {
			assert.Equal(t, 1, c.ExecSlots, "thread-pool workers take turns by default")
		}
	}
}

func TestMatrix_ExplicitPartitionAndPolicies(t *testing.T) {
	t.Parallel()
	m := Matrix{
		Models:        []harness.Model{harness.Sequential, harness.ThreadPool, harness.ProcessPool},
		Variants:      []string{"optimized"},
		Workers:       2,
		Partitions:    []harness.Partition{harness.Static},
		Chunking:      parallel.ChunkTail,
		FailurePolicy: harness.Isolate,
		ExecSlots:     1,
	}
	configs := m.Configs()
	assert.Len(t, configs, 3)
	for _, c := range configs {
		assert.Equal(t, parallel.ChunkTail, c.Chunking)
		assert.Equal(t, harness.Isolate, c.FailurePolicy)
		if c.Model != harness.Sequential {
			assert.Equal(t, harness.Static, c.Partition)
		}
	}
	assert.Equal(t, 1, configs[1].ExecSlots)
	assert.Equal(t, 0, configs[0].ExecSlots, "sequential runs have no exec gate")
}

func TestPlan_ValidateDefaultsBaseline(t *testing.T) {
	t.Parallel()
	p := Plan{Configs: DefaultMatrix().Configs(), Trials: 1, Loops: 1}
	assert.NoError(t, p.Validate())
	assert.Equal(t, "sequential/reference", p.Baseline)
}
