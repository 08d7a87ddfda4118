package fermat

import (
	"testing"
)

func TestPresets(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		size  int
		first string
		last  string
	}{
		{PresetCompare, 5, "101", "609133"},
		{PresetMapReduce, 10, "101", "3000009"},
		{PresetTimeit, 12, "101", "61335395416403926747"},
		{PresetOracle, 10, "9", "61335395416403926747"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			nums, err := Preset(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if len(nums) != tt.size {
				t.Fatalf("len = %d, want %d", len(nums), tt.size)
			}
			if nums[0].String() != tt.first || nums[len(nums)-1].String() != tt.last {
				t.Errorf("bounds = %s..%s", nums[0], nums[len(nums)-1])
			}
			for _, n := range nums {
				if err := Validate(n); err != nil {
					t.Errorf("preset value %s is out of domain: %v", n, err)
				}
			}
		})
	}
}

func TestPreset_ReturnsFreshCopies(t *testing.T) {
	t.Parallel()
	a, _ := Preset(PresetCompare)
	a[0].SetInt64(4)
	b, _ := Preset(PresetCompare)
	if b[0].String() != "101" {
		t.Error("mutating a preset result must not affect later calls")
	}
}

func TestPreset_Unknown(t *testing.T) {
	t.Parallel()
	if _, err := Preset("nope"); err == nil {
		t.Error("unknown preset should fail")
	}
	if names := PresetNames(); len(names) != 4 || names[0] != PresetCompare {
		t.Errorf("PresetNames() = %v", names)
	}
}

func TestOracleVectors_SpanCategories(t *testing.T) {
	t.Parallel()
	var primes, composites, wide int
	for _, n := range OracleVectors() {
		if n.ProbablyPrime(20) {
			primes++
		} else {
			composites++
		}
		if !n.IsUint64() {
			wide++
		}
	}
	if primes == 0 || composites == 0 || wide == 0 {
		t.Errorf("oracle set should mix primes (%d), composites (%d) and wide values (%d)", primes, composites, wide)
	}
}
