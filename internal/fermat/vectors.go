package fermat

import (
	"fmt"
	"math/big"
	"sort"
)

// Preset names.
const (
	PresetCompare   = "compare"
	PresetMapReduce = "mapreduce"
	PresetTimeit    = "timeit"
	PresetOracle    = "oracle"
)

var (
	compareBatch   = []string{"101", "9973", "104729", "101909", "609133"}
	mapReduceBatch = append(append([]string{}, compareBatch...),
		"1300039", "9999991", "99999959", "99999971", "3000009")
	timeitBatch = append(append([]string{}, mapReduceBatch...),
		"700000133", "61335395416403926747")

	// oracleVectors spans primes, small composites and a composite wider
	// than 64 bits. The slow primes of mapreduce are left out.
	oracleVectors = []string{
		"9", "15", "101", "9973", "104729", "101909", "609133",
		"1300039", "3000009", "61335395416403926747",
	}

	presets = map[string][]string{
		PresetCompare:   compareBatch,
		PresetMapReduce: mapReduceBatch,
		PresetTimeit:    timeitBatch,
		PresetOracle:    oracleVectors,
	}
)

// Preset returns a fresh copy of the named input batch.
func Preset(name string) ([]*big.Int, error) {
	raw, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown batch preset: %s", name)
	}
	return ParseNumbers(raw)
}

// PresetNames returns the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OracleVectors returns the correctness test set.
func OracleVectors() []*big.Int {
	nums, _ := ParseNumbers(oracleVectors)
	return nums
}

// ParseNumbers parses a list of base-10 integers.
func ParseNumbers(raw []string) ([]*big.Int, error) {
	nums := make([]*big.Int, 0, len(raw))
	for _, s := range raw {
		n, err := ParseNumber(s)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}
