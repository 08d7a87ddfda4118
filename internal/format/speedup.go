package format

import (
	"fmt"
	"math"
)

// FormatSpeedup renders a baseline/candidate time ratio. Undefined ratios
// (a failed side) render as "n/a"; an instantaneous candidate renders as "∞x".
func FormatSpeedup(ratio float64, defined bool) string {
	switch {
	case !defined || math.IsNaN(ratio):
		return "n/a"
	case math.IsInf(ratio, 1):
		return "∞x"
	}
	return fmt.Sprintf("%.2fx", ratio)
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out := s[:lead]
	for i := lead; i < len(s); i += 3 {
		out += "," + s[i:i+3]
	}
	return out
}
