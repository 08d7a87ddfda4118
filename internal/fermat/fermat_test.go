package fermat

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	apperrors "github.com/agbru/fermatbench/internal/errors"
)

func mustNumber(t testing.TB, s string) *big.Int {
	t.Helper()
	n, err := ParseNumber(s)
	if err != nil {
		t.Fatalf("ParseNumber(%q): %v", s, err)
	}
	return n
}

// knownFactorizations lists the first pair reached by the method, not just
// any valid pair.
var knownFactorizations = []struct {
	n    string
	p, q string
}{
	{"3", "1", "3"},
	{"9", "3", "3"},
	{"15", "3", "5"},
	{"21", "3", "7"},
	{"25", "5", "5"},
	{"45", "5", "9"},
	{"101", "1", "101"},
	{"9973", "1", "9973"},
	{"104729", "1", "104729"},
	{"101909", "101", "1009"},
	{"609133", "503", "1211"},
	{"1000001", "101", "9901"},
	{"1300039", "13", "100003"},
	{"3000009", "3", "1000003"},
	{"18446744073709551615", "4294967295", "4294967297"},
	{"61335395416403926747", "7831691731", "7831691737"},
}

func allVariants() []Factorizer {
	return append([]Factorizer{Reference{}, Optimized{}}, buildTagVariants()...)
}

func TestFactorize_KnownValues(t *testing.T) {
	t.Parallel()
	for _, f := range allVariants() {
		for _, tc := range knownFactorizations {
			t.Run(fmt.Sprintf("%s/n=%s", f.Name(), tc.n), func(t *testing.T) {
				t.Parallel()
				got, err := f.Factorize(mustNumber(t, tc.n))
				if err != nil {
					t.Fatalf("Factorize(%s) error = %v", tc.n, err)
				}
				want := FactorPair{P: mustNumber(t, tc.p), Q: mustNumber(t, tc.q)}
				if !got.Equal(want) {
					t.Errorf("Factorize(%s) = %s, want %s", tc.n, got, want)
				}
			})
		}
	}
}

func TestFactorize_InvalidInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n      *big.Int
		reason string
	}{
		{nil, ReasonNonPositive},
		{big.NewInt(0), ReasonNonPositive},
		{big.NewInt(-15), ReasonNonPositive},
		{big.NewInt(1), ReasonOne},
		{big.NewInt(2), ReasonEven},
		{big.NewInt(10), ReasonEven},
		{new(big.Int).Lsh(big.NewInt(3), 80), ReasonEven},
	}
	for _, f := range allVariants() {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s/%s/%s", f.Name(), tc.reason, numberString(tc.n)), func(t *testing.T) {
				t.Parallel()
				_, err := f.Factorize(tc.n)
				var invalid apperrors.InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected InvalidInputError, got %v", err)
				}
				if invalid.Reason != tc.reason {
					t.Errorf("reason = %q, want %q", invalid.Reason, tc.reason)
				}
				if invalid.Value != numberString(tc.n) {
					t.Errorf("value = %q, want %q", invalid.Value, numberString(tc.n))
				}
			})
		}
	}
}

func TestFactorize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	for _, f := range allVariants() {
		n := big.NewInt(101909)
		if _, err := f.Factorize(n); err != nil {
			t.Fatalf("%s: %v", f.Name(), err)
		}
		if n.Int64() != 101909 {
			t.Errorf("%s mutated its input to %s", f.Name(), n)
		}
	}
}

func TestFactorize_Idempotent(t *testing.T) {
	t.Parallel()
	for _, f := range allVariants() {
		n := mustNumber(t, "609133")
		first, err := f.Factorize(n)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			again, err := f.Factorize(n)
			if err != nil {
				t.Fatal(err)
			}
			if !again.Equal(first) {
				t.Errorf("%s: call %d returned %s, first returned %s", f.Name(), i, again, first)
			}
		}
	}
}

func TestVariantEquivalence_OracleVectors(t *testing.T) {
	t.Parallel()
	ref := Reference{}
	for _, f := range allVariants()[1:] {
		for _, n := range OracleVectors() {
			want, err := ref.Factorize(n)
			if err != nil {
				t.Fatalf("reference(%s): %v", n, err)
			}
			got, err := f.Factorize(n)
			if err != nil {
				t.Fatalf("%s(%s): %v", f.Name(), n, err)
			}
			if !got.Equal(want) {
				t.Errorf("%s(%s) = %s, reference = %s", f.Name(), n, got, want)
			}
		}
	}
}

func TestFactorPair(t *testing.T) {
	t.Parallel()

	t.Run("NewFactorPair orders factors", func(t *testing.T) {
		fp := NewFactorPair(big.NewInt(5), big.NewInt(3))
		if fp.P.Int64() != 3 || fp.Q.Int64() != 5 {
			t.Errorf("NewFactorPair(5, 3) = %s", fp)
		}
	})

	t.Run("Product", func(t *testing.T) {
		fp := FactorPair{P: big.NewInt(101), Q: big.NewInt(1009)}
		if got := fp.Product().Int64(); got != 101909 {
			t.Errorf("Product() = %d", got)
		}
		if (FactorPair{}).Product().Sign() != 0 {
			t.Error("zero pair should have zero product")
		}
	})

	t.Run("Equal", func(t *testing.T) {
		a := FactorPair{P: big.NewInt(3), Q: big.NewInt(5)}
		b := FactorPair{P: big.NewInt(3), Q: big.NewInt(5)}
		c := FactorPair{P: big.NewInt(1), Q: big.NewInt(15)}
		if !a.Equal(b) {
			t.Error("identical pairs should be equal")
		}
		if a.Equal(c) {
			t.Error("different pairs should not be equal")
		}
		if a.Equal(FactorPair{}) || !(FactorPair{}).Equal(FactorPair{}) {
			t.Error("zero pair equality is wrong")
		}
	})

	t.Run("IsTrivial and String", func(t *testing.T) {
		fp := FactorPair{P: big.NewInt(1), Q: big.NewInt(101)}
		if !fp.IsTrivial() {
			t.Error("(1, 101) should be trivial")
		}
		if fp.String() != "(1, 101)" {
			t.Errorf("String() = %q", fp.String())
		}
		if (FactorPair{}).String() != "(<nil>, <nil>)" {
			t.Errorf("zero String() = %q", FactorPair{}.String())
		}
	})
}

func TestParseNumber(t *testing.T) {
	t.Parallel()
	if n, err := ParseNumber("61335395416403926747"); err != nil || n.String() != "61335395416403926747" {
		t.Errorf("ParseNumber() = %v, %v", n, err)
	}
	for _, bad := range []string{"", "12a", "0x10", "1.5"} {
		if _, err := ParseNumber(bad); err == nil {
			t.Errorf("ParseNumber(%q) should fail", bad)
		}
	}
	if n, err := ParseNumber("-7"); err != nil || n.Sign() >= 0 {
		t.Errorf("negative numbers should parse and be rejected later, got %v, %v", n, err)
	}
}
