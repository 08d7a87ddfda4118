package fermat

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFactorPairInvariants_PropertyBased verifies for random odd n that
// every variant returns (p, q) with p <= q and p*q == n, and that a prime n
// only yields the trivial pair (1, n).
func TestFactorPairInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, f := range allVariants() {
		properties.Property(f.Name()+" returns an ordered pair whose product is n", prop.ForAll(
			func(k uint64) bool {
				n := new(big.Int).SetUint64(2*k + 3)
				pair, err := f.Factorize(n)
				if err != nil {
					t.Logf("Factorize(%s): %v", n, err)
					return false
				}
				if pair.P.Cmp(pair.Q) > 0 || pair.P.Sign() <= 0 {
					return false
				}
				if pair.Product().Cmp(n) != 0 {
					return false
				}
				if n.ProbablyPrime(20) {
					return pair.IsTrivial()
				}
				return true
			},
			gen.UInt64Range(0, 50000),
		))
	}

	properties.TestingRun(t)
}

// TestVariantEquivalence_PropertyBased checks that the optimized variants
// reach the same pair as the reference on balanced semiprimes, including
// ones wider than 64 bits.
func TestVariantEquivalence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	ref := Reference{}
	for _, f := range allVariants()[1:] {
		properties.Property(f.Name()+" matches reference", prop.ForAll(
			func(base, gap uint64) bool {
				p := new(big.Int).SetUint64(base | 1)
				q := new(big.Int).SetUint64((base | 1) + 2*gap)
				n := new(big.Int).Mul(p, q)

				want, err := ref.Factorize(n)
				if err != nil {
					return false
				}
				got, err := f.Factorize(n)
				if err != nil {
					return false
				}
				return got.Equal(want)
			},
			gen.UInt64Range(2, 1<<40),
			gen.UInt64Range(0, 2000),
		))
	}

	properties.TestingRun(t)
}
