package fermat

import (
	"math"
	"math/big"
	"math/bits"
)

// maxSqrt64 is the largest integer whose square fits in a uint64.
const maxSqrt64 = 1<<32 - 1

// squareMod64 marks the residues r for which r is a square modulo 64. Only
// 12 of the 64 residues qualify, so most candidates are rejected without a
// square root.
var squareMod64 = func() (t [64]bool) {
	for i := 0; i < 64; i++ {
		t[(i*i)%64] = true
	}
	return t
}()

// Optimized runs the same search as Reference, in the same order, but
// maintains b2 incrementally (b2 += 2a+1) on machine words with a quadratic
// residue pre-filter. When the values outgrow 64 bits it carries on with the
// same incremental scheme on math/big.
type Optimized struct{}

// Name returns the registry key.
func (Optimized) Name() string { return "optimized" }

// Describe returns the display description.
func (Optimized) Describe() string { return "Fermat (uint64 fast path, mod-64 filter)" }

// Factorize runs the method, staying on uint64 for as long as possible.
func (Optimized) Factorize(n *big.Int) (FactorPair, error) {
	if err := Validate(n); err != nil {
		return FactorPair{}, err
	}
	if !n.IsUint64() {
		return factorizeBig(n, ceilSqrt(n)), nil
	}

	n64 := n.Uint64()
	a := isqrt64(n64)
	if a*a < n64 {
		a++
	}
	// a may be 2^32, so a*a is taken as a 128-bit product.
	hi, lo := bits.Mul64(a, a)
	b2, borrow := bits.Sub64(lo, n64, 0)
	if hi-borrow != 0 {
		return factorizeBig(n, new(big.Int).SetUint64(a)), nil
	}

	for {
		if squareMod64[b2&63] {
			if b := isqrt64(b2); b*b == b2 {
				return FactorPair{
					P: new(big.Int).SetUint64(a - b),
					Q: new(big.Int).SetUint64(a + b),
				}, nil
			}
		}
		if a >= 1<<63 {
			break
		}
		var carry uint64
		b2, carry = bits.Add64(b2, 2*a+1, 0)
		if carry != 0 {
			break
		}
		a++
	}
	return factorizeBig(n, new(big.Int).SetUint64(a+1)), nil
}

// factorizeBig continues the search from a on math/big, keeping the
// incremental update and the residue filter.
func factorizeBig(n, a *big.Int) FactorPair {
	a = new(big.Int).Set(a)
	b2 := new(big.Int).Mul(a, a)
	b2.Sub(b2, n)
	step := new(big.Int).Lsh(a, 1)
	step.Add(step, bigOne)

	b := new(big.Int)
	sq := new(big.Int)
	for {
		if isSquareResidue(b2) {
			b.Sqrt(b2)
			if sq.Mul(b, b).Cmp(b2) == 0 {
				break
			}
		}
		b2.Add(b2, step)
		step.Add(step, bigTwo)
		a.Add(a, bigOne)
	}
	return FactorPair{
		P: new(big.Int).Sub(a, b),
		Q: new(big.Int).Add(a, b),
	}
}

func isSquareResidue(x *big.Int) bool {
	words := x.Bits()
	if len(words) == 0 {
		return true
	}
	return squareMod64[uint(words[0])&63]
}

// isqrt64 returns floor(sqrt(x)) exactly. The float64 estimate is only a
// seed; the correction loops make the result exact for every uint64.
func isqrt64(x uint64) uint64 {
	r := uint64(math.Sqrt(float64(x)))
	if r > maxSqrt64 {
		r = maxSqrt64
	}
	for r*r > x {
		r--
	}
	for r < maxSqrt64 && (r+1)*(r+1) <= x {
		r++
	}
	return r
}
