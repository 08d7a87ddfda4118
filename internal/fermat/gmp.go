//go:build gmp

// This file provides a GMP-backed variant, compiled only with the "gmp" build
// tag so that default builds stay portable without libgmp:
//   - Linux: sudo apt-get install libgmp-dev (Debian/Ubuntu)
//   - macOS: brew install gmp

package fermat

import (
	"math/big"

	"github.com/ncw/gmp"
)

func buildTagVariants() []Factorizer {
	return []Factorizer{GMP{}}
}

// GMP runs the reference search on GMP integers. The cgo call overhead makes
// it slower than Optimized for inputs that fit in 64 bits; it pays off on
// wide inputs only.
type GMP struct{}

// Name returns the registry key.
func (GMP) Name() string { return "gmp" }

// Describe returns the display description.
func (GMP) Describe() string { return "Fermat (GMP)" }

// Factorize runs the method on GMP arithmetic.
func (GMP) Factorize(n *big.Int) (FactorPair, error) {
	if err := Validate(n); err != nil {
		return FactorPair{}, err
	}

	gn := new(gmp.Int).SetBytes(n.Bytes())
	a := new(gmp.Int).SetBytes(ceilSqrt(n).Bytes())
	b2 := new(gmp.Int).Mul(a, a)
	b2.Sub(b2, gn)
	step := new(gmp.Int).Add(a, a)
	step.AddUint32(step, 1)

	b := new(gmp.Int)
	sq := new(gmp.Int)
	for {
		b.Sqrt(b2)
		if sq.Mul(b, b).Cmp(b2) == 0 {
			break
		}
		b2.Add(b2, step)
		step.AddUint32(step, 2)
		a.AddUint32(a, 1)
	}

	p := new(gmp.Int).Sub(a, b)
	q := new(gmp.Int).Add(a, b)
	return FactorPair{
		P: new(big.Int).SetBytes(p.Bytes()),
		Q: new(big.Int).SetBytes(q.Bytes()),
	}, nil
}
