package fermat

import "math/big"

// Reference is the literal form of the method: start at a = ceil(sqrt(n)),
// recompute b2 = a*a - n on every step and test it with an exact integer
// square root.
type Reference struct{}

// Name returns the registry key.
func (Reference) Name() string { return "reference" }

// Describe returns the display description.
func (Reference) Describe() string { return "Fermat (math/big, exact isqrt)" }

// Factorize runs the method on math/big arithmetic.
func (Reference) Factorize(n *big.Int) (FactorPair, error) {
	if err := Validate(n); err != nil {
		return FactorPair{}, err
	}

	a := ceilSqrt(n)
	b2 := new(big.Int).Mul(a, a)
	b2.Sub(b2, n)
	b := new(big.Int)
	sq := new(big.Int)
	for {
		b.Sqrt(b2)
		if sq.Mul(b, b).Cmp(b2) == 0 {
			break
		}
		a.Add(a, bigOne)
		b2.Mul(a, a)
		b2.Sub(b2, n)
	}

	p := new(big.Int).Sub(a, b)
	q := new(big.Int).Add(a, b)
	return FactorPair{P: p, Q: q}, nil
}
