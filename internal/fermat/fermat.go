// Package fermat implements Fermat's factorization method. It exposes a
// `Factorizer` capability with interchangeable variants (a literal reference
// form, an optimized form with a 64-bit fast path and, in gmp builds, a
// GMP-backed form) so that callers select a strategy by name instead of by
// ambient state. Every variant is a pure function: it never mutates its input
// and is safe for concurrent use.
package fermat

//go:generate mockgen -source=fermat.go -destination=mocks/mock_factorizer.go -package=mocks

import (
	"fmt"
	"math/big"

	apperrors "github.com/agbru/fermatbench/internal/errors"
)

// Reasons attached to InvalidInputError when a number is outside the domain
// of the method.
const (
	ReasonNonPositive = "non-positive"
	ReasonOne         = "one"
	ReasonEven        = "even"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// Factorizer defines the capability shared by every variant.
type Factorizer interface {
	// Name returns the registry key of the variant (e.g., "reference").
	Name() string

	// Describe returns a short human-readable description of the variant.
	Describe() string

	// Factorize returns the factor pair found by Fermat's method for the odd
	// integer n > 1. Inputs outside that domain fail with
	// apperrors.InvalidInputError.
	Factorize(n *big.Int) (FactorPair, error)
}

// FactorPair is the ordered pair (P, Q) with P <= Q and P*Q equal to the
// factorized number. For a prime n the only pair found is (1, n).
type FactorPair struct {
	P *big.Int
	Q *big.Int
}

// NewFactorPair builds a pair from its two factors, ordering them.
func NewFactorPair(p, q *big.Int) FactorPair {
	if p.Cmp(q) > 0 {
		p, q = q, p
	}
	return FactorPair{P: p, Q: q}
}

// Product returns P*Q as a fresh integer.
func (fp FactorPair) Product() *big.Int {
	if fp.P == nil || fp.Q == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(fp.P, fp.Q)
}

// Equal reports whether both pairs hold the same factors.
func (fp FactorPair) Equal(other FactorPair) bool {
	if fp.P == nil || fp.Q == nil || other.P == nil || other.Q == nil {
		return fp.P == nil && fp.Q == nil && other.P == nil && other.Q == nil
	}
	return fp.P.Cmp(other.P) == 0 && fp.Q.Cmp(other.Q) == 0
}

// IsTrivial reports whether the pair is (1, n).
func (fp FactorPair) IsTrivial() bool {
	return fp.P != nil && fp.P.Cmp(bigOne) == 0
}

// String formats the pair as "(p, q)".
func (fp FactorPair) String() string {
	if fp.P == nil || fp.Q == nil {
		return "(<nil>, <nil>)"
	}
	return fmt.Sprintf("(%s, %s)", fp.P, fp.Q)
}

// Validate checks that n is an odd integer greater than one. Even inputs are
// rejected outright rather than pre-divided by two.
func Validate(n *big.Int) error {
	switch {
	case n == nil || n.Sign() <= 0:
		return apperrors.InvalidInputError{Value: numberString(n), Reason: ReasonNonPositive}
	case n.Cmp(bigOne) == 0:
		return apperrors.InvalidInputError{Value: n.String(), Reason: ReasonOne}
	case n.Bit(0) == 0:
		return apperrors.InvalidInputError{Value: n.String(), Reason: ReasonEven}
	}
	return nil
}

// ParseNumber parses a base-10 integer. It does not apply Validate so that
// out-of-domain values can still travel through a batch and be reported per
// item.
func ParseNumber(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer: %q", s)
	}
	return n, nil
}

// ceilSqrt returns the smallest a with a*a >= n, for n >= 0.
func ceilSqrt(n *big.Int) *big.Int {
	a := new(big.Int).Sqrt(n)
	if sq := new(big.Int).Mul(a, a); sq.Cmp(n) < 0 {
		a.Add(a, bigOne)
	}
	return a
}

func numberString(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
