// Package oracle cross-checks factorization variants on a fixed vector set
// before any timing is trusted. The first divergence is fatal.
package oracle

import (
	"context"
	"math/big"
	"time"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
)

// Check is one agreed-upon vector.
type Check struct {
	N    *big.Int
	Pair fermat.FactorPair
}

// Report summarizes a successful verification.
type Report struct {
	Reference  string
	Candidates []string
	Checks     []Check
	Elapsed    time.Duration
}

// Oracle verifies candidate variants against a reference variant.
type Oracle struct {
	vectors []*big.Int
	logger  logging.Logger
}

// New creates an oracle over vectors. A nil logger discards output.
func New(vectors []*big.Int, logger logging.Logger) *Oracle {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Oracle{vectors: vectors, logger: logger}
}

// Verify factorizes every vector with reference and then with each
// candidate, stopping at the first disagreement with an
// apperrors.MismatchError. An error from the reference itself means the
// vector set is unusable and is returned as is. ctx is observed between
// vectors.
func (o *Oracle) Verify(ctx context.Context, reference fermat.Factorizer, candidates ...fermat.Factorizer) (Report, error) {
	start := time.Now()
	report := Report{Reference: reference.Name()}
	for _, c := range candidates {
		report.Candidates = append(report.Candidates, c.Name())
	}

	for _, n := range o.vectors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		want, err := reference.Factorize(n)
		if err != nil {
			return report, apperrors.WrapError(err, "oracle vector %s", n)
		}
		for _, c := range candidates {
			got, err := c.Factorize(n)
			if err != nil {
				return report, apperrors.MismatchError{
					Input:           n.String(),
					Reference:       reference.Name(),
					Candidate:       c.Name(),
					ReferenceResult: want.String(),
					CandidateResult: "error: " + err.Error(),
				}
			}
			if !got.Equal(want) {
				mismatch := apperrors.MismatchError{
					Input:           n.String(),
					Reference:       reference.Name(),
					Candidate:       c.Name(),
					ReferenceResult: want.String(),
					CandidateResult: got.String(),
				}
				o.logger.Error("variant mismatch", mismatch, logging.String("candidate", c.Name()))
				return report, mismatch
			}
		}
		report.Checks = append(report.Checks, Check{N: n, Pair: want})
	}

	report.Elapsed = time.Since(start)
	o.logger.Debug("oracle passed",
		logging.Int("vectors", len(report.Checks)),
		logging.Int("candidates", len(candidates)),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// VerifyNames resolves the variants in registry and runs Verify.
func (o *Oracle) VerifyNames(ctx context.Context, registry *fermat.Registry, reference string, candidates []string) (Report, error) {
	ref, err := registry.Get(reference)
	if err != nil {
		return Report{}, apperrors.NewConfigError("%v", err)
	}
	var others []fermat.Factorizer
	for _, name := range candidates {
		if name == reference {
			continue
		}
		f, err := registry.Get(name)
		if err != nil {
			return Report{}, apperrors.NewConfigError("%v", err)
		}
		others = append(others, f)
	}
	return o.Verify(ctx, ref, others...)
}
