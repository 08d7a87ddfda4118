package fermat

import (
	"math/big"
	"testing"
)

// FuzzVariantEquivalence checks that every variant agrees with the reference
// on odd inputs small enough to resolve quickly.
func FuzzVariantEquivalence(f *testing.F) {
	for _, seed := range []uint64{3, 9, 15, 101, 9973, 101909, 609133} {
		f.Add(seed)
	}

	ref := Reference{}
	variants := allVariants()[1:]
	f.Fuzz(func(t *testing.T, raw uint64) {
		n := new(big.Int).SetUint64(((raw % (1 << 20)) | 1) + 2)
		want, err := ref.Factorize(n)
		if err != nil {
			t.Fatalf("reference(%s): %v", n, err)
		}
		for _, v := range variants {
			got, err := v.Factorize(n)
			if err != nil {
				t.Fatalf("%s(%s): %v", v.Name(), n, err)
			}
			if !got.Equal(want) {
				t.Fatalf("%s(%s) = %s, reference = %s", v.Name(), n, got, want)
			}
		}
	})
}
