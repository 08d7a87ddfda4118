//go:build !gmp

package fermat

func buildTagVariants() []Factorizer { return nil }
