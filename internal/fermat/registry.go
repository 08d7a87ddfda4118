package fermat

import (
	"fmt"
	"sort"
	"sync"
)

// Default variant names.
const (
	VariantReference = "reference"
	VariantOptimized = "optimized"
)

// Registry maps variant names to Factorizer implementations. A registry is
// an explicit value passed to the components that need one; there is no
// package-level instance.
type Registry struct {
	mu       sync.RWMutex
	creators map[string]func() Factorizer
	cache    map[string]Factorizer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		creators: make(map[string]func() Factorizer),
		cache:    make(map[string]Factorizer),
	}
}

// NewDefaultRegistry returns a registry with the standard variants
// pre-registered:
//   - "reference": literal method on math/big
//   - "optimized": uint64 fast path with math/big fallback
//   - "gmp": GMP-backed method (gmp builds only)
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(VariantReference, func() Factorizer { return Reference{} })
	r.Register(VariantOptimized, func() Factorizer { return Optimized{} })
	for _, f := range buildTagVariants() {
		r.Register(f.Name(), func() Factorizer { return f })
	}
	return r
}

// Register adds or replaces a variant. The creator is invoked lazily on the
// first Get.
func (r *Registry) Register(name string, creator func() Factorizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creators[name] = creator
	delete(r.cache, name)
}

// Get returns the variant registered under name.
func (r *Registry) Get(name string) (Factorizer, error) {
	r.mu.RLock()
	if f, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return f, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.cache[name]; ok {
		return f, nil
	}
	creator, ok := r.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant: %s", name)
	}
	f := creator()
	r.cache[name] = f
	return f, nil
}

// MustGet is like Get but panics when the variant is missing.
func (r *Registry) MustGet(name string) Factorizer {
	f, err := r.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fermat: required variant not found: %s", name))
	}
	return f
}

// Has reports whether a variant is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.creators[name]
	return ok
}

// List returns the registered names in alphabetical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.creators))
	for name := range r.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
