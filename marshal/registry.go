package marshal

import "github.com/goto-10/plankton/variant"

// AbstractSeedType is the marshalling descriptor for one native object
// type, keyed by the seed header it recognizes. Construction happens in
// two phases: GetInitialInstance is called as soon as a matching header
// is seen (before any fields have been decoded), and GetCompleteInstance
// once all of the seed's fields are known.
type AbstractSeedType interface {
	// Header returns the variant this type's seeds are tagged with.
	Header() variant.Variant

	// GetInitialInstance creates a native object wrapper for a seed
	// whose header just resolved to this type. The object's fields are
	// not yet populated.
	GetInitialInstance(header variant.Variant, arena *variant.Arena) variant.Variant

	// GetCompleteInstance finishes constructing the native object now
	// that every field of seed has been decoded.
	GetCompleteInstance(partial variant.Variant, seed variant.Variant, arena *variant.Arena) variant.Variant

	// EncodeInstance converts a native variant produced by this type
	// back into a plain (typically Seed) variant suitable for encoding.
	EncodeInstance(native variant.Variant, arena *variant.Arena) variant.Variant
}

// TypeRegistry resolves seed headers to the AbstractSeedType that knows
// how to marshal them.
type TypeRegistry struct {
	types []AbstractSeedType
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{}
}

// Register adds a type to the registry.
func (r *TypeRegistry) Register(t AbstractSeedType) {
	r.types = append(r.types, t)
}

// Resolve returns the type registered for header, or nil if none
// matches.
func (r *TypeRegistry) Resolve(header variant.Variant) AbstractSeedType {
	if r == nil {
		return nil
	}
	for _, t := range r.types {
		if t.Header().Equal(header) {
			return t
		}
	}
	return nil
}

// SeedType is a generic AbstractSeedType implementation for a concrete
// Go type T, assembled from four small closures -- a direct port of the
// original's templated SeedType<T> (see rpc.cc's
// RequestMessage::kSeedType) into idiomatic Go generics.
type SeedType[T any] struct {
	HeaderValue variant.Variant
	New         func(header variant.Variant, arena *variant.Arena) *T
	Init        func(instance *T, seed variant.Variant, arena *variant.Arena)
	ToSeed      func(instance *T, arena *variant.Arena) variant.Variant
}

// Header implements AbstractSeedType.
func (st *SeedType[T]) Header() variant.Variant { return st.HeaderValue }

// GetInitialInstance implements AbstractSeedType.
func (st *SeedType[T]) GetInitialInstance(header variant.Variant, arena *variant.Arena) variant.Variant {
	instance := st.New(header, arena)
	return arena.NewNative(instance, st)
}

// GetCompleteInstance implements AbstractSeedType.
func (st *SeedType[T]) GetCompleteInstance(partial variant.Variant, seed variant.Variant, arena *variant.Arena) variant.Variant {
	instance := partial.NativePtr().(*T)
	st.Init(instance, seed, arena)
	return partial
}

// EncodeInstance implements AbstractSeedType.
func (st *SeedType[T]) EncodeInstance(native variant.Variant, arena *variant.Arena) variant.Variant {
	instance := native.NativePtr().(*T)
	return st.ToSeed(instance, arena)
}
