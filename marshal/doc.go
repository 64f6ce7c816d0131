// Package marshal bridges plankton's generic Seed variants to native Go
// values. An AbstractSeedType knows how to turn a decoded, generic seed
// into an application object (Instantiate-then-Complete, mirroring the
// original implementation's two-phase construction so a type can be
// recognized from its header before all fields have arrived) and back
// (EncodeInstance). A TypeRegistry resolves a seed's header to the
// AbstractSeedType that understands it.
package marshal
