// Package binary implements the plankton binary wire codec: a variable
// length integer scheme with a small positional bias (so every value
// has a unique encoding), zig-zag mapping for signed integers, a
// stateless Assembler for custom emission, and a Writer/Reader pair
// that serialize variant.Variant values with DAG-preserving reference
// sharing.
package binary
