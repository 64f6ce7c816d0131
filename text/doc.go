// Package text implements plankton's 7-bit ASCII text codec: a debug
// and round-trip-equality companion to the binary format. The only
// contract the writer and reader jointly guarantee is round-trip
// equality (reader(writer(v)) == v for values the writer actually
// produces) -- binary<->text fidelity is not required, and native
// values in particular have no text representation.
package text
