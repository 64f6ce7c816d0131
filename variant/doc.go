// Package variant implements the plankton value model: a dynamically
// typed, arena-owned discriminated value (Variant) plus the Arena that
// owns its storage.
//
// A Variant is one of Null, True, False, Integer, String, Blob, Id,
// Array, Map, Seed or Native. Composite variants (Array, Map, Seed) and
// arena-owned String/Blob variants are allocated through an Arena and
// never outlive it. Every mutable variant carries a frozen flag; once
// frozen a mutation fails cleanly rather than panicking.
package variant
