package variant

// NewSeed allocates an empty, mutable, arena-owned seed with a null
// header. Use SeedSetHeader and SeedSetField to fill it in.
func (a *Arena) NewSeed() Variant {
	return Variant{kind: KindSeed, seed: &seedData{arena: a, header: Null()}}
}

// SeedHeader returns the seed's header, which is either null or any
// variant the application placed there.
func (v Variant) SeedHeader() Variant {
	if v.kind != KindSeed || v.seed == nil {
		return Null()
	}
	return v.seed.header
}

// SeedSetHeader sets the seed's header. Fails if the seed is frozen.
func (v Variant) SeedSetHeader(header Variant) bool {
	if v.kind != KindSeed || v.seed == nil || v.seed.frozen {
		return false
	}
	v.seed.header = header
	return true
}

// SeedFieldCount returns the number of fields, or 0 if this isn't a
// seed.
func (v Variant) SeedFieldCount() int {
	if v.kind != KindSeed || v.seed == nil {
		return 0
	}
	return len(v.seed.fieldKeys)
}

// SeedGetField returns the value for key, or def if absent. Field
// lookup follows the same first-match-wins rule as MapGet.
func (v Variant) SeedGetField(key Variant, def Variant) Variant {
	if v.kind != KindSeed || v.seed == nil {
		return def
	}
	for i, k := range v.seed.fieldKeys {
		if k.Equal(key) {
			return v.seed.fieldVals[i]
		}
	}
	return def
}

// SeedHasField reports whether key is present among the seed's fields.
func (v Variant) SeedHasField(key Variant) bool {
	if v.kind != KindSeed || v.seed == nil {
		return false
	}
	for _, k := range v.seed.fieldKeys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

// SeedSetField appends a (key, value) field. Fails if the seed is
// frozen.
func (v Variant) SeedSetField(key, value Variant) bool {
	if v.kind != KindSeed || v.seed == nil || v.seed.frozen {
		return false
	}
	v.seed.fieldKeys = append(v.seed.fieldKeys, key)
	v.seed.fieldVals = append(v.seed.fieldVals, value)
	return true
}

// SeedSetFieldSink appends key with a placeholder value and returns a
// Sink bound to it: the first value written through the sink becomes
// this field's value. Returns nil if the seed is frozen.
func (v Variant) SeedSetFieldSink(key Variant) *Sink {
	if v.kind != KindSeed || v.seed == nil || v.seed.frozen {
		return nil
	}
	sd := v.seed
	index := len(sd.fieldKeys)
	sd.fieldKeys = append(sd.fieldKeys, key)
	sd.fieldVals = append(sd.fieldVals, Null())
	return &Sink{arena: sd.arena, commit: func(value Variant) {
		sd.fieldVals[index] = value
	}}
}

// SeedIterator walks a seed's fields in insertion order.
type SeedIterator struct {
	seed   *seedData
	cursor int
}

// SeedIterator returns an iterator over this seed's fields.
func (v Variant) SeedIterator() SeedIterator {
	if v.kind != KindSeed {
		return SeedIterator{}
	}
	return SeedIterator{seed: v.seed}
}

// HasNext reports whether there are more fields to yield.
func (it *SeedIterator) HasNext() bool {
	if it.seed == nil {
		return false
	}
	return it.cursor < len(it.seed.fieldKeys)
}

// Next returns the current (key, value) field and advances the cursor.
func (it *SeedIterator) Next() (Variant, Variant) {
	key, value := it.seed.fieldKeys[it.cursor], it.seed.fieldVals[it.cursor]
	it.cursor++
	return key, value
}

// NewNative wraps an opaque application pointer together with its
// marshalling descriptor. Native variants are always frozen; the
// wrapped object's mutability is outside this package's scope.
func (a *Arena) NewNative(ptr Interface, typ NativeType) Variant {
	return Variant{kind: KindNative, native: &nativeData{ptr: ptr, typ: typ}}
}

// NativePtr returns the wrapped opaque pointer, or nil if this isn't a
// native.
func (v Variant) NativePtr() Interface {
	if v.kind != KindNative || v.native == nil {
		return nil
	}
	return v.native.ptr
}

// NativeTypeOf returns the wrapped descriptor, or nil if this isn't a
// native.
func (v Variant) NativeTypeOf() NativeType {
	if v.kind != KindNative || v.native == nil {
		return nil
	}
	return v.native.typ
}
