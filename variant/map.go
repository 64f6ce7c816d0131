package variant

// NewMap allocates an empty, mutable, arena-owned map. Iteration order
// equals insertion order; this is not a sorted or hash-ordered map.
func (a *Arena) NewMap() Variant {
	return Variant{kind: KindMap, m: &mapData{arena: a}}
}

// MapSize returns the number of entries, or 0 if this isn't a map.
func (v Variant) MapSize() int {
	if v.kind != KindMap || v.m == nil {
		return 0
	}
	return len(v.m.keys)
}

// MapHas reports whether key is present. This is the bool accessor;
// the C boundary exposes bool where the typed accessor returns a
// Variant, and bool wins here.
func (v Variant) MapHas(key Variant) bool {
	if v.kind != KindMap || v.m == nil {
		return false
	}
	for _, k := range v.m.keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

// MapGet returns the value for key, or def if key is absent. Duplicate
// keys resolve to the first match.
func (v Variant) MapGet(key Variant, def Variant) Variant {
	if v.kind != KindMap || v.m == nil {
		return def
	}
	for i, k := range v.m.keys {
		if k.Equal(key) {
			return v.m.values[i]
		}
	}
	return def
}

// MapSet appends a (key, value) pair. Setting an already-present key
// does not overwrite the existing entry; it appends a new one, which
// the first-match lookup rule in MapGet/MapHas then shadows -- duplicate
// keys are permitted rather than silently deduped.
func (v Variant) MapSet(key, value Variant) bool {
	if v.kind != KindMap || v.m == nil || v.m.frozen {
		return false
	}
	v.m.keys = append(v.m.keys, key)
	v.m.values = append(v.m.values, value)
	return true
}

// MapSetSink appends key with a placeholder value and returns a Sink
// bound to it: the first value written through the sink becomes the
// value for this entry. Returns nil if the map is frozen or this isn't
// a mutable map.
func (v Variant) MapSetSink(key Variant) *Sink {
	if v.kind != KindMap || v.m == nil || v.m.frozen {
		return nil
	}
	md := v.m
	index := len(md.keys)
	md.keys = append(md.keys, key)
	md.values = append(md.values, Null())
	return &Sink{arena: md.arena, commit: func(value Variant) {
		md.values[index] = value
	}}
}

// MapIterator walks a map's (key, value) pairs in insertion order.
type MapIterator struct {
	m      *mapData
	cursor int
}

// MapIterator returns an iterator over this map's entries, or a
// zero-length iterator if this isn't a map.
func (v Variant) MapIterator() MapIterator {
	if v.kind != KindMap {
		return MapIterator{}
	}
	return MapIterator{m: v.m}
}

// HasNext reports whether there are more entries to yield.
func (it *MapIterator) HasNext() bool {
	if it.m == nil {
		return false
	}
	return it.cursor < len(it.m.keys)
}

// Next returns the current (key, value) pair and advances the cursor.
func (it *MapIterator) Next() (Variant, Variant) {
	key, value := it.m.keys[it.cursor], it.m.values[it.cursor]
	it.cursor++
	return key, value
}
