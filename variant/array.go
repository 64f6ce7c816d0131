package variant

// NewArray allocates an empty, mutable, arena-owned array. capacityHint
// is a size hint only; the array grows as needed.
func (a *Arena) NewArray(capacityHint int) Variant {
	return Variant{kind: KindArray, arr: &arrayData{
		arena: a,
		elems: make([]Variant, 0, capacityHint),
	}}
}

// ArrayLength returns the number of elements, or 0 if this isn't an
// array.
func (v Variant) ArrayLength() int {
	if v.kind != KindArray || v.arr == nil {
		return 0
	}
	return len(v.arr.elems)
}

// ArrayGet returns the element at index, or Null if this isn't an array
// or the index is out of range.
func (v Variant) ArrayGet(index int) Variant {
	if v.kind != KindArray || v.arr == nil || index < 0 || index >= len(v.arr.elems) {
		return Null()
	}
	return v.arr.elems[index]
}

// ArrayAdd appends value to the array. It fails if the array is frozen
// or this isn't a mutable array.
func (v Variant) ArrayAdd(value Variant) bool {
	if v.kind != KindArray || v.arr == nil || v.arr.frozen {
		return false
	}
	v.arr.elems = append(v.arr.elems, value)
	return true
}

// ArrayAddSink appends a placeholder slot and returns a Sink bound to
// it: the first value written through the sink becomes the element at
// this index. Returns nil if the array is frozen or this isn't a
// mutable array.
func (v Variant) ArrayAddSink() *Sink {
	if v.kind != KindArray || v.arr == nil || v.arr.frozen {
		return nil
	}
	ad := v.arr
	index := len(ad.elems)
	ad.elems = append(ad.elems, Null())
	return &Sink{arena: ad.arena, commit: func(value Variant) {
		ad.elems[index] = value
	}}
}

// ArrayIterator walks an array's elements in order.
type ArrayIterator struct {
	arr    *arrayData
	cursor int
}

// ArrayIterator returns an iterator over this array's elements, or a
// zero-length iterator if this isn't an array.
func (v Variant) ArrayIterator() ArrayIterator {
	if v.kind != KindArray {
		return ArrayIterator{}
	}
	return ArrayIterator{arr: v.arr}
}

// HasNext reports whether there are more elements to yield: cursor <
// size, with the cursor advancing after Next yields, not before.
func (it *ArrayIterator) HasNext() bool {
	if it.arr == nil {
		return false
	}
	return it.cursor < len(it.arr.elems)
}

// Next returns the current element and advances the cursor.
func (it *ArrayIterator) Next() Variant {
	value := it.arr.elems[it.cursor]
	it.cursor++
	return value
}
