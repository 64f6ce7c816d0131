package variant

import "testing"

func TestScalarAccessorsReturnDocumentedDefaults(t *testing.T) {
	i := Integer(42)
	if i.BoolValue() != false {
		t.Errorf("BoolValue on integer: got true, want false")
	}
	if i.StringLength() != 0 {
		t.Errorf("StringLength on integer: got %d, want 0", i.StringLength())
	}
	b := Bool(true)
	if b.IntegerValue() != 0 {
		t.Errorf("IntegerValue on bool: got %d, want 0", b.IntegerValue())
	}
	arena := NewArena()
	arr := arena.NewArray(0)
	if arr.ArrayLength() != 0 {
		t.Errorf("ArrayLength on empty array: got %d, want 0", arr.ArrayLength())
	}
	n := Integer(1)
	if n.ArrayLength() != 0 {
		t.Errorf("array_length on non-array: got %d, want 0", n.ArrayLength())
	}
}

func TestStringIdentityVsContent(t *testing.T) {
	arena := NewArena()
	ext1 := ExternalString([]byte("x"))
	ext2 := ExternalString([]byte("x"))
	if !ext1.Equal(ext2) {
		t.Errorf("two external strings with equal content should be equal")
	}
	owned := arena.NewStringFrom([]byte("x"))
	if !ext1.Equal(owned) {
		t.Errorf("external and arena-owned strings with equal content should be equal")
	}
	other := ExternalString([]byte("xy"))
	if ext1.Equal(other) {
		t.Errorf("strings with different content should not be equal")
	}
}

func TestDistinctEmptyArraysAreNotEqual(t *testing.T) {
	arena := NewArena()
	a1 := arena.NewArray(0)
	a2 := arena.NewArray(0)
	if a1.Equal(a2) {
		t.Errorf("two distinct empty arrays should not be equal")
	}
	if !a1.Equal(a1) {
		t.Errorf("an array should equal itself")
	}
}

func TestExternalBlob(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	blob := ExternalBlob(data)
	if blob.BlobSize() != 10 {
		t.Errorf("BlobSize: got %d, want 10", blob.BlobSize())
	}
	if &blob.BlobData()[0] != &data[0] {
		t.Errorf("external blob should not copy its backing data")
	}
}

func TestFreezingBlocksMutation(t *testing.T) {
	arena := NewArena()
	arr := arena.NewArray(0)
	if !arr.ArrayAdd(Integer(1)) {
		t.Fatalf("ArrayAdd should succeed before freezing")
	}
	arr.EnsureFrozen()
	if !arr.IsFrozen() {
		t.Fatalf("array should report frozen after EnsureFrozen")
	}
	if arr.ArrayAdd(Integer(2)) {
		t.Errorf("ArrayAdd should fail on a frozen array")
	}
	if arr.ArrayLength() != 1 {
		t.Errorf("frozen array should be unchanged: got length %d, want 1", arr.ArrayLength())
	}
}

func TestSeedFreezeIsTransitiveOverFields(t *testing.T) {
	arena := NewArena()
	seed := arena.NewSeed()
	seed.SeedSetHeader(ExternalString([]byte("Point")))
	seed.SeedSetField(ExternalString([]byte("x")), Integer(1))
	seed.EnsureFrozen()
	if seed.SeedSetField(ExternalString([]byte("y")), Integer(2)) {
		t.Errorf("SeedSetField should fail after EnsureFrozen")
	}
	if seed.SeedFieldCount() != 1 {
		t.Errorf("seed field count changed after a failed mutation: got %d, want 1", seed.SeedFieldCount())
	}
}

func TestSinkIsWriteOnce(t *testing.T) {
	arena := NewArena()
	sink := NewSink(arena)
	if !sink.Set(Integer(7)) {
		t.Fatalf("first Set should succeed")
	}
	if sink.Set(Integer(8)) {
		t.Errorf("second Set should fail")
	}
	if sink.Value().IntegerValue() != 7 {
		t.Errorf("sink value: got %d, want 7", sink.Value().IntegerValue())
	}
}

func TestArrayAddSinkBindsParent(t *testing.T) {
	arena := NewArena()
	arr := arena.NewArray(0)
	sink := arr.ArrayAddSink()
	if sink == nil {
		t.Fatalf("ArrayAddSink on a mutable array should not be nil")
	}
	sink.AsArray(2)
	if arr.ArrayLength() != 1 {
		t.Fatalf("array length: got %d, want 1", arr.ArrayLength())
	}
	if arr.ArrayGet(0).Type() != KindArray {
		t.Errorf("element 0 should be the nested array written through the sink")
	}
}

func TestMapDuplicateKeysResolveFirstMatch(t *testing.T) {
	arena := NewArena()
	m := arena.NewMap()
	key := ExternalString([]byte("k"))
	m.MapSet(key, Integer(1))
	m.MapSet(ExternalString([]byte("k")), Integer(2))
	if got := m.MapGet(key, Null()).IntegerValue(); got != 1 {
		t.Errorf("duplicate key lookup: got %d, want 1 (first match)", got)
	}
	if !m.MapHas(key) {
		t.Errorf("MapHas should report the key present")
	}
}

func TestMapIteratorOrderAndHasNext(t *testing.T) {
	arena := NewArena()
	m := arena.NewMap()
	m.MapSet(Integer(1), Integer(10))
	m.MapSet(Integer(2), Integer(20))
	it := m.MapIterator()
	var keys []int64
	for it.HasNext() {
		k, _ := it.Next()
		keys = append(keys, k.IntegerValue())
	}
	if len(keys) != 2 || keys[0] != 1 || keys[1] != 2 {
		t.Errorf("iteration order: got %v, want [1 2]", keys)
	}
	if it.HasNext() {
		t.Errorf("iterator should be exhausted")
	}
}

func TestArenaDestroyRunsCleanupsInOrder(t *testing.T) {
	arena := NewArena()
	var order []int
	arena.AddCleanup(func() { order = append(order, 1) })
	arena.AddCleanup(func() { order = append(order, 2) })
	arena.Release()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("cleanup order: got %v, want [1 2]", order)
	}
	if !arena.IsDestroyed() {
		t.Errorf("arena should be destroyed after last release")
	}
}

func TestArenaAdoptReleasesSubArena(t *testing.T) {
	parent := NewArena()
	child := NewArena()
	parent.Adopt(child)
	child.Release()
	if child.IsDestroyed() {
		t.Fatalf("child should still be alive: parent holds a reference")
	}
	parent.Release()
	if !child.IsDestroyed() {
		t.Errorf("child should be destroyed once the parent releases it")
	}
}
