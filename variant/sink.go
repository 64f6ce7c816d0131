package variant

// Sink is a write-once slot bound to an Arena. A decoder can be handed a
// Sink without knowing what container the resulting value will end up
// in -- the container (if any) supplies a Sink whose commit callback
// writes straight into its own storage on first use.
//
// Per the Design Notes this models the source's three-level sink class
// hierarchy as one small value: an arena reference, a destination kind
// implied by which As* method is called, and a destination locator
// carried in the optional commit closure.
type Sink struct {
	arena   *Arena
	value   Variant
	written bool
	commit  func(Variant)
}

// NewSink creates a standalone sink bound to the given arena, with no
// destination locator -- its value lives only in the sink itself.
func NewSink(arena *Arena) *Sink {
	return &Sink{arena: arena}
}

// Arena returns the arena this sink allocates from.
func (s *Sink) Arena() *Arena { return s.arena }

// Value returns the value written so far, or Null if nothing has been
// written yet.
func (s *Sink) Value() Variant {
	if !s.written {
		return Null()
	}
	return s.value
}

// IsSet reports whether this sink has already been written.
func (s *Sink) IsSet() bool { return s.written }

func (s *Sink) commitValue(v Variant) bool {
	if s.written {
		return false
	}
	s.written = true
	s.value = v
	if s.commit != nil {
		s.commit(v)
	}
	return true
}

// Set writes value into the sink. It only succeeds on the first call;
// later calls return false and are silently ignored.
func (s *Sink) Set(value Variant) bool {
	return s.commitValue(value)
}

// AsArray constructs a fresh array in the sink's arena, binds the slot
// to it, and returns it. Returns Null if the sink was already written.
func (s *Sink) AsArray(capacityHint int) Variant {
	if s.written {
		return Null()
	}
	v := s.arena.NewArray(capacityHint)
	s.commitValue(v)
	return v
}

// AsMap constructs a fresh map in the sink's arena, binds the slot to
// it, and returns it.
func (s *Sink) AsMap() Variant {
	if s.written {
		return Null()
	}
	v := s.arena.NewMap()
	s.commitValue(v)
	return v
}

// AsSeed constructs a fresh seed in the sink's arena, binds the slot to
// it, and returns it.
func (s *Sink) AsSeed() Variant {
	if s.written {
		return Null()
	}
	v := s.arena.NewSeed()
	s.commitValue(v)
	return v
}

// AsBlob constructs a fresh size-byte blob in the sink's arena, binds
// the slot to it, and returns it.
func (s *Sink) AsBlob(size int) Variant {
	if s.written {
		return Null()
	}
	v := s.arena.NewBlob(size)
	s.commitValue(v)
	return v
}

// SetString constructs a fresh string of the given length in the
// sink's arena, copies chars into it (up to length bytes), binds the
// slot to it, and returns it.
func (s *Sink) SetString(chars []byte, length int) Variant {
	if s.written {
		return Null()
	}
	v := s.arena.NewString(length)
	n := copy(v.str.chars, chars)
	_ = n
	s.commitValue(v)
	return v
}
