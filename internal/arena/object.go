package arena

// Arena is an append-only store for values of type T. Allocation returns a
// Handle whose index is stable for the arena's lifetime. When built with
// NewDedupArena, identical canonical byte encodings collapse to the same
// Handle.
type Arena[T any] struct {
	items  []T
	dedup  map[string]Handle[T] // nil unless deduplicating
	frozen bool
}

// NewArena creates an empty, non-deduplicating arena with its reserved
// dummy slots pre-populated from zero values of T.
func NewArena[T any]() *Arena[T] {
	a := &Arena[T]{items: make([]T, reservedDummies)}
	return a
}

// NewDedupArena creates an empty arena that deduplicates allocations by
// canonical byte key, mirroring the data model's rule that handle equality
// implies structural equality for Access/Statement/Value.
func NewDedupArena[T any]() *Arena[T] {
	a := NewArena[T]()
	a.dedup = make(map[string]Handle[T])
	return a
}

// SetDummy overwrites one of the arena's reserved sentinel slots with a
// concrete payload (e.g. ENTRY/EXIT placeholder statements for a CFG).
func (a *Arena[T]) SetDummy(n int, v T) Handle[T] {
	h := DummyHandle[T](n)
	a.items[h.idx] = v
	return h
}

// Alloc appends v and returns its new Handle. Panics if the arena was
// frozen by Freeze.
func (a *Arena[T]) Alloc(v T) Handle[T] {
	if a.frozen {
		panic("arena: alloc after freeze")
	}
	h := Handle[T]{idx: uint32(len(a.items))}
	a.items = append(a.items, v)
	return h
}

// AllocDedup allocates v under canonical key, returning the existing Handle
// if an equal key was already stored. Panics if the arena is not
// deduplicating.
func (a *Arena[T]) AllocDedup(canonical string, v T) Handle[T] {
	if a.dedup == nil {
		panic("arena: AllocDedup on non-deduplicating arena")
	}
	if h, ok := a.dedup[canonical]; ok {
		return h
	}
	h := a.Alloc(v)
	a.dedup[canonical] = h
	return h
}

// Get dereferences h. Callers must only pass handles issued by this arena.
func (a *Arena[T]) Get(h Handle[T]) T {
	return a.items[h.idx]
}

// Len returns the number of allocated slots, including the reserved dummy
// slots.
func (a *Arena[T]) Len() int { return len(a.items) }

// IsEmpty reports whether nothing beyond the reserved dummy slots was ever
// allocated.
func (a *Arena[T]) IsEmpty() bool { return len(a.items) <= reservedDummies }

// Freeze disallows further Alloc/AllocDedup calls. The raw loader freezes
// every arena once load completes, per the lifecycle in the data model:
// arenas are mutated only during raw load and are read-only thereafter.
func (a *Arena[T]) Freeze() { a.frozen = true }
