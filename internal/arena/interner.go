package arena

// SHandle is an opaque index into a string Interner tagged by role (file
// path, function name, test name). Like Handle, it is a small value type
// stable for the program's lifetime.
type SHandle[Tag any] struct {
	idx uint32
}

// Invalid reports whether h was never assigned by an Interner.
func (h SHandle[Tag]) Invalid() bool { return h.idx == invalidIdx }

// Interner deduplicates strings: Intern(a) == Intern(b) iff a and b are
// byte-equal. Tag distinguishes interners for different roles (FuncName,
// FileName, TestName) at the type level so handles from one pool can never
// be confused with another's, even though both are backed by the same
// index representation.
type Interner[Tag any] struct {
	strs  []string
	index map[string]SHandle[Tag]
}

// NewInterner creates an empty interner with its reserved dummy slots
// pre-populated with empty strings.
func NewInterner[Tag any]() *Interner[Tag] {
	return &Interner[Tag]{
		strs:  make([]string, reservedDummies),
		index: make(map[string]SHandle[Tag]),
	}
}

// Intern returns the handle for s, allocating a new slot only the first
// time s is seen.
func (in *Interner[Tag]) Intern(s string) SHandle[Tag] {
	if h, ok := in.index[s]; ok {
		return h
	}
	h := SHandle[Tag]{idx: uint32(len(in.strs))}
	in.strs = append(in.strs, s)
	in.index[s] = h
	return h
}

// Lookup returns the string interned under h.
func (in *Interner[Tag]) Lookup(h SHandle[Tag]) string {
	return in.strs[h.idx]
}

// Len returns the number of interned strings, including reserved dummy
// slots.
func (in *Interner[Tag]) Len() int { return len(in.strs) }
