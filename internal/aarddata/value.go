package aarddata

import (
	"fmt"
	"math"
)

// ValueKind discriminates the runtime scalar variants carried in a trace.
type ValueKind uint8

const (
	ValueUnsupported ValueKind = iota
	ValueSigned
	ValueUnsigned
	ValueFloating
	ValueBoolean
)

// Value is a typed runtime scalar captured by the trace. Only the field
// matching Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Width uint8 // 8/16/32/64 for Signed/Unsigned; 32/64 for Floating

	Signed   int64
	Unsigned uint64
	Floating float64
	Boolean  bool
}

// IsZero reports whether the value is the zero of its kind. Unsupported
// values are never zero.
func (v Value) IsZero() bool {
	switch v.Kind {
	case ValueSigned:
		return v.Signed == 0
	case ValueUnsigned:
		return v.Unsigned == 0
	case ValueFloating:
		return v.Floating == 0
	case ValueBoolean:
		return !v.Boolean
	default:
		return false
	}
}

// IsExceptional reports whether the value is a non-finite float (NaN or
// +/-Inf). Statistical ranges (Invariants' Range state) exclude these from
// ordering comparisons per the data model.
func (v Value) IsExceptional() bool {
	return v.Kind == ValueFloating && !isFinite(v.Floating)
}

// IsNumeric reports whether the value is signed, unsigned, or floating.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case ValueSigned, ValueUnsigned, ValueFloating:
		return true
	default:
		return false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// floatClass buckets a float for equality/hashing purposes: all NaNs are
// one class, +Inf another, -Inf another; finite values compare by exact
// bit pattern. Unlike IEEE-754, where NaN != NaN, this makes all NaNs
// equal, giving the dedup arena and Invariants' histogram a total,
// hashable equivalence relation to key on.
func floatClass(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%d", math.Float64bits(f))
	}
}

// CanonicalKey returns the byte key the Value arena deduplicates on.
func (v Value) CanonicalKey() string {
	switch v.Kind {
	case ValueUnsupported:
		return "U"
	case ValueSigned:
		return fmt.Sprintf("I:%d:%d", v.Width, v.Signed)
	case ValueUnsigned:
		return fmt.Sprintf("N:%d:%d", v.Width, v.Unsigned)
	case ValueFloating:
		return fmt.Sprintf("F:%d:%s", v.Width, floatClass(v.Floating))
	case ValueBoolean:
		return fmt.Sprintf("B:%v", v.Boolean)
	default:
		panic("aarddata: unknown value kind")
	}
}

// SameClass reports whether v and other would collapse to the same
// CanonicalKey — equal under the float-class equality rule, without
// requiring an arena round-trip.
func (v Value) SameClass(other Value) bool {
	return v.CanonicalKey() == other.CanonicalKey()
}
