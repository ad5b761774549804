package aarddata

import (
	"fmt"
	"strings"

	"github.com/kolkov/aardwolf/internal/arena"
)

// AccessKind discriminates the three shapes a variable reference can take.
type AccessKind uint8

const (
	AccessScalar AccessKind = iota
	AccessStructural
	AccessArrayLike
)

// Access is a structured description of one variable reference: a named
// scalar, a field projection (Structural), or an element projection
// (ArrayLike). Base/Field/Index reference sibling Access values already
// allocated in the same arena, so an Access arena built bottom-up can
// deduplicate purely on handle identity of its children — see CanonicalKey.
type Access struct {
	Kind AccessKind

	VarID uint64 // AccessScalar

	Base  AccessHandle // AccessStructural, AccessArrayLike
	Field AccessHandle // AccessStructural

	Index []AccessHandle // AccessArrayLike; may be empty
}

// NewScalar builds a scalar Access for a named variable.
func NewScalar(varID uint64) Access {
	return Access{Kind: AccessScalar, VarID: varID}
}

// NewStructural builds a field-access Access: base.field.
func NewStructural(base, field AccessHandle) Access {
	return Access{Kind: AccessStructural, Base: base, Field: field}
}

// NewArrayLike builds an element-access Access: base[index...]. index may
// be empty (e.g. a bare dereference).
func NewArrayLike(base AccessHandle, index []AccessHandle) Access {
	return Access{Kind: AccessArrayLike, Base: base, Index: index}
}

// CanonicalKey returns the byte key the Access arena deduplicates on.
// Because Base/Field/Index are themselves handles into the same
// deduplicating arena, two structurally equal Access values always share
// the same child handles, so comparing indices (rather than recursing into
// full substructure) is sufficient and avoids quadratic canonicalization.
func (a Access) CanonicalKey() string {
	switch a.Kind {
	case AccessScalar:
		return fmt.Sprintf("S:%d", a.VarID)
	case AccessStructural:
		return fmt.Sprintf("T:%d:%d", a.Base.Index(), a.Field.Index())
	case AccessArrayLike:
		var b strings.Builder
		fmt.Fprintf(&b, "A:%d:", a.Base.Index())
		for i, idx := range a.Index {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", idx.Index())
		}
		return b.String()
	default:
		panic("aarddata: unknown access kind")
	}
}

// UsesChain flattens every scalar var id reachable from h in left-to-right
// traversal order, descending into both operands of a Structural access
// and into both the base and the index list of an ArrayLike access.
func UsesChain(a *arena.Arena[Access], h AccessHandle) []uint64 {
	var out []uint64
	appendUses(a, h, &out)
	return out
}

func appendUses(a *arena.Arena[Access], h AccessHandle, out *[]uint64) {
	acc := a.Get(h)
	switch acc.Kind {
	case AccessScalar:
		*out = append(*out, acc.VarID)
	case AccessStructural:
		appendUses(a, acc.Base, out)
		appendUses(a, acc.Field, out)
	case AccessArrayLike:
		appendUses(a, acc.Base, out)
		for _, idx := range acc.Index {
			appendUses(a, idx, out)
		}
	}
}

// DefsChain flattens the scalar var ids an Access writes. It differs from
// UsesChain in two ways mandated by the data model: an ArrayLike access
// only re-defines its base (index variables are read, never written), and
// a Structural access only re-defines its base's scalars — the field is
// never part of the defs chain, scalar or not, because writing obj.field
// redefines the containing object rather than naming a variable called
// "field".
func DefsChain(a *arena.Arena[Access], h AccessHandle) []uint64 {
	var out []uint64
	appendDefs(a, h, &out)
	return out
}

func appendDefs(a *arena.Arena[Access], h AccessHandle, out *[]uint64) {
	acc := a.Get(h)
	switch acc.Kind {
	case AccessScalar:
		*out = append(*out, acc.VarID)
	case AccessStructural:
		appendDefs(a, acc.Base, out)
	case AccessArrayLike:
		appendDefs(a, acc.Base, out)
	}
}
