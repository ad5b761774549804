package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStmt struct {
	Line int
}

func TestArenaAllocIsStable(t *testing.T) {
	a := NewArena[fakeStmt]()
	h1 := a.Alloc(fakeStmt{Line: 1})
	h2 := a.Alloc(fakeStmt{Line: 2})

	require.NotEqual(t, h1, h2)
	require.Equal(t, 1, a.Get(h1).Line)
	require.Equal(t, 2, a.Get(h2).Line)
}

func TestArenaReservesDummySlots(t *testing.T) {
	a := NewArena[fakeStmt]()
	h := a.Alloc(fakeStmt{Line: 42})
	require.Equal(t, uint32(reservedDummies), h.Index())
}

func TestDummyHandleStableAcrossArenas(t *testing.T) {
	a1 := NewArena[fakeStmt]()
	a2 := NewArena[fakeStmt]()
	require.Equal(t, DummyHandle[fakeStmt](0), DummyHandle[fakeStmt](0))
	require.Equal(t, a1.Len(), a2.Len())
}

func TestDedupArenaCollapsesEqualKeys(t *testing.T) {
	a := NewDedupArena[fakeStmt]()
	h1 := a.AllocDedup("key-a", fakeStmt{Line: 1})
	h2 := a.AllocDedup("key-a", fakeStmt{Line: 999}) // value ignored on hit
	h3 := a.AllocDedup("key-b", fakeStmt{Line: 2})

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Equal(t, 1, a.Get(h1).Line)
}

func TestArenaIsEmptyIgnoresDummySlots(t *testing.T) {
	a := NewArena[fakeStmt]()
	require.True(t, a.IsEmpty())

	a.Alloc(fakeStmt{Line: 1})
	require.False(t, a.IsEmpty())
}

func TestArenaFreezePreventsFurtherAlloc(t *testing.T) {
	a := NewArena[fakeStmt]()
	a.Alloc(fakeStmt{Line: 1})
	a.Freeze()

	require.Panics(t, func() { a.Alloc(fakeStmt{Line: 2}) })
}

func TestInternerDeduplicatesByteEqualStrings(t *testing.T) {
	type fileTag struct{}
	in := NewInterner[fileTag]()

	h1 := in.Intern("main.go")
	h2 := in.Intern("main.go")
	h3 := in.Intern("util.go")

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Equal(t, "main.go", in.Lookup(h1))
	require.Equal(t, "util.go", in.Lookup(h3))
}
