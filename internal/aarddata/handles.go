package aarddata

import "github.com/kolkov/aardwolf/internal/arena"

// Handle aliases give every consumer a concrete, documented name instead of
// spelling out the generic instantiation at every call site.
type (
	FuncNameHandle = arena.SHandle[FuncNameTag]
	FileNameHandle = arena.SHandle[FileNameTag]
	TestNameHandle = arena.SHandle[TestNameTag]

	AccessHandle = arena.Handle[Access]
	StmtHandle   = arena.Handle[Statement]
	ValueHandle  = arena.Handle[Value]
)
