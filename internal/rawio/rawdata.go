package rawio

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
)

// RawData is the top-level index the raw loader builds: the frozen arenas
// plus the small set of maps every query needs to navigate them without
// re-walking a byte stream. Nothing here is mutated once Load returns.
type RawData struct {
	Accesses   *arena.Arena[aarddata.Access]
	Statements *arena.Arena[aarddata.Statement]
	Values     *arena.Arena[aarddata.Value]

	Funcs *arena.Interner[aarddata.FuncNameTag]
	Tests *arena.Interner[aarddata.TestNameTag]

	// Files maps the static instrumentor's FileId straight to a source
	// path. Unlike function and test names, file identifiers already
	// arrive pre-deduplicated from the producer, so there is no call for
	// a second interner here.
	Files map[aarddata.FileId]string

	// FuncStmts mirrors the data model's "map FuncName -> map StmtId ->
	// StmtHandle". StmtIndex is the flattened form the Vars query resolves
	// trace statements through, since a trace STATEMENT token carries only
	// a StmtId, not the owning function.
	FuncStmts map[aarddata.FuncNameHandle]map[aarddata.StmtId]aarddata.StmtHandle
	StmtIndex map[aarddata.StmtId]aarddata.StmtHandle

	Trace     aarddata.Trace
	TestSuite map[aarddata.TestNameHandle]aarddata.TestStatus
}

// NewRawData allocates an empty RawData with all arenas, interners and maps
// ready to populate. Callers parse the three streams into it and then call
// Freeze.
func NewRawData() *RawData {
	return &RawData{
		Accesses:   arena.NewDedupArena[aarddata.Access](),
		Statements: arena.NewArena[aarddata.Statement](),
		Values:     arena.NewDedupArena[aarddata.Value](),
		Funcs:      arena.NewInterner[aarddata.FuncNameTag](),
		Tests:      arena.NewInterner[aarddata.TestNameTag](),
		Files:      make(map[aarddata.FileId]string),
		FuncStmts:  make(map[aarddata.FuncNameHandle]map[aarddata.StmtId]aarddata.StmtHandle),
		StmtIndex:  make(map[aarddata.StmtId]aarddata.StmtHandle),
		TestSuite:  make(map[aarddata.TestNameHandle]aarddata.TestStatus),
	}
}

// Freeze locks every arena against further allocation. Called once, after
// all three streams have been parsed successfully.
func (rd *RawData) Freeze() {
	rd.Accesses.Freeze()
	rd.Statements.Freeze()
	rd.Values.Freeze()
}
