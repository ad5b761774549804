package query

import (
	"sort"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Cfg is the key=FuncName query: a control-flow graph over one function's
// statements, augmented with dummy ENTRY and EXIT sentinels. Entry and Exit
// reuse the Statements arena's reserved dummy slots 0 and 1 — safe because
// no two functions ever compare handles from different Cfg values against
// each other.
type Cfg struct {
	Entry, Exit aarddata.StmtHandle
	Nodes       []aarddata.StmtHandle // deterministic order: Entry, Exit, then by StmtId
	Succ        map[aarddata.StmtHandle][]aarddata.StmtHandle
	Pred        map[aarddata.StmtHandle][]aarddata.StmtHandle
}

// BuildCfg constructs fn's CFG from its statement table in rd.
func BuildCfg(rd *rawio.RawData, fn aarddata.FuncNameHandle) *Cfg {
	table := rd.FuncStmts[fn]

	entry := arena.DummyHandle[aarddata.Statement](0)
	exit := arena.DummyHandle[aarddata.Statement](1)

	c := &Cfg{
		Entry: entry,
		Exit:  exit,
		Succ:  make(map[aarddata.StmtHandle][]aarddata.StmtHandle),
		Pred:  make(map[aarddata.StmtHandle][]aarddata.StmtHandle),
	}

	ids := make([]aarddata.StmtId, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].File != ids[j].File {
			return ids[i].File < ids[j].File
		}
		return ids[i].Local < ids[j].Local
	})

	c.Nodes = append(c.Nodes, entry, exit)
	for _, id := range ids {
		c.Nodes = append(c.Nodes, table[id])
	}

	addEdge := func(from, to aarddata.StmtHandle) {
		c.Succ[from] = append(c.Succ[from], to)
		c.Pred[to] = append(c.Pred[to], from)
	}

	for _, id := range ids {
		h := table[id]
		st := rd.Statements.Get(h)
		resolved := 0
		for _, succID := range st.Successors {
			if sh, ok := table[succID]; ok {
				addEdge(h, sh)
				resolved++
			}
		}
		// A statement with no in-function successor (terminal, or every
		// successor lives in another function) flows to EXIT, keeping EXIT
		// reachable from every node.
		if resolved == 0 {
			addEdge(h, exit)
		}
	}

	for _, h := range c.Nodes {
		if h == entry {
			continue
		}
		if len(c.Pred[h]) == 0 {
			addEdge(entry, h)
		}
	}

	return c
}
