package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Stmts is the key=none query over which statements actually executed.
type Stmts struct {
	Executed map[aarddata.StmtId]struct{}
	Mapping  map[aarddata.StmtId]aarddata.StmtHandle
	Owner    map[aarddata.StmtId]aarddata.FuncNameHandle

	TotalByFunc    map[aarddata.FuncNameHandle]int
	ExecutedByFunc map[aarddata.FuncNameHandle]int
}

// BuildStmts scans the trace once to find the executed set, then walks
// every function's statement table to classify total vs. executed.
func BuildStmts(rd *rawio.RawData) *Stmts {
	executed := make(map[aarddata.StmtId]struct{})
	for _, item := range rd.Trace {
		if item.Kind == aarddata.TraceStmt {
			executed[item.Stmt] = struct{}{}
		}
	}

	s := &Stmts{
		Executed:       executed,
		Mapping:        make(map[aarddata.StmtId]aarddata.StmtHandle),
		Owner:          make(map[aarddata.StmtId]aarddata.FuncNameHandle),
		TotalByFunc:    make(map[aarddata.FuncNameHandle]int),
		ExecutedByFunc: make(map[aarddata.FuncNameHandle]int),
	}

	for fh, table := range rd.FuncStmts {
		s.TotalByFunc[fh] = len(table)
		for id, h := range table {
			if _, ok := executed[id]; !ok {
				continue
			}
			s.Mapping[id] = h
			s.Owner[id] = fh
			s.ExecutedByFunc[fh]++
		}
	}
	return s
}

// IsExecuted reports whether id executed at least once in the trace.
func (s *Stmts) IsExecuted(id aarddata.StmtId) bool {
	_, ok := s.Executed[id]
	return ok
}
