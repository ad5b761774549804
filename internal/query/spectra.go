package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Spectra is the key=none query SBFL reads coverage from: the same
// test-boundary partitioning as Tests, but storing per-test StmtId sets
// instead of ordered StmtHandle traces.
type Spectra struct {
	Coverage map[aarddata.TestNameHandle]map[aarddata.StmtId]struct{}
}

// BuildSpectra re-walks the trace rather than deriving from Tests, since it
// needs the raw StmtId (to answer IsExecutedIn for statements Stmts never
// resolved) rather than a StmtHandle.
func BuildSpectra(rd *rawio.RawData) *Spectra {
	sp := &Spectra{Coverage: make(map[aarddata.TestNameHandle]map[aarddata.StmtId]struct{})}

	var current aarddata.TestNameHandle
	haveCurrent := false
	for _, item := range rd.Trace {
		switch item.Kind {
		case aarddata.TraceTestBoundary:
			current = item.Test
			haveCurrent = true
			if _, ok := sp.Coverage[current]; !ok {
				sp.Coverage[current] = make(map[aarddata.StmtId]struct{})
			}
		case aarddata.TraceStmt:
			if !haveCurrent {
				continue
			}
			sp.Coverage[current][item.Stmt] = struct{}{}
		}
	}
	return sp
}

// IsExecutedIn reports whether stmt executed at least once during test.
func (sp *Spectra) IsExecutedIn(test aarddata.TestNameHandle, stmt aarddata.StmtId) bool {
	set, ok := sp.Coverage[test]
	if !ok {
		return false
	}
	_, ok = set[stmt]
	return ok
}
