package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// VarItem pairs a statement with the runtime values assigned to its defs,
// in def order.
type VarItem struct {
	Stmt aarddata.StmtHandle
	Defs []aarddata.ValueHandle
}

// Vars is the key=TestName query Invariants learns and checks from.
type Vars struct {
	Items []VarItem
}

// BuildVars walks the slice of the trace belonging to test, matching each
// Stmt item with non-empty defs to the Value items that follow it via a
// small stack: the statement on top, with N defs, is popped, and its
// VarItem emitted, the moment N Value items have accumulated since the
// previous pop.
func BuildVars(rd *rawio.RawData, test aarddata.TestNameHandle) (*Vars, error) {
	var (
		stack              []aarddata.StmtHandle
		buffer             []aarddata.ValueHandle
		items              []VarItem
		active             bool
		statementsObserved bool
	)

	for _, item := range rd.Trace {
		if item.Kind == aarddata.TraceTestBoundary {
			if item.Test == test {
				active = true
				continue
			}
			if active {
				break
			}
			continue
		}
		if !active {
			continue
		}

		switch item.Kind {
		case aarddata.TraceStmt:
			statementsObserved = true
			h, ok := rd.StmtIndex[item.Stmt]
			if !ok {
				continue
			}
			if len(rd.Statements.Get(h).Defs) > 0 {
				stack = append(stack, h)
			}

		case aarddata.TraceValue:
			if len(stack) == 0 {
				return nil, errInvalidTrace("value item with no pending statement")
			}
			buffer = append(buffer, item.Value)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(rd.Statements.Get(top).Defs) != len(buffer) {
					break
				}
				items = append(items, VarItem{Stmt: top, Defs: append([]aarddata.ValueHandle(nil), buffer...)})
				stack = stack[:len(stack)-1]
				buffer = nil
			}
		}
	}

	if len(items) == 0 {
		if statementsObserved {
			return nil, errMissingVariableTrace("no statement completed its defs")
		}
		return nil, errInvalidTestName("test never appears in the trace")
	}
	return &Vars{Items: items}, nil
}
