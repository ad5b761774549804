package probgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/aardwolf/internal/aarddata"
)

// StateKind discriminates the shape of an observed NodeState.
type StateKind uint8

const (
	StateNotExecuted StateKind = iota
	StateExecuted
	StatePredicate
	StateData
)

// VarDef pairs a variable id with the statement currently defining it
// within a Data state's reaching-definitions context.
type VarDef struct {
	VarID uint64
	Stmt  aarddata.StmtHandle
}

// NodeState is the per-model-node observation recorded by the trace engine
// at one point in a test's execution.
type NodeState struct {
	Kind    StateKind
	Next    aarddata.StmtHandle // StatePredicate: the successor actually taken
	Context []VarDef            // StateData: ordered (var_id, defining_stmt) pairs
}

func notExecuted() NodeState { return NodeState{Kind: StateNotExecuted} }
func executed() NodeState    { return NodeState{Kind: StateExecuted} }

// key is the canonical string the PPDG counters hash observed states on.
// Two NodeStates with equal key are the "same state" for counting purposes.
func (s NodeState) key() string {
	switch s.Kind {
	case StateNotExecuted:
		return "N"
	case StateExecuted:
		return "E"
	case StatePredicate:
		return fmt.Sprintf("P:%d", s.Next.Index())
	case StateData:
		var b strings.Builder
		b.WriteString("D:")
		for i, vd := range s.Context {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d=%d", vd.VarID, vd.Stmt.Index())
		}
		return b.String()
	default:
		return "?"
	}
}

// dataState builds a Data state from the reaching definitions of the
// statement's used vars, canonicalizing an empty result to Executed. The
// context is kept sorted by var id so two equal states always produce the
// same key regardless of the uses' order in the statement.
func dataState(uses []uint64, defs map[uint64]aarddata.StmtHandle) NodeState {
	var ctx []VarDef
	seen := make(map[uint64]bool, len(uses))
	for _, v := range uses {
		if seen[v] {
			continue
		}
		seen[v] = true
		if d, ok := defs[v]; ok {
			ctx = append(ctx, VarDef{VarID: v, Stmt: d})
		}
	}
	if len(ctx) == 0 {
		return executed()
	}
	sort.Slice(ctx, func(i, j int) bool { return ctx[i].VarID < ctx[j].VarID })
	return NodeState{Kind: StateData, Context: ctx}
}
