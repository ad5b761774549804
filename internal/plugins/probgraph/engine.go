package probgraph

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// ParentConfig is one entry of an observed node's parents' state
// configuration: a parent node and its current recorded state.
type ParentConfig struct {
	Node  NodeID
	State NodeState
}

// Observation is one TraceItem the engine emits: the model node a
// statement produced, its new state, and its parents' configuration at
// that point in the walk.
type Observation struct {
	Index   int // position of the owning statement in the trace
	Func    aarddata.FuncNameHandle
	Model   *Model
	Stmt    aarddata.StmtHandle
	Node    NodeID
	State   NodeState
	Parents []ParentConfig
}

// frame is one simulated call activation: the model-node states and
// variable reaching-definitions context current within it.
type frame struct {
	states map[NodeID]NodeState
	defs   map[uint64]aarddata.StmtHandle
}

func newFrame() *frame {
	return &frame{states: make(map[NodeID]NodeState), defs: make(map[uint64]aarddata.StmtHandle)}
}

func (f *frame) state(n NodeID) NodeState {
	if s, ok := f.states[n]; ok {
		return s
	}
	return notExecuted()
}

func flattenUses(rd *rawio.RawData, st aarddata.Statement) []uint64 {
	var out []uint64
	for _, h := range st.Uses {
		out = append(out, aarddata.UsesChain(rd.Accesses, h)...)
	}
	return out
}

// walkTrace drives the state machine over one test's trace, returning the
// full ordered Observation stream. getModel lazily builds (and caches) the
// model graph for a statement's owning function.
func walkTrace(rd *rawio.RawData, getModel func(aarddata.FuncNameHandle) *Model, trace []aarddata.StmtHandle) []Observation {
	var obs []Observation
	frames := []*frame{newFrame()}

	for i, s := range trace {
		st := rd.Statements.Get(s)
		fn := st.Func
		m := getModel(fn)
		cur := frames[len(frames)-1]

		var next aarddata.StmtHandle
		haveNext := i+1 < len(trace)
		if haveNext {
			next = trace[i+1]
		}

		for _, nid := range m.NodesFor(s) {
			node := m.Node(nid)

			var newState NodeState
			switch node.Kind {
			case KindPredicate:
				if !haveNext {
					continue // trace ends on a branch: nothing to observe
				}
				newState = NodeState{Kind: StatePredicate, Next: next}
			case KindNonPredicate:
				newState = dataState(flattenUses(rd, st), cur.defs)
				cur.states[nid] = newState
				// Only the data-state node advances the reaching
				// definitions: a pure predicate defines nothing the model
				// tracks.
				for _, defHandle := range st.Defs {
					for _, v := range aarddata.DefsChain(rd.Accesses, defHandle) {
						cur.defs[v] = s
					}
				}
			case KindSelfLoop:
				newState = executed()
			}
			cur.states[nid] = newState

			seen := make(map[NodeID]bool)
			var parents []ParentConfig
			for _, pe := range m.Parents[nid] {
				if seen[pe.Parent] {
					continue
				}
				seen[pe.Parent] = true
				parents = append(parents, ParentConfig{Node: pe.Parent, State: cur.state(pe.Parent)})
			}

			obs = append(obs, Observation{
				Index:   i,
				Func:    fn,
				Model:   m,
				Stmt:    s,
				Node:    nid,
				State:   newState,
				Parents: parents,
			})
		}

		// A return discards its frame. Separately, a jump to a
		// non-successor means control entered another function, so a fresh
		// frame is pushed. The non-successor test is a heuristic: dynamic
		// dispatch that happens to land on a successor id is misread as
		// straight-line flow.
		if st.IsRet() && len(frames) > 1 {
			frames = frames[:len(frames)-1]
		}
		if haveNext {
			nextSt := rd.Statements.Get(next)
			if !st.IsSucc(nextSt.ID) {
				frames = append(frames, newFrame())
			}
		}
	}

	return obs
}
