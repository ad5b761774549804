// Package probgraph implements probabilistic program-dependence-graph
// localization: a model graph derived from each function's Pdg, a trace
// engine that walks a test's execution simulating a call stack, and a PPDG
// (joint/conditional state counters) learned from passing tests and
// queried against failing ones.
package probgraph

import (
	"sort"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/query"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// NodeKind discriminates the shape of a model node. The numeric order is
// the order the trace engine visits a statement's nodes in: a SelfLoop
// companion first (it is a parent of the main node), the data state before
// the predicate state for a state-split statement.
type NodeKind uint8

const (
	KindSelfLoop NodeKind = iota
	KindNonPredicate
	KindPredicate
)

// EdgeKind discriminates a model parent edge's origin.
type EdgeKind uint8

const (
	EdgeControl EdgeKind = iota
	EdgeData
	EdgeStateSplit
)

// NodeID indexes Model.Nodes. It is only unique within one function's
// Model; cross-function bookkeeping pairs it with the function name.
type NodeID int

// ModelNode is one typed node of a function's model graph.
type ModelNode struct {
	ID   NodeID
	Stmt aarddata.StmtHandle
	Kind NodeKind
}

// ParentEdge is one model-incoming edge, recorded against the child node.
type ParentEdge struct {
	Parent NodeID
	Kind   EdgeKind
}

// Model is one function's probabilistic model graph. "Bayesian" and
// "Dependence" flavors select the same graph; the moralization and
// triangulation that would make Bayesian distinct is not implemented.
type Model struct {
	Nodes   []ModelNode
	Parents map[NodeID][]ParentEdge

	byStmt map[aarddata.StmtHandle][]NodeID
}

func newModel() *Model {
	return &Model{
		Parents: make(map[NodeID][]ParentEdge),
		byStmt:  make(map[aarddata.StmtHandle][]NodeID),
	}
}

// NodesFor returns the model node(s) a statement maps to, ordered by
// NodeKind so the trace engine updates parents before children within the
// same statement.
func (m *Model) NodesFor(stmt aarddata.StmtHandle) []NodeID { return m.byStmt[stmt] }

// Node dereferences id.
func (m *Model) Node(id NodeID) ModelNode { return m.Nodes[id] }

func (m *Model) addNode(stmt aarddata.StmtHandle, kind NodeKind) NodeID {
	id := NodeID(len(m.Nodes))
	m.Nodes = append(m.Nodes, ModelNode{ID: id, Stmt: stmt, Kind: kind})
	m.byStmt[stmt] = append(m.byStmt[stmt], id)
	return id
}

// depParent is one PDG-incoming dependence of a statement.
type depParent struct {
	stmt aarddata.StmtHandle
	kind EdgeKind
}

// BuildModel derives fn's model graph from its Cfg and Pdg. Every CFG node
// (ENTRY/EXIT included) yields one main node, Predicate-typed when the
// statement branches. A statement that both controls others and has
// incoming data dependence is state-split: a NonPredicate twin takes over
// every incoming dependence edge and feeds the predicate node through a
// StateSplit edge. A self dependence on a non-split statement moves to a
// SelfLoop companion that becomes a parent of the main node.
func BuildModel(rd *rawio.RawData, cfg *query.Cfg, pdg *query.Pdg) *Model {
	m := newModel()

	main := make(map[aarddata.StmtHandle]NodeID, len(cfg.Nodes))
	for _, h := range cfg.Nodes {
		kind := KindNonPredicate
		if h != cfg.Entry && h != cfg.Exit && rd.Statements.Get(h).IsPredicate() {
			kind = KindPredicate
		}
		main[h] = m.addNode(h, kind)
	}

	// controls holds every statement some other node is control-dependent
	// on, i.e. the sources of outgoing ControlDep edges.
	controls := make(map[aarddata.StmtHandle]bool)
	for _, parents := range pdg.Control {
		for _, p := range parents {
			controls[p] = true
		}
	}

	parentsOf := func(h aarddata.StmtHandle) []depParent {
		var out []depParent
		for _, p := range pdg.Control[h] {
			out = append(out, depParent{stmt: p, kind: EdgeControl})
		}
		for _, p := range pdg.Data[h] {
			out = append(out, depParent{stmt: p, kind: EdgeData})
		}
		return out
	}

	for _, h := range cfg.Nodes {
		mainID := main[h]
		deps := parentsOf(h)
		hasPredState := controls[h]
		hasDataState := len(pdg.Data[h]) > 0

		switch {
		case hasPredState && hasDataState:
			dataID := m.addNode(h, KindNonPredicate)
			for _, dp := range deps {
				// Self edges land here too: their source is the main
				// (predicate) node, so the split handles them without a
				// SelfLoop companion.
				m.Parents[dataID] = append(m.Parents[dataID], ParentEdge{Parent: main[dp.stmt], Kind: dp.kind})
			}
			m.Parents[mainID] = append(m.Parents[mainID], ParentEdge{Parent: dataID, Kind: EdgeStateSplit})

		default:
			var loopID NodeID
			haveLoop := false
			for _, dp := range deps {
				if dp.stmt == h {
					if !haveLoop {
						loopID = m.addNode(h, KindSelfLoop)
						haveLoop = true
					}
					m.Parents[mainID] = append(m.Parents[mainID], ParentEdge{Parent: loopID, Kind: dp.kind})
					continue
				}
				m.Parents[mainID] = append(m.Parents[mainID], ParentEdge{Parent: main[dp.stmt], Kind: dp.kind})
			}
		}
	}

	for _, ids := range m.byStmt {
		sort.Slice(ids, func(i, j int) bool { return m.Nodes[ids[i]].Kind < m.Nodes[ids[j]].Kind })
	}

	return m
}
