package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// DepKind discriminates a Pdg edge's origin.
type DepKind uint8

const (
	ControlDep DepKind = iota
	DataDep
)

// DepEdge is one program-dependence edge, From depends on To.
type DepEdge struct {
	From, To aarddata.StmtHandle
	Kind     DepKind
}

// Pdg is the key=FuncName query: the program dependence graph derived from
// fn's Cfg, holding only Control/Data edges — the CFG's own control-flow
// edges are dropped once both dependence passes complete.
type Pdg struct {
	Edges   []DepEdge
	Control map[aarddata.StmtHandle][]aarddata.StmtHandle // node -> nodes it is control-dependent on
	Data    map[aarddata.StmtHandle][]aarddata.StmtHandle // node -> nodes it is data-dependent on
}

// BuildPdg runs the control-dependence pass (reverse dominance frontier)
// and the data-dependence pass (reaching-definitions fixpoint) over cfg.
func BuildPdg(rd *rawio.RawData, cfg *Cfg) *Pdg {
	p := &Pdg{
		Control: make(map[aarddata.StmtHandle][]aarddata.StmtHandle),
		Data:    make(map[aarddata.StmtHandle][]aarddata.StmtHandle),
	}

	addEdge := func(from, to aarddata.StmtHandle, kind DepKind) {
		p.Edges = append(p.Edges, DepEdge{From: from, To: to, Kind: kind})
		switch kind {
		case ControlDep:
			p.Control[from] = append(p.Control[from], to)
		case DataDep:
			p.Data[from] = append(p.Data[from], to)
		}
	}

	buildControlDependence(cfg, addEdge)
	buildDataDependence(rd, cfg, addEdge)

	return p
}

// buildControlDependence reverses cfg (successor/predecessor swapped,
// root=Exit) to get a post-dominator tree, then for every node v and every
// w in v's dominance frontier on that reversed graph — equivalently v's
// reverse dominance frontier on the original CFG — emits (v -> w,
// ControlDep).
func buildControlDependence(cfg *Cfg, addEdge func(from, to aarddata.StmtHandle, kind DepKind)) {
	reversed := domGraph{root: cfg.Exit, succ: cfg.Pred, pred: cfg.Succ}
	idom := idoms(reversed)
	df := dominanceFrontier(reversed, idom)

	for _, v := range cfg.Nodes {
		for w := range df[v] {
			addEdge(v, w, ControlDep)
		}
	}
}

// reachingContext maps a var id to the set of statements whose definition
// of that var currently reaches a program point.
type reachingContext map[uint64]map[aarddata.StmtHandle]struct{}

func cloneContext(c reachingContext) reachingContext {
	out := make(reachingContext, len(c))
	for v, defs := range c {
		cp := make(map[aarddata.StmtHandle]struct{}, len(defs))
		for d := range defs {
			cp[d] = struct{}{}
		}
		out[v] = cp
	}
	return out
}

// buildDataDependence runs the reaching-definitions worklist fixpoint
// described by the control/data-dependence construction: each node's
// uses-chain is matched against its incoming reaching-definitions context
// to emit DataDep edges, then its defs-chain kills and reseeds that
// context for its successors.
func buildDataDependence(rd *rawio.RawData, cfg *Cfg, addEdge func(from, to aarddata.StmtHandle, kind DepKind)) {
	in := make(map[aarddata.StmtHandle]reachingContext, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		in[n] = reachingContext{}
	}

	queued := make(map[aarddata.StmtHandle]bool, len(cfg.Nodes))
	var worklist []aarddata.StmtHandle
	for _, n := range cfg.Nodes {
		worklist = append(worklist, n)
		queued[n] = true
	}

	emitted := make(map[DepEdge]struct{})
	// emit records "user depends on def", the same dependent -> dependee
	// direction the control pass stores, so Pdg.Data[n] lists the defs
	// reaching n just as Pdg.Control[n] lists n's controllers.
	emit := func(user, def aarddata.StmtHandle) {
		e := DepEdge{From: user, To: def, Kind: DataDep}
		if _, ok := emitted[e]; ok {
			return
		}
		emitted[e] = struct{}{}
		addEdge(user, def, DataDep)
	}

	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		queued[n] = false

		st := rd.Statements.Get(n)
		ctx := cloneContext(in[n])

		for _, useHandle := range st.Uses {
			for _, varID := range aarddata.UsesChain(rd.Accesses, useHandle) {
				for d := range ctx[varID] {
					emit(n, d)
				}
			}
		}

		for _, defHandle := range st.Defs {
			for _, varID := range aarddata.DefsChain(rd.Accesses, defHandle) {
				ctx[varID] = map[aarddata.StmtHandle]struct{}{n: {}}
			}
		}

		for _, succ := range cfg.Succ[n] {
			succIn := in[succ]
			grew := false
			for varID, defs := range ctx {
				existing, ok := succIn[varID]
				if !ok {
					existing = make(map[aarddata.StmtHandle]struct{})
					succIn[varID] = existing
				}
				for d := range defs {
					if _, ok := existing[d]; !ok {
						existing[d] = struct{}{}
						grew = true
					}
				}
			}
			if grew && !queued[succ] {
				worklist = append(worklist, succ)
				queued[succ] = true
			}
		}
	}
}
