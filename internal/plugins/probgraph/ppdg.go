package probgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/aardwolf/internal/aarddata"
)

// nodeRef identifies a model node across functions: NodeID alone is only
// unique within one function's Model.
type nodeRef struct {
	Func aarddata.FuncNameHandle
	Node NodeID
}

type jointKey struct {
	Ref   nodeRef
	State string
}

type parentsKey struct {
	Ref     nodeRef
	Parents string
}

type parentsJointKey struct {
	Ref     nodeRef
	Parents string
	State   string
}

// PPDG holds the joint and conditional occurrence counters learned from
// walking every passing test's trace through its function's model: n(X),
// n(X=x), n(Pa(X)=pa) and n(Pa(X)=pa, X=x). Only observed keys allocate an
// entry; a dense table over every possible state would be mostly zeros.
type PPDG struct {
	total        map[nodeRef]int
	joint        map[jointKey]int
	parentsTotal map[parentsKey]int
	parentsJoint map[parentsJointKey]int

	// Marginal mode per node, kept incrementally: the state observed most
	// often across all passing runs, used as the "expected" state when a
	// rationale explains a deviation.
	bestCount map[nodeRef]int
	bestState map[nodeRef]NodeState
}

func newPPDG() *PPDG {
	return &PPDG{
		total:        make(map[nodeRef]int),
		joint:        make(map[jointKey]int),
		parentsTotal: make(map[parentsKey]int),
		parentsJoint: make(map[parentsJointKey]int),
		bestCount:    make(map[nodeRef]int),
		bestState:    make(map[nodeRef]NodeState),
	}
}

// parentsSignature canonicalizes a parents' configuration independent of
// the order ParentEdge entries were appended in (Pdg's dominance-frontier
// pass iterates Go maps, so that order is not guaranteed stable run to
// run); sorting by Node gives the counters a deterministic key.
func parentsSignature(parents []ParentConfig) string {
	if len(parents) == 0 {
		return ""
	}
	cp := append([]ParentConfig(nil), parents...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Node < cp[j].Node })
	var b strings.Builder
	for i, pc := range cp {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%d:%s", pc.Node, pc.State.key())
	}
	return b.String()
}

// observe feeds one trace-engine Observation into the learned counters.
func (p *PPDG) observe(obs Observation) {
	ref := nodeRef{Func: obs.Func, Node: obs.Node}
	sk := obs.State.key()
	jk := jointKey{Ref: ref, State: sk}

	p.total[ref]++
	p.joint[jk]++
	if p.joint[jk] > p.bestCount[ref] {
		p.bestCount[ref] = p.joint[jk]
		p.bestState[ref] = obs.State
	}

	if len(obs.Parents) == 0 {
		return
	}
	pk := parentsSignature(obs.Parents)
	p.parentsTotal[parentsKey{Ref: ref, Parents: pk}]++
	p.parentsJoint[parentsJointKey{Ref: ref, Parents: pk, State: sk}]++
}

// probability computes P(X=x | Pa(X)=pa) when obs has parents, else
// P(X=x); either denominator being zero (never learned) yields 0.
func (p *PPDG) probability(obs Observation) float64 {
	ref := nodeRef{Func: obs.Func, Node: obs.Node}
	sk := obs.State.key()
	if len(obs.Parents) > 0 {
		pk := parentsSignature(obs.Parents)
		denom := p.parentsTotal[parentsKey{Ref: ref, Parents: pk}]
		if denom == 0 {
			return 0
		}
		num := p.parentsJoint[parentsJointKey{Ref: ref, Parents: pk, State: sk}]
		return float64(num) / float64(denom)
	}
	denom := p.total[ref]
	if denom == 0 {
		return 0
	}
	return float64(p.joint[jointKey{Ref: ref, State: sk}]) / float64(denom)
}

// expectedState returns the state a node took most often across the
// passing runs, if it was ever observed.
func (p *PPDG) expectedState(fn aarddata.FuncNameHandle, node NodeID) (NodeState, bool) {
	st, ok := p.bestState[nodeRef{Func: fn, Node: node}]
	return st, ok
}
