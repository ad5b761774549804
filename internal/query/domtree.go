package query

import "github.com/kolkov/aardwolf/internal/aarddata"

// domGraph is the minimal view of a directed graph the dominator and
// dominance-frontier computations need. Pdg uses it once, over the CFG with
// successor/predecessor swapped and root=Exit (to get post-dominance).
type domGraph struct {
	root aarddata.StmtHandle
	succ map[aarddata.StmtHandle][]aarddata.StmtHandle
	pred map[aarddata.StmtHandle][]aarddata.StmtHandle
}

// reversePostorder returns g's nodes reachable from root in reverse
// postorder, root first — the order the iterative dominator algorithm
// needs to converge in one or two passes instead of many.
func reversePostorder(g domGraph) []aarddata.StmtHandle {
	visited := make(map[aarddata.StmtHandle]bool)
	var post []aarddata.StmtHandle

	var visit func(n aarddata.StmtHandle)
	visit = func(n aarddata.StmtHandle) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, s := range g.succ[n] {
			visit(s)
		}
		post = append(post, n)
	}
	visit(g.root)

	rpo := make([]aarddata.StmtHandle, len(post))
	for i, n := range post {
		rpo[len(post)-1-i] = n
	}
	return rpo
}

// idoms computes the immediate-dominator map of g using the Cooper/Harvey/
// Kennedy iterative algorithm, which converges in a handful of passes on
// the small, mostly-acyclic function graphs this analysis sees.
func idoms(g domGraph) map[aarddata.StmtHandle]aarddata.StmtHandle {
	order := reversePostorder(g)
	rpoIndex := make(map[aarddata.StmtHandle]int, len(order))
	for i, n := range order {
		rpoIndex[n] = i
	}

	idom := map[aarddata.StmtHandle]aarddata.StmtHandle{g.root: g.root}

	intersect := func(a, b aarddata.StmtHandle) aarddata.StmtHandle {
		for a != b {
			for rpoIndex[a] > rpoIndex[b] {
				a = idom[a]
			}
			for rpoIndex[b] > rpoIndex[a] {
				b = idom[b]
			}
		}
		return a
	}

	changed := true
	for changed {
		changed = false
		for _, n := range order {
			if n == g.root {
				continue
			}
			var newIdom aarddata.StmtHandle
			found := false
			for _, p := range g.pred[n] {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !found {
					newIdom = p
					found = true
					continue
				}
				newIdom = intersect(newIdom, p)
			}
			if !found {
				continue
			}
			if old, ok := idom[n]; !ok || old != newIdom {
				idom[n] = newIdom
				changed = true
			}
		}
	}
	return idom
}

// dominanceFrontier computes DF(n) for every node reachable from g.root,
// Cytron et al.'s standard algorithm: a node n is in DF(runner) for every
// predecessor p of n walked up from p until idom[n] is reached.
func dominanceFrontier(g domGraph, idom map[aarddata.StmtHandle]aarddata.StmtHandle) map[aarddata.StmtHandle]map[aarddata.StmtHandle]struct{} {
	df := make(map[aarddata.StmtHandle]map[aarddata.StmtHandle]struct{})
	for n := range idom {
		if len(g.pred[n]) < 2 {
			continue
		}
		for _, p := range g.pred[n] {
			runner := p
			for runner != idom[n] {
				if _, ok := idom[runner]; !ok {
					break
				}
				if df[runner] == nil {
					df[runner] = make(map[aarddata.StmtHandle]struct{})
				}
				df[runner][n] = struct{}{}
				runner = idom[runner]
			}
		}
	}
	return df
}
