package probgraph

import (
	"sort"

	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/rawio"
)

const defaultRationaleText = "The statement enters to an unusual state given the state of its parents control flow."

type bestObservation struct {
	score float64
	obs   Observation
}

// localize walks one failing test's Observation stream, keeping for each
// model node the highest-scoring occurrence (later ties are skipped, a
// later strictly-higher score replaces the kept one), then emits a
// LocalizationItem per kept node ordered by first-occurrence index so
// Results' own insertion-order tie-break matches. Nodes without parents
// carry no conditional signal and produce no hypothesis.
func localize(rd *rawio.RawData, ppdg *PPDG, obsSeq []Observation, pre *plugin.Preprocessing, results *plugin.Results) {
	kept := make(map[nodeRef]bestObservation)
	first := make(map[nodeRef]int)

	for _, obs := range obsSeq {
		if len(obs.Parents) == 0 {
			continue
		}
		if !pre.IsStmtRelevant(obs.Stmt) {
			continue
		}
		score := 1 - ppdg.probability(obs)
		k := nodeRef{Func: obs.Func, Node: obs.Node}
		if _, seen := first[k]; !seen {
			first[k] = obs.Index
		}
		if prior, ok := kept[k]; ok && prior.score >= score {
			continue
		}
		kept[k] = bestObservation{score: score, obs: obs}
	}

	ordered := make([]bestObservation, 0, len(kept))
	for _, b := range kept {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ki := nodeRef{Func: ordered[i].obs.Func, Node: ordered[i].obs.Node}
		kj := nodeRef{Func: ordered[j].obs.Func, Node: ordered[j].obs.Node}
		return first[ki] < first[kj]
	})

	for _, b := range ordered {
		st := rd.Statements.Get(b.obs.Stmt)
		rationale := buildRationale(rd, ppdg, b.obs)
		item, err := plugin.NewLocalizationItem(st.Loc, b.obs.Stmt, float32(b.score), rationale)
		if err != nil {
			continue
		}
		results.Add(item)
	}
}

// buildRationale starts from the default text and, when some parent's
// observed state deviates from the state that parent took most often in
// passing runs, appends an explanation of what was expected instead: the
// usual branch target for a predicate parent, the usual reaching
// definitions for a data parent.
func buildRationale(rd *rawio.RawData, ppdg *PPDG, obs Observation) plugin.Rationale {
	rationale := plugin.Rationale{plugin.Text(defaultRationaleText)}

	for _, pc := range obs.Parents {
		expected, ok := ppdg.expectedState(obs.Func, pc.Node)
		if !ok || expected.key() == pc.State.key() {
			continue
		}
		parentStmt := rd.Statements.Get(obs.Model.Node(pc.Node).Stmt)

		switch expected.Kind {
		case StatePredicate:
			succ := rd.Statements.Get(expected.Next)
			rationale = append(rationale,
				plugin.Text(" Expected control flow of "),
				plugin.Anchor(parentStmt.Loc),
				plugin.Text(" is "),
				plugin.Anchor(succ.Loc),
				plugin.Text(", not this statement."),
			)
			return rationale

		case StateData:
			rationale = append(rationale,
				plugin.Text(" Expected data flow of "),
				plugin.Anchor(parentStmt.Loc),
				plugin.Text(" is "),
			)
			if pc.State.Kind == StateData {
				rationale = appendContextDiff(rd, rationale, expected.Context, pc.State.Context)
			} else {
				rationale = appendContextDefs(rd, rationale, expected.Context)
			}
			rationale = append(rationale, plugin.Text("."))
			return rationale
		}
	}

	return rationale
}

// appendContextDiff renders the vars whose expected and observed reaching
// definitions disagree as "⟨expected⟩ (not ⟨actual⟩)" anchor pairs.
func appendContextDiff(rd *rawio.RawData, rationale plugin.Rationale, expected, actual []VarDef) plugin.Rationale {
	actualByVar := make(map[uint64]VarDef, len(actual))
	for _, vd := range actual {
		actualByVar[vd.VarID] = vd
	}

	n := 0
	for _, evd := range expected {
		avd, ok := actualByVar[evd.VarID]
		if !ok || avd.Stmt == evd.Stmt {
			continue
		}
		if n > 0 {
			rationale = append(rationale, plugin.Text(", "))
		}
		rationale = append(rationale,
			plugin.Anchor(rd.Statements.Get(evd.Stmt).Loc),
			plugin.Text(" (not "),
			plugin.Anchor(rd.Statements.Get(avd.Stmt).Loc),
			plugin.Text(")"),
		)
		n++
	}
	if n == 0 {
		rationale = append(rationale, plugin.Text("different"))
	}
	return rationale
}

// appendContextDefs renders every expected reaching definition as an
// anchor, for the case where the observed parent state is not a data
// state at all.
func appendContextDefs(rd *rawio.RawData, rationale plugin.Rationale, expected []VarDef) plugin.Rationale {
	if len(expected) == 0 {
		return append(rationale, plugin.Text("different"))
	}
	for i, vd := range expected {
		if i > 0 {
			rationale = append(rationale, plugin.Text(", "))
		}
		rationale = append(rationale, plugin.Anchor(rd.Statements.Get(vd.Stmt).Loc))
	}
	return rationale
}
