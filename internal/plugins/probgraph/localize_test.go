package probgraph

import (
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/rawio"
	"github.com/stretchr/testify/require"
)

// buildStatements allocates n Statements with distinct, ordered line
// numbers directly into a fresh RawData, for tests that only need
// distinct, Loc-bearing StmtHandles rather than a full function/trace
// fixture.
func buildStatements(t *testing.T, n int) (*rawio.RawData, []aarddata.StmtHandle) {
	t.Helper()
	rd := rawio.NewRawData()
	handles := make([]aarddata.StmtHandle, 0, n)
	for i := 0; i < n; i++ {
		h := rd.Statements.Alloc(aarddata.Statement{
			Loc: aarddata.Loc{File: 1, LineBegin: uint32(i + 1), LineEnd: uint32(i + 1)},
		})
		handles = append(handles, h)
	}
	rd.Freeze()
	return rd, handles
}

// parentedModel builds a two-node model where node 1 (at parentStmt) is
// the sole parent of node 0 (at childStmt).
func parentedModel(childStmt, parentStmt aarddata.StmtHandle, kind EdgeKind) *Model {
	m := newModel()
	child := m.addNode(childStmt, KindNonPredicate)
	parent := m.addNode(parentStmt, KindPredicate)
	m.Parents[child] = []ParentEdge{{Parent: parent, Kind: kind}}
	return m
}

func TestBuildRationaleSpecializesPredicateExpectation(t *testing.T) {
	rd, stmts := buildStatements(t, 3)
	m := parentedModel(stmts[0], stmts[1], EdgeControl)
	ppdg := newPPDG()

	// The parent branch went to stmts[2] in every passing run.
	for i := 0; i < 3; i++ {
		ppdg.observe(Observation{Node: NodeID(1), State: NodeState{Kind: StatePredicate, Next: stmts[2]}})
	}

	obs := Observation{
		Model: m,
		Node:  NodeID(0),
		Stmt:  stmts[0],
		State: executed(),
		Parents: []ParentConfig{
			{Node: NodeID(1), State: NodeState{Kind: StatePredicate, Next: stmts[0]}},
		},
	}

	rationale := buildRationale(rd, ppdg, obs)
	require.Greater(t, len(rationale), 1)
	require.Equal(t, defaultRationaleText, rationale[0].Text)
	require.Contains(t, rationale[1].Text, "Expected control flow of")

	var anchors []aarddata.Loc
	for _, c := range rationale {
		if c.Kind == plugin.ChunkAnchor {
			anchors = append(anchors, c.Loc)
		}
	}
	require.Equal(t, []aarddata.Loc{
		rd.Statements.Get(stmts[1]).Loc,
		rd.Statements.Get(stmts[2]).Loc,
	}, anchors)
}

func TestBuildRationaleSpecializesDataDiff(t *testing.T) {
	rd, stmts := buildStatements(t, 4)
	m := parentedModel(stmts[0], stmts[1], EdgeData)
	ppdg := newPPDG()

	expectedCtx := []VarDef{{VarID: 7, Stmt: stmts[2]}}
	for i := 0; i < 3; i++ {
		ppdg.observe(Observation{Node: NodeID(1), State: NodeState{Kind: StateData, Context: expectedCtx}})
	}

	actualCtx := []VarDef{{VarID: 7, Stmt: stmts[3]}}
	obs := Observation{
		Model: m,
		Node:  NodeID(0),
		Stmt:  stmts[0],
		State: executed(),
		Parents: []ParentConfig{
			{Node: NodeID(1), State: NodeState{Kind: StateData, Context: actualCtx}},
		},
	}

	rationale := buildRationale(rd, ppdg, obs)
	require.Greater(t, len(rationale), 1)
	require.Contains(t, rationale[1].Text, "Expected data flow of")

	var anchors []aarddata.Loc
	for _, c := range rationale {
		if c.Kind == plugin.ChunkAnchor {
			anchors = append(anchors, c.Loc)
		}
	}
	// Parent statement, then expected def, then the actual def it was not.
	require.Equal(t, []aarddata.Loc{
		rd.Statements.Get(stmts[1]).Loc,
		rd.Statements.Get(stmts[2]).Loc,
		rd.Statements.Get(stmts[3]).Loc,
	}, anchors)
}

func TestBuildRationaleDefaultsWhenParentMatchesExpectation(t *testing.T) {
	rd, stmts := buildStatements(t, 2)
	m := parentedModel(stmts[0], stmts[1], EdgeControl)
	ppdg := newPPDG()

	ppdg.observe(Observation{Node: NodeID(1), State: executed()})

	obs := Observation{
		Model:   m,
		Node:    NodeID(0),
		Stmt:    stmts[0],
		State:   executed(),
		Parents: []ParentConfig{{Node: NodeID(1), State: executed()}},
	}

	rationale := buildRationale(rd, ppdg, obs)
	require.Len(t, rationale, 1)
	require.Equal(t, defaultRationaleText, rationale[0].Text)
}
