package probgraph

import (
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
	"github.com/stretchr/testify/require"
)

// newTestArenaN mints n distinct StmtHandles without needing a full
// rawio.RawData, by allocating zero-value Statements into a fresh arena.
func newTestArenaN(n int) []aarddata.StmtHandle {
	a := arena.NewArena[aarddata.Statement]()
	out := make([]aarddata.StmtHandle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, a.Alloc(aarddata.Statement{}))
	}
	return out
}

func internFunc(name string) aarddata.FuncNameHandle {
	in := arena.NewInterner[aarddata.FuncNameTag]()
	return in.Intern(name)
}

func TestPPDGConditionalProbabilityGivenParents(t *testing.T) {
	stmts := newTestArenaN(1)
	nodeX, parentNode := NodeID(0), NodeID(1)

	parentExecuted := ParentConfig{Node: parentNode, State: executed()}
	ppdg := newPPDG()

	// Learn: whenever the parent is Executed, X is Executed, 3 times.
	for i := 0; i < 3; i++ {
		ppdg.observe(Observation{Node: nodeX, State: executed(), Parents: []ParentConfig{parentExecuted}})
	}

	obs := Observation{Node: nodeX, State: NodeState{Kind: StateData, Context: []VarDef{{VarID: 1, Stmt: stmts[0]}}}, Parents: []ParentConfig{parentExecuted}}
	require.Equal(t, float64(0), ppdg.probability(obs))

	obsExecuted := Observation{Node: nodeX, State: executed(), Parents: []ParentConfig{parentExecuted}}
	require.Equal(t, float64(1), ppdg.probability(obsExecuted))
}

func TestPPDGUnconditionalProbabilityWithoutParents(t *testing.T) {
	ppdg := newPPDG()
	node := NodeID(0)

	ppdg.observe(Observation{Node: node, State: executed()})
	ppdg.observe(Observation{Node: node, State: executed()})
	ppdg.observe(Observation{Node: node, State: notExecuted()})

	require.InDelta(t, 2.0/3.0, ppdg.probability(Observation{Node: node, State: executed()}), 1e-9)
	require.InDelta(t, 1.0/3.0, ppdg.probability(Observation{Node: node, State: notExecuted()}), 1e-9)
}

func TestPPDGExpectedStateIsTheMarginalMode(t *testing.T) {
	stmts := newTestArenaN(2)
	ppdg := newPPDG()
	node := NodeID(0)

	for i := 0; i < 3; i++ {
		ppdg.observe(Observation{Node: node, State: NodeState{Kind: StatePredicate, Next: stmts[0]}})
	}
	ppdg.observe(Observation{Node: node, State: NodeState{Kind: StatePredicate, Next: stmts[1]}})

	expected, ok := ppdg.expectedState(aarddata.FuncNameHandle{}, node)
	require.True(t, ok)
	require.Equal(t, StatePredicate, expected.Kind)
	require.Equal(t, stmts[0], expected.Next)

	_, ok = ppdg.expectedState(aarddata.FuncNameHandle{}, NodeID(42))
	require.False(t, ok, "a node never observed has no expected state")
}

func TestPPDGNodesAreScopedPerFunction(t *testing.T) {
	ppdg := newPPDG()
	ppdg.observe(Observation{Node: NodeID(0), State: executed()})

	// The same NodeID in another function shares no counts.
	other := Observation{Func: internFunc("g"), Node: NodeID(0), State: executed()}
	require.Equal(t, float64(0), ppdg.probability(other))
}

func TestPPDGUnseenStateYieldsZeroProbability(t *testing.T) {
	ppdg := newPPDG()
	ppdg.observe(Observation{Node: NodeID(0), State: executed()})

	require.Equal(t, float64(0), ppdg.probability(Observation{Node: NodeID(99), State: executed()}))
}

func TestParentsSignatureIndependentOfOrder(t *testing.T) {
	a := ParentConfig{Node: NodeID(1), State: executed()}
	b := ParentConfig{Node: NodeID(2), State: notExecuted()}

	require.Equal(t, parentsSignature([]ParentConfig{a, b}), parentsSignature([]ParentConfig{b, a}))
}
