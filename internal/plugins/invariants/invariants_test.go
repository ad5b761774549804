package invariants

import (
	"fmt"
	"math"
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/query"
	"github.com/kolkov/aardwolf/internal/rawio"
	"github.com/stretchr/testify/require"
)

func signed(n int64) aarddata.Value {
	return aarddata.Value{Kind: aarddata.ValueSigned, Width: 64, Signed: n}
}

func floating(f float64) aarddata.Value {
	return aarddata.Value{Kind: aarddata.ValueFloating, Width: 64, Floating: f}
}

func boolean(b bool) aarddata.Value {
	return aarddata.Value{Kind: aarddata.ValueBoolean, Boolean: b}
}

// buildValueFixture builds one function with a single statement defining
// var x, executed once per passing test (assigning the corresponding value
// from passing) and once in a failing test (assigning failing).
func buildValueFixture(t *testing.T, passing []aarddata.Value, failing aarddata.Value) *rawio.RawData {
	t.Helper()
	rd := rawio.NewRawData()

	fn := rd.Funcs.Intern("f")
	file := aarddata.FileId(1)
	scalar := aarddata.NewScalar(1)
	scalarHandle := rd.Accesses.AllocDedup(scalar.CanonicalKey(), scalar)

	id := aarddata.StmtId{File: file, Local: 1}
	st := aarddata.Statement{
		ID:   id,
		Defs: []aarddata.AccessHandle{scalarHandle},
		Loc:  aarddata.Loc{File: file, LineBegin: 1, LineEnd: 1},
		Func: fn,
	}
	h := rd.Statements.Alloc(st)
	rd.FuncStmts[fn] = map[aarddata.StmtId]aarddata.StmtHandle{id: h}
	rd.StmtIndex[id] = h

	var trace aarddata.Trace
	for i, v := range passing {
		tn := rd.Tests.Intern(fmt.Sprintf("t%d", i+1))
		rd.TestSuite[tn] = aarddata.TestPassed
		vh := rd.Values.AllocDedup(v.CanonicalKey(), v)
		trace = append(trace,
			aarddata.TraceItem{Kind: aarddata.TraceTestBoundary, Test: tn},
			aarddata.TraceItem{Kind: aarddata.TraceStmt, Stmt: id},
			aarddata.TraceItem{Kind: aarddata.TraceValue, Value: vh},
		)
	}
	tf := rd.Tests.Intern("tfail")
	rd.TestSuite[tf] = aarddata.TestFailed
	vh := rd.Values.AllocDedup(failing.CanonicalKey(), failing)
	trace = append(trace,
		aarddata.TraceItem{Kind: aarddata.TraceTestBoundary, Test: tf},
		aarddata.TraceItem{Kind: aarddata.TraceStmt, Stmt: id},
		aarddata.TraceItem{Kind: aarddata.TraceValue, Value: vh},
	)
	rd.Trace = trace

	rd.Freeze()
	return rd
}

func runInvariants(t *testing.T, rd *rawio.RawData) []plugin.LocalizationItem {
	t.Helper()
	store := query.NewStore(rd)
	api := plugin.NewApi(store)

	p := New()
	require.NoError(t, p.Init(api, nil))

	results := plugin.NewResults(0)
	p.RunLoc(api, results, plugin.NewPreprocessing())
	return results.Iter()
}

func TestInvariantsFlagsConstantViolation(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{signed(5), signed(5), signed(5)},
		signed(7))

	out := runInvariants(t, rd)
	require.Len(t, out, 1)
	require.InDelta(t, 1.0, out[0].Score, 1e-9)
	require.Contains(t, out[0].Rationale[0].Text, "constantly 5")
	require.Contains(t, out[0].Rationale[0].Text, "is 7")
}

func TestInvariantsFlagsRangeViolation(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{signed(5), signed(9)},
		signed(12))

	out := runInvariants(t, rd)
	require.Len(t, out, 1)
	require.InDelta(t, 1.0, out[0].Score, 1e-9)
	require.Contains(t, out[0].Rationale[0].Text, "expected in [5,9]")
}

func TestInvariantsRangeAcceptsInBoundsValue(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{signed(5), signed(9)},
		signed(7))

	require.Empty(t, runInvariants(t, rd))
}

func TestInvariantsFlagsTypeStableViolation(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{signed(5), signed(5)},
		boolean(true))

	out := runInvariants(t, rd)
	require.Len(t, out, 1)
	require.Contains(t, out[0].Rationale[0].Text, "type stable as signed")
	require.Contains(t, out[0].Rationale[0].Text, "observed boolean")
}

func TestInvariantsFlagsNonExceptionalViolation(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{floating(1.5), floating(1.5)},
		floating(math.NaN()))

	out := runInvariants(t, rd)
	require.Len(t, out, 1)
	require.Contains(t, out[0].Rationale[0].Text, "non-exceptional floating")
}

// A view demoted to None by one exceptional outlier still remembers the
// type every learning observation shared, so the failing test's
// wrong-typed value is flagged against it.
func TestInvariantsNoneStateKeepsTypeCheckable(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{floating(1.5), floating(math.NaN()), floating(2.5)},
		boolean(true))

	out := runInvariants(t, rd)
	require.Len(t, out, 1)
	require.InDelta(t, 1.0, out[0].Score, 1e-9)
	require.Contains(t, out[0].Rationale[0].Text, "type stable as floating")
	require.Contains(t, out[0].Rationale[0].Text, "observed boolean")
}

// The same None view saw an exceptional value during learning, so a
// failing-test NaN is nothing it can hold against the statement.
func TestInvariantsNoneStateSuppressesSeenExceptional(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{floating(1.5), floating(math.NaN()), floating(2.5)},
		floating(math.NaN()))

	require.Empty(t, runInvariants(t, rd))
}

// A type change during learning forgets the type entirely: nothing is
// checkable afterwards, whatever the failing test observes.
func TestInvariantsNoneStateAfterTypeChangeChecksNothing(t *testing.T) {
	rd := buildValueFixture(t,
		[]aarddata.Value{signed(5), boolean(true)},
		floating(math.NaN()))

	require.Empty(t, runInvariants(t, rd))
}
