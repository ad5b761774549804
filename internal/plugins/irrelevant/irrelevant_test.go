package irrelevant

import (
	"testing"

	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/plugin"
	"github.com/kolkov/aardwolf/internal/query"
	"github.com/kolkov/aardwolf/internal/rawio"
	"github.com/stretchr/testify/require"
)

// buildFixture builds one function with three statements: s1 executes in
// both the passing and failing test, s2 only in the passing test, s3 only
// in the failing test. Only s2 should end up marked irrelevant.
func buildFixture(t *testing.T) (*rawio.RawData, [3]aarddata.StmtHandle) {
	t.Helper()
	rd := rawio.NewRawData()
	fn := rd.Funcs.Intern("f")
	file := aarddata.FileId(1)
	ids := [3]aarddata.StmtId{
		{File: file, Local: 1},
		{File: file, Local: 2},
		{File: file, Local: 3},
	}

	table := make(map[aarddata.StmtId]aarddata.StmtHandle)
	var handles [3]aarddata.StmtHandle
	for i, id := range ids {
		h := rd.Statements.Alloc(aarddata.Statement{
			ID:   id,
			Loc:  aarddata.Loc{File: file, LineBegin: uint32(i + 1), LineEnd: uint32(i + 1)},
			Func: fn,
		})
		table[id] = h
		rd.StmtIndex[id] = h
		handles[i] = h
	}
	rd.FuncStmts[fn] = table

	tp := rd.Tests.Intern("tp")
	tf := rd.Tests.Intern("tf")
	rd.TestSuite[tp] = aarddata.TestPassed
	rd.TestSuite[tf] = aarddata.TestFailed

	rd.Trace = aarddata.Trace{
		{Kind: aarddata.TraceTestBoundary, Test: tp},
		{Kind: aarddata.TraceStmt, Stmt: ids[0]},
		{Kind: aarddata.TraceStmt, Stmt: ids[1]},
		{Kind: aarddata.TraceTestBoundary, Test: tf},
		{Kind: aarddata.TraceStmt, Stmt: ids[0]},
		{Kind: aarddata.TraceStmt, Stmt: ids[2]},
	}
	rd.Freeze()
	return rd, handles
}

func TestIrrelevantMarksStatementsNeverInAFailingTest(t *testing.T) {
	rd, handles := buildFixture(t)
	store := query.NewStore(rd)
	api := plugin.NewApi(store)
	pre := plugin.NewPreprocessing()

	p := New()
	require.NoError(t, p.RunPre(api, pre))

	require.True(t, pre.IsStmtRelevant(handles[0]), "executed in the failing test")
	require.False(t, pre.IsStmtRelevant(handles[1]), "only executed in the passing test")
	require.True(t, pre.IsStmtRelevant(handles[2]), "executed in the failing test")
}
