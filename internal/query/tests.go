package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Tests is the key=none query partitioning the trace by test boundary.
type Tests struct {
	Status map[aarddata.TestNameHandle]aarddata.TestStatus
	Traces map[aarddata.TestNameHandle][]aarddata.StmtHandle
}

// BuildTests walks the trace once, collecting the run of statements between
// each pair of TestBoundary markers. Statements before the first boundary
// belong to no test and are dropped.
func BuildTests(rd *rawio.RawData, stmts *Stmts) *Tests {
	t := &Tests{
		Status: make(map[aarddata.TestNameHandle]aarddata.TestStatus, len(rd.TestSuite)),
		Traces: make(map[aarddata.TestNameHandle][]aarddata.StmtHandle),
	}
	for name, status := range rd.TestSuite {
		t.Status[name] = status
	}

	var current aarddata.TestNameHandle
	haveCurrent := false
	for _, item := range rd.Trace {
		switch item.Kind {
		case aarddata.TraceTestBoundary:
			current = item.Test
			haveCurrent = true
			if _, ok := t.Traces[current]; !ok {
				t.Traces[current] = nil
			}
		case aarddata.TraceStmt:
			if !haveCurrent {
				continue
			}
			if h, ok := stmts.Mapping[item.Stmt]; ok {
				t.Traces[current] = append(t.Traces[current], h)
			}
		}
	}
	return t
}

// All returns every known test name.
func (t *Tests) All() []aarddata.TestNameHandle {
	out := make([]aarddata.TestNameHandle, 0, len(t.Status))
	for name := range t.Status {
		out = append(out, name)
	}
	return out
}

// Passed returns every test name whose status is TestPassed.
func (t *Tests) Passed() []aarddata.TestNameHandle {
	return t.filterStatus(aarddata.TestPassed)
}

// Failed returns every test name whose status is TestFailed.
func (t *Tests) Failed() []aarddata.TestNameHandle {
	return t.filterStatus(aarddata.TestFailed)
}

func (t *Tests) filterStatus(want aarddata.TestStatus) []aarddata.TestNameHandle {
	var out []aarddata.TestNameHandle
	for name, status := range t.Status {
		if status == want {
			out = append(out, name)
		}
	}
	return out
}

// GetFailed returns any one failing test name. Data-validity gates
// guarantee at least one exists once a RawData has loaded successfully.
func (t *Tests) GetFailed() (aarddata.TestNameHandle, bool) {
	for name, status := range t.Status {
		if status == aarddata.TestFailed {
			return name, true
		}
	}
	return aarddata.TestNameHandle{}, false
}
