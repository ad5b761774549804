package rawio

import "github.com/kolkov/aardwolf/internal/aarddata"

// Load parses the three input streams in sequence — static modules, the
// runtime trace, the test-suite verdicts — and checks the data-validity
// gates the analysis core requires before any query can run. The trace
// parse stores raw StmtIds and does not consult StmtIndex; statements are
// resolved to handles later, by the queries.
func Load(staticBuf, traceBuf, testSuiteBuf []byte) (*RawData, error) {
	rd := NewRawData()

	if err := ParseModules(rd, staticBuf); err != nil {
		return nil, err
	}
	if err := ParseTrace(rd, traceBuf); err != nil {
		return nil, err
	}
	if err := ParseTestSuite(rd, testSuiteBuf); err != nil {
		return nil, err
	}

	rd.Freeze()

	if err := checkDataValidity(rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func checkDataValidity(rd *RawData) error {
	if len(rd.Files) == 0 || len(rd.FuncStmts) == 0 {
		return &DataError{Kind: EmptyStatic}
	}
	if len(rd.Trace) == 0 {
		return &DataError{Kind: EmptyRuntime}
	}
	if len(rd.TestSuite) == 0 {
		return &DataError{Kind: EmptyTestSuite}
	}

	hasFailing := false
	for _, status := range rd.TestSuite {
		if status == aarddata.TestFailed {
			hasFailing = true
			break
		}
	}
	if !hasFailing {
		return &DataError{Kind: NoFailingTest}
	}
	return nil
}
