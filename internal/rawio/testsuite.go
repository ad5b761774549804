package rawio

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/kolkov/aardwolf/internal/aarddata"
)

const (
	passPrefix = "PASS: "
	failPrefix = "FAIL: "
)

// ParseTestSuite reads the line-oriented test-suite file: each non-blank
// line is "PASS: <name>" or "FAIL: <name>", populating rd.TestSuite and
// interning every name into rd.Tests. A test name that also appears as a
// trace boundary interns to the same handle, since both draw from the
// shared Tests pool.
func ParseTestSuite(rd *RawData, buf []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	pos := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineStart := pos
		pos += len(line) + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		var status aarddata.TestStatus
		var name string
		switch {
		case strings.HasPrefix(trimmed, passPrefix):
			status = aarddata.TestPassed
			name = strings.TrimSpace(trimmed[len(passPrefix):])
		case strings.HasPrefix(trimmed, failPrefix):
			status = aarddata.TestFailed
			name = strings.TrimSpace(trimmed[len(failPrefix):])
		default:
			return errInvalidTestResult(lineStart, trimmed)
		}
		if name == "" {
			return errInvalidTestResult(lineStart, trimmed)
		}

		th := rd.Tests.Intern(name)
		rd.TestSuite[th] = status
	}
	if err := scanner.Err(); err != nil {
		return errInvalidFormat(pos, err.Error())
	}
	return nil
}
