package query

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/rawio"
)

// Store is the single entry point plugins and the orchestrator use to
// reach derived data. Every query is computed at most once per key and
// remembered; Vars is the only query that can fail, and a failure is never
// cached, so a later call gets a fresh attempt.
//
// Store is not safe for concurrent use — the analysis core runs
// single-threaded, per the data model's arena lifecycle.
type Store struct {
	rd *rawio.RawData

	stmts   *Stmts
	tests   *Tests
	spectra *Spectra

	defuse map[aarddata.FuncNameHandle]*DefUse
	cfg    map[aarddata.FuncNameHandle]*Cfg
	pdg    map[aarddata.FuncNameHandle]*Pdg
	vars   map[aarddata.TestNameHandle]*Vars
}

// NewStore wraps a loaded RawData with an empty query cache.
func NewStore(rd *rawio.RawData) *Store {
	return &Store{
		rd:     rd,
		defuse: make(map[aarddata.FuncNameHandle]*DefUse),
		cfg:    make(map[aarddata.FuncNameHandle]*Cfg),
		pdg:    make(map[aarddata.FuncNameHandle]*Pdg),
		vars:   make(map[aarddata.TestNameHandle]*Vars),
	}
}

func (s *Store) Stmts() *Stmts {
	if s.stmts == nil {
		s.stmts = BuildStmts(s.rd)
	}
	return s.stmts
}

func (s *Store) Tests() *Tests {
	if s.tests == nil {
		s.tests = BuildTests(s.rd, s.Stmts())
	}
	return s.tests
}

func (s *Store) Spectra() *Spectra {
	if s.spectra == nil {
		s.spectra = BuildSpectra(s.rd)
	}
	return s.spectra
}

func (s *Store) DefUse(fn aarddata.FuncNameHandle) *DefUse {
	if du, ok := s.defuse[fn]; ok {
		return du
	}
	du := BuildDefUse(s.rd, fn)
	s.defuse[fn] = du
	return du
}

func (s *Store) Cfg(fn aarddata.FuncNameHandle) *Cfg {
	if c, ok := s.cfg[fn]; ok {
		return c
	}
	c := BuildCfg(s.rd, fn)
	s.cfg[fn] = c
	return c
}

func (s *Store) Pdg(fn aarddata.FuncNameHandle) *Pdg {
	if p, ok := s.pdg[fn]; ok {
		return p
	}
	p := BuildPdg(s.rd, s.Cfg(fn))
	s.pdg[fn] = p
	return p
}

// Vars is the one cached-on-success, not-cached-on-failure query: a test
// whose variable trace cannot be reconstructed today might still be worth
// retrying after preprocessing changes what counts as relevant.
func (s *Store) Vars(test aarddata.TestNameHandle) (*Vars, error) {
	if v, ok := s.vars[test]; ok {
		return v, nil
	}
	v, err := BuildVars(s.rd, test)
	if err != nil {
		return nil, err
	}
	s.vars[test] = v
	return v, nil
}

// RawData exposes the underlying loaded data for plugins that need direct
// arena access (e.g. resolving an AccessHandle to print a rationale).
func (s *Store) RawData() *rawio.RawData { return s.rd }
