package invariants

import "github.com/kolkov/aardwolf/internal/aarddata"

type stateKind uint8

const (
	stateEmpty stateKind = iota
	stateSingle
	stateRange
	stateNone
)

type reason uint8

const (
	reasonExceptional reason = iota
	reasonTypeChanged
)

// viewState is the per-view promotion ladder: Empty, then SingleValue once
// one concrete value has been seen, then Range once a second differing
// (but type-compatible, non-exceptional) value arrives, then None once the
// observations stop making sense as either.
type viewState struct {
	kind stateKind

	single aarddata.Value // stateSingle
	count  int            // stateSingle: how many passing tests reinforced it

	rangeKind    aarddata.ValueKind // stateRange
	min, max     aarddata.Value
	histogram    map[string]int

	// A None state keeps the type it was demoted from as long as every
	// later observation agrees with it; type-stability and
	// non-exceptionality stay checkable then, even though the value
	// itself gave up being constant or ranged. A None reached through a
	// type change remembers nothing.
	noneKind      aarddata.ValueKind // stateNone, valid iff noneKindKnown
	noneKindKnown bool

	reasons map[reason]struct{} // stateNone
	tests   map[int]struct{}    // passing-test indices that reinforced the current state
}

func newViewState() *viewState {
	return &viewState{kind: stateEmpty, tests: make(map[int]struct{})}
}

// observe feeds one (value, passing test) pair learned for this view.
func (s *viewState) observe(value aarddata.Value, test int) {
	switch s.kind {
	case stateEmpty:
		switch {
		case value.Kind == aarddata.ValueUnsupported:
			// Unsupported is a classification, not a misbehavior: the
			// type is remembered and no reason is recorded.
			s.becomeNoneTyped(aarddata.ValueUnsupported, test)
		case value.IsExceptional():
			s.becomeNoneTyped(value.Kind, test)
			s.reasons[reasonExceptional] = struct{}{}
		default:
			s.kind = stateSingle
			s.single = value
			s.count = 1
			s.tests[test] = struct{}{}
		}

	case stateSingle:
		switch {
		case value.CanonicalKey() == s.single.CanonicalKey():
			s.count++
			s.tests[test] = struct{}{}
		case value.Kind != s.single.Kind:
			s.becomeNoneUntyped(test)
			s.reasons[reasonTypeChanged] = struct{}{}
		case value.IsExceptional():
			s.becomeNoneTyped(value.Kind, test)
			s.reasons[reasonExceptional] = struct{}{}
		default:
			s.becomeRange(value, test)
		}

	case stateRange:
		switch {
		case value.Kind != s.rangeKind:
			s.becomeNoneUntyped(test)
			s.reasons[reasonTypeChanged] = struct{}{}
		case value.IsExceptional():
			s.becomeNoneTyped(value.Kind, test)
			s.reasons[reasonExceptional] = struct{}{}
		default:
			s.histogram[value.CanonicalKey()]++
			if compareValues(value, s.min) < 0 {
				s.min = value
			}
			if compareValues(value, s.max) > 0 {
				s.max = value
			}
			s.tests[test] = struct{}{}
		}

	case stateNone:
		if s.noneKindKnown && value.Kind != s.noneKind {
			s.noneKindKnown = false
			s.reasons[reasonTypeChanged] = struct{}{}
		}
		if value.IsExceptional() {
			s.reasons[reasonExceptional] = struct{}{}
		}
		s.tests[test] = struct{}{}
	}
}

func (s *viewState) becomeRange(second aarddata.Value, test int) {
	s.kind = stateRange
	s.rangeKind = s.single.Kind
	s.min, s.max = s.single, s.single
	if compareValues(second, s.min) < 0 {
		s.min = second
	}
	if compareValues(second, s.max) > 0 {
		s.max = second
	}
	s.histogram = map[string]int{s.single.CanonicalKey(): 1, second.CanonicalKey(): 1}
	s.tests[test] = struct{}{}
}

func (s *viewState) becomeNoneTyped(kind aarddata.ValueKind, test int) {
	s.kind = stateNone
	s.noneKind = kind
	s.noneKindKnown = true
	s.reasons = make(map[reason]struct{})
	s.tests[test] = struct{}{}
}

func (s *viewState) becomeNoneUntyped(test int) {
	s.kind = stateNone
	s.noneKindKnown = false
	s.reasons = make(map[reason]struct{})
	s.tests[test] = struct{}{}
}

// confidence is |tests supporting the current state| / |total passing
// tests observed|.
func (s *viewState) confidence(totalPassing int) float64 {
	if totalPassing == 0 {
		return 0
	}
	return float64(len(s.tests)) / float64(totalPassing)
}

// derivedKind enumerates the invariant checks a learned state can emit
// during the checking phase.
type derivedKind uint8

const (
	derivedConstant derivedKind = iota
	derivedRange
	derivedTypeStable
	derivedNonExceptional
)

type derivedInvariant struct {
	kind  derivedKind
	value aarddata.Value     // derivedConstant
	min   aarddata.Value     // derivedRange
	max   aarddata.Value     // derivedRange
	typ   aarddata.ValueKind // derivedTypeStable, derivedNonExceptional
}

// derive lists the invariants a failing-test observation can be checked
// against, given this view's learned state. A None state that still
// remembers its type keeps type stability checkable; its
// non-exceptionality check survives only if no exceptional value was ever
// observed during learning.
func (s *viewState) derive() []derivedInvariant {
	switch s.kind {
	case stateSingle:
		return []derivedInvariant{
			{kind: derivedConstant, value: s.single},
			{kind: derivedTypeStable, typ: s.single.Kind},
			{kind: derivedNonExceptional, typ: s.single.Kind},
		}
	case stateRange:
		return []derivedInvariant{
			{kind: derivedRange, min: s.min, max: s.max},
			{kind: derivedTypeStable, typ: s.rangeKind},
			{kind: derivedNonExceptional, typ: s.rangeKind},
		}
	case stateNone:
		if !s.noneKindKnown {
			return nil
		}
		out := []derivedInvariant{{kind: derivedTypeStable, typ: s.noneKind}}
		if _, sawExceptional := s.reasons[reasonExceptional]; !sawExceptional {
			out = append(out, derivedInvariant{kind: derivedNonExceptional, typ: s.noneKind})
		}
		return out
	default:
		return nil
	}
}

// compareValues orders two Values of the same numeric-ish kind. Booleans
// order false < true; Signed/Unsigned/Floating compare numerically.
// Callers only invoke this on values already known to share a.Kind.
func compareValues(a, b aarddata.Value) int {
	switch a.Kind {
	case aarddata.ValueSigned:
		return cmp64(a.Signed, b.Signed)
	case aarddata.ValueUnsigned:
		switch {
		case a.Unsigned < b.Unsigned:
			return -1
		case a.Unsigned > b.Unsigned:
			return 1
		default:
			return 0
		}
	case aarddata.ValueFloating:
		switch {
		case a.Floating < b.Floating:
			return -1
		case a.Floating > b.Floating:
			return 1
		default:
			return 0
		}
	case aarddata.ValueBoolean:
		if a.Boolean == b.Boolean {
			return 0
		}
		if !a.Boolean && b.Boolean {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
