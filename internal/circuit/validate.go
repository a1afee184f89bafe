package circuit

import (
	"errors"
	"fmt"

	"github.com/archassist/archgames-backend/internal/types"
)

// ErrValidationRejected wraps every diversity rejection so callers can treat
// them uniformly (retry the generator, then fall back).
var ErrValidationRejected = errors.New("circuit rejected")

func rejectf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationRejected, fmt.Sprintf(format, args...))
}

// Validate is the diversity gate between the generator and the player. It
// rejects circuits that are internally coherent but too uniform to teach
// anything. Consistency of recorded outputs is the simulator's job, not
// validation's; both run before a circuit is accepted.
func Validate(d types.CircuitDescriptor) error {
	if len(d.Pattern) == 0 {
		return rejectf("empty gate pattern")
	}
	if len(d.Pattern) > 1 && distinctGates(d.Pattern) < 2 {
		return rejectf("pattern %s uses a single gate type", d.PatternString())
	}

	switch d.ComplexityType {
	case types.ComplexitySingleOutput:
		return validateSingleOutput(d)
	case types.ComplexityMultipleCases:
		return validateMultipleCases(d)
	case types.ComplexityPatternAnalysis:
		return validatePatternAnalysis(d)
	}
	return rejectf("unknown complexity type %q", d.ComplexityType)
}

func validateSingleOutput(d types.CircuitDescriptor) error {
	if len(d.Pattern) > 1 && onlyAndOr(d.Pattern) {
		return rejectf("pattern %s uses only AND/OR gates", d.PatternString())
	}
	if len(d.InputValues) == 0 {
		return rejectf("no input rows")
	}
	if len(d.InputValues) > 1 && allRowsIdentical(d.InputValues) {
		return rejectf("every input row is identical")
	}
	return nil
}

func validateMultipleCases(d types.CircuitDescriptor) error {
	if len(d.ExpectedOutputs) == 0 {
		return rejectf("no test cases")
	}
	if distinctValues(d.ExpectedOutputs) < 2 {
		return rejectf("all %d cases produce the same output", len(d.ExpectedOutputs))
	}
	if allCasesIdentical(d.TestCases) {
		return rejectf("all cases share identical input rows")
	}
	return nil
}

func validatePatternAnalysis(d types.CircuitDescriptor) error {
	if len(d.Sequence) < 6 {
		return rejectf("sequence has %d elements, need at least 6", len(d.Sequence))
	}
	if distinctBits(d.Sequence) < 2 {
		return rejectf("sequence is constant")
	}
	return nil
}

func distinctGates(pattern []types.GateType) int {
	seen := map[types.GateType]struct{}{}
	for _, g := range pattern {
		seen[g] = struct{}{}
	}
	return len(seen)
}

func onlyAndOr(pattern []types.GateType) bool {
	for _, g := range pattern {
		if g != types.GateAND && g != types.GateOR {
			return false
		}
	}
	return true
}

func allRowsIdentical(rows []types.CircuitRow) bool {
	for i := 1; i < len(rows); i++ {
		if !sameInputs(rows[i].Inputs, rows[0].Inputs) {
			return false
		}
	}
	return true
}

func allCasesIdentical(cases map[string][]types.CircuitRow) bool {
	var first []types.CircuitRow
	for _, rows := range cases {
		if first == nil {
			first = rows
			continue
		}
		if len(rows) != len(first) {
			return false
		}
		for i := range rows {
			if !sameInputs(rows[i].Inputs, first[i].Inputs) {
				return false
			}
		}
	}
	return true
}

func sameInputs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func distinctValues(m map[string]int) int {
	seen := map[int]struct{}{}
	for _, v := range m {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func distinctBits(seq []int) int {
	seen := map[int]struct{}{}
	for _, v := range seq {
		seen[v] = struct{}{}
	}
	return len(seen)
}
