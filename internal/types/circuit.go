package types

import "fmt"

// ComplexityType selects the data shape and evaluation strategy of a round.
type ComplexityType string

const (
	ComplexitySingleOutput    ComplexityType = "single_output"
	ComplexityMultipleCases   ComplexityType = "multiple_cases"
	ComplexityPatternAnalysis ComplexityType = "pattern_analysis"
)

func ParseComplexityType(s string) (ComplexityType, error) {
	switch ComplexityType(s) {
	case ComplexitySingleOutput, ComplexityMultipleCases, ComplexityPatternAnalysis:
		return ComplexityType(s), nil
	}
	return "", fmt.Errorf("unknown complexity type %q", s)
}

// CircuitRow records one gate application: its 0/1 inputs and the output the
// generator claims for them. The simulator recomputes the output to check it.
type CircuitRow struct {
	Inputs []int `json:"inputs"`
	Output int   `json:"output"`
}

// CircuitDescriptor is the unit of a logic-game round. ComplexityType
// determines which payload fields are populated; the others stay empty.
type CircuitDescriptor struct {
	Pattern        []GateType     `json:"pattern"`
	ComplexityType ComplexityType `json:"complexity_type"`
	Difficulty     Difficulty     `json:"difficulty"`

	// single_output: one row per gate in Pattern, evaluated in sequence.
	// ExpectedOutput is the last row's output.
	InputValues    []CircuitRow `json:"input_values,omitempty"`
	ExpectedOutput int          `json:"expected_output"`

	// multiple_cases: one evaluated circuit per case id.
	TestCases       map[string][]CircuitRow `json:"test_cases,omitempty"`
	ExpectedOutputs map[string]int          `json:"expected_outputs,omitempty"`

	// pattern_analysis: the boolean sequence produced by repeatedly applying
	// the gate pattern, plus its derived components.
	Sequence    []int `json:"sequence,omitempty"`
	CycleLength int   `json:"cycle_length,omitempty"`
	FinalState  int   `json:"final_state,omitempty"`
}

// PatternString renders the gate sequence the way the client displays it,
// e.g. "AND -> NOT -> XOR".
func (d CircuitDescriptor) PatternString() string {
	out := ""
	for i, g := range d.Pattern {
		if i > 0 {
			out += " -> "
		}
		out += string(g)
	}
	return out
}
