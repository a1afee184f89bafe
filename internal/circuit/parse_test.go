package circuit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/archassist/archgames-backend/internal/types"
)

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestParseCandidateSingleOutput(t *testing.T) {
	raw := decode(t, `{
		"pattern": ["AND", "XOR"],
		"input_values": [[1, 1, 1], [1, 0, 1]]
	}`)

	d, err := ParseCandidate(raw, types.ComplexitySingleOutput, types.DifficultyEasy)
	if err != nil {
		t.Fatalf("ParseCandidate error: %v", err)
	}
	if len(d.InputValues) != 2 {
		t.Fatalf("rows: want 2, got %d", len(d.InputValues))
	}
	if d.ExpectedOutput != 1 {
		t.Fatalf("expected output: want 1, got %d", d.ExpectedOutput)
	}
	if d.InputValues[0].Output != 1 || len(d.InputValues[0].Inputs) != 2 {
		t.Fatalf("row 0 parsed wrong: %+v", d.InputValues[0])
	}
}

func TestParseCandidateRejections(t *testing.T) {
	cases := []struct {
		name string
		tier types.ComplexityType
		raw  string
	}{
		{
			name: "unknown_gate",
			tier: types.ComplexitySingleOutput,
			raw:  `{"pattern": ["AND", "MAYBE"], "input_values": [[1,1,1],[1,0,1]]}`,
		},
		{
			name: "non_binary_value",
			tier: types.ComplexitySingleOutput,
			raw:  `{"pattern": ["AND", "XOR"], "input_values": [[1,2,1],[1,0,1]]}`,
		},
		{
			name: "row_count_mismatch",
			tier: types.ComplexitySingleOutput,
			raw:  `{"pattern": ["AND", "XOR"], "input_values": [[1,1,1]]}`,
		},
		{
			name: "not_gate_with_two_inputs",
			tier: types.ComplexitySingleOutput,
			raw:  `{"pattern": ["AND", "NOT"], "input_values": [[1,1,1],[1,0,1]]}`,
		},
		{
			name: "missing_pattern",
			tier: types.ComplexitySingleOutput,
			raw:  `{"input_values": [[1,1,1],[1,0,1]]}`,
		},
		{
			name: "cases_not_object",
			tier: types.ComplexityMultipleCases,
			raw:  `{"pattern": ["AND", "XOR"], "test_cases": [[1,1,1]]}`,
		},
		{
			name: "sequence_too_short",
			tier: types.ComplexityPatternAnalysis,
			raw:  `{"pattern": ["XOR", "NOT"], "sequence": [1,0,1,0]}`,
		},
		{
			name: "sequence_not_binary",
			tier: types.ComplexityPatternAnalysis,
			raw:  `{"pattern": ["XOR", "NOT"], "sequence": [1,0,3,0,1,0,1,0]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCandidate(decode(t, tc.raw), tc.tier, types.DifficultyEasy)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestParseCandidatePatternAnalysisDerivesComponents(t *testing.T) {
	raw := decode(t, `{
		"pattern": ["XOR", "NOT"],
		"sequence": [1, 0, 1, 0, 1, 0, 1, 0],
		"cycle_length": 7,
		"final_state": 1
	}`)

	d, err := ParseCandidate(raw, types.ComplexityPatternAnalysis, types.DifficultyHard)
	if err != nil {
		t.Fatalf("ParseCandidate error: %v", err)
	}
	// Components come from the sequence, not from whatever the generator claims.
	if d.CycleLength != 2 {
		t.Fatalf("cycle length: want 2, got %d", d.CycleLength)
	}
	if d.FinalState != 0 {
		t.Fatalf("final state: want 0, got %d", d.FinalState)
	}
}

func TestCycleLength(t *testing.T) {
	cases := []struct {
		name string
		seq  []int
		want int
	}{
		{name: "alternating", seq: []int{1, 0, 1, 0, 1, 0}, want: 2},
		{name: "period_three", seq: []int{1, 1, 0, 1, 1, 0, 1, 1}, want: 3},
		{name: "constant", seq: []int{1, 1, 1, 1, 1, 1}, want: 1},
		{name: "no_internal_repeat", seq: []int{1, 1, 0, 1, 0, 0}, want: 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CycleLength(tc.seq); got != tc.want {
				t.Fatalf("CycleLength(%v)=%d, want %d", tc.seq, got, tc.want)
			}
		})
	}
}
