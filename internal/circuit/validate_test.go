package circuit

import (
	"errors"
	"testing"

	"github.com/archassist/archgames-backend/internal/types"
)

func rows(inputsAndOutputs ...[]int) []types.CircuitRow {
	out := make([]types.CircuitRow, 0, len(inputsAndOutputs))
	for _, vals := range inputsAndOutputs {
		out = append(out, types.CircuitRow{
			Inputs: vals[:len(vals)-1],
			Output: vals[len(vals)-1],
		})
	}
	return out
}

func TestValidateSingleOutput(t *testing.T) {
	cases := []struct {
		name   string
		d      types.CircuitDescriptor
		reject bool
	}{
		{
			name: "uniform_gates_identical_rows",
			d: types.CircuitDescriptor{
				Pattern:        gates("AND", "AND"),
				ComplexityType: types.ComplexitySingleOutput,
				InputValues:    rows([]int{1, 1, 1}, []int{1, 1, 1}),
			},
			reject: true,
		},
		{
			name: "only_and_or",
			d: types.CircuitDescriptor{
				Pattern:        gates("AND", "OR"),
				ComplexityType: types.ComplexitySingleOutput,
				InputValues:    rows([]int{1, 1, 1}, []int{1, 0, 1}),
			},
			reject: true,
		},
		{
			name: "mixed_gates_varied_rows",
			d: types.CircuitDescriptor{
				Pattern:        gates("AND", "XOR"),
				ComplexityType: types.ComplexitySingleOutput,
				InputValues:    rows([]int{1, 1, 1}, []int{1, 0, 1}),
			},
			reject: false,
		},
		{
			name: "identical_rows",
			d: types.CircuitDescriptor{
				Pattern:        gates("XOR", "NAND"),
				ComplexityType: types.ComplexitySingleOutput,
				InputValues:    rows([]int{1, 0, 1}, []int{1, 0, 0}),
			},
			reject: true,
		},
		{
			name: "single_gate_pattern_allowed",
			d: types.CircuitDescriptor{
				Pattern:        gates("XOR"),
				ComplexityType: types.ComplexitySingleOutput,
				InputValues:    rows([]int{1, 0, 1}),
			},
			reject: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.d)
			if tc.reject && !errors.Is(err, ErrValidationRejected) {
				t.Fatalf("expected rejection, got %v", err)
			}
			if !tc.reject && err != nil {
				t.Fatalf("expected acceptance, got %v", err)
			}
		})
	}
}

func TestValidateMultipleCases(t *testing.T) {
	base := types.CircuitDescriptor{
		Pattern:        gates("AND", "XOR"),
		ComplexityType: types.ComplexityMultipleCases,
	}

	t.Run("uniform_outputs_rejected", func(t *testing.T) {
		d := base
		d.TestCases = map[string][]types.CircuitRow{
			"case1": rows([]int{1, 1, 1}, []int{1, 0, 1}),
			"case2": rows([]int{0, 1, 0}, []int{0, 1, 1}),
		}
		d.ExpectedOutputs = map[string]int{"case1": 1, "case2": 1}
		if err := Validate(d); !errors.Is(err, ErrValidationRejected) {
			t.Fatalf("expected rejection, got %v", err)
		}
	})

	t.Run("identical_case_inputs_rejected", func(t *testing.T) {
		d := base
		d.TestCases = map[string][]types.CircuitRow{
			"case1": rows([]int{1, 1, 1}, []int{1, 0, 1}),
			"case2": rows([]int{1, 1, 1}, []int{1, 0, 1}),
		}
		d.ExpectedOutputs = map[string]int{"case1": 1, "case2": 0}
		if err := Validate(d); !errors.Is(err, ErrValidationRejected) {
			t.Fatalf("expected rejection, got %v", err)
		}
	})

	t.Run("diverse_cases_accepted", func(t *testing.T) {
		d := base
		d.TestCases = map[string][]types.CircuitRow{
			"case1": rows([]int{1, 1, 1}, []int{1, 0, 1}),
			"case2": rows([]int{0, 1, 0}, []int{0, 1, 1}),
		}
		d.ExpectedOutputs = map[string]int{"case1": 1, "case2": 0}
		if err := Validate(d); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	})
}

func TestValidatePatternAnalysis(t *testing.T) {
	base := types.CircuitDescriptor{
		Pattern:        gates("XOR", "NOT"),
		ComplexityType: types.ComplexityPatternAnalysis,
	}

	t.Run("constant_sequence_rejected", func(t *testing.T) {
		d := base
		d.Sequence = []int{1, 1, 1, 1, 1, 1, 1, 1}
		if err := Validate(d); !errors.Is(err, ErrValidationRejected) {
			t.Fatalf("expected rejection, got %v", err)
		}
	})

	t.Run("short_sequence_rejected", func(t *testing.T) {
		d := base
		d.Sequence = []int{1, 0, 1, 0}
		if err := Validate(d); !errors.Is(err, ErrValidationRejected) {
			t.Fatalf("expected rejection, got %v", err)
		}
	})

	t.Run("varied_sequence_accepted", func(t *testing.T) {
		d := base
		d.Sequence = []int{1, 0, 1, 0, 1, 0, 1, 0}
		if err := Validate(d); err != nil {
			t.Fatalf("expected acceptance, got %v", err)
		}
	})
}
