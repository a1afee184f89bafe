package circuit

import (
	"fmt"

	"github.com/archassist/archgames-backend/internal/types"
)

// SimulationStep records one gate replay: the row's recorded output next to
// the freshly computed one.
type SimulationStep struct {
	Gate     types.GateType `json:"gate"`
	Inputs   []int          `json:"inputs"`
	Recorded int            `json:"recorded"`
	Computed int            `json:"computed"`
	Match    bool           `json:"match"`
}

type SimulationReport struct {
	Valid       bool             `json:"valid"`
	Steps       []SimulationStep `json:"steps"`
	FinalOutput int              `json:"final_output"`
	Message     string           `json:"message,omitempty"`
}

// Simulate replays a descriptor's recorded rows through the gate evaluator
// and reports whether every recorded output matches the recomputed one.
// It is advisory: a descriptor with no rows simulates as valid with a note,
// because the validator, not the simulator, decides playability.
func Simulate(d types.CircuitDescriptor) SimulationReport {
	return SimulateRows(d.Pattern, d.InputValues)
}

// SimulateRows is the row-level form, also used to check each case of a
// multiple_cases circuit.
func SimulateRows(pattern []types.GateType, rows []types.CircuitRow) SimulationReport {
	if len(rows) == 0 {
		return SimulationReport{
			Valid:   true,
			Steps:   []SimulationStep{},
			Message: "no recorded rows to replay",
		}
	}

	report := SimulationReport{Valid: true, Steps: make([]SimulationStep, 0, len(rows))}
	for i, row := range rows {
		if i >= len(pattern) {
			report.Valid = false
			report.Message = fmt.Sprintf("row %d has no corresponding gate", i)
			break
		}
		gate := pattern[i]
		computed, err := EvaluateGate(gate, row.Inputs)
		step := SimulationStep{
			Gate:     gate,
			Inputs:   row.Inputs,
			Recorded: row.Output,
			Computed: computed,
		}
		if err != nil {
			report.Valid = false
			report.Message = err.Error()
			report.Steps = append(report.Steps, step)
			continue
		}
		step.Match = computed == row.Output
		if !step.Match {
			report.Valid = false
		}
		report.Steps = append(report.Steps, step)
		report.FinalOutput = computed
	}
	return report
}

// Consistent runs the replay appropriate for the descriptor's tier and
// reports whether its recorded outputs hold up. Pattern-analysis circuits
// carry derived components instead of rows, so they are consistent by
// construction once parsed.
func Consistent(d types.CircuitDescriptor) bool {
	switch d.ComplexityType {
	case types.ComplexitySingleOutput:
		return Simulate(d).Valid
	case types.ComplexityMultipleCases:
		for _, rows := range d.TestCases {
			if !SimulateRows(d.Pattern, rows).Valid {
				return false
			}
		}
		return true
	default:
		return true
	}
}
