package types

import "fmt"

// GateType names one of the boolean gates a circuit round is built from.
type GateType string

const (
	GateAND  GateType = "AND"
	GateOR   GateType = "OR"
	GateNOT  GateType = "NOT"
	GateXOR  GateType = "XOR"
	GateNAND GateType = "NAND"
	GateNOR  GateType = "NOR"
	GateXNOR GateType = "XNOR"
)

var AllGateTypes = []GateType{GateAND, GateOR, GateNOT, GateXOR, GateNAND, GateNOR, GateXNOR}

func ParseGateType(s string) (GateType, error) {
	for _, g := range AllGateTypes {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gate type %q", s)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// GateCount is how many gates a round at this difficulty chains together.
func (d Difficulty) GateCount() int {
	switch d {
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 4
	default:
		return 2
	}
}

// InputCount is how many inputs each gate application receives.
func (d Difficulty) InputCount() int {
	switch d {
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 4
	default:
		return 2
	}
}

// DefaultComplexity maps difficulty onto the evaluation tier used for new rounds.
func (d Difficulty) DefaultComplexity() ComplexityType {
	switch d {
	case DifficultyMedium:
		return ComplexityMultipleCases
	case DifficultyHard:
		return ComplexityPatternAnalysis
	default:
		return ComplexitySingleOutput
	}
}
