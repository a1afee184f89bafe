package circuit

import (
	"math/rand"
	"sync"

	"github.com/archassist/archgames-backend/internal/types"
)

// fallbackSpec is a hand-authored circuit skeleton. Row outputs are computed
// through EvaluateGate when the descriptor is built, so every supplied
// circuit is simulator-consistent by construction. The input choices were
// picked so each entry also passes Validate (mixed gates, varied rows,
// differing case outputs).
type fallbackSpec struct {
	pattern []types.GateType
	rows    [][]int            // single_output: inputs per gate row
	cases   map[string][][]int // multiple_cases: inputs per row, per case
	seq     []int              // pattern_analysis: output sequence
}

var singleOutputPool = map[types.Difficulty][]fallbackSpec{
	types.DifficultyEasy: {
		{pattern: gates("AND", "NOT"), rows: [][]int{{1, 0}, {0}}},
		{pattern: gates("XOR", "NAND"), rows: [][]int{{1, 0}, {1, 1}}},
		{pattern: gates("OR", "XNOR"), rows: [][]int{{0, 1}, {1, 0}}},
	},
	types.DifficultyMedium: {
		{pattern: gates("AND", "XOR", "NOR"), rows: [][]int{{1, 1, 0}, {0, 1, 1}, {1, 0, 0}}},
		{pattern: gates("NAND", "OR", "XOR"), rows: [][]int{{1, 1, 1}, {0, 0, 1}, {1, 1, 0}}},
		{pattern: gates("XOR", "NOT", "AND"), rows: [][]int{{1, 0, 1}, {1}, {1, 1, 0}}},
	},
	types.DifficultyHard: {
		{pattern: gates("AND", "XOR", "NOR", "XNOR"), rows: [][]int{{1, 1, 1, 0}, {1, 0, 1, 1}, {0, 1, 0, 0}, {1, 1, 0, 0}}},
		{pattern: gates("NAND", "NOT", "OR", "XOR"), rows: [][]int{{1, 1, 0, 1}, {1}, {0, 0, 1, 0}, {1, 0, 1, 1}}},
		{pattern: gates("XOR", "NOR", "NAND", "OR"), rows: [][]int{{1, 0, 0, 1}, {0, 1, 0, 0}, {1, 1, 1, 1}, {0, 0, 0, 1}}},
	},
}

var multipleCasesPool = map[types.Difficulty][]fallbackSpec{
	types.DifficultyEasy: {
		{pattern: gates("XOR", "AND"), cases: map[string][][]int{
			"case1": {{1, 0}, {1, 1}},
			"case2": {{0, 0}, {1, 0}},
		}},
		{pattern: gates("OR", "NAND"), cases: map[string][][]int{
			"case1": {{1, 1}, {1, 1}},
			"case2": {{0, 0}, {0, 1}},
		}},
	},
	types.DifficultyMedium: {
		{pattern: gates("AND", "XOR", "OR"), cases: map[string][][]int{
			"case1": {{1, 1, 1}, {1, 0, 1}, {0, 0, 0}},
			"case2": {{1, 0, 1}, {0, 1, 1}, {0, 1, 0}},
			"case3": {{0, 1, 1}, {1, 1, 1}, {1, 0, 1}},
		}},
		{pattern: gates("NAND", "NOR", "XNOR"), cases: map[string][][]int{
			"case1": {{1, 1, 1}, {0, 0, 1}, {0, 0, 1}},
			"case2": {{0, 1, 0}, {1, 0, 0}, {0, 0, 0}},
			"case3": {{1, 1, 0}, {0, 1, 1}, {1, 1, 0}},
		}},
		{pattern: gates("XOR", "AND", "NOR"), cases: map[string][][]int{
			"case1": {{1, 0, 1}, {1, 1, 1}, {0, 0, 1}},
			"case2": {{1, 1, 0}, {0, 1, 1}, {0, 0, 0}},
			"case3": {{0, 1, 1}, {1, 0, 1}, {1, 0, 0}},
		}},
	},
	types.DifficultyHard: {
		{pattern: gates("AND", "XOR", "NOR", "OR"), cases: map[string][][]int{
			"case1": {{1, 1, 1, 1}, {1, 0, 0, 0}, {0, 0, 0, 0}, {1, 0, 0, 0}},
			"case2": {{1, 0, 1, 1}, {1, 1, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}},
		}},
		{pattern: gates("NAND", "OR", "XNOR", "AND"), cases: map[string][][]int{
			"case1": {{1, 1, 1, 1}, {0, 1, 0, 0}, {1, 1, 0, 0}, {1, 1, 1, 1}},
			"case2": {{0, 1, 1, 0}, {0, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 1, 1}},
		}},
	},
}

var patternAnalysisPool = []fallbackSpec{
	{pattern: gates("XOR", "NOT"), seq: []int{1, 0, 1, 0, 1, 0, 1, 0}},
	{pattern: gates("AND", "XOR", "OR"), seq: []int{1, 1, 0, 1, 1, 0, 1, 1}},
	{pattern: gates("NOR", "XOR"), seq: []int{0, 0, 1, 0, 0, 1, 0, 0}},
	{pattern: gates("NAND", "NOT"), seq: []int{1, 0, 0, 1, 0, 0, 1, 0}},
}

// Supplier hands out known-good circuits whenever the generator path fails.
// Choice within a pool is seeded, so a fixed seed gives a reproducible run.
type Supplier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSupplier(seed int64) *Supplier {
	return &Supplier{rng: rand.New(rand.NewSource(seed))}
}

// Supply returns a validator-passing circuit for the tier and difficulty.
// It never fails: unknown difficulties fall back to the medium pool.
func (s *Supplier) Supply(tier types.ComplexityType, difficulty types.Difficulty) types.CircuitDescriptor {
	var pool []fallbackSpec
	switch tier {
	case types.ComplexityMultipleCases:
		pool = multipleCasesPool[difficulty]
		if len(pool) == 0 {
			pool = multipleCasesPool[types.DifficultyMedium]
		}
	case types.ComplexityPatternAnalysis:
		pool = patternAnalysisPool
	default:
		tier = types.ComplexitySingleOutput
		pool = singleOutputPool[difficulty]
		if len(pool) == 0 {
			pool = singleOutputPool[types.DifficultyMedium]
		}
	}

	s.mu.Lock()
	spec := pool[s.rng.Intn(len(pool))]
	s.mu.Unlock()

	return buildDescriptor(spec, tier, difficulty)
}

func buildDescriptor(spec fallbackSpec, tier types.ComplexityType, difficulty types.Difficulty) types.CircuitDescriptor {
	d := types.CircuitDescriptor{
		Pattern:        spec.pattern,
		ComplexityType: tier,
		Difficulty:     difficulty,
	}
	switch tier {
	case types.ComplexitySingleOutput:
		d.InputValues = evaluateRows(spec.pattern, spec.rows)
		d.ExpectedOutput = d.InputValues[len(d.InputValues)-1].Output
	case types.ComplexityMultipleCases:
		d.TestCases = make(map[string][]types.CircuitRow, len(spec.cases))
		d.ExpectedOutputs = make(map[string]int, len(spec.cases))
		for caseID, inputs := range spec.cases {
			rows := evaluateRows(spec.pattern, inputs)
			d.TestCases[caseID] = rows
			d.ExpectedOutputs[caseID] = rows[len(rows)-1].Output
		}
	case types.ComplexityPatternAnalysis:
		d.Sequence = append([]int(nil), spec.seq...)
		d.CycleLength = CycleLength(d.Sequence)
		d.FinalState = d.Sequence[len(d.Sequence)-1]
	}
	return d
}

func evaluateRows(pattern []types.GateType, inputs [][]int) []types.CircuitRow {
	rows := make([]types.CircuitRow, 0, len(inputs))
	for i, in := range inputs {
		out, err := EvaluateGate(pattern[i], in)
		if err != nil {
			// Pool entries are authored against gate arity; this cannot
			// happen for the fixed specs above.
			out = 0
		}
		rows = append(rows, types.CircuitRow{Inputs: append([]int(nil), in...), Output: out})
	}
	return rows
}

func gates(names ...string) []types.GateType {
	out := make([]types.GateType, len(names))
	for i, n := range names {
		out[i] = types.GateType(n)
	}
	return out
}
