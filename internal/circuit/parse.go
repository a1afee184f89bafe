package circuit

import (
	"fmt"
	"math"

	"github.com/archassist/archgames-backend/internal/types"
)

// ParseError reports why a generator candidate could not become a descriptor.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("circuit candidate field %q: %s", e.Field, e.Reason)
}

func parseErrf(field, format string, args ...interface{}) error {
	return &ParseError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseCandidate converts an untrusted generator payload into a
// CircuitDescriptor for the requested tier, or rejects it. No field is
// trusted: gate names, bit values and shapes are all checked here, and the
// pattern-analysis components (cycle length, final state) are recomputed from
// the sequence rather than read from the payload.
func ParseCandidate(raw map[string]interface{}, tier types.ComplexityType, difficulty types.Difficulty) (types.CircuitDescriptor, error) {
	var d types.CircuitDescriptor
	if raw == nil {
		return d, parseErrf("", "payload is empty")
	}

	pattern, err := parsePattern(raw["pattern"])
	if err != nil {
		return d, err
	}

	d = types.CircuitDescriptor{
		Pattern:        pattern,
		ComplexityType: tier,
		Difficulty:     difficulty,
	}

	switch tier {
	case types.ComplexitySingleOutput:
		rows, err := parseRows("input_values", raw["input_values"])
		if err != nil {
			return types.CircuitDescriptor{}, err
		}
		if len(rows) != len(pattern) {
			return types.CircuitDescriptor{}, parseErrf("input_values", "expected %d rows (one per gate), got %d", len(pattern), len(rows))
		}
		if err := checkRowArity(pattern, rows, "input_values"); err != nil {
			return types.CircuitDescriptor{}, err
		}
		d.InputValues = rows
		d.ExpectedOutput = rows[len(rows)-1].Output
		return d, nil

	case types.ComplexityMultipleCases:
		cases, ok := raw["test_cases"].(map[string]interface{})
		if !ok || len(cases) == 0 {
			return types.CircuitDescriptor{}, parseErrf("test_cases", "missing or not an object")
		}
		d.TestCases = make(map[string][]types.CircuitRow, len(cases))
		d.ExpectedOutputs = make(map[string]int, len(cases))
		for caseID, rawRows := range cases {
			rows, err := parseRows("test_cases."+caseID, rawRows)
			if err != nil {
				return types.CircuitDescriptor{}, err
			}
			if len(rows) != len(pattern) {
				return types.CircuitDescriptor{}, parseErrf("test_cases."+caseID, "expected %d rows, got %d", len(pattern), len(rows))
			}
			if err := checkRowArity(pattern, rows, "test_cases."+caseID); err != nil {
				return types.CircuitDescriptor{}, err
			}
			d.TestCases[caseID] = rows
			d.ExpectedOutputs[caseID] = rows[len(rows)-1].Output
		}
		return d, nil

	case types.ComplexityPatternAnalysis:
		seq, err := parseBitList("sequence", raw["sequence"])
		if err != nil {
			return types.CircuitDescriptor{}, err
		}
		if len(seq) < 6 {
			return types.CircuitDescriptor{}, parseErrf("sequence", "needs at least 6 elements, got %d", len(seq))
		}
		d.Sequence = seq
		d.CycleLength = CycleLength(seq)
		d.FinalState = seq[len(seq)-1]
		return d, nil
	}
	return types.CircuitDescriptor{}, parseErrf("complexity_type", "unknown tier %q", tier)
}

// CycleLength returns the smallest period p >= 1 with seq[i] == seq[i-p] for
// every i >= p. A sequence with no shorter internal repeat has period len(seq).
func CycleLength(seq []int) int {
	for p := 1; p < len(seq); p++ {
		repeats := true
		for i := p; i < len(seq); i++ {
			if seq[i] != seq[i-p] {
				repeats = false
				break
			}
		}
		if repeats {
			return p
		}
	}
	if len(seq) == 0 {
		return 1
	}
	return len(seq)
}

func parsePattern(raw interface{}) ([]types.GateType, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, parseErrf("pattern", "missing or not a list")
	}
	pattern := make([]types.GateType, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, parseErrf("pattern", "element %d is not a string", i)
		}
		g, err := types.ParseGateType(s)
		if err != nil {
			return nil, parseErrf("pattern", "element %d: %v", i, err)
		}
		pattern = append(pattern, g)
	}
	return pattern, nil
}

// parseRows reads a list of rows, each a list of 0/1 values whose trailing
// element is the row's recorded output.
func parseRows(field string, raw interface{}) ([]types.CircuitRow, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, parseErrf(field, "missing or not a list")
	}
	rows := make([]types.CircuitRow, 0, len(list))
	for i, v := range list {
		vals, err := parseBitList(fmt.Sprintf("%s[%d]", field, i), v)
		if err != nil {
			return nil, err
		}
		if len(vals) < 2 {
			return nil, parseErrf(field, "row %d needs at least one input and an output", i)
		}
		rows = append(rows, types.CircuitRow{
			Inputs: vals[:len(vals)-1],
			Output: vals[len(vals)-1],
		})
	}
	return rows, nil
}

func parseBitList(field string, raw interface{}) ([]int, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, parseErrf(field, "missing or not a list")
	}
	out := make([]int, 0, len(list))
	for i, v := range list {
		b, err := toBit(v)
		if err != nil {
			return nil, parseErrf(field, "element %d: %v", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// toBit accepts the numeric encodings a JSON generator can produce for a
// binary value and nothing else.
func toBit(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		i := int(n)
		if i != 0 && i != 1 {
			return 0, fmt.Errorf("value %d is not 0 or 1", i)
		}
		return i, nil
	case int:
		if n != 0 && n != 1 {
			return 0, fmt.Errorf("value %d is not 0 or 1", n)
		}
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("value %v (%T) is not a 0/1 number", v, v)
}

func checkRowArity(pattern []types.GateType, rows []types.CircuitRow, field string) error {
	for i, row := range rows {
		gate := pattern[i]
		if gate == types.GateNOT {
			if len(row.Inputs) != 1 {
				return parseErrf(field, "row %d: NOT takes exactly 1 input, got %d", i, len(row.Inputs))
			}
		} else if len(row.Inputs) < 2 {
			return parseErrf(field, "row %d: %s takes at least 2 inputs, got %d", i, gate, len(row.Inputs))
		}
	}
	return nil
}
