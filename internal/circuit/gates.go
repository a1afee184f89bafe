// Package circuit implements the deterministic core of the logic-gate game:
// gate evaluation, strict parsing of generator candidates, diversity
// validation, replay simulation, tiered answer scoring, and the fallback
// circuit pool.
package circuit

import (
	"fmt"

	"github.com/archassist/archgames-backend/internal/types"
)

// InvalidInputCountError reports a gate applied to the wrong number of inputs.
type InvalidInputCountError struct {
	Gate types.GateType
	Got  int
}

func (e *InvalidInputCountError) Error() string {
	if e.Gate == types.GateNOT {
		return fmt.Sprintf("gate NOT takes exactly 1 input, got %d", e.Got)
	}
	return fmt.Sprintf("gate %s takes at least 2 inputs, got %d", e.Gate, e.Got)
}

// EvaluateGate applies one gate to 0/1 inputs. NOT takes exactly one input;
// every other gate folds over two or more (XOR is parity).
func EvaluateGate(gate types.GateType, inputs []int) (int, error) {
	if gate == types.GateNOT {
		if len(inputs) != 1 {
			return 0, &InvalidInputCountError{Gate: gate, Got: len(inputs)}
		}
		return 1 - bit(inputs[0]), nil
	}
	if len(inputs) < 2 {
		return 0, &InvalidInputCountError{Gate: gate, Got: len(inputs)}
	}

	switch gate {
	case types.GateAND, types.GateNAND:
		out := 1
		for _, v := range inputs {
			if bit(v) == 0 {
				out = 0
				break
			}
		}
		if gate == types.GateNAND {
			out = 1 - out
		}
		return out, nil
	case types.GateOR, types.GateNOR:
		out := 0
		for _, v := range inputs {
			if bit(v) == 1 {
				out = 1
				break
			}
		}
		if gate == types.GateNOR {
			out = 1 - out
		}
		return out, nil
	case types.GateXOR, types.GateXNOR:
		out := 0
		for _, v := range inputs {
			out ^= bit(v)
		}
		if gate == types.GateXNOR {
			out = 1 - out
		}
		return out, nil
	}
	return 0, fmt.Errorf("unknown gate type %q", gate)
}

// bit clamps any nonzero value to 1 so evaluation stays within {0,1}.
// Parsing rejects non-binary values before they reach here.
func bit(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}
