package interp

import (
	"math"
	"math/rand/v2"

	"github.com/drawvg/vgs/parser"
)

// CallHost implements expr.HostContext, routing the host functions
// spec.md section 4.6 defines back into this frame's State and
// Surface: getvar reads a user variable slot, peek/pop read the value
// stack `push` builds, pathlen reads the backend's accumulated path
// length, and randomg draws from one of four independent RNG streams
// selected by seed modulo 4.
func (ip *Interpreter) CallHost(name string, args []float64) float64 {
	switch name {
	case "getvar":
		if len(args) < 1 {
			return math.NaN()
		}
		return ip.userVar(args[0])

	case "peek":
		if len(args) < 1 {
			return math.NaN()
		}
		v, ok := ip.state.Stack.Peek(args[0])
		if !ok {
			return math.NaN()
		}
		return v

	case "pop":
		if len(args) < 1 {
			return math.NaN()
		}
		v, ok := ip.state.Stack.Pop(args[0])
		if !ok {
			return math.NaN()
		}
		return v

	case "pathlen":
		n := 0.0
		if len(args) > 0 {
			n = args[0]
		}
		return ip.surface.PathLength(n)

	case "randomg":
		if len(args) < 1 || math.IsNaN(args[0]) || math.IsInf(args[0], 0) {
			return math.NaN()
		}
		idx := seedIndex(args[0])
		if ip.state.RNG[idx] == nil {
			ip.state.RNG[idx] = rand.New(rand.NewPCG(math.Float64bits(args[0]), uint64(idx)))
		}
		// spec.md section 4.6: the raw 64-bit draw scaled by 2^64-1, not
		// rand.Float64's 53-bit-precision convention.
		return float64(ip.state.RNG[idx].Uint64()) / (math.MaxUint64)

	default:
		return math.NaN()
	}
}

// userVar implements getvar(i): i must be a finite integer in
// [0, UserVarCount), indexing user variable VAR_U0+i; anything else
// is NaN.
func (ip *Interpreter) userVar(i float64) float64 {
	if math.IsNaN(i) || math.IsInf(i, 0) || i != math.Trunc(i) {
		return math.NaN()
	}
	idx := int(i)
	if idx < 0 || idx >= parser.UserVarCount {
		return math.NaN()
	}
	slot := len(parser.FixedVars) + idx
	if slot >= len(ip.state.Vars) {
		return math.NaN()
	}
	return ip.state.Vars[slot]
}

// seedIndex maps a seed argument onto one of the four RNG slots,
// per spec.md section 4.6 ("seed mod 4"), handling negative seeds.
func seedIndex(seed float64) int {
	n := int(math.Mod(seed, 4))
	if n < 0 {
		n += 4
	}
	return n
}
