package parser

// FixedVarIndex names the slot of each fixed (frame-supplied) variable,
// per spec.md section 3: every program's variable array begins with
// these eight frame-state variables, always present regardless of how
// many user variables the program declares.
type FixedVarIndex int

const (
	VarIndexN FixedVarIndex = iota
	VarIndexT
	VarIndexW
	VarIndexH
	VarIndexDuration
	VarIndexCX
	VarIndexCY
	VarIndexI
)

// FixedVars lists the reserved variable names in slot order. Programs
// may read them but may never declare a user variable or procedure
// parameter with one of these names (spec.md ErrReservedVariableName).
var FixedVars = []string{"n", "t", "w", "h", "duration", "cx", "cy", "i"}

// UserVarCount is the maximum number of user-declared variables (set by
// setvar/defrgba/defhsla or bound as a proc1/proc2 parameter) a single
// program may hold, per spec.md section 6.1's capacity invariant.
const UserVarCount = 10

// TotalVarSlots is the full width of the per-frame variable array:
// fixed slots followed by the user variable slots.
var TotalVarSlots = len(FixedVars) + UserVarCount

// VarTable tracks the user variable names declared so far within one
// compiled program, assigning each a stable slot index starting right
// after the fixed variables.
type VarTable struct {
	names []string
}

// NewVarTable returns an empty user-variable table.
func NewVarTable() *VarTable {
	return &VarTable{}
}

// isReserved reports whether name collides with a fixed variable.
func isReserved(name string) bool {
	for _, f := range FixedVars {
		if f == name {
			return true
		}
	}
	return false
}

// Resolve returns the slot index of name, declaring it as a new user
// variable if this is the first time it has been seen. Declaring an
// 11th distinct user variable, or a variable sharing a name with a
// fixed variable, is an error. Used for setvar/proc1/proc2 targets and
// for defrgba/defhsla targets alike: spec.md section 3/4.5 defines a
// color variable as a user variable (read back as a packed
// 0xRRGGBBAA numeric value), sharing the same slot table and
// UserVarCount budget as ordinary numeric user variables rather than a
// separate uncapped namespace.
func (vt *VarTable) Resolve(name string, pos Position) (int, error) {
	if isReserved(name) {
		return 0, newError(pos, ErrReservedVariableName, name, "")
	}
	for i, n := range vt.names {
		if n == name {
			return len(FixedVars) + i, nil
		}
	}
	if len(vt.names) >= UserVarCount {
		return 0, newError(pos, ErrTooManyUserVariables, name, "")
	}
	vt.names = append(vt.names, name)
	return len(FixedVars) + len(vt.names) - 1, nil
}

// Lookup reports whether name has already been declared (by a prior
// setvar/defrgba/defhsla/proc1/proc2 parameter) without declaring it.
// Used by COLOR-slot parsing to recognize "the name of a user
// variable" (spec.md section 4.3) without auto-vivifying it.
func (vt *VarTable) Lookup(name string) (int, bool) {
	for i, n := range vt.names {
		if n == name {
			return len(FixedVars) + i, true
		}
	}
	return 0, false
}

// Names returns the full slot-ordered variable name list: fixed
// variables followed by the user variables declared so far. Used by
// expr.Compile to bind identifiers appearing inside embedded
// expressions to the right slot index.
func (vt *VarTable) Names() []string {
	all := make([]string, 0, len(FixedVars)+len(vt.names))
	all = append(all, FixedVars...)
	all = append(all, vt.names...)
	return all
}

