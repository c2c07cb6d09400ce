package parser

import "sort"

// Opcode enumerates the closed instruction set of spec.md section 6.2.
type Opcode int

const (
	OpMoveTo Opcode = iota
	OpRMoveTo
	OpLineTo
	OpRLineTo
	OpHLineAbs
	OpHLineRel
	OpVLineAbs
	OpVLineRel
	OpClosePath
	OpCurveTo
	OpRCurveTo
	OpSmoothCurveTo
	OpRSmoothCurveTo
	OpQuadTo
	OpRQuadTo
	OpSmoothQuadTo
	OpRSmoothQuadTo
	OpArc
	OpArcNeg
	OpCircle
	OpEllipse
	OpRect
	OpRoundedRect
	OpNewPath
	OpSave
	OpRestore
	OpTranslate
	OpRotate
	OpScale
	OpScaleXY
	OpSetLineWidth
	OpSetLineCap
	OpSetLineJoin
	OpSetMiterLimit
	OpSetDash
	OpSetDashOffset
	OpResetDash
	OpSetColor
	OpSetRGBA
	OpSetHSLA
	OpDefRGBA
	OpDefHSLA
	OpLinearGrad
	OpRadialGrad
	OpColorStop
	OpFill
	OpEOFill
	OpStroke
	OpClip
	OpEOClip
	OpResetClip
	OpPreserve
	OpIf
	OpRepeat
	OpBreak
	OpProc
	OpProc1
	OpProc2
	OpCall
	OpCall1
	OpCall2
	OpSetVar
	OpGetMetadata
	OpPush
	OpPrint
)

// Slot identifies the grammar element expected for one argument position,
// per spec.md section 4.3.
type Slot int

const (
	SlotN Slot = iota
	SlotV
	SlotC
	SlotColor
	SlotColorVar
	SlotP
	SlotID
	SlotProc
)

// InstructionSpec is one row of the fixed instruction table: a name, its
// opcode, and the parameter grammar the statement parser drives the
// lexer with.
type InstructionSpec struct {
	Name       string
	Op         Opcode
	Grammar    []Slot
	Variadic   bool     // a trailing VARIADIC numeric tail follows Grammar
	MayRepeat  bool     // the whole statement may repeat (spec.md MAY_REPEAT)
	ConstSet   []string // legal keywords for the single SlotC in Grammar, if any
	NoCurrentL string   // unused placeholder kept for table alignment readability
}

// instructionTable is sorted lexicographically by Name (spec.md
// invariant 6) so Lookup can binary search it with sort.Search —
// spec.md mandates this lookup strategy directly, so using the
// standard library's binary search here is not a concern any
// third-party dependency in the pack would otherwise own.
var instructionTable = buildSortedTable([]InstructionSpec{
	{Name: "C", Op: OpCurveTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "H", Op: OpHLineAbs, Grammar: []Slot{SlotN}, MayRepeat: true},
	{Name: "L", Op: OpLineTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "M", Op: OpMoveTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "Q", Op: OpQuadTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "S", Op: OpSmoothCurveTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "T", Op: OpSmoothQuadTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "V", Op: OpVLineAbs, Grammar: []Slot{SlotN}, MayRepeat: true},
	{Name: "Z", Op: OpClosePath, Grammar: nil},
	{Name: "arc", Op: OpArc, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN}},
	{Name: "arcn", Op: OpArcNeg, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN}},
	{Name: "break", Op: OpBreak, Grammar: nil},
	{Name: "c", Op: OpRCurveTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "call", Op: OpCall, Grammar: []Slot{SlotProc}, Variadic: true},
	{Name: "call1", Op: OpCall1, Grammar: []Slot{SlotProc, SlotN}},
	{Name: "call2", Op: OpCall2, Grammar: []Slot{SlotProc, SlotN, SlotN}},
	{Name: "circle", Op: OpCircle, Grammar: []Slot{SlotN, SlotN, SlotN}},
	{Name: "clip", Op: OpClip, Grammar: nil},
	{Name: "closepath", Op: OpClosePath, Grammar: nil},
	{Name: "colorstop", Op: OpColorStop, Grammar: []Slot{SlotN, SlotColor}, MayRepeat: true},
	{Name: "defhsla", Op: OpDefHSLA, Grammar: []Slot{SlotColorVar, SlotN, SlotN, SlotN, SlotN}},
	{Name: "defrgba", Op: OpDefRGBA, Grammar: []Slot{SlotColorVar, SlotN, SlotN, SlotN, SlotN}},
	{Name: "ellipse", Op: OpEllipse, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}},
	{Name: "eoclip", Op: OpEOClip, Grammar: nil},
	{Name: "eofill", Op: OpEOFill, Grammar: nil},
	{Name: "fill", Op: OpFill, Grammar: nil},
	{Name: "getmetadata", Op: OpGetMetadata, Grammar: []Slot{SlotV, SlotID}},
	{Name: "h", Op: OpHLineRel, Grammar: []Slot{SlotN}, MayRepeat: true},
	{Name: "if", Op: OpIf, Grammar: []Slot{SlotN, SlotP}},
	{Name: "l", Op: OpRLineTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "lineargrad", Op: OpLinearGrad, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}},
	{Name: "lineto", Op: OpLineTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "m", Op: OpRMoveTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "moveto", Op: OpMoveTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "newpath", Op: OpNewPath, Grammar: nil},
	{Name: "preserve", Op: OpPreserve, Grammar: nil},
	{Name: "print", Op: OpPrint, Grammar: []Slot{SlotID}, Variadic: true},
	{Name: "proc", Op: OpProc, Grammar: []Slot{SlotProc, SlotP}},
	{Name: "proc1", Op: OpProc1, Grammar: []Slot{SlotProc, SlotV, SlotP}},
	{Name: "proc2", Op: OpProc2, Grammar: []Slot{SlotProc, SlotV, SlotV, SlotP}},
	{Name: "push", Op: OpPush, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "q", Op: OpRQuadTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "radialgrad", Op: OpRadialGrad, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN, SlotN}},
	{Name: "rcurveto", Op: OpRCurveTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "rect", Op: OpRect, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}},
	{Name: "repeat", Op: OpRepeat, Grammar: []Slot{SlotN, SlotP}},
	{Name: "resetclip", Op: OpResetClip, Grammar: nil},
	{Name: "resetdash", Op: OpResetDash, Grammar: nil},
	{Name: "restore", Op: OpRestore, Grammar: nil},
	{Name: "rlineto", Op: OpRLineTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "rmoveto", Op: OpRMoveTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "roundedrect", Op: OpRoundedRect, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN, SlotN}},
	{Name: "rotate", Op: OpRotate, Grammar: []Slot{SlotN}},
	{Name: "s", Op: OpRSmoothCurveTo, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}, MayRepeat: true},
	{Name: "save", Op: OpSave, Grammar: nil},
	{Name: "scale", Op: OpScale, Grammar: []Slot{SlotN}},
	{Name: "scalexy", Op: OpScaleXY, Grammar: []Slot{SlotN, SlotN}},
	{Name: "setcolor", Op: OpSetColor, Grammar: []Slot{SlotColor}},
	{Name: "setdash", Op: OpSetDash, Grammar: []Slot{SlotN}},
	{Name: "setdashoffset", Op: OpSetDashOffset, Grammar: []Slot{SlotN}},
	{Name: "sethsla", Op: OpSetHSLA, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}},
	{Name: "setlinecap", Op: OpSetLineCap, Grammar: []Slot{SlotC}, ConstSet: []string{"butt", "round", "square"}},
	{Name: "setlinejoin", Op: OpSetLineJoin, Grammar: []Slot{SlotC}, ConstSet: []string{"miter", "round", "bevel"}},
	{Name: "setlinewidth", Op: OpSetLineWidth, Grammar: []Slot{SlotN}},
	{Name: "setmiterlimit", Op: OpSetMiterLimit, Grammar: []Slot{SlotN}},
	{Name: "setrgba", Op: OpSetRGBA, Grammar: []Slot{SlotN, SlotN, SlotN, SlotN}},
	{Name: "setvar", Op: OpSetVar, Grammar: []Slot{SlotV, SlotN}},
	{Name: "stroke", Op: OpStroke, Grammar: nil},
	{Name: "t", Op: OpRSmoothQuadTo, Grammar: []Slot{SlotN, SlotN}, MayRepeat: true},
	{Name: "translate", Op: OpTranslate, Grammar: []Slot{SlotN, SlotN}},
	{Name: "v", Op: OpVLineRel, Grammar: []Slot{SlotN}, MayRepeat: true},
	{Name: "z", Op: OpClosePath, Grammar: nil},
})

func buildSortedTable(specs []InstructionSpec) []InstructionSpec {
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// lookupInstruction finds an instruction spec by exact (case-sensitive)
// name via binary search over the sorted table.
func lookupInstruction(name string) (InstructionSpec, bool) {
	i := sort.Search(len(instructionTable), func(i int) bool {
		return instructionTable[i].Name >= name
	})
	if i < len(instructionTable) && instructionTable[i].Name == name {
		return instructionTable[i], true
	}
	return InstructionSpec{}, false
}
