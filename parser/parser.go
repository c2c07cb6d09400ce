package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drawvg/vgs/colorutil"
	"github.com/drawvg/vgs/expr"
)

// Parser drives the Lexer through the instruction table to build a
// Program tree. It holds the one-token lookahead buffer plus the
// accumulated variable table (color variables included) and
// procedure-name table that span
// the whole program, since spec.md scopes variables and procedures to
// the entire source file rather than to individual blocks.
type Parser struct {
	lex       *Lexer
	tok       Token
	vars      *VarTable
	procNames []string
}

// Parse compiles src into an immutable Program, ready to be
// interpreted any number of times by interp.Interpreter.
func Parse(src string) (*Program, error) {
	p := &Parser{
		lex:  NewLexer(src),
		vars: NewVarTable(),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(TokEnd)
	if err != nil {
		return nil, err
	}
	return &Program{
		Statements: stmts,
		ProcNames:  p.procNames,
		VarNames:   p.vars.Names(),
	}, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseStatements reads statements until the lookahead token's kind
// matches stop (TokEnd at top level, TokRightBrace inside a block),
// leaving that terminating token un-consumed for the caller.
func (p *Parser) parseStatements(stop TokenKind) ([]Statement, error) {
	var stmts []Statement
	for p.tok.Kind != stop {
		if p.tok.Kind == TokEnd {
			return nil, newError(p.tok.Pos, ErrUnmatchedBrace, "end of input", "'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	if p.tok.Kind != TokWord {
		return Statement{}, newError(p.tok.Pos, ErrUnknownInstruction, p.tok.Lexeme, "instruction name")
	}
	name := p.tok.Lexeme
	pos := p.tok.Pos
	spec, ok := lookupInstruction(name)
	if !ok {
		return Statement{}, newError(pos, ErrUnknownInstruction, name, "")
	}
	if err := p.advance(); err != nil {
		return Statement{}, err
	}

	args, err := p.parseArgGroup(spec)
	if err != nil {
		return Statement{}, err
	}
	if spec.MayRepeat {
		for p.argGroupFollows() {
			more, err := p.parseArgGroup(spec)
			if err != nil {
				return Statement{}, err
			}
			args = append(args, more...)
		}
	}

	return Statement{Op: spec.Op, Name: name, Args: args, Pos: pos}, nil
}

// argGroupFollows reports whether the lookahead token can begin
// another repetition of a MAY_REPEAT instruction's argument group.
// Every repeatable instruction in the table begins with a numeric
// slot; a fresh group is recognized only by a leading number or
// (expression) token, so a bare variable name does not start one.
func (p *Parser) argGroupFollows() bool {
	return p.tok.Kind == TokLiteral || p.tok.Kind == TokExpression
}

func (p *Parser) parseArgGroup(spec InstructionSpec) ([]Argument, error) {
	args := make([]Argument, 0, len(spec.Grammar))
	for _, slot := range spec.Grammar {
		arg, err := p.parseSlot(slot, spec)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if spec.Variadic {
		for p.argGroupFollows() {
			arg, err := p.parseNumericArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	return args, nil
}

func (p *Parser) parseSlot(slot Slot, spec InstructionSpec) (Argument, error) {
	switch slot {
	case SlotN:
		return p.parseNumericArg()
	case SlotV:
		return p.parseVarArg()
	case SlotColorVar:
		return p.parseColorVarDeclArg()
	case SlotC:
		return p.parseConstArg(spec.ConstSet)
	case SlotColor:
		return p.parseColorArg()
	case SlotP:
		return p.parseSubProgramArg()
	case SlotID:
		return p.parseIdentifierArg()
	case SlotProc:
		return p.parseProcArg()
	default:
		return Argument{}, newError(p.tok.Pos, ErrUnknownInstruction, p.tok.Lexeme, "")
	}
}

func (p *Parser) parseNumericArg() (Argument, error) {
	tok := p.tok
	// A bare word is a numeric argument when it names a fixed variable
	// or an already-declared user variable.
	isVarName := false
	if tok.Kind == TokWord {
		_, declared := p.vars.Lookup(tok.Lexeme)
		isVarName = declared || isReserved(tok.Lexeme)
	}
	if tok.Kind != TokLiteral && tok.Kind != TokExpression && !isVarName {
		return Argument{}, newError(tok.Pos, ErrExpectedNumeric, tok.Lexeme, "number or (expression)")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	compiled, err := expr.Compile(tok.Lexeme, p.vars.Names())
	if err != nil {
		kind := ErrExpressionParseFailed
		if tok.Kind == TokLiteral {
			kind = ErrInvalidNumber
		}
		return Argument{}, newError(tok.Pos, kind, tok.Lexeme, "")
	}
	return Argument{Kind: ArgNumeric, Numeric: compiled}, nil
}

func (p *Parser) parseVarArg() (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrExpectedIdentifier, tok.Lexeme, "variable name")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	idx, err := p.vars.Resolve(tok.Lexeme, tok.Pos)
	if err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgVariableName, VarIndex: idx}, nil
}

func (p *Parser) parseColorVarDeclArg() (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrExpectedIdentifier, tok.Lexeme, "color variable name")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	// defrgba/defhsla's target shares the same slot table and
	// UserVarCount budget as setvar (spec.md section 3/4.5): a color
	// variable is a user variable, not a separate namespace.
	idx, err := p.vars.Resolve(tok.Lexeme, tok.Pos)
	if err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgColorVariable, VarIndex: idx}, nil
}

func (p *Parser) parseConstArg(allowed []string) (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrInvalidConstant, tok.Lexeme, joinAllowed(allowed))
	}
	found := false
	for _, a := range allowed {
		if a == tok.Lexeme {
			found = true
			break
		}
	}
	if !found {
		return Argument{}, newError(tok.Pos, ErrInvalidConstant, tok.Lexeme, joinAllowed(allowed))
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgConstant, Constant: tok.Lexeme}, nil
}

func joinAllowed(allowed []string) string {
	out := ""
	for i, a := range allowed {
		if i > 0 {
			out += "|"
		}
		out += a
	}
	return out
}

func (p *Parser) parseColorArg() (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrExpectedColor, tok.Lexeme, "color name")
	}
	if idx, ok := p.vars.Lookup(tok.Lexeme); ok {
		if err := p.advance(); err != nil {
			return Argument{}, err
		}
		return Argument{Kind: ArgColorVariable, VarIndex: idx}, nil
	}
	if tok.Lexeme == "rgba" {
		return p.parseRGBAFunctionLiteral()
	}
	c, err := colorutil.Parse(tok.Lexeme)
	if err != nil {
		return Argument{}, newError(tok.Pos, ErrExpectedColor, tok.Lexeme, "")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgColor, Color: Color{R: c.R, G: c.G, B: c.B, A: c.A}}, nil
}

// parseRGBAFunctionLiteral parses the "rgba(r,g,b,a)" COLOR literal
// form spec.md section 4.3 lists alongside keyword and "#rrggbb"
// colors: the word "rgba" immediately followed by a parenthesised
// expression token holding four comma-separated 0..1 channel literals.
func (p *Parser) parseRGBAFunctionLiteral() (Argument, error) {
	namePos := p.tok.Pos
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	exprTok := p.tok
	if exprTok.Kind != TokExpression {
		return Argument{}, newError(namePos, ErrExpectedColor, "rgba", "rgba(r, g, b, a)")
	}
	channels, err := splitRGBAChannels(exprTok.Lexeme)
	if err != nil {
		return Argument{}, newError(exprTok.Pos, ErrExpectedColor, exprTok.Lexeme, "rgba(r, g, b, a)")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	c := colorutil.FromRGBA01(channels[0], channels[1], channels[2], channels[3])
	return Argument{Kind: ArgColor, Color: Color{R: c.R, G: c.G, B: c.B, A: c.A}}, nil
}

func splitRGBAChannels(inner string) ([4]float64, error) {
	var out [4]float64
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return out, fmt.Errorf("want 4 comma-separated channels, got %d", len(parts))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *Parser) parseIdentifierArg() (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrExpectedIdentifier, tok.Lexeme, "identifier")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgIdentifier, Identifier: tok.Lexeme}, nil
}

func (p *Parser) parseProcArg() (Argument, error) {
	tok := p.tok
	if tok.Kind != TokWord {
		return Argument{}, newError(tok.Pos, ErrExpectedIdentifier, tok.Lexeme, "procedure name")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	idx := internProc(&p.procNames, tok.Lexeme)
	return Argument{Kind: ArgProcedure, ProcIndex: idx}, nil
}

func (p *Parser) parseSubProgramArg() (Argument, error) {
	if p.tok.Kind != TokLeftBrace {
		return Argument{}, newError(p.tok.Pos, ErrUnmatchedBrace, p.tok.Lexeme, "'{'")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	stmts, err := p.parseStatements(TokRightBrace)
	if err != nil {
		return Argument{}, err
	}
	if p.tok.Kind != TokRightBrace {
		return Argument{}, newError(p.tok.Pos, ErrUnmatchedBrace, p.tok.Lexeme, "'}'")
	}
	if err := p.advance(); err != nil {
		return Argument{}, err
	}
	return Argument{Kind: ArgSubProgram, SubProgram: &Program{Statements: stmts}}, nil
}
