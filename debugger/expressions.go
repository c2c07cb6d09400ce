// expressions.go is a thin debugger-facing wrapper over the expr
// package VGS already compiles embedded numeric expressions with — the
// teacher's own hand-rolled expr_lexer.go/expr_parser.go recursive
// descent has no VGS equivalent to port, since the expr package
// already has a full expression compiler to reuse (see DESIGN.md).
// What this file adds on top is $1/$2 convenience-value history, the
// same idea as the teacher's ExpressionEvaluator.valueHistory.
package debugger

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/drawvg/vgs/expr"
)

var historyRef = regexp.MustCompile(`\$(\d+)`)

// ExpressionEvaluator compiles and evaluates print/watch/condition
// expressions against the debugger's current variable bindings,
// remembering every result so later expressions can refer back to it
// as $1 (first value printed), $2, and so on.
type ExpressionEvaluator struct {
	mu      sync.Mutex
	history []float64
}

// NewExpressionEvaluator returns an evaluator with empty history.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// Evaluate compiles src (after substituting any $n history references)
// against varNames/vars, evaluates it, appends the result to history,
// and returns it.
func (e *ExpressionEvaluator) Evaluate(src string, varNames []string, vars []float64, host expr.HostContext) (float64, error) {
	value, err := e.eval(src, varNames, vars, host)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	e.history = append(e.history, value)
	e.mu.Unlock()
	return value, nil
}

// EvaluateCondition evaluates src as a breakpoint/watch condition
// (nonzero is true) without recording it in the value history.
func (e *ExpressionEvaluator) EvaluateCondition(src string, varNames []string, vars []float64, host expr.HostContext) (bool, error) {
	value, err := e.eval(src, varNames, vars, host)
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

func (e *ExpressionEvaluator) eval(src string, varNames []string, vars []float64, host expr.HostContext) (float64, error) {
	substituted, err := e.substituteHistory(src)
	if err != nil {
		return 0, err
	}
	compiled, err := expr.Compile(substituted, varNames)
	if err != nil {
		return 0, fmt.Errorf("expression %q: %w", src, err)
	}
	return compiled.Eval(vars, host), nil
}

func (e *ExpressionEvaluator) substituteHistory(src string) (string, error) {
	var substErr error
	result := historyRef.ReplaceAllStringFunc(src, func(match string) string {
		n, _ := strconv.Atoi(match[1:])
		value, err := e.GetValue(n)
		if err != nil {
			substErr = err
			return match
		}
		return strconv.FormatFloat(value, 'g', -1, 64)
	})
	if substErr != nil {
		return "", substErr
	}
	return result, nil
}

// GetValue returns the n'th historical value (1-indexed, most distant
// first — $1 is the first value ever printed).
func (e *ExpressionEvaluator) GetValue(n int) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 1 || n > len(e.history) {
		return 0, fmt.Errorf("value $%d not in history", n)
	}
	return e.history[n-1], nil
}

// ValueCount reports how many values have been recorded.
func (e *ExpressionEvaluator) ValueCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history)
}

// Clear empties the value history.
func (e *ExpressionEvaluator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}
