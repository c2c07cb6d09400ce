package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses a dot-separated statement path like "0.1.2" into
// the []int form BreakpointManager and the interpreter's step hook use.
func ParsePath(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q", p)
		}
		path[i] = n
	}
	return path, nil
}

// FormatPath renders a path back to its dot-separated form.
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// ExecuteCommand parses and runs one debugger command line, writing
// any textual result to d.Output. currentPath is the path the
// interpreter is currently paused at (nil if no frame is running); no
// command handled here reads it, since step-over/step-out are run by
// the TUI and CLI front ends before they reach ExecuteCommand.
func (d *Debugger) ExecuteCommand(line string, currentPath []int) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History.Add(line)
		d.LastCommand = line
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnableBreak(args, true)
	case "disable":
		return d.cmdEnableBreak(args, false)
	case "watch", "w":
		return d.cmdWatch(args)
	case "unwatch":
		return d.cmdUnwatch(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "vars":
		return d.cmdVars()
	case "help", "h", "?":
		return d.cmdHelp()
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <path> [if <condition>]")
	}
	path, err := ParsePath(args[0])
	if err != nil {
		return err
	}
	var condition string
	if len(args) > 2 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}
	bp := d.Breakpoints.AddBreakpoint(path, false, condition)
	if condition != "" {
		d.Printf("Breakpoint %d at %s (condition: %s)\n", bp.ID, args[0], condition)
	} else {
		d.Printf("Breakpoint %d at %s\n", bp.ID, args[0])
	}
	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <path>")
	}
	path, err := ParsePath(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(path, true, "")
	d.Printf("Temporary breakpoint %d at %s\n", bp.ID, args[0])
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Printf("All breakpoints deleted\n")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnableBreak(args []string, enabled bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable|disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.SetEnabled(id, enabled)
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <expression>")
	}
	expression := strings.Join(args, " ")
	wp, err := d.Watchpoints.AddWatchpoint(expression, d.VarNames())
	if err != nil {
		return err
	}
	d.Printf("Watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

func (d *Debugger) cmdUnwatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: unwatch <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid watchpoint id: %s", args[0])
	}
	return d.Watchpoints.DeleteWatchpoint(id)
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}
	expression := strings.Join(args, " ")
	value, err := d.Evaluator.Evaluate(expression, d.VarNames(), d.Vars(), d.interp)
	if err != nil {
		return err
	}
	d.Printf("$%d = %g\n", d.Evaluator.ValueCount(), value)
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	what := ""
	if len(args) > 0 {
		what = args[0]
	}
	switch what {
	case "breakpoints", "break", "":
		for _, bp := range d.Breakpoints.GetAllBreakpoints() {
			state := "enabled"
			if !bp.Enabled {
				state = "disabled"
			}
			d.Printf("  %d: %s [%s] hits=%d\n", bp.ID, FormatPath(bp.Path), state, bp.HitCount)
		}
	case "watchpoints", "watch":
		for _, wp := range d.Watchpoints.GetAllWatchpoints() {
			d.Printf("  %d: %s hits=%d\n", wp.ID, wp.Expression, wp.HitCount)
		}
	default:
		return fmt.Errorf("usage: info [breakpoints|watchpoints]")
	}
	return nil
}

func (d *Debugger) cmdVars() error {
	names := d.VarNames()
	vars := d.Vars()
	for i, name := range names {
		if i < len(vars) {
			d.Printf("  %s = %g\n", name, vars[i])
		}
	}
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Printf(`Commands:
  step, s              execute one statement
  continue, c          run to the next breakpoint/watchpoint or end of frame
  break, b <path>      set a breakpoint at a statement path (e.g. 0.1.2)
  tbreak, tb <path>     set a one-shot breakpoint
  delete, d [id]       delete a breakpoint (all, if no id given)
  enable/disable <id>  toggle a breakpoint
  watch, w <expr>      break when expr's value changes
  unwatch <id>         remove a watchpoint
  print, p <expr>      evaluate expr against the current frame, recording $n
  info breakpoints     list breakpoints
  info watchpoints     list watchpoints
  vars                 print every variable's current value
  help, h, ?           show this text
`)
	return nil
}
