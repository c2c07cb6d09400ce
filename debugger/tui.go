package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/drawvg/vgs/parser"
)

// TUI is the text user interface for the debugger: a source view
// showing the statement tree with the current path highlighted, a
// vars view, an output view, and a breakpoints/watchpoints view, all
// driven from a single command input line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView      *tview.TextView
	VarsView        *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	currentPath []int
}

// NewTUI builds a TUI over dbg with its panels laid out but not yet
// running; call Run to start the event loop.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{Debugger: dbg, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.VarsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.VarsView.SetBorder(true).SetTitle(" Vars ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.VarsView, 0, 1, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SourceView, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, OutputViewHeight, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.continueToNextPause()
			return nil
		case tcell.KeyF10:
			t.stepOverCmd()
			return nil
		case tcell.KeyF11:
			t.step()
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := strings.TrimSpace(t.CommandInput.GetText())
	if cmd == "" {
		return
	}
	t.CommandInput.SetText("")
	switch cmd {
	case "step", "s":
		t.step()
	case "continue", "c":
		t.continueToNextPause()
	case "stepover", "next", "n":
		t.stepOverCmd()
	case "stepout", "finish", "fin":
		t.stepOutCmd()
	default:
		t.executeCommand(cmd)
	}
}

func (t *TUI) step() {
	t.onPause(t.Debugger.Step())
}

func (t *TUI) continueToNextPause() {
	t.onPause(t.Debugger.Continue())
}

func (t *TUI) stepOverCmd() {
	t.onPause(t.Debugger.StepOver(t.currentPath))
}

func (t *TUI) stepOutCmd() {
	t.onPause(t.Debugger.StepOut(t.currentPath))
}

func (t *TUI) onPause(info pauseInfo, err error, paused bool) {
	if out := t.Debugger.GetOutput(); out != "" {
		t.WriteOutput(out)
	}
	if !paused {
		if err != nil {
			t.WriteOutput(fmt.Sprintf("[red]frame finished with error:[white] %v\n", err))
		} else {
			t.WriteOutput("[green]frame finished[white]\n")
		}
		t.currentPath = nil
		t.RefreshAll()
		return
	}
	t.currentPath = info.Path
	t.WriteOutput(fmt.Sprintf("[yellow]stopped:[white] %s at %s (%s)\n", info.Reason, FormatPath(info.Path), info.Stmt.Name))
	t.RefreshAll()
}

func (t *TUI) executeCommand(cmd string) {
	if err := t.Debugger.ExecuteCommand(cmd, t.currentPath); err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if out := t.Debugger.GetOutput(); out != "" {
		t.WriteOutput(out)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output view and scrolls to it.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateVarsView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateSourceView() {
	t.SourceView.Clear()
	var lines []string
	t.renderStatements(t.Debugger.source.Program.Statements, nil, &lines)
	t.SourceView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) renderStatements(stmts []parser.Statement, prefix []int, lines *[]string) {
	for i, st := range stmts {
		path := append(append([]int(nil), prefix...), i)
		marker, color := "  ", "white"
		if t.Debugger.Breakpoints.GetBreakpoint(path) != nil {
			marker, color = "* ", "red"
		}
		if pathsEqual(path, t.currentPath) {
			marker, color = "->", "yellow"
		}
		indent := strings.Repeat(" ", SourceViewIndentWidth*len(prefix))
		*lines = append(*lines, fmt.Sprintf("[%s]%s%s%s (%s)[white]", color, marker, indent, st.Name, FormatPath(path)))

		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				t.renderStatements(arg.SubProgram.Statements, path, lines)
			}
		}
	}
}

func pathsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t *TUI) updateVarsView() {
	t.VarsView.Clear()
	names := t.Debugger.VarNames()
	vars := t.Debugger.Vars()
	var lines []string
	for i, name := range names {
		if i < len(vars) {
			lines = append(lines, fmt.Sprintf("%-12s = %g", name, vars[i]))
		}
	}
	t.VarsView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	var lines []string

	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		lines = append(lines, "[yellow]No breakpoints set[white]")
	} else {
		lines = append(lines, "[yellow]Breakpoints:[white]")
		for _, bp := range bps {
			status, color := "enabled", "green"
			if !bp.Enabled {
				status, color = "disabled", "red"
			}
			line := fmt.Sprintf("  %d: [%s]%s[white] %s", bp.ID, color, status, FormatPath(bp.Path))
			if bp.Condition != "" {
				line += fmt.Sprintf(" if %s", bp.Condition)
			}
			line += fmt.Sprintf(" (hits: %d)", bp.HitCount)
			lines = append(lines, line)
		}
	}

	lines = append(lines, "")

	wps := t.Debugger.Watchpoints.GetAllWatchpoints()
	if len(wps) > 0 {
		lines = append(lines, "[yellow]Watchpoints:[white]")
		for _, wp := range wps {
			lines = append(lines, fmt.Sprintf("  %d: watch %s = %g", wp.ID, wp.Expression, wp.LastValue))
		}
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop, beginning a frame if one is not
// already running.
func (t *TUI) Run() error {
	if !t.Debugger.Running {
		t.Debugger.StartFrame()
		t.onPause(t.Debugger.Wait())
	} else {
		t.RefreshAll()
	}

	t.WriteOutput("[green]VGS debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F10 to step over, F11 to step\n")
	t.WriteOutput("Type 'help' for the command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop tears down the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
