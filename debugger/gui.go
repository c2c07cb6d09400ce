package debugger

import (
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/drawvg/vgs/parser"
)

// GUI is the Fyne-based graphical debugger: a source panel showing the
// statement tree with the current path marked, a vars panel, a
// breakpoints/watchpoints list, and a console, driven by a toolbar.
type GUI struct {
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	SourceView      *widget.TextGrid
	VarsView        *widget.TextGrid
	BreakpointsList *widget.List
	ConsoleOutput   *widget.TextGrid
	StatusLabel     *widget.Label
	Toolbar         *widget.Toolbar

	currentPath []int
	breakpoints []string

	consoleBuffer strings.Builder
	consoleMutex  sync.Mutex
}

// RunGUI builds and shows a GUI over dbg, blocking until the window closes.
func RunGUI(dbg *Debugger) error {
	g := newGUI(dbg)
	g.Window.ShowAndRun()
	return nil
}

func newGUI(dbg *Debugger) *GUI {
	myApp := app.New()
	myWindow := myApp.NewWindow("VGS Debugger")

	g := &GUI{Debugger: dbg, App: myApp, Window: myWindow}

	g.initializeViews()
	g.setupToolbar()
	g.buildLayout()

	myWindow.Resize(fyne.NewSize(1200, 800))
	return g
}

func (g *GUI) initializeViews() {
	g.SourceView = widget.NewTextGrid()
	g.VarsView = widget.NewTextGrid()
	g.ConsoleOutput = widget.NewTextGrid()
	g.StatusLabel = widget.NewLabel("Ready")

	g.breakpoints = []string{}
	g.BreakpointsList = widget.NewList(
		func() int { return len(g.breakpoints) },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(g.breakpoints[id])
		},
	)

	g.refreshViews()
}

func (g *GUI) buildLayout() {
	sourcePanel := container.NewBorder(widget.NewLabel("Source"), nil, nil, nil,
		container.NewScroll(g.SourceView))
	varsPanel := container.NewBorder(widget.NewLabel("Vars"), nil, nil, nil,
		container.NewScroll(g.VarsView))
	breakpointsPanel := container.NewBorder(widget.NewLabel("Breakpoints/Watchpoints"), nil, nil, nil,
		container.NewScroll(g.BreakpointsList))
	consolePanel := container.NewBorder(widget.NewLabel("Console"), nil, nil, nil,
		container.NewScroll(g.ConsoleOutput))

	rightTop := container.NewVSplit(varsPanel, breakpointsPanel)
	rightTop.SetOffset(0.5)
	rightPanel := container.NewVSplit(rightTop, consolePanel)
	rightPanel.SetOffset(0.6)

	mainSplit := container.NewHSplit(sourcePanel, rightPanel)
	mainSplit.SetOffset(0.6)

	statusBar := container.NewBorder(nil, nil, nil, nil, g.StatusLabel)
	content := container.NewBorder(g.Toolbar, statusBar, nil, nil, mainSplit)
	g.Window.SetContent(content)
}

func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), g.startProgram),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), g.stepProgram),
		widget.NewToolbarAction(theme.MediaFastForwardIcon(), g.continueProgram),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentClearIcon(), g.clearBreakpoints),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), g.refreshViews),
	)
}

func (g *GUI) startProgram() {
	if !g.Debugger.Running {
		g.Debugger.StartFrame()
	}
	g.onPause(g.Debugger.Wait())
}

func (g *GUI) stepProgram() {
	g.onPause(g.Debugger.Step())
}

func (g *GUI) continueProgram() {
	g.onPause(g.Debugger.Continue())
}

func (g *GUI) clearBreakpoints() {
	g.Debugger.Breakpoints.Clear()
	g.refreshViews()
}

func (g *GUI) onPause(info pauseInfo, err error, paused bool) {
	g.writeConsole(g.Debugger.GetOutput())
	if !paused {
		if err != nil {
			g.StatusLabel.SetText(fmt.Sprintf("Frame finished with error: %v", err))
		} else {
			g.StatusLabel.SetText("Frame finished")
		}
		g.currentPath = nil
	} else {
		g.currentPath = info.Path
		g.StatusLabel.SetText(fmt.Sprintf("Stopped: %s at %s (%s)", info.Reason, FormatPath(info.Path), info.Stmt.Name))
	}
	g.refreshViews()
}

func (g *GUI) writeConsole(text string) {
	if text == "" {
		return
	}
	g.consoleMutex.Lock()
	defer g.consoleMutex.Unlock()
	g.consoleBuffer.WriteString(text)
	g.ConsoleOutput.SetText(g.consoleBuffer.String())
}

func (g *GUI) refreshViews() {
	g.updateSource()
	g.updateVars()
	g.updateBreakpoints()
}

func (g *GUI) updateSource() {
	var lines []string
	g.renderStatements(g.Debugger.source.Program.Statements, nil, &lines)
	g.SourceView.SetText(strings.Join(lines, "\n"))
}

func (g *GUI) renderStatements(stmts []parser.Statement, prefix []int, lines *[]string) {
	for i, st := range stmts {
		path := append(append([]int(nil), prefix...), i)
		marker := "  "
		if g.Debugger.Breakpoints.GetBreakpoint(path) != nil {
			marker = "* "
		}
		if pathsEqual(path, g.currentPath) {
			marker = "->"
		}
		indent := strings.Repeat(" ", SourceViewIndentWidth*len(prefix))
		*lines = append(*lines, fmt.Sprintf("%s%s%s (%s)", marker, indent, st.Name, FormatPath(path)))

		for _, arg := range st.Args {
			if arg.Kind == parser.ArgSubProgram && arg.SubProgram != nil {
				g.renderStatements(arg.SubProgram.Statements, path, lines)
			}
		}
	}
}

func (g *GUI) updateVars() {
	names := g.Debugger.VarNames()
	vars := g.Debugger.Vars()
	var sb strings.Builder
	for i, name := range names {
		if i < len(vars) {
			sb.WriteString(fmt.Sprintf("%-12s = %g\n", name, vars[i]))
		}
	}
	g.VarsView.SetText(sb.String())
}

func (g *GUI) updateBreakpoints() {
	g.breakpoints = g.breakpoints[:0]
	for _, bp := range g.Debugger.Breakpoints.GetAllBreakpoints() {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		line := fmt.Sprintf("%d: %s [%s] hits=%d", bp.ID, FormatPath(bp.Path), status, bp.HitCount)
		if bp.Condition != "" {
			line += " if " + bp.Condition
		}
		g.breakpoints = append(g.breakpoints, line)
	}
	for _, wp := range g.Debugger.Watchpoints.GetAllWatchpoints() {
		g.breakpoints = append(g.breakpoints, fmt.Sprintf("watch %d: %s = %g", wp.ID, wp.Expression, wp.LastValue))
	}
	g.BreakpointsList.Refresh()
}
