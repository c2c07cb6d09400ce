package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs a line-oriented debugger REPL against dbg over one
// frame, printing the result of each pause and forwarding "step",
// "continue", "stepover", "stepout" as control-flow commands and
// everything else through ExecuteCommand.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	dbg.StartFrame()
	pInfo, pErr, pOK := dbg.Wait()
	info, err := reportPause(dbg, pInfo, pErr, pOK)
	_ = err

	for {
		fmt.Print("(vgs-dbg) ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "quit" || line == "q" || line == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		switch line {
		case "step", "s":
			pInfo, pErr, pOK = dbg.Step()
			info, err = reportPause(dbg, pInfo, pErr, pOK)
		case "continue", "c":
			pInfo, pErr, pOK = dbg.Continue()
			info, err = reportPause(dbg, pInfo, pErr, pOK)
		case "stepover", "next", "n":
			pInfo, pErr, pOK = dbg.StepOver(info.Path)
			info, err = reportPause(dbg, pInfo, pErr, pOK)
		case "stepout", "finish", "fin":
			pInfo, pErr, pOK = dbg.StepOut(info.Path)
			info, err = reportPause(dbg, pInfo, pErr, pOK)
		default:
			if cmdErr := dbg.ExecuteCommand(line, info.Path); cmdErr != nil {
				fmt.Printf("Error: %v\n", cmdErr)
			}
			if out := dbg.GetOutput(); out != "" {
				fmt.Print(out)
			}
			continue
		}
		if err != nil {
			fmt.Printf("Frame finished: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}

func reportPause(dbg *Debugger, info pauseInfo, err error, paused bool) (pauseInfo, error) {
	if out := dbg.GetOutput(); out != "" {
		fmt.Print(out)
	}
	if !paused {
		if err != nil {
			fmt.Printf("Frame finished with error: %v\n", err)
		} else {
			fmt.Println("Frame finished")
		}
		return pauseInfo{}, err
	}
	fmt.Printf("Stopped: %s at %s (%s)\n", info.Reason, FormatPath(info.Path), info.Stmt.Name)
	return info, nil
}
