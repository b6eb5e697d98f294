package debugger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-delve/delve/service/api"
	"github.com/sunfmin/mcp-go-divider/pkg/logger"
	"github.com/sunfmin/mcp-go-divider/pkg/types"
)

// unrecoveredPanic is the name Delve gives the breakpoint it sets on runtime.fatalpanic
const unrecoveredPanic = "unrecovered-panic"

const maxStackDepth = 50

// Diagnose resumes the launched program and reports how it ended. If the
// program hits an unrecovered panic, the stack is recorded and the program is
// resumed again so it can print the panic and exit.
func (c *Client) Diagnose(ctx context.Context) (*types.DiagnoseResponse, error) {
	if c.client == nil {
		return nil, errNotConnected
	}

	response := &types.DiagnoseResponse{
		Status:  "success",
		Program: c.target,
	}

	state, err := c.resume(ctx)
	if err != nil {
		return nil, err
	}

	if isPanicStop(state) {
		response.Panicked = true
		stack, err := c.client.Stacktrace(state.CurrentThread.GoroutineID, maxStackDepth, 0, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get stacktrace: %w", err)
		}
		response.Stack = convertStack(stack)
		response.PanicSite = panicSite(response.Stack)

		logger.Debug("Program panicked", "site", response.PanicSite)

		// Let the runtime print the panic and exit
		state, err = c.resume(ctx)
		if err != nil {
			return nil, err
		}
	}

	if state.Exited {
		response.Exited = true
		response.ExitCode = state.ExitStatus
		c.waitForOutput(time.Second)
	}

	response.Stdout, response.Stderr = c.Output()
	response.ResultPrinted = strings.Contains(response.Stdout, "Result:")
	response.Summary = diagnoseSummary(response)
	response.Timestamp = time.Now()

	return response, nil
}

// resume continues the target until it stops or exits
func (c *Client) resume(ctx context.Context) (*api.DebuggerState, error) {
	logger.Debug("Continuing execution")

	stateChan := c.client.Continue()

	select {
	case state := <-stateChan:
		if state == nil {
			return nil, fmt.Errorf("continue returned no state")
		}
		// An exited process is reported through Err as well, so check it first
		if state.Exited {
			logger.Debug("Program has exited", "status", state.ExitStatus)
			return state, nil
		}
		if state.Err != nil {
			return nil, fmt.Errorf("continue command failed: %w", state.Err)
		}
		return state, nil
	case <-ctx.Done():
		if _, err := c.client.Halt(); err != nil {
			logger.Warn("Failed to halt program", "error", err)
		}
		return nil, fmt.Errorf("program did not stop in time: %w", ctx.Err())
	}
}

func isPanicStop(state *api.DebuggerState) bool {
	if state == nil || state.CurrentThread == nil || state.CurrentThread.Breakpoint == nil {
		return false
	}
	return state.CurrentThread.Breakpoint.Name == unrecoveredPanic
}

func convertStack(frames []api.Stackframe) []types.Location {
	stack := make([]types.Location, 0, len(frames))
	for _, f := range frames {
		loc := types.Location{
			File: f.File,
			Line: f.Line,
		}
		if f.Function != nil {
			loc.Function = f.Function.Name()
			loc.Package = packageName(loc.Function)
		}
		stack = append(stack, loc)
	}
	return stack
}

// panicSite returns the innermost frame outside the runtime, which is where
// the panic was raised from user code
func panicSite(stack []types.Location) *types.Location {
	for i := range stack {
		if stack[i].Package != "runtime" && stack[i].Function != "" {
			return &stack[i]
		}
	}
	return nil
}

// packageName extracts the import path from a fully qualified function name,
// e.g. "github.com/x/y/pkg.(*T).Method" -> "github.com/x/y/pkg"
func packageName(function string) string {
	lastSlash := strings.LastIndex(function, "/")
	dot := strings.Index(function[lastSlash+1:], ".")
	if dot < 0 {
		return ""
	}
	return function[:lastSlash+1+dot]
}

func diagnoseSummary(r *types.DiagnoseResponse) string {
	var b strings.Builder
	if r.Panicked {
		b.WriteString("Program panicked")
		if r.PanicSite != nil {
			fmt.Fprintf(&b, " in %s at %s:%d", r.PanicSite.Function, r.PanicSite.File, r.PanicSite.Line)
		}
		b.WriteString(". ")
	}
	if r.Exited {
		fmt.Fprintf(&b, "Program exited with status %d. ", r.ExitCode)
	} else {
		b.WriteString("Program is still stopped. ")
	}
	if r.ResultPrinted {
		b.WriteString("A result line was printed.")
	} else {
		b.WriteString("No result line was printed.")
	}
	return b.String()
}
