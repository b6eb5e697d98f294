package types

import "time"

// DivideResponse is returned by the divide tool
type DivideResponse struct {
	Status       string    `json:"status"`
	Dividend     int       `json:"dividend"`
	Divisor      int       `json:"divisor"`
	Quotient     int       `json:"quotient"`
	FallbackUsed bool      `json:"fallbackUsed,omitempty"` // Division failed and the fallback was returned
	Error        string    `json:"error,omitempty"`        // Failure message when the fallback was used
	Summary      string    `json:"summary"`                // Human-readable description
	Timestamp    time.Time `json:"timestamp"`
}

// Location represents a source code location in human-readable format
type Location struct {
	File     string `json:"file"`               // Source file path
	Line     int    `json:"line"`               // Line number
	Function string `json:"function,omitempty"` // Function name
	Package  string `json:"package,omitempty"`  // Package name
}

// DiagnoseResponse reports how a program run under the debugger ended
type DiagnoseResponse struct {
	Status        string     `json:"status"`
	Program       string     `json:"program"`
	Panicked      bool       `json:"panicked"`            // Stopped on an unrecovered panic
	PanicSite     *Location  `json:"panicSite,omitempty"` // First frame outside the runtime
	Stack         []Location `json:"stack,omitempty"`     // Frames at the time of the panic
	Exited        bool       `json:"exited"`              // Process ran to termination
	ExitCode      int        `json:"exitCode"`            // Exit status if exited
	Stdout        string     `json:"stdout"`              // Captured standard output
	Stderr        string     `json:"stderr"`              // Captured standard error
	ResultPrinted bool       `json:"resultPrinted"`       // A "Result:" line reached stdout
	Summary       string     `json:"summary"`             // Brief summary for LLM
	Timestamp     time.Time  `json:"timestamp"`
}

// ServerInfo identifies the MCP server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DebuggerStatus is a snapshot of the debug session
type DebuggerStatus struct {
	Connected  bool   `json:"connected"`
	Running    bool   `json:"running"`
	Exited     bool   `json:"exited"`
	ExitStatus int    `json:"exitStatus,omitempty"`
	Target     string `json:"target,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StatusResponse is returned by the status tool
type StatusResponse struct {
	Server   ServerInfo     `json:"server"`
	Debugger DebuggerStatus `json:"debugger"`
}
