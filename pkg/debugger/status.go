package debugger

import (
	"fmt"

	"github.com/sunfmin/mcp-go-divider/pkg/logger"
	"github.com/sunfmin/mcp-go-divider/pkg/types"
)

// GetStatus returns the current status of the debugger
func (c *Client) GetStatus() types.DebuggerStatus {
	status := types.DebuggerStatus{
		Connected: c.client != nil,
		Target:    c.target,
	}

	if !status.Connected {
		status.Error = "Not connected to any debug session"
		return status
	}

	state, err := c.client.GetState()
	if err != nil {
		status.Error = fmt.Sprintf("Error getting debugger state: %v", err)
		return status
	}

	status.Running = state.Running
	status.Exited = state.Exited
	if status.Exited {
		status.ExitStatus = state.ExitStatus
	}

	logger.Debug("Debugger status", "connected", status.Connected, "running", status.Running, "exited", status.Exited)

	return status
}
