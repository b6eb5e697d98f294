// Package debugger runs programs under Delve to find out where and why they
// abort.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-delve/delve/service/rpc2"
	"github.com/go-delve/delve/service/rpccommon"
	"github.com/sunfmin/mcp-go-divider/pkg/logger"
)

// Client encapsulates the Delve debug client functionality
type Client struct {
	client  *rpc2.RPCClient
	server  *rpccommon.ServerImpl
	target  string
	tempDir string

	// Resources owned by the headless server started in LaunchProgram
	listener  net.Listener
	redirects []*os.File
	runFailed atomic.Bool

	stdout     safeBuffer
	stderr     safeBuffer
	outputDone sync.WaitGroup
}

// NewClient creates a new Delve client wrapper
func NewClient() *Client {
	return &Client{}
}

// IsConnected returns whether a debug session is active
func (c *Client) IsConnected() bool {
	return c.client != nil
}

// Close terminates the debug session, kills the target and removes any
// binary built by BuildProgram. A server left behind by a failed launch is
// stopped as well.
func (c *Client) Close() error {
	defer c.removeTempDir()

	var detachErr error
	if c.client != nil {
		// Create a context with timeout to prevent indefinite hanging
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		errChan := make(chan error, 1)
		client := c.client
		go func() {
			errChan <- client.Detach(true)
		}()

		select {
		case detachErr = <-errChan:
			if detachErr != nil {
				logger.Warn("Failed to detach from debugged process", "error", detachErr)
			}
		case <-ctx.Done():
			logger.Warn("Detach operation timed out after 5 seconds")
			detachErr = ctx.Err()
		}

		c.client = nil
	}

	c.stopServer()
	c.target = ""
	return detachErr
}

// stopServer shuts down the headless server and releases its listener and
// output pipes
func (c *Client) stopServer() {
	if c.server != nil && !c.runFailed.Load() {
		server := c.server
		stopChan := make(chan error, 1)
		go func() {
			// Stop dereferences the debugger, which is missing if Run never got that far
			defer func() {
				if r := recover(); r != nil {
					stopChan <- fmt.Errorf("debug server was not running: %v", r)
				}
			}()
			stopChan <- server.Stop()
		}()

		select {
		case err := <-stopChan:
			if err != nil {
				logger.Debug("Failed to stop debug server", "error", err)
			}
		case <-time.After(5 * time.Second):
			logger.Warn("Server stop operation timed out after 5 seconds")
		}
	}
	c.server = nil

	if c.listener != nil {
		c.listener.Close()
		c.listener = nil
	}

	// Closing the write ends lets the capture goroutines see EOF
	for _, f := range c.redirects {
		if f != nil {
			f.Close()
		}
	}
	c.redirects = nil
}

func (c *Client) removeTempDir() {
	if c.tempDir == "" {
		return
	}
	logger.Debug("Cleaning up temporary directory", "dir", c.tempDir)
	os.RemoveAll(c.tempDir)
	c.tempDir = ""
}

// getFreePort asks the kernel for an unused localhost port
func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// errNotConnected is returned by operations that need a launched program
var errNotConnected = errors.New("no active debug session")
