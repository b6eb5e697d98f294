package debugger

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-delve/delve/pkg/logflags"
	"github.com/go-delve/delve/pkg/proc"
	"github.com/go-delve/delve/service"
	"github.com/go-delve/delve/service/debugger"
	"github.com/go-delve/delve/service/rpc2"
	"github.com/go-delve/delve/service/rpccommon"
	"github.com/sunfmin/mcp-go-divider/pkg/logger"
)

// BuildProgram compiles a Go source file or package directory with
// optimizations disabled and returns the path of the binary. The binary lives
// in a temporary directory that Close removes.
func (c *Client) BuildProgram(ctx context.Context, source string) (string, error) {
	absPath, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("source not found: %s", absPath)
	}

	c.removeTempDir()
	tempDir, err := os.MkdirTemp("", "mcp-go-divider-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	c.tempDir = tempDir

	outputBinary := filepath.Join(tempDir, "debug_binary")
	logger.Debug("Compiling program", "source", absPath, "output", outputBinary)

	buildCmd := exec.CommandContext(ctx, "go", "build", "-gcflags", "all=-N -l", "-o", outputBinary, absPath)
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		// Build the package from inside its directory so the enclosing module is used
		buildCmd = exec.CommandContext(ctx, "go", "build", "-gcflags", "all=-N -l", "-o", outputBinary, ".")
		buildCmd.Dir = absPath
	} else {
		buildCmd.Dir = filepath.Dir(absPath)
	}

	buildOutput, err := buildCmd.CombinedOutput()
	scanner := bufio.NewScanner(strings.NewReader(string(buildOutput)))
	for scanner.Scan() {
		logger.Debug("Build output", "line", scanner.Text())
	}
	if err != nil {
		c.removeTempDir()
		return "", fmt.Errorf("failed to compile %s: %w\nOutput: %s", absPath, err, buildOutput)
	}

	return outputBinary, nil
}

// LaunchProgram starts a binary under a headless Delve server and connects to it.
// The target is stopped at its entry point until Diagnose resumes it.
func (c *Client) LaunchProgram(program string, args []string) error {
	if c.client != nil {
		return fmt.Errorf("debug session already active")
	}

	logger.Debug("Starting LaunchProgram", "program", program)

	absPath, err := filepath.Abs(program)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("program file not found: %s", absPath)
	}

	port, err := getFreePort()
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}

	// Keep Delve's own logging quiet
	logflags.Setup(false, "", "")

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return fmt.Errorf("couldn't start listener: %w", err)
	}

	stdoutReader, stdoutRedirect, err := proc.Redirector()
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to create stdout redirector: %w", err)
	}

	stderrReader, stderrRedirect, err := proc.Redirector()
	if err != nil {
		listener.Close()
		stdoutReader.Close()
		stdoutRedirect.File.Close()
		return fmt.Errorf("failed to create stderr redirector: %w", err)
	}

	config := &service.Config{
		Listener:    listener,
		APIVersion:  2,
		AcceptMulti: true,
		ProcessArgs: append([]string{absPath}, args...),
		Debugger: debugger.Config{
			WorkingDir:     "",
			Backend:        "default",
			CheckGoVersion: true,
			DisableASLR:    true,
			Stdout:         stdoutRedirect,
			Stderr:         stderrRedirect,
		},
	}

	c.listener = listener
	c.runFailed.Store(false)
	c.redirects = []*os.File{stdoutRedirect.File, stderrRedirect.File}

	c.stdout.Reset()
	c.stderr.Reset()
	c.outputDone.Add(2)
	go c.captureOutput(stdoutReader, &c.stdout, "stdout")
	go c.captureOutput(stderrReader, &c.stderr, "stderr")

	server := rpccommon.NewServer(config)
	if server == nil {
		c.stopServer()
		return fmt.Errorf("failed to create debug server")
	}
	c.server = server

	serverReady := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			logger.Debug("Debug server error", "error", err)
			c.runFailed.Store(true)
			serverReady <- err
		}
	}()

	addr := listener.Addr().String()

	// Wait up to 3 seconds for server to be available
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			c.stopServer()
			return fmt.Errorf("timed out waiting for debug server to start")
		case err := <-serverReady:
			c.stopServer()
			return fmt.Errorf("debug server failed to start: %w", err)
		default:
			client := rpc2.NewClient(addr)
			state, err := client.GetState()
			if err == nil && state != nil {
				c.client = client
				c.target = absPath
				logger.Debug("Successfully launched program", "program", absPath)
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}
