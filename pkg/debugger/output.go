package debugger

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/sunfmin/mcp-go-divider/pkg/logger"
)

// safeBuffer is a bytes.Buffer shared between the capture goroutines and readers
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *safeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// captureOutput copies one of the target's output streams line by line into dst
func (c *Client) captureOutput(r io.ReadCloser, dst *safeBuffer, source string) {
	defer c.outputDone.Done()
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		dst.Write([]byte(line + "\n"))
		logger.Debug("Program output", "source", source, "line", line)
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("Output capture stopped", "source", source, "error", err)
	}
}

// waitForOutput waits for the capture goroutines to drain, giving up after timeout
func (c *Client) waitForOutput(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.outputDone.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		logger.Debug("Timed out waiting for program output to drain")
	}
}

// Output returns what the target has written to stdout and stderr so far
func (c *Client) Output() (stdout, stderr string) {
	return c.stdout.String(), c.stderr.String()
}
