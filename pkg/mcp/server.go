package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sunfmin/mcp-go-divider/pkg/config"
	"github.com/sunfmin/mcp-go-divider/pkg/debugger"
	"github.com/sunfmin/mcp-go-divider/pkg/divider"
	"github.com/sunfmin/mcp-go-divider/pkg/logger"
	"github.com/sunfmin/mcp-go-divider/pkg/types"
)

const serverName = "Go Divider MCP"

// MCPDivideServer encapsulates the MCP server with division and diagnose tools
type MCPDivideServer struct {
	server  *server.MCPServer
	config  config.Config
	version string

	mu          sync.Mutex
	debugClient *debugger.Client
}

// NewMCPDivideServer creates a new MCP server and registers its tools
func NewMCPDivideServer(version string, cfg config.Config) *MCPDivideServer {
	s := &MCPDivideServer{
		server:      server.NewMCPServer(serverName, version),
		config:      cfg,
		version:     version,
		debugClient: debugger.NewClient(),
	}

	s.registerTools()

	return s
}

// Server returns the underlying MCP server
func (s *MCPDivideServer) Server() *server.MCPServer {
	return s.server
}

// Shutdown closes any open debug session
func (s *MCPDivideServer) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugClient.Close()
}

func (s *MCPDivideServer) registerTools() {
	s.addPingTool()
	s.addDivideTool()
	s.addDiagnoseTool()
	s.addStatusTool()
}

// addPingTool adds a simple ping tool for health checks
func (s *MCPDivideServer) addPingTool() {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Simple ping tool to test connection"),
	)

	s.server.AddTool(pingTool, s.Ping)
}

func (s *MCPDivideServer) addDivideTool() {
	divideTool := mcp.NewTool("divide",
		mcp.WithDescription("Divide two integers, truncating toward zero. Dividing by zero is reported as an error"),
		mcp.WithNumber("dividend",
			mcp.Required(),
			mcp.Description("Integer numerator, at most 2^53-1 in magnitude"),
		),
		mcp.WithNumber("divisor",
			mcp.Required(),
			mcp.Description("Integer denominator, at most 2^53-1 in magnitude"),
		),
		mcp.WithNumber("fallback",
			mcp.Description("Value to return instead of an error when the division fails"),
		),
	)

	s.server.AddTool(divideTool, s.Divide)
}

func (s *MCPDivideServer) addDiagnoseTool() {
	diagnoseTool := mcp.NewTool("diagnose",
		mcp.WithDescription("Build a Go program, run it under Delve and report where it panicked and how it exited"),
		mcp.WithString("program",
			mcp.Description("Path to a Go source file or package directory (defaults to the divide demo)"),
		),
	)

	s.server.AddTool(diagnoseTool, s.Diagnose)
}

func (s *MCPDivideServer) addStatusTool() {
	statusTool := mcp.NewTool("status",
		mcp.WithDescription("Report server version and debugger state"),
	)

	s.server.AddTool(statusTool, s.Status)
}

// newErrorResult creates a tool result that represents an error
func newErrorResult(format string, args ...interface{}) *mcp.CallToolResult {
	result := mcp.NewToolResultText(fmt.Sprintf("Error: "+format, args...))
	result.IsError = true
	return result
}

// Ping handles the ping command
func (s *MCPDivideServer) Ping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("Received ping request")
	return mcp.NewToolResultText("pong - MCP Go Divider is connected!"), nil
}

// Divide handles the divide command. Both outcomes of the division are
// inspected; a failure becomes an error result or, when given, the fallback.
func (s *MCPDivideServer) Divide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("Received divide request")

	dividend, err := intArgument(request, "dividend")
	if err != nil {
		return newErrorResult("%v", err), nil
	}
	divisor, err := intArgument(request, "divisor")
	if err != nil {
		return newErrorResult("%v", err), nil
	}
	result := divider.Divide(dividend, divisor)

	response := types.DivideResponse{
		Status:    "success",
		Dividend:  dividend,
		Divisor:   divisor,
		Timestamp: time.Now(),
	}

	quotient, err := result.Get()
	if err != nil {
		if _, ok := request.Params.Arguments["fallback"]; !ok {
			logger.Debug("Division failed", "dividend", dividend, "divisor", divisor, "error", err)
			return newErrorResult("%v", err), nil
		}
		fallback, ferr := intArgument(request, "fallback")
		if ferr != nil {
			return newErrorResult("%v", ferr), nil
		}
		response.Quotient = result.UnwrapOr(fallback)
		response.FallbackUsed = true
		response.Error = err.Error()
		response.Summary = fmt.Sprintf("%d / %d failed (%v), returned fallback %d", dividend, divisor, err, fallback)
		return newToolResultJSON(response)
	}

	response.Quotient = quotient
	response.Summary = fmt.Sprintf("%d / %d = %d", dividend, divisor, quotient)
	return newToolResultJSON(response)
}

// Diagnose handles the diagnose command
func (s *MCPDivideServer) Diagnose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("Received diagnose request")

	program, _ := request.Params.Arguments["program"].(string)
	if program == "" {
		program = s.config.Program
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Each diagnose runs in a fresh session
	if err := s.debugClient.Close(); err != nil {
		logger.Warn("Failed to close previous debug session", "error", err)
	}
	s.debugClient = debugger.NewClient()

	// Compiling with optimizations off can be slow on a cold cache, so the
	// build gets its own bound
	buildCtx, cancelBuild := context.WithTimeout(ctx, s.config.BuildTimeout)
	binary, err := s.debugClient.BuildProgram(buildCtx, program)
	cancelBuild()
	if err != nil {
		logger.Error("Failed to build program", "error", err, "program", program)
		if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
			return newErrorResult("build did not finish within %s", s.config.BuildTimeout), nil
		}
		return newErrorResult("failed to build program: %v", err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.DebugTimeout)
	defer cancel()

	if err := s.debugClient.LaunchProgram(binary, nil); err != nil {
		logger.Error("Failed to launch program", "error", err, "program", program)
		return newErrorResult("failed to launch program: %v", err), nil
	}

	response, err := s.debugClient.Diagnose(ctx)
	if err != nil {
		logger.Error("Failed to diagnose program", "error", err, "program", program)
		if errors.Is(err, context.DeadlineExceeded) {
			return newErrorResult("program did not finish within %s", s.config.DebugTimeout), nil
		}
		return newErrorResult("failed to diagnose program: %v", err), nil
	}
	response.Program = program

	return newToolResultJSON(response)
}

// Status handles the status command
func (s *MCPDivideServer) Status(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger.Debug("Received status request")

	s.mu.Lock()
	defer s.mu.Unlock()

	return newToolResultJSON(types.StatusResponse{
		Server: types.ServerInfo{
			Name:    serverName,
			Version: s.version,
		},
		Debugger: s.debugClient.GetStatus(),
	})
}

// maxExactInteger bounds the integers a JSON number decoded as float64 holds
// exactly. 2^53 itself is excluded because 2^53+1 rounds to it.
const maxExactInteger = 1<<53 - 1

// intArgument reads a JSON number argument that must hold an integer
func intArgument(request mcp.CallToolRequest, name string) (int, error) {
	raw, ok := request.Params.Arguments[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing required argument %q", name)
	}

	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number, got %T", name, raw)
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("argument %q must be an integer, got %v", name, f)
	}
	if math.Abs(f) > maxExactInteger {
		return 0, fmt.Errorf("argument %q is out of exactly representable range (|n| <= %d): %v", name, maxExactInteger, f)
	}
	return int(f), nil
}

func newToolResultJSON(data interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return newErrorResult("failed to serialize data: %v", err), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
