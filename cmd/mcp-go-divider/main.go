package main

import (
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sunfmin/mcp-go-divider/pkg/config"
	"github.com/sunfmin/mcp-go-divider/pkg/logger"
	"github.com/sunfmin/mcp-go-divider/pkg/mcp"
)

// Version is set during build
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol, so logs go to stderr and the log file
	var logOutput io.Writer = os.Stderr
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Warn("Failed to set up log file", "error", err)
		} else {
			defer logFile.Close()
			logOutput = io.MultiWriter(os.Stderr, logFile)
		}
	}
	logger.Setup(logOutput, cfg.Debug)

	logger.Info("Starting MCP Go Divider", "version", Version)

	divideServer := mcp.NewMCPDivideServer(Version, cfg)
	defer divideServer.Shutdown()

	logger.Info("Starting MCP server...")
	if err := server.ServeStdio(divideServer.Server()); err != nil {
		logger.Error("Server error", "error", err)
		divideServer.Shutdown()
		os.Exit(1)
	}
}
