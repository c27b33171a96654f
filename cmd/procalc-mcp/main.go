// Command procalc-mcp serves the calculator as a Model Context Protocol server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"procalc/calc"
	"procalc/internal/buildinfo"
	"procalc/internal/mcp"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	var (
		portFlag    = flag.Int("port", 0, "TCP port to listen on (0 for stdio)")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
		versionFlag = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Println("procalc-mcp " + buildinfo.Full())
		return
	}

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	// stdout carries the protocol in stdio mode.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mcpServer := mcp.NewServer(calc.NewMachine(nil), logger).NewMCPServer()

	if *portFlag == 0 {
		logger.Info("serving on stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer)
	logger.Info("serving streamable HTTP", "port", *portFlag)
	if err := httpServer.Start(fmt.Sprintf(":%d", *portFlag)); err != nil {
		logger.Error("HTTP server failed", "err", err)
		os.Exit(1)
	}
}
