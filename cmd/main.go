package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/flooding/config"
	"github.com/luca-patrignani/flooding/network"
	"github.com/luca-patrignani/flooding/node"
)

const envLogLevel = "FLOOD_LOG_LEVEL"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <node-id>\n", os.Args[0])
		os.Exit(1)
	}

	// Reports own stdout, everything else goes to stderr
	pterm.SetDefaultOutput(os.Stderr)
	pterm.DefaultLogger.Writer = os.Stderr
	if level, ok := os.LookupEnv(envLogLevel); ok {
		pterm.DefaultLogger.Level = parseLogLevel(level)
	}
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	self, err := config.ParseNodeID(os.Args[1], cfg.NodeCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: %s <node-id>: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	if err := run(self, cfg, logger); err != nil {
		logger.Error("node stopped", "error", err)
		os.Exit(1)
	}
}

func run(self int, cfg config.Config, logger *slog.Logger) error {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("F", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("lood", pterm.FgDarkGray.ToStyle()),
	).Render()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint, err := network.Listen(ctx, cfg.Port, cfg.BroadcastAddress, network.WithLogger(logger))
	if err != nil {
		return err
	}
	n, err := node.New(self, cfg, endpoint, node.WithLogger(logger), node.WithOutput(os.Stdout))
	if err != nil {
		return errors.Join(err, endpoint.Close())
	}

	pterm.Info.Printfln("Node %d initialized", self)
	pterm.Info.Printfln("Listening on %s, broadcasting to %s:%d", endpoint.LocalAddr(), cfg.BroadcastAddress, cfg.Port)

	err = n.Run(ctx)
	return errors.Join(err, endpoint.Close())
}

// parseLogLevel maps the FLOOD_LOG_LEVEL values to pterm levels. Unknown
// values keep the default info level.
func parseLogLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
