package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chanconsole/chanconsole/internal/console"
)

type consoleOptions struct {
	metricsPort  uint16
	pollInterval time.Duration
	stream       bool
}

func newConsoleOptions() *consoleOptions {
	return &consoleOptions{
		metricsPort:  6770,
		pollInterval: 300 * time.Millisecond,
		stream:       false,
	}
}

func newCmdConsole() *cobra.Command {
	options := newConsoleOptions()

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Launch the full-screen channel metrics console",
		Long: `Launch a full-screen terminal UI that connects to a running process's
chanconsole metrics endpoint and displays live channel statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := fmt.Sprintf("http://127.0.0.1:%d", options.metricsPort)
			app := console.NewApp(baseURL, options.pollInterval, options.stream)
			return app.Run()
		},
	}

	cmd.Flags().Uint16Var(&options.metricsPort, "metrics-port", options.metricsPort,
		"Port the target process's chanconsole metrics endpoint is listening on")
	cmd.Flags().DurationVar(&options.pollInterval, "poll-interval", options.pollInterval,
		"How often to poll the metrics endpoint when the push stream is unavailable")
	cmd.Flags().BoolVar(&options.stream, "stream", options.stream,
		"Prefer the /metrics/stream websocket push feed over polling, when the target exposes it")

	return cmd
}
