package main

import (
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	stdout = color.Output
	stderr = color.Error

	verbose bool
)

// NewRootCmd assembles the chanconsole CLI: today this is only the
// console subcommand, kept as its own command (rather than folded into
// the root) so future additions (e.g. a one-shot "dump" command) have a
// natural home beside it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chanconsole",
		Short: "Inspect live channel metrics exported by an instrumented Go process",
		Long: `chanconsole inspects the channel statistics a process has exported via
github.com/chanconsole/chanconsole's instrumentation wrappers.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Turn on debug logging")
	root.AddCommand(newCmdConsole())
	return root
}
