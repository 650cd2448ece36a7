package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.stdout, "rpcgen %s\n", version)
			fmt.Fprintf(c.stdout, "  commit:  %s\n", commit)
			fmt.Fprintf(c.stdout, "  built:   %s\n", buildDate)
		},
	}
}
