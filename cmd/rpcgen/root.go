package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thewind121212/gen-barcode-sub000/bootstrap"
	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/formatter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

// cli holds what the subcommands share after the root command has loaded the config.
type cli struct {
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rpcgen",
		Short: "Generate client, server and OpenAPI code from RPC schemas",
		Long: `rpcgen reads {schema.dir}/{package}/{package}.proto and writes:

  client   services/{package}/types.ts, api.ts, useQuery.ts
  server   core/api/{package}/{package}.routes.ts
           core/dto/{package}.dto.ts (only when absent)
           openapi/{package}.openapi.json (merged into the existing document)

Quick start:
  rpcgen generate inventory
  rpcgen watch inventory
  rpcgen docs inventory`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFallback(c.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg
			c.logger = bootstrap.NewLogger(cfg.Logging, c.stderr)
			return nil
		},
	}
	rootCmd.SetOut(c.stdout)
	rootCmd.SetErr(c.stderr)

	rootCmd.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", config.DefaultPath, "config file path")

	rootCmd.AddCommand(
		newGenerateCmd(c),
		newWatchCmd(c),
		newDocsCmd(c),
		newPackagesCmd(c),
		newVersionCmd(c),
	)
	return rootCmd
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr, logger: zerolog.Nop()}
	rootCmd := newRootCmd(c)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "rpcgen: %s\n", oneLine(err))
		return 1
	}
	return 0
}

func oneLine(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}

// packageArg requires exactly one package argument.
func packageArg(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0 || strings.TrimSpace(args[0]) == "":
		return generate.ErrPackageRequired
	case len(args) > 1:
		return fmt.Errorf("expected one package, got %d arguments", len(args))
	}
	return nil
}

// formatterFor resolves the --output flag, falling back to the configured format.
func (c *cli) formatterFor(name string) (formatter.Formatter, error) {
	if name == "" {
		name = c.cfg.Output.Format
	}
	f, ok := formatter.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(formatter.List(), ", "))
	}
	return f, nil
}

// configFileExists reports whether the config flag names an existing file.
func (c *cli) configFileExists() bool {
	_, err := os.Stat(c.cfgFile)
	return err == nil
}
