package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thewind121212/gen-barcode-sub000/bootstrap"
	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/formatter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

func newWatchCmd(c *cli) *cobra.Command {
	var (
		flags       bootstrap.Flags
		output      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "watch <package>",
		Short: "Regenerate a package whenever its schema changes",
		Long: `Run generate once, then again after every change to a .proto file under
schema.dir or to the config file. Changes are debounced (watch.debounce)
and runs never overlap. A failed run is reported and watching continues.`,
		Args: packageArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.formatterFor(output)
			if err != nil {
				return err
			}

			var holder *config.Holder
			current := func() *config.Config { return c.cfg }
			if c.configFileExists() {
				holder, err = config.NewHolder(c.cfgFile, c.logger)
				if err != nil {
					return err
				}
				current = holder.Get
			}

			_, exp := bootstrap.NewExporters(c.cfg, metricsFile, false, c.logger)
			g := &bootstrap.Generator{
				Config:   current,
				Package:  args[0],
				Flags:    flags,
				Exporter: exp,
				Logger:   c.logger,
				Report: func(s *generate.Summary) error {
					return f.FormatSummary(c.stdout, s, formatter.FormatOptions{Compact: true})
				},
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return bootstrap.Watch(ctx, holder, g)
		},
	}

	cmd.Flags().BoolVar(&flags.TestMode, "test", false, "write under a fresh temporary directory on every run")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "fail when the package declares no service")
	cmd.Flags().BoolVar(&flags.Lint, "lint", false, "validate the written OpenAPI document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "summary format: table, json or yaml (default from config)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")
	return cmd
}
