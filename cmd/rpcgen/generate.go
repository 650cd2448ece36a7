package main

import (
	"github.com/spf13/cobra"

	"github.com/thewind121212/gen-barcode-sub000/bootstrap"
	"github.com/thewind121212/gen-barcode-sub000/config"
	"github.com/thewind121212/gen-barcode-sub000/core/formatter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

func newGenerateCmd(c *cli) *cobra.Command {
	var (
		flags       bootstrap.Flags
		output      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "generate <package>",
		Short: "Generate every target for one package",
		Long: `Generate the client, server and OpenAPI artifacts of one package.

Client and route files are overwritten, the DTO file is only written when
absent and the OpenAPI document keeps every key except paths and
components.schemas.

Examples:
  rpcgen generate inventory
  rpcgen generate inventory --test
  rpcgen generate inventory --output json --metrics-file /var/lib/node_exporter/rpcgen.prom`,
		Args: packageArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.formatterFor(output)
			if err != nil {
				return err
			}
			_, exp := bootstrap.NewExporters(c.cfg, metricsFile, false, c.logger)

			cfg := c.cfg
			g := &bootstrap.Generator{
				Config:   func() *config.Config { return cfg },
				Package:  args[0],
				Flags:    flags,
				Exporter: exp,
				Logger:   c.logger,
				Report: func(s *generate.Summary) error {
					return f.FormatSummary(c.stdout, s, formatter.FormatOptions{})
				},
			}
			_, err = g.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVar(&flags.TestMode, "test", false, "write under a fresh temporary directory instead of the output roots")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "fail when the package declares no service")
	cmd.Flags().BoolVar(&flags.Lint, "lint", false, "validate the written OpenAPI document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "summary format: table, json or yaml (default from config)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this Prometheus textfile")
	return cmd
}
