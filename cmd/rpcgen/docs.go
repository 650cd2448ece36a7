package main

import (
	"github.com/spf13/cobra"

	"github.com/thewind121212/gen-barcode-sub000/bootstrap"
)

func newDocsCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "docs <package>",
		Short: "Serve a live preview of a package's OpenAPI document",
		Long: `Serve the OpenAPI document generated from the current schema without writing
any file. The document is rebuilt when the schema changes.

Routes:
  /docs/              endpoint overview
  /docs/openapi.json  document (JSON)
  /docs/openapi.yaml  document (YAML)
  /swagger/           Swagger UI
  /metrics            Prometheus metrics`,
		Args: packageArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.NewDocsApp(c.cfg, args[0], addr, c.logger)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from docs.addr)")
	return cmd
}
