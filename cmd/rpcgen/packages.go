package main

import (
	"github.com/spf13/cobra"

	"github.com/thewind121212/gen-barcode-sub000/core/formatter"
	"github.com/thewind121212/gen-barcode-sub000/core/generate"
)

func newPackagesCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages found under schema.dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.formatterFor(output)
			if err != nil {
				return err
			}
			pkgs, err := generate.Packages(c.cfg.Schema.Dir)
			if err != nil {
				return err
			}
			return f.FormatPackages(c.stdout, pkgs, formatter.FormatOptions{})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or yaml (default from config)")
	return cmd
}
