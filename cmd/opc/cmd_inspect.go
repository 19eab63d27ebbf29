package main

import (
	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-opc"
)

func newInspectCmd(a *app) *cobra.Command {
	var format string
	var digests bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe the content types, parts and core properties of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := opc.OpenFile(args[0], a.cfg.openOptions(a.logger)...)
			if err != nil {
				return err
			}
			defer pkg.Close()
			r, err := buildReport(pkg, digests)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, r)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml or cbor")
	cmd.Flags().BoolVar(&digests, "digests", false, "include a BLAKE3 digest of every part")
	return cmd
}
