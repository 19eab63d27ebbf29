package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-opc"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types FILE",
		Short: "Print the Default and Override content type tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := opc.OpenFile(args[0], a.cfg.openOptions(a.logger)...)
			if err != nil {
				return err
			}
			defer pkg.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tKEY\tCONTENT TYPE")
			defaults := pkg.ContentTypes().Defaults()
			exts := make([]string, 0, len(defaults))
			for ext := range defaults {
				exts = append(exts, ext)
			}
			slices.Sort(exts)
			for _, ext := range exts {
				fmt.Fprintf(tw, "Default\t%s\t%s\n", ext, defaults[ext])
			}
			overrides := pkg.ContentTypes().Overrides()
			names := make([]opc.PartName, 0, len(overrides))
			for name := range overrides {
				names = append(names, name)
			}
			slices.SortFunc(names, opc.PartName.Compare)
			for _, name := range names {
				fmt.Fprintf(tw, "Override\t%s\t%s\n", name, overrides[name])
			}
			return tw.Flush()
		},
	}
}
