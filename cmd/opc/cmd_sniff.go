package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-opc"
)

func newSniffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sniff FILE...",
		Short: "Report whether files are ZIP packages, OLE2 compound files or raw XML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				format, err := opc.SniffReaderAt(f)
				f.Close()
				switch {
				case errors.Is(err, opc.ErrUnsupportedFormat):
					fmt.Fprintf(out, "%s\t%s\tnot a package\n", path, format)
				case err != nil:
					return fmt.Errorf("%s: %w", path, err)
				default:
					fmt.Fprintf(out, "%s\t%s\n", path, format)
				}
				a.logger.Debug("sniffed", "path", path, "format", format.String())
			}
			return nil
		},
	}
}
