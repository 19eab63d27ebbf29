package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-opc"
)

func newUnpackCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "unpack FILE",
		Short: "Extract every part of a package, plus its content types document, into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Core properties are extracted byte for byte instead of being
			// parsed into a PropertiesPart.
			opts := append(a.cfg.openOptions(a.logger),
				opc.WithUnmarshaller(opc.MustParseContentType(opc.ContentTypeCoreProperties), opc.DefaultUnmarshaller{}))
			pkg, err := opc.OpenFile(args[0], opts...)
			if err != nil {
				return err
			}
			defer pkg.Close()
			return unpack(pkg, outDir, a)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func unpack(pkg *opc.Package, outDir string, a *app) error {
	types, err := pkg.ContentTypes().Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, opc.ContentTypesEntryName), types, 0o644); err != nil {
		return err
	}
	for _, part := range pkg.Parts() {
		dst := filepath.Join(outDir, filepath.FromSlash(opc.ZipEntryName(part.Name())))
		if err := writePartFile(part, dst); err != nil {
			return err
		}
		a.logger.Info("extracted", "part", part.Name().String(), "bytes", part.Size())
	}
	return nil
}

func writePartFile(part opc.Part, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	rc, err := part.ReadStream()
	if err != nil {
		return fmt.Errorf("read %s: %w", part.Name(), err)
	}
	defer rc.Close()
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return f.Close()
}
