package main

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-opc"
)

// builtinContentTypes cover the package-level extensions mime does not know.
var builtinContentTypes = map[string]string{
	"rels": opc.ContentTypeRelationships,
	"xml":  opc.ContentTypeXML,
}

type packOptions struct {
	outPath string
	title   string
	creator string
}

func newPackCmd(a *app) *cobra.Command {
	var po packOptions
	cmd := &cobra.Command{
		Use:   "pack DIR",
		Short: "Build a package from the files of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := pack(args[0], po, a)
			if err != nil {
				return err
			}
			defer pkg.Close()
			if err := pkg.SaveFile(po.outPath, a.cfg.writeOptions()...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d parts)\n", po.outPath, len(pkg.PartNames()))
			return nil
		},
	}
	cmd.Flags().StringVar(&po.outPath, "out", "", "output package file (required)")
	cmd.Flags().StringVar(&po.title, "title", "", "core properties title")
	cmd.Flags().StringVar(&po.creator, "creator", "", "core properties creator")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func pack(root string, po packOptions, a *app) (*opc.Package, error) {
	pkg := opc.New(a.cfg.openOptions(a.logger)...)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name, err := opc.NewPartName("/" + rel)
		if err != nil {
			return err
		}
		// Both are regenerated from the package state.
		if name == opc.ContentTypesPartName || name == opc.CorePropertiesPartName {
			a.logger.Info("skipping generated part", "part", name.String())
			return nil
		}
		ct, err := packContentType(a.cfg, name)
		if err != nil {
			return err
		}
		part, err := pkg.CreatePart(name, ct)
		if err != nil {
			return err
		}
		return loadFile(part, p)
	})
	if err != nil {
		return nil, err
	}

	core, err := pkg.CoreProperties()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	core.Core.Created = &now
	core.Core.Modified = &now
	core.Core.Identifier = opc.StringProperty(uuid.NewString())
	if po.title != "" {
		core.Core.Title = opc.StringProperty(po.title)
	}
	if po.creator != "" {
		core.Core.Creator = opc.StringProperty(po.creator)
	}
	return pkg, nil
}

// packContentType resolves the content type of a packed file: configured
// types first, then the builtin package types, then the system mime table.
func packContentType(cfg Config, name opc.PartName) (opc.ContentType, error) {
	ext := strings.ToLower(name.Extension())
	if v, ok := cfg.contentTypeFor(ext); ok {
		return opc.ParseContentType(v)
	}
	if v, ok := builtinContentTypes[ext]; ok {
		return opc.ParseContentType(v)
	}
	if ext != "" {
		if mt, _, err := mime.ParseMediaType(mime.TypeByExtension("." + ext)); err == nil {
			return opc.ParseContentType(mt)
		}
	}
	return opc.ParseContentType(opc.ContentTypeOctetStream)
}

func loadFile(part opc.Part, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return part.Load(f)
}
