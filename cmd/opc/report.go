package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/logicossoftware/go-opc"
)

type report struct {
	Format    string            `json:"format" yaml:"format"`
	Defaults  map[string]string `json:"defaults" yaml:"defaults"`
	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Parts     []partReport      `json:"parts" yaml:"parts"`
	Core      *coreReport       `json:"core,omitempty" yaml:"core,omitempty"`
}

type partReport struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Size        int64  `json:"size" yaml:"size"`
	BLAKE3      string `json:"blake3,omitempty" yaml:"blake3,omitempty"`
}

type coreReport struct {
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	Subject        string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Creator        string `json:"creator,omitempty" yaml:"creator,omitempty"`
	LastModifiedBy string `json:"last_modified_by,omitempty" yaml:"last_modified_by,omitempty"`
	Identifier     string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Revision       string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Created        string `json:"created,omitempty" yaml:"created,omitempty"`
	Modified       string `json:"modified,omitempty" yaml:"modified,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func buildReport(pkg *opc.Package, digests bool) (report, error) {
	r := report{
		Format:    opc.FormatZip.String(),
		Defaults:  pkg.ContentTypes().Defaults(),
		Overrides: make(map[string]string),
	}
	for name, ct := range pkg.ContentTypes().Overrides() {
		r.Overrides[name.String()] = ct
	}
	for _, part := range pkg.Parts() {
		pr := partReport{
			Name:        part.Name().String(),
			ContentType: part.ContentType().String(),
			Size:        part.Size(),
		}
		if pp, ok := part.(*opc.PropertiesPart); ok {
			c := pp.Core
			r.Core = &coreReport{
				Title:          deref(c.Title),
				Subject:        deref(c.Subject),
				Creator:        deref(c.Creator),
				LastModifiedBy: deref(c.LastModifiedBy),
				Identifier:     deref(c.Identifier),
				Revision:       deref(c.Revision),
				Created:        pp.CreatedString(),
				Modified:       pp.ModifiedString(),
			}
		} else if digests {
			sum, err := digestPart(part)
			if err != nil {
				return report{}, err
			}
			pr.BLAKE3 = sum
		}
		r.Parts = append(r.Parts, pr)
	}
	slices.SortFunc(r.Parts, func(a, b partReport) int { return strings.Compare(a.Name, b.Name) })
	return r, nil
}

func digestPart(part opc.Part) (string, error) {
	rc, err := part.ReadStream()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", part.Name(), err)
	}
	defer rc.Close()
	h := blake3.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", fmt.Errorf("digest %s: %w", part.Name(), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("opc: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		return cborEncMode.NewEncoder(w).Encode(r)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or cbor)", format)
	}
}
