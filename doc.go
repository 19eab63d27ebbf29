// Package opc implements the container layer of the Open Packaging
// Conventions (OPC, ECMA-376 Part 2) used by Office Open XML documents.
//
// An OPC package is a ZIP archive whose members ("parts") are named, typed
// binary resources. Every part's content type is declared in the reserved
// [Content_Types].xml entry, either through an extension-keyed Default or a
// part-name-keyed Override. This package maintains those two tables, keeps
// them consistent with the set of parts in a package, and moves part bytes
// into and out of the physical archive.
//
// # Package Layout
//
// The building blocks, leaf to root:
//   - [ContentType]: a grammar-validated RFC 2616 media type
//   - [PartName]: a normalized absolute part name
//   - [ContentTypeManager]: the Default/Override tables and the OPC rules
//     for assigning (M2.8) and resolving (M2.9) content types
//   - [Part], [MemoryPart], [CompressedPart], [PropertiesPart]: part storage
//   - [PartMarshaller], [PartUnmarshaller]: per-content-type strategies that
//     write parts into, and read them out of, the archive
//   - [Package]: the owning package that ties it all together
//
// # Basic Usage
//
// To create a package and write it:
//
//	pkg := opc.New()
//	name := opc.MustPartName("/word/document.xml")
//	part, _ := pkg.CreatePart(name, opc.MustParseContentType("application/xml"))
//	w, _ := part.WriteStream()
//	_, _ = w.Write([]byte("<document/>"))
//	_ = w.Close()
//	f, _ := os.Create("out.docx")
//	defer f.Close()
//	err := pkg.Save(f)
//
// To open one:
//
//	pkg, err := opc.OpenFile("in.docx")
//
// # Format Detection
//
// Opening a package first sniffs the input header. Legacy OLE2 compound
// files and raw XML are rejected with [ErrOLE2Format] and [ErrRawXMLFormat]
// (both match [ErrUnsupportedFormat]) before any ZIP parsing is attempted.
//
// # Security Considerations
//
// Opening a package enforces configurable [Limits] on the number of parts and
// on uncompressed sizes to guard against decompression bombs.
package opc
