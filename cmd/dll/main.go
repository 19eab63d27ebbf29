// Package main provides C-compatible exports for the opc library.
// Build with: go build -buildmode=c-shared -o opc.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} OpcResult;

// Part for creating packages
typedef struct {
    char* name;
    char* content_type;
    char* data;
    int   data_len;
} CPart;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"unsafe"

	"github.com/logicossoftware/go-opc"
)

func main() {}

// OpcFreeResult frees memory allocated by other Opc functions.
// Must be called to avoid memory leaks.
//
//export OpcFreeResult
func OpcFreeResult(result C.OpcResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// OpcFreeString frees a C string allocated by Go.
//
//export OpcFreeString
func OpcFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func makeResult(data []byte) C.OpcResult {
	var result C.OpcResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

func makeError(err error) C.OpcResult {
	var result C.OpcResult
	result.error = C.CString(err.Error())
	return result
}

func openBytes(data *C.char, dataLen C.int) (*opc.Package, error) {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	return opc.Open(bytes.NewReader(goData), int64(len(goData)))
}

// OpcSniff classifies the first bytes of a file.
// Returns 0 for unknown, 1 for ZIP, 2 for OLE2 and 3 for raw XML.
//
//export OpcSniff
func OpcSniff(data *C.char, dataLen C.int) C.int {
	return C.int(opc.DetectFormat(C.GoBytes(unsafe.Pointer(data), dataLen)))
}

// OpcCreate builds a package from parts.
// Parameters:
//   - parts: array of CPart structs
//   - partCount: number of parts
//   - title: optional core properties title (can be NULL)
//
// Returns OpcResult with the package bytes or error. Call OpcFreeResult when done.
//
//export OpcCreate
func OpcCreate(parts *C.CPart, partCount C.int, title *C.char) C.OpcResult {
	pkg := opc.New()
	if partCount > 0 && parts != nil {
		for _, p := range unsafe.Slice(parts, int(partCount)) {
			name, err := opc.NewPartName(C.GoString(p.name))
			if err != nil {
				return makeError(err)
			}
			ct, err := opc.ParseContentType(C.GoString(p.content_type))
			if err != nil {
				return makeError(err)
			}
			part, err := pkg.CreatePart(name, ct)
			if err != nil {
				return makeError(err)
			}
			if err := part.Load(bytes.NewReader(C.GoBytes(unsafe.Pointer(p.data), p.data_len))); err != nil {
				return makeError(err)
			}
		}
	}

	if title != nil {
		if s := C.GoString(title); s != "" {
			core, err := pkg.CoreProperties()
			if err != nil {
				return makeError(err)
			}
			core.Core.Title = opc.StringProperty(s)
		}
	}

	var buf bytes.Buffer
	if err := pkg.Save(&buf); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}

// OpcListParts opens a package and returns a JSON array describing its parts:
// name, contentType and size.
//
// Returns OpcResult with JSON string or error. Call OpcFreeResult when done.
//
//export OpcListParts
func OpcListParts(data *C.char, dataLen C.int) C.OpcResult {
	pkg, err := openBytes(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	defer pkg.Close()

	parts := make([]map[string]any, 0, len(pkg.PartNames()))
	for _, p := range pkg.Parts() {
		parts = append(parts, map[string]any{
			"name":        p.Name().String(),
			"contentType": p.ContentType().String(),
			"size":        p.Size(),
		})
	}
	jsonBytes, err := json.Marshal(parts)
	if err != nil {
		return makeError(err)
	}
	return makeResult(jsonBytes)
}

// OpcGetPartData retrieves the raw bytes of a part by name.
//
// Returns OpcResult with the part bytes or error. Call OpcFreeResult when done.
//
//export OpcGetPartData
func OpcGetPartData(data *C.char, dataLen C.int, partName *C.char) C.OpcResult {
	pkg, err := openBytes(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	defer pkg.Close()

	name, err := opc.NewPartName(C.GoString(partName))
	if err != nil {
		return makeError(err)
	}
	part, ok := pkg.Part(name)
	if !ok {
		var result C.OpcResult
		result.error = C.CString("part not found: " + name.String())
		return result
	}
	rc, err := part.ReadStream()
	if err != nil {
		return makeError(err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}

// OpcValidate opens a package without returning anything from it.
// Returns NULL on success, or an error message string on failure.
// Call OpcFreeString on the result if non-NULL.
//
//export OpcValidate
func OpcValidate(data *C.char, dataLen C.int) *C.char {
	pkg, err := openBytes(data, dataLen)
	if err != nil {
		return C.CString(err.Error())
	}
	pkg.Close()
	return nil
}

// OpcGetPartCount returns the number of parts in a package.
// Returns -1 on error.
//
//export OpcGetPartCount
func OpcGetPartCount(data *C.char, dataLen C.int) C.int {
	pkg, err := openBytes(data, dataLen)
	if err != nil {
		return -1
	}
	defer pkg.Close()
	return C.int(len(pkg.PartNames()))
}
