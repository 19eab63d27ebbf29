package opc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

// PartSet is the view of the owning package that the content type manager
// needs for its consistency checks. It is passed explicitly to the
// operations that need it; the manager keeps no reference to its package.
type PartSet interface {
	// PartNames returns the names of all parts currently in the package.
	PartNames() []PartName
	// HasPart reports whether the package contains a part named name.
	HasPart(name PartName) bool
}

// ContainerWriter performs the physical write of one named entry into a
// container. ZipContainer is the implementation used by default.
//
// WriteEntry wraps a raw output in a new archive holding just the entry.
// AppendEntry adds the entry to an archive that is already open and leaves it
// open.
type ContainerWriter interface {
	WriteEntry(ctx context.Context, dst io.Writer, name string, src io.Reader) error
	AppendEntry(ctx context.Context, zw *zip.Writer, name string, src io.Reader) error
}

// ContentTypeManager holds the two content type tables of a package: Default
// entries keyed by lowercased extension and Override entries keyed by part
// name. Values are full content type renderings.
//
// A ContentTypeManager is not safe for concurrent use.
type ContentTypeManager struct {
	defaults  map[string]string
	overrides map[PartName]string
	container ContainerWriter
}

// NewContentTypeManager returns an empty manager that saves through
// ZipContainer.
func NewContentTypeManager() *ContentTypeManager {
	return &ContentTypeManager{
		defaults:  make(map[string]string),
		overrides: make(map[PartName]string),
		container: ZipContainer{},
	}
}

// SetContainerWriter replaces the writer used by Save and SaveContext.
func (m *ContentTypeManager) SetContainerWriter(w ContainerWriter) {
	m.container = w
}

type addDecision int

const (
	addNothing addDecision = iota
	addOverride
	addDefault
)

func (d addDecision) String() string {
	switch d {
	case addOverride:
		return "override"
	case addDefault:
		return "default"
	default:
		return "nothing"
	}
}

// decideAdd encodes the assignment procedure of OPC rule M2.8. The branch
// order is normative:
//  1. no extension, or a Default exists for the extension while no Default
//     anywhere carries ct: add an Override;
//  2. no Default for the extension: add a Default;
//  3. otherwise a suitable Default already exists: do nothing.
func decideAdd(ext string, defaults map[string]string, ct string) addDecision {
	_, hasDefault := defaults[ext]
	if ext == "" || (hasDefault && !containsValue(defaults, ct)) {
		return addOverride
	}
	if !hasDefault {
		return addDefault
	}
	return addNothing
}

// containsValue compares case-insensitively, as ContentType.Equal does.
func containsValue[K comparable](m map[K]string, v string) bool {
	for _, have := range m {
		if strings.EqualFold(have, v) {
			return true
		}
	}
	return false
}

func extensionKey(name PartName) string {
	return strings.ToLower(name.Extension())
}

// AddContentType registers ct for the part name, creating either a Default
// or an Override entry as OPC rule M2.8 requires.
func (m *ContentTypeManager) AddContentType(name PartName, ct ContentType) {
	ext := extensionKey(name)
	value := ct.String()
	switch decideAdd(ext, m.defaults, value) {
	case addOverride:
		m.overrides[name] = value
	case addDefault:
		m.defaults[ext] = value
	}
}

// RemoveContentType unregisters the content type of the part name.
//
// An Override for the part is removed if present. Otherwise the Default for
// the part's extension is removed when no other part of pkg shares that
// extension. Afterwards every other part of pkg must still resolve to a
// content type (OPC rule M2.4); if one does not, ErrInvariantViolation is
// returned. pkg may be nil, in which case no part is considered.
func (m *ContentTypeManager) RemoveContentType(pkg PartSet, name PartName) error {
	if _, ok := m.overrides[name]; ok {
		delete(m.overrides, name)
		return nil
	}

	ext := extensionKey(name)
	var others []PartName
	if pkg != nil {
		for _, other := range pkg.PartNames() {
			if other != name {
				others = append(others, other)
			}
		}
	}
	shared := false
	for _, other := range others {
		if extensionKey(other) == ext {
			shared = true
			break
		}
	}
	if !shared {
		delete(m.defaults, ext)
	}

	for _, other := range others {
		if _, ok := m.lookup(other); !ok {
			return fmt.Errorf("%w: M2.4: part %s has no content type after removing %s", ErrInvariantViolation, other, name)
		}
	}
	return nil
}

// IsContentTypeRegistered reports whether a content type equal to ct, ignoring
// case, is a value of either table.
func (m *ContentTypeManager) IsContentTypeRegistered(ct string) bool {
	return containsValue(m.defaults, ct) || containsValue(m.overrides, ct)
}

// ContentType resolves the content type of the part name following OPC rule
// M2.9: an Override wins, then the Default for the lowercased extension.
//
// An unresolved name is reported with ok == false and a nil error, unless pkg
// contains that part: a part without a content type means the package is
// corrupt and ErrInvariantViolation is returned.
func (m *ContentTypeManager) ContentType(pkg PartSet, name PartName) (string, bool, error) {
	if ct, ok := m.lookup(name); ok {
		return ct, true, nil
	}
	if pkg != nil && pkg.HasPart(name) {
		return "", false, fmt.Errorf("%w: M2.4: part %s is in the package but has no content type", ErrInvariantViolation, name)
	}
	return "", false, nil
}

func (m *ContentTypeManager) lookup(name PartName) (string, bool) {
	if ct, ok := m.overrides[name]; ok {
		return ct, true
	}
	ct, ok := m.defaults[extensionKey(name)]
	return ct, ok
}

// ClearAll empties both tables.
func (m *ContentTypeManager) ClearAll() {
	clear(m.defaults)
	clear(m.overrides)
}

// ClearOverrides empties the Override table.
func (m *ContentTypeManager) ClearOverrides() {
	clear(m.overrides)
}

// Defaults returns a copy of the Default table.
func (m *ContentTypeManager) Defaults() map[string]string {
	out := make(map[string]string, len(m.defaults))
	for k, v := range m.defaults {
		out[k] = v
	}
	return out
}

// Overrides returns a copy of the Override table.
func (m *ContentTypeManager) Overrides() map[PartName]string {
	out := make(map[PartName]string, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out
}

// Save writes the content types document to dst as a new archive holding the
// [Content_Types].xml entry.
func (m *ContentTypeManager) Save(dst io.Writer) error {
	return m.SaveContext(context.Background(), dst)
}

// SaveContext is like Save but stops between chunks once ctx is done. On
// cancellation the content of dst is unspecified and should be discarded.
func (m *ContentTypeManager) SaveContext(ctx context.Context, dst io.Writer) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return m.container.WriteEntry(ctx, dst, ContentTypesEntryName, bytes.NewReader(data))
}

// SaveTo appends the [Content_Types].xml entry to the open archive zw. The
// archive is left open for the part entries that follow.
func (m *ContentTypeManager) SaveTo(ctx context.Context, zw *zip.Writer) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return m.container.AppendEntry(ctx, zw, ContentTypesEntryName, bytes.NewReader(data))
}
