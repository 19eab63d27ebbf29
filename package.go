package opc

import (
	"fmt"
	"slices"
	"strings"
)

// Package is an OPC package: a set of parts and the content type tables that
// describe them. It is the owning package the ContentTypeManager checks its
// invariants against.
//
// A Package is not safe for concurrent use; one operation (open, mutate,
// save) owns it at a time.
type Package struct {
	cfg          config
	parts        map[PartName]Part
	order        []PartName
	contentTypes *ContentTypeManager
}

// New returns an empty package.
func New(opts ...Option) *Package {
	return newPackage(newConfig(opts))
}

func newPackage(cfg config) *Package {
	return &Package{
		cfg:          cfg,
		parts:        make(map[PartName]Part),
		contentTypes: NewContentTypeManager(),
	}
}

// ContentTypes returns the package's content type manager.
func (p *Package) ContentTypes() *ContentTypeManager { return p.contentTypes }

// PartNames returns the part names in insertion order.
func (p *Package) PartNames() []PartName { return slices.Clone(p.order) }

// HasPart reports whether the package contains a part named name.
func (p *Package) HasPart(name PartName) bool {
	_, ok := p.parts[name]
	return ok
}

// Part returns the part named name.
func (p *Package) Part(name PartName) (Part, bool) {
	part, ok := p.parts[name]
	return part, ok
}

// Parts returns every part in insertion order.
func (p *Package) Parts() []Part {
	out := make([]Part, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.parts[name])
	}
	return out
}

// ContentTypeOf resolves the content type of name through the package's
// content type manager. See ContentTypeManager.ContentType.
func (p *Package) ContentTypeOf(name PartName) (string, bool, error) {
	return p.contentTypes.ContentType(p, name)
}

// CreatePart creates an empty part and registers its content type. Parts
// with the core properties content type are created as *PropertiesPart,
// everything else as *MemoryPart.
func (p *Package) CreatePart(name PartName, ct ContentType) (Part, error) {
	var part Part
	if ct.Equal(coreContentType) {
		part = NewPropertiesPart(name)
	} else {
		part = NewMemoryPart(name, ct)
	}
	if err := p.AddPart(part); err != nil {
		return nil, err
	}
	return part, nil
}

// AddPart adds an existing part to the package and registers its content
// type.
func (p *Package) AddPart(part Part) error {
	if err := p.checkNewPart(part); err != nil {
		return err
	}
	p.insert(part)
	p.contentTypes.AddContentType(part.Name(), part.ContentType())
	p.cfg.logger.Debug("part added", "part", part.Name().String(), "content_type", part.ContentType().String())
	return nil
}

func (p *Package) checkNewPart(part Part) error {
	name := part.Name()
	if name.IsZero() {
		return fmt.Errorf("%w: part has no name", ErrInvalidPartName)
	}
	if strings.EqualFold(name.String(), ContentTypesPartName.String()) {
		return fmt.Errorf("%w: %s is reserved", ErrInvalidPartName, name)
	}
	if part.ContentType().IsZero() {
		return fmt.Errorf("%w: part %s has no content type", ErrInvalidFormat, name)
	}
	if p.HasPart(name) {
		return fmt.Errorf("%w: %s", ErrPartExists, name)
	}
	if part.ContentType().Equal(coreContentType) {
		if existing, ok := p.corePropertiesPart(); ok {
			return fmt.Errorf("%w: core properties already stored in %s", ErrPartExists, existing.Name())
		}
	}
	return nil
}

func (p *Package) insert(part Part) {
	p.parts[part.Name()] = part
	p.order = append(p.order, part.Name())
}

// RemovePart removes the part and unregisters its content type. The part's
// bytes are discarded.
//
// ErrInvariantViolation is returned if removing the content type leaves
// another part without one; the part is removed regardless.
func (p *Package) RemovePart(name PartName) error {
	part, ok := p.parts[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	err := p.contentTypes.RemoveContentType(p, name)
	delete(p.parts, name)
	p.order = slices.DeleteFunc(p.order, func(n PartName) bool { return n == name })
	part.Clear()
	if cerr := part.Close(); cerr != nil && err == nil {
		err = cerr
	}
	p.cfg.logger.Debug("part removed", "part", name.String())
	return err
}

func (p *Package) corePropertiesPart() (*PropertiesPart, bool) {
	for _, name := range p.order {
		if pp, ok := p.parts[name].(*PropertiesPart); ok {
			return pp, true
		}
	}
	return nil, false
}

// CoreProperties returns the package's core properties part, creating it at
// /docProps/core.xml if the package has none.
func (p *Package) CoreProperties() (*PropertiesPart, error) {
	if pp, ok := p.corePropertiesPart(); ok {
		return pp, nil
	}
	pp := NewPropertiesPart(CorePropertiesPartName)
	if err := p.AddPart(pp); err != nil {
		return nil, err
	}
	return pp, nil
}

func (p *Package) marshaller(ct ContentType) PartMarshaller {
	if m, ok := p.cfg.marshallers[ct.Key()]; ok {
		return m
	}
	return ZipPartMarshaller{Logger: p.cfg.logger}
}

func (p *Package) unmarshaller(ct ContentType) PartUnmarshaller {
	if u, ok := p.cfg.unmarshallers[ct.Key()]; ok {
		return u
	}
	return DefaultUnmarshaller{}
}

// Close releases every part.
func (p *Package) Close() error {
	var first error
	for _, name := range p.order {
		if err := p.parts[name].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
