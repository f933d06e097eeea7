package container

import (
	"github.com/frozenfs/frozenfs/region"
	"github.com/frozenfs/frozenfs/serial"
)

// Encoder serializes a value to UTF-8 bytes for add_object. JSONEncoder is
// the reference implementation; the contract requires nothing more than
// a byte-encoder function.
type Encoder func(value any) ([]byte, error)

// Decoder deserializes UTF-8 bytes into v for get_object.
type Decoder func(data []byte, v any) error

// StructuredSerializer is the abstract contract over a named tree under
// construction: add sub-structure, add named entry, add named stream.
type StructuredSerializer interface {
	// NewStructure creates a child sub-tree whose full path is
	// this.Path() + name. The child shares the root's output sink.
	NewStructure(name Element) (StructuredSerializer, error)
	// NewEntry creates a leaf serializer; its accumulated frozen bytes
	// are emitted as one container entry when Close is called.
	NewEntry(name Element) (*EntrySerializer, error)
	// NewStream combines NewEntry with a write-side stream sink.
	NewStream(name Element) (*EntryStream, error)
	// AddRegion is shorthand for NewEntry(name) + copy(region) + Close.
	AddRegion(name Element, f region.Frozen) error
	// AddObject encodes value via enc and emits it as a named entry.
	AddObject(name Element, value any, enc Encoder) error
	// Path returns this sub-structure's full path from the root.
	Path() Path
	// Commit finalizes the container. Calling it on a sub-structure
	// finalizes the shared root.
	Commit() error
}

// StructuredReconstituter is the read-side mirror of StructuredSerializer.
type StructuredReconstituter interface {
	// Directory lists this node's immediate children.
	Directory() ([]Entry, error)
	// GetRegion fails with errs.KindNotFound unless name is a leaf here.
	GetRegion(name Element) (region.Frozen, error)
	// GetStructure fails with errs.KindNotFound unless name has children here.
	GetStructure(name Element) (StructuredReconstituter, error)
	// GetRegionRecursive walks path segment by segment to a leaf region.
	GetRegionRecursive(path Path) (region.Frozen, error)
	// GetStructureRecursive walks path segment by segment to a sub-structure,
	// failing with errs.KindNotFound where a segment is missing or has no
	// children.
	GetStructureRecursive(path Path) (StructuredReconstituter, error)
	// GetObject reads name's entry and decodes it via dec into v.
	GetObject(name Element, dec Decoder, v any) error
	// GetStream wraps name's entry in a seekable read-only byte source.
	GetStream(name Element) (*serial.Source, error)
}

// Entry is one directory listing row: a name plus, optionally, a lazy
// region getter (if the name is a leaf here) and a lazy sub-structure
// getter (if the name has children here). Both may be non-nil.
type Entry struct {
	Name      Element
	Region    func() (region.Frozen, error)
	Structure func() (StructuredReconstituter, error)
}
