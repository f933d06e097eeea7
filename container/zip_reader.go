package container

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/internal/buf"
	"github.com/frozenfs/frozenfs/region"
	"github.com/frozenfs/frozenfs/serial"
)

// node is one position in the in-memory tree built from a ZIP central
// directory: an ordered map from child name to child node, plus an
// optional leaf region. Adapted from a registry-hive tree model to a
// generic byte-leaf-and-children dual-binding node.
type node struct {
	children map[Element]*node
	order    []Element
	region   region.Frozen
	hasLeaf  bool
}

func newNode() *node {
	return &node{children: make(map[Element]*node)}
}

func (n *node) childOrCreate(name Element) *node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNode()
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

// ZipReconstituter implements StructuredReconstituter by parsing a ZIP
// container's central directory once at construction and indexing
// entries into an in-memory tree. Lookups are ordered-map queries; they
// never re-read the archive.
type ZipReconstituter struct {
	node *node
}

// NewZipReconstituter parses container (the full bytes of a ZIP file,
// typically produced by MapFile) and builds the reconstituter's tree.
// Every non-empty leaf region shares container's mapping handle; a
// zero-length leaf is region.Empty(), with no handle.
func NewZipReconstituter(container region.Frozen) (*ZipReconstituter, error) {
	data := container.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errs.New(errs.KindUnsupportedContainer, "parse container central directory", err)
	}

	root := newNode()
	for _, f := range zr.File {
		if f.Method != zip.Store {
			return nil, errs.New(errs.KindUnsupportedContainer, "container entry is compressed: "+f.Name, nil)
		}

		var leaf region.Frozen
		length := int64(f.UncompressedSize64)
		if length == 0 {
			leaf = region.Empty()
		} else {
			off, err := f.DataOffset()
			if err != nil {
				return nil, errs.New(errs.KindUnsupportedContainer, "locate data for entry "+f.Name, err)
			}
			if !buf.Has(data, int(off), int(length)) {
				return nil, errs.New(errs.KindUnsupportedContainer, "entry data outside mapped container: "+f.Name, nil)
			}
			sub, err := container.Slice(int(off), int(off+length))
			if err != nil {
				return nil, err
			}
			leaf = sub
		}

		cur := root
		for _, seg := range strings.Split(f.Name, "/") {
			el, err := NewElement(seg)
			if err != nil {
				return nil, err
			}
			cur = cur.childOrCreate(el)
		}
		cur.region = leaf
		cur.hasLeaf = true
	}
	return &ZipReconstituter{node: root}, nil
}

// Directory lists this node's immediate children in the order their
// first path segment was first encountered while parsing the directory.
func (z *ZipReconstituter) Directory() ([]Entry, error) {
	entries := make([]Entry, 0, len(z.node.order))
	for _, name := range z.node.order {
		child := z.node.children[name]
		e := Entry{Name: name}
		if child.hasLeaf {
			r := child.region
			e.Region = func() (region.Frozen, error) { return r, nil }
		}
		if len(child.children) > 0 {
			c := child
			e.Structure = func() (StructuredReconstituter, error) { return &ZipReconstituter{node: c}, nil }
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetRegion fails with errs.KindNotFound unless name is a leaf here.
func (z *ZipReconstituter) GetRegion(name Element) (region.Frozen, error) {
	child, ok := z.node.children[name]
	if !ok || !child.hasLeaf {
		return region.Frozen{}, errs.ErrNotFound
	}
	return child.region, nil
}

// GetStructure fails with errs.KindNotFound unless name has children here.
func (z *ZipReconstituter) GetStructure(name Element) (StructuredReconstituter, error) {
	child, ok := z.node.children[name]
	if !ok || len(child.children) == 0 {
		return nil, errs.ErrNotFound
	}
	return &ZipReconstituter{node: child}, nil
}

// GetRegionRecursive walks path segment by segment to a leaf region.
func (z *ZipReconstituter) GetRegionRecursive(path Path) (region.Frozen, error) {
	if len(path) == 0 {
		return region.Frozen{}, errs.ErrNotFound
	}
	cur := z.node
	for i, el := range path {
		child, ok := cur.children[el]
		if !ok {
			return region.Frozen{}, errs.ErrNotFound
		}
		if i == len(path)-1 {
			if !child.hasLeaf {
				return region.Frozen{}, errs.ErrNotFound
			}
			return child.region, nil
		}
		cur = child
	}
	return region.Frozen{}, errs.ErrNotFound
}

// GetStructureRecursive walks path segment by segment to a sub-structure,
// failing with errs.KindNotFound where a segment is missing or has no
// children.
func (z *ZipReconstituter) GetStructureRecursive(path Path) (StructuredReconstituter, error) {
	cur := z.node
	for _, el := range path {
		child, ok := cur.children[el]
		if !ok || len(child.children) == 0 {
			return nil, errs.ErrNotFound
		}
		cur = child
	}
	return &ZipReconstituter{node: cur}, nil
}

// GetObject reads name's entry and decodes it via dec into v.
func (z *ZipReconstituter) GetObject(name Element, dec Decoder, v any) error {
	r, err := z.GetRegion(name)
	if err != nil {
		return err
	}
	return dec(r.Bytes(), v)
}

// GetStream wraps name's entry in a seekable read-only byte source.
func (z *ZipReconstituter) GetStream(name Element) (*serial.Source, error) {
	r, err := z.GetRegion(name)
	if err != nil {
		return nil, err
	}
	return serial.NewSource(r), nil
}
