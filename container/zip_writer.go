package container

import (
	"archive/zip"
	"io"
	"sync"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/region"
	"github.com/frozenfs/frozenfs/serial"
)

const (
	entryMode      = 0o440
	entryBlockSize = 64 * 1024
)

// zipRoot owns the archive writer and output stream; every ZipSerializer
// in a tree (root and every sub-structure) holds a pointer to the same
// zipRoot, so emission of a full entry is serialized by its lock.
type zipRoot struct {
	mu        sync.Mutex
	zw        *zip.Writer
	seenPaths map[string]bool
	committed bool
}

func (r *zipRoot) writeEntry(path Path, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := path.EntryName()
	if r.seenPaths[name] {
		return errs.New(errs.KindInvalidPath, "duplicate container entry path: "+name, nil)
	}

	hdr := &zip.FileHeader{Name: name, Method: zip.Store}
	hdr.SetMode(entryMode)
	w, err := r.zw.CreateHeader(hdr)
	if err != nil {
		return errs.New(errs.KindIO, "write container entry header", err)
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return errs.New(errs.KindIO, "write container entry payload", err)
		}
	}
	r.seenPaths[name] = true
	return nil
}

func (r *zipRoot) commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.committed {
		return nil
	}
	r.committed = true
	if err := r.zw.Close(); err != nil {
		return errs.New(errs.KindIO, "close container archive", err)
	}
	return nil
}

// ZipSerializer implements StructuredSerializer by emitting a ZIP archive
// whose entries are stored (uncompressed) so every payload is a
// contiguous byte span addressable by offset and length. Sub-structures
// hold a back-reference to the root and never create physical directory
// entries; they only prefix the path of their descendants.
type ZipSerializer struct {
	root *zipRoot
	path Path
}

// NewZipSerializer returns the root StructuredSerializer writing to w.
func NewZipSerializer(w io.Writer) *ZipSerializer {
	return &ZipSerializer{root: &zipRoot{zw: zip.NewWriter(w), seenPaths: make(map[string]bool)}}
}

// Path returns this sub-structure's full path from the root.
func (z *ZipSerializer) Path() Path { return z.path }

// NewStructure creates a child sub-tree sharing the root's archive.
func (z *ZipSerializer) NewStructure(name Element) (StructuredSerializer, error) {
	return &ZipSerializer{root: z.root, path: z.path.Child(name)}, nil
}

// NewEntry creates a leaf serializer at this.path + name.
func (z *ZipSerializer) NewEntry(name Element) (*EntrySerializer, error) {
	return &EntrySerializer{mem: serial.NewMemory(), root: z.root, path: z.path.Child(name)}, nil
}

// NewStream combines NewEntry with a write-side stream sink.
func (z *ZipSerializer) NewStream(name Element) (*EntryStream, error) {
	es, err := z.NewEntry(name)
	if err != nil {
		return nil, err
	}
	return &EntryStream{Sink: serial.NewSink(es), entry: es}, nil
}

// AddRegion is shorthand for NewEntry(name) + copy(region) + Close.
func (z *ZipSerializer) AddRegion(name Element, f region.Frozen) error {
	es, err := z.NewEntry(name)
	if err != nil {
		return err
	}
	if _, err := es.Copy(f); err != nil {
		return err
	}
	return es.Close()
}

// AddObject encodes value via enc and emits it as a named entry.
func (z *ZipSerializer) AddObject(name Element, value any, enc Encoder) error {
	data, err := enc(value)
	if err != nil {
		return errs.New(errs.KindIO, "encode object for container entry", err)
	}
	es, err := z.NewEntry(name)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		m, err := es.AllocateWritable(len(data), 1)
		if err != nil {
			return err
		}
		copy(m.Bytes(), data)
		if _, err := m.Freeze(); err != nil {
			return err
		}
	}
	return es.Close()
}

// Commit finalizes the container. Safe to call on any sub-structure; it
// always closes the shared root archive exactly once.
func (z *ZipSerializer) Commit() error {
	return z.root.commit()
}
