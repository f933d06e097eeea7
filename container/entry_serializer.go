package container

import (
	"github.com/frozenfs/frozenfs/region"
	"github.com/frozenfs/frozenfs/serial"
)

// EntrySerializer is the leaf Serializer returned by NewEntry: a
// heap-backed Serializer whose every frozen piece is accumulated in
// emission order. Close concatenates the accumulated bytes and emits
// them as a single container entry at the serializer's path. Go has no
// destructor, so unlike the "finalized (closed/dropped)" wording of the
// abstract contract, Close must be called explicitly.
type EntrySerializer struct {
	mem    *serial.Memory
	root   *zipRoot
	path   Path
	pieces []region.Frozen
	closed bool
}

// AllocateWritable delegates to an internal heap-backed Serializer,
// rewrapping the result so Freeze routes back through this type's own
// accumulation logic.
func (es *EntrySerializer) AllocateWritable(bytes, alignment int) (*region.Mutable, error) {
	m, err := es.mem.AllocateWritable(bytes, alignment)
	if err != nil {
		return nil, err
	}
	return region.NewMutable(m.Bytes(), m.Handle(), es), nil
}

// Freeze wraps m and records the resulting region in emission order.
func (es *EntrySerializer) Freeze(m *region.Mutable) (region.Frozen, error) {
	f, err := es.mem.Freeze(m)
	if err != nil {
		return region.Frozen{}, err
	}
	es.pieces = append(es.pieces, f)
	return f, nil
}

// Commit is a no-op; the entry's bytes are emitted at Close, not Commit.
func (es *EntrySerializer) Commit() error { return nil }

// Copy rehomes f into this entry, accumulating it like any other freeze.
func (es *EntrySerializer) Copy(f region.Frozen) (region.Frozen, error) {
	if f.Len() == 0 {
		es.pieces = append(es.pieces, region.Empty())
		return region.Empty(), nil
	}
	m, err := es.AllocateWritable(f.Len(), 1)
	if err != nil {
		return region.Frozen{}, err
	}
	copy(m.Bytes(), f.Bytes())
	return m.Freeze()
}

// OpenStream returns a write-side stream sink bound to this entry.
func (es *EntrySerializer) OpenStream() *serial.Sink {
	return serial.NewSink(es)
}

// Path returns the full path this entry will be emitted at.
func (es *EntrySerializer) Path() Path { return es.path }

// Close concatenates the accumulated frozen pieces and emits them as one
// container entry. Idempotent.
func (es *EntrySerializer) Close() error {
	if es.closed {
		return nil
	}
	es.closed = true
	total := 0
	for _, p := range es.pieces {
		total += p.Len()
	}
	buf := make([]byte, 0, total)
	for _, p := range es.pieces {
		buf = append(buf, p.Bytes()...)
	}
	return es.root.writeEntry(es.path, buf)
}

// EntryStream combines a write-side stream sink with the entry
// serializer it feeds: closing it both flushes the sink's buffered bytes
// into the entry and emits the entry into the container.
type EntryStream struct {
	*serial.Sink
	entry *EntrySerializer
}

// Close flushes the sink and then finalizes the underlying entry.
func (s *EntryStream) Close() error {
	if err := s.Sink.Close(); err != nil {
		return err
	}
	return s.entry.Close()
}
