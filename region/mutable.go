package region

// Freezer is implemented by a Serializer: it owns the bytes behind a
// Mutable region and knows how to transition them into a Frozen one.
type Freezer interface {
	Freeze(m *Mutable) (Frozen, error)
}

// Mutable is a writable byte region plus the handle and owner that
// produced it: a (pointer, length, handle, owner) quadruple. It is
// single-writer: at most one goroutine writes it, and once Freeze is
// called the region must not be written again.
type Mutable struct {
	data   []byte
	h      *Handle
	owner  Freezer
	frozen bool
}

// NewMutable constructs a Mutable region over data, owned by owner.
func NewMutable(data []byte, h *Handle, owner Freezer) *Mutable {
	return &Mutable{data: data, h: h, owner: owner}
}

// Bytes returns the writable backing slice. Returns nil once the region
// has been frozen; callers that write after freezing are violating the
// single-writer discipline regardless.
func (m *Mutable) Bytes() []byte {
	if m.frozen {
		return nil
	}
	return m.data
}

// Len returns the region's length in bytes.
func (m *Mutable) Len() int { return len(m.data) }

// Handle returns the region's ownership handle.
func (m *Mutable) Handle() *Handle { return m.h }

// Freeze delegates to the owning Serializer, which returns a Frozen
// region sharing this Mutable's handle and bytes. Idempotent: a second
// call returns the same outcome as the first without re-invoking owner.
func (m *Mutable) Freeze() (Frozen, error) {
	if m.frozen {
		return NewFrozen(m.data, m.h), nil
	}
	f, err := m.owner.Freeze(m)
	if err != nil {
		return Frozen{}, err
	}
	m.frozen = true
	return f, nil
}
