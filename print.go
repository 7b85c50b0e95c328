package formstate

// PrintSnapshot is a frozen copy of a store's serializable content taken for a
// single print cycle. Scripting callbacks that keep editing the live store
// after the snapshot was taken cannot change what gets printed.
//
// A snapshot has no mutating operations and is never turned back into a
// Store.
type PrintSnapshot struct {
	serializable *Serialized
	hasher       HasherFactory
}

func newPrintSnapshot(content *Serialized, hasher HasherFactory) *PrintSnapshot {
	return &PrintSnapshot{
		serializable: content.Clone(),
		hasher:       hasher,
	}
}

// Serializable returns the frozen content, or nil if the store was empty.
// Each call hands out an independent copy.
func (p *PrintSnapshot) Serializable() *Serialized {
	if p == nil {
		return nil
	}
	return p.serializable.Clone()
}

// Size returns the number of frozen entries.
func (p *PrintSnapshot) Size() int {
	if p == nil {
		return 0
	}
	return p.serializable.Len()
}

// Has reports whether the snapshot holds content for key.
func (p *PrintSnapshot) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.serializable.Get(key)
	return ok
}

// Get returns a copy of the frozen record for key.
func (p *PrintSnapshot) Get(key string) (Record, bool) {
	if p == nil {
		return nil, false
	}
	rec, ok := p.serializable.Get(key)
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Hash fingerprints the frozen content.
func (p *PrintSnapshot) Hash() string {
	if p == nil {
		return ""
	}
	return GetHashWith(p.hasher, p.serializable)
}

// Print always panics: a print snapshot must not be printed again. Reaching
// this is a defect in the caller.
func (p *PrintSnapshot) Print() *PrintSnapshot {
	panic(&StoreError{Op: "print", Err: ErrPrintOnSnapshot})
}
