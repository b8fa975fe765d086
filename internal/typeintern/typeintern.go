// Package typeintern interns content-type strings into small integer ids
// assigned in insertion order, the way the Writer needs for Bin items'
// content_type_ids.
//
// Names are looked up in a map keyed by their xxhash, backed by an
// ordered slice for the assigned-id -> name direction the header
// serializes.
package typeintern

import "github.com/cespare/xxhash/v2"

// Table interns content-type strings in first-seen order, capping at 256
// entries (the format's u8 content_type_id width).
type Table struct {
	ids   map[uint64]uint8
	names []string
}

// New returns an empty Table.
func New() *Table {
	return &Table{ids: make(map[uint64]uint8)}
}

// Intern returns name's assigned id, allocating a new one in insertion
// order on first use.
func (t *Table) Intern(name string) uint8 {
	h := xxhash.Sum64String(name)
	if id, ok := t.ids[h]; ok {
		return id
	}
	id := uint8(len(t.names))
	t.ids[h] = id
	t.names = append(t.names, name)
	return id
}

// Names returns the interned content types in assigned-id order.
func (t *Table) Names() []string { return t.names }

// Len returns the number of distinct content types interned so far.
func (t *Table) Len() int { return len(t.names) }
