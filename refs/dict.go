package refs

import (
	"sort"

	"github.com/arloliu/goslob/collation"
)

// Sequence is anything KeyedDict can binary-search: an ordered, indexable
// collection of Refs. Both RefList (the reader's on-disk ref table,
// already sorted at IDENTICAL strength by the writer) and a plain []Ref
// (used internally during alias resolution) implement it.
type Sequence interface {
	Len() int
	Get(i int) (Ref, error)
}

// sliceSequence adapts a []Ref to Sequence.
type sliceSequence []Ref

func (s sliceSequence) Len() int               { return len(s) }
func (s sliceSequence) Get(i int) (Ref, error) { return s[i], nil }

// SliceSequence wraps refs as a Sequence, for building a KeyedDict over an
// in-memory slice (e.g. during alias resolution).
func SliceSequence(refs []Ref) Sequence { return sliceSequence(refs) }

// KeyedDict is a collation dictionary: given refs persisted in collated
// order, it binary-searches for a key's sort key and returns every
// adjacent ref whose collated key matches exactly (supporting homographs:
// multiple refs under equal collated keys).
type KeyedDict struct {
	seq  Sequence
	coll *collation.Collator
}

// NewKeyedDict builds a KeyedDict over seq (assumed sorted in seq's
// in-order traversal by coll's sort key) at the given strength/maxLength.
func NewKeyedDict(seq Sequence, strength collation.Strength, maxLength int) *KeyedDict {
	return &KeyedDict{seq: seq, coll: collation.Get(strength, maxLength)}
}

// Lookup returns every ref whose collated key exactly matches key, in
// on-disk order. The whole matching run is collected into the returned
// slice before Lookup returns; it is not a lazy iterator. The binary
// search decodes O(log n) refs, and the scan then decodes the matched run
// plus the first non-matching ref after it.
func (d *KeyedDict) Lookup(key string) ([]Ref, error) {
	target := d.coll.SortKey(key)
	n := d.seq.Len()

	// bisect_left: smallest i such that sortKey(seq[i].Key) >= target.
	var outerErr error
	i := sort.Search(n, func(i int) bool {
		ref, err := d.seq.Get(i)
		if err != nil {
			outerErr = err
			return true
		}
		return string(d.coll.SortKey(ref.Key)) >= string(target)
	})
	if outerErr != nil {
		return nil, outerErr
	}
	if i >= n {
		return nil, nil
	}

	var matches []Ref
	for ; i < n; i++ {
		ref, err := d.seq.Get(i)
		if err != nil {
			return matches, err
		}
		if string(d.coll.SortKey(ref.Key)) != string(target) {
			break
		}
		matches = append(matches, ref)
	}
	return matches, nil
}

// Contains reports whether key matches at least one ref.
func (d *KeyedDict) Contains(key string) (bool, error) {
	matches, err := d.Lookup(key)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// First returns the first matching ref, and whether one was found.
func (d *KeyedDict) First(key string) (Ref, bool, error) {
	matches, err := d.Lookup(key)
	if err != nil || len(matches) == 0 {
		return Ref{}, false, err
	}
	return matches[0], true, nil
}
