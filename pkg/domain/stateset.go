package domain

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// StateSet is a set of NFA states identified by their interned index.
// Sets built for the same NFA share a capacity, so equality is purely structural.
type StateSet struct {
	bits *bitset.BitSet
}

// NewStateSet creates a set with room for size states, holding the given members.
func NewStateSet(size int, members ...int) StateSet {
	s := StateSet{bits: bitset.New(uint(size))}
	for _, m := range members {
		s.bits.Set(uint(m))
	}
	return s
}

// Add inserts i and reports whether it was not already present.
func (s StateSet) Add(i int) bool {
	if s.bits.Test(uint(i)) {
		return false
	}
	s.bits.Set(uint(i))
	return true
}

// Has reports whether i is a member.
func (s StateSet) Has(i int) bool {
	return s.bits != nil && s.bits.Test(uint(i))
}

// Len returns the number of members.
func (s StateSet) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether the set has no members.
func (s StateSet) IsEmpty() bool {
	return s.Len() == 0
}

// Indices returns the members in ascending index order.
func (s StateSet) Indices() []int {
	out := make([]int, 0, s.Len())
	if s.bits == nil {
		return out
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Equal reports whether both sets have exactly the same members.
func (s StateSet) Equal(o StateSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, i := range s.Indices() {
		if !o.Has(i) {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every member of s is in o.
func (s StateSet) IsSubsetOf(o StateSet) bool {
	for _, i := range s.Indices() {
		if !o.Has(i) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and o share at least one member.
func (s StateSet) Intersects(o StateSet) bool {
	if s.bits == nil || o.bits == nil {
		return false
	}
	return s.bits.IntersectionCardinality(o.bits) > 0
}

// Clone returns an independent copy.
func (s StateSet) Clone() StateSet {
	if s.bits == nil {
		return StateSet{bits: bitset.New(0)}
	}
	return StateSet{bits: s.bits.Clone()}
}

// Fingerprint returns a canonical encoding of the member indices.
// Two sets have the same fingerprint iff they are Equal.
func (s StateSet) Fingerprint() string {
	var sb strings.Builder
	for n, i := range s.Indices() {
		if n > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}
