/*
Package coverage implements a compact set of Unicode code-points, used to
describe which characters a font family is able to render.

The representation follows the fontconfig charset idea: the set is a sorted
slice of 256-codepoint pages, where each page is a small fixed-size bitmap.
Consecutive code-points, which is what font coverage overwhelmingly consists
of, therefore share storage.

Besides plain membership tests, the set answers the two queries a fallback
engine needs when building its range index: the exclusive upper bound of the
set ([Set.Length]) and the first member at or after a given code-point
([Set.NextSetBit]).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package coverage

import (
	"math"
	"math/bits"
)

// NoCharacter is returned by Set.NextSetBit when no member exists at or after
// the given code-point. It compares greater than every valid Unicode scalar.
const NoCharacter rune = math.MaxInt32

// pageBits is the bitmap for one page of 256 consecutive code-points.
// The low byte of a code-point selects a bit: the 3 high bits of that byte
// index into the array, the 5 low bits select the bit within the uint32.
type pageBits [8]uint32

// page couples a bitmap with its page number, i.e. the code-point shifted
// right by 8 bits.
type page struct {
	ref  uint16
	bits pageBits
}

// A Set is a compact, mutable set of Unicode code-points.
//
// The zero value is an empty set ready for use. Sets are not safe for
// concurrent mutation; font families freeze their coverage at load time.
type Set struct {
	pages []page // sorted by ref, no duplicates
}

// NewSet creates a set containing the given code-points.
func NewSet(runes ...rune) *Set {
	s := &Set{}
	for _, r := range runes {
		s.Add(r)
	}
	return s
}

// FromRanges creates a set from inclusive code-point ranges.
func FromRanges(ranges ...[2]rune) *Set {
	s := &Set{}
	for _, ra := range ranges {
		s.AddRange(ra[0], ra[1])
	}
	return s
}

// findPage performs a binary search for the page with the given number.
// It returns the index of the page if present, otherwise the negative of
// (insertion position + 1).
func (s *Set) findPage(ref uint16) int {
	low, high := 0, len(s.pages)-1
	for low <= high {
		mid := (low + high) >> 1
		switch {
		case s.pages[mid].ref == ref:
			return mid
		case s.pages[mid].ref < ref:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return -(low + 1)
}

// ensurePage locates the page with the given number, inserting an empty one
// at the correct position if necessary.
func (s *Set) ensurePage(ref uint16) *pageBits {
	pos := s.findPage(ref)
	if pos < 0 {
		pos = -pos - 1
		s.pages = append(s.pages, page{})
		copy(s.pages[pos+1:], s.pages[pos:])
		s.pages[pos] = page{ref: ref}
	}
	return &s.pages[pos].bits
}

// Add puts code-point r into the set.
func (s *Set) Add(r rune) {
	if r < 0 || r > 0x10FFFF {
		return
	}
	leaf := s.ensurePage(uint16(r >> 8))
	leaf[(r&0xff)>>5] |= 1 << (r & 0x1f)
}

// AddRange puts all code-points from lo to hi (inclusive) into the set.
func (s *Set) AddRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		s.Add(r)
	}
}

// Contains reports whether r is a member of the set.
func (s *Set) Contains(r rune) bool {
	if s == nil || r < 0 {
		return false
	}
	pos := s.findPage(uint16(r >> 8))
	if pos < 0 {
		return false
	}
	leaf := &s.pages[pos].bits
	return leaf[(r&0xff)>>5]&(1<<(r&0x1f)) != 0
}

// Count returns the number of code-points in the set.
func (s *Set) Count() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, p := range s.pages {
		for _, w := range p.bits {
			n += bits.OnesCount32(w)
		}
	}
	return n
}

// Length returns the exclusive upper bound of the set, i.e. one plus the
// highest member, or 0 for an empty set.
func (s *Set) Length() rune {
	if s == nil {
		return 0
	}
	for i := len(s.pages) - 1; i >= 0; i-- {
		p := &s.pages[i]
		for j := len(p.bits) - 1; j >= 0; j-- {
			if p.bits[j] == 0 {
				continue
			}
			high := 31 - bits.LeadingZeros32(p.bits[j])
			return (rune(p.ref)<<8 | rune(j)<<5 | rune(high)) + 1
		}
	}
	return 0
}

// NextSetBit returns the smallest member of the set that is greater than or
// equal to from, or NoCharacter if there is none.
func (s *Set) NextSetBit(from rune) rune {
	if s == nil {
		return NoCharacter
	}
	if from < 0 {
		from = 0
	}
	pos := s.findPage(uint16(from >> 8))
	bit := from & 0xff
	if pos < 0 {
		pos = -pos - 1
		bit = 0
	}
	for ; pos < len(s.pages); pos++ {
		p := &s.pages[pos]
		for j := bit >> 5; j < 8; j++ {
			w := p.bits[j]
			if j == bit>>5 {
				w &^= (1 << (bit & 0x1f)) - 1 // mask off bits below `from`
			}
			if w != 0 {
				low := bits.TrailingZeros32(w)
				return rune(p.ref)<<8 | j<<5 | rune(low)
			}
		}
		bit = 0
	}
	return NoCharacter
}
