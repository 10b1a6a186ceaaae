package fontfallback

import (
	"sync/atomic"

	"github.com/npillmayer/fontfallback/family"
)

// Code-point pages for the range index. A page spans 256 code-points.
const (
	logCharsPerPage = 8
	charsPerPage    = 1 << logCharsPerPage
	pageMask        = charsPerPage - 1
)

// pageRange is an exclusive index interval into Collection.familyVec.
type pageRange struct {
	start, end int
}

// A Collection is a prioritized, immutable set of font families plus the
// range index that makes per-character family lookup cheap.
//
// Collections are safe for concurrent use after construction; the only
// mutating operation is [Collection.PurgeFontCaches], which runs under the
// shared family guard.
type Collection struct {
	id        uint32
	maxChar   rune             // exclusive upper bound over all family coverages
	families  []*family.Family // priority order; families[0] is the default
	familyVec []*family.Family // per-page candidate slices, see ranges
	ranges    []pageRange      // one entry per page, indexing familyVec
	guard     *family.Guard
}

// nextCollectionID feeds Collection ids. Ids identify collections to
// external caches; they are never used for ordering.
var nextCollectionID uint32

// CollectionOption configures a collection under construction.
type CollectionOption func(*Collection)

// WithGuard substitutes the guard protecting shared family state. The
// default is family.SharedGuard; tests running single-threaded may inject
// their own to keep lock traffic out of the picture.
func WithGuard(g *family.Guard) CollectionOption {
	return func(c *Collection) { c.guard = g }
}

// New builds a collection from a prioritized family list. Families without
// a usable default-style typeface or without coverage are dropped; if no
// family survives, New fails; a collection must have at least one usable
// family. Input order is preserved and determines fallback priority.
func New(families []*family.Family, opts ...CollectionOption) (*Collection, error) {
	c := &Collection{
		id:    atomic.AddUint32(&nextCollectionID, 1) - 1,
		guard: family.SharedGuard,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.guard.Lock()
	defer c.guard.Unlock()

	var firstUncovered []rune // next uncovered-by-the-index code-point, per family
	for _, fam := range families {
		if fam == nil || fam.DefaultTypeface() == nil {
			tracer().Infof("dropping font family without default typeface")
			continue
		}
		cover := fam.Coverage()
		if cover == nil || cover.Length() == 0 {
			tracer().Infof("dropping font family %q without coverage", fam.Name())
			continue
		}
		fam.RetainLocked()
		c.families = append(c.families, fam)
		if l := cover.Length(); l > c.maxChar {
			c.maxChar = l
		}
		firstUncovered = append(firstUncovered, cover.NextSetBit(0))
	}
	if len(c.families) == 0 {
		return nil, errCollection("must have at least one valid font family")
	}

	nPages := (int(c.maxChar) + pageMask) >> logCharsPerPage
	c.ranges = make([]pageRange, nPages)
	offset := 0
	// Note: a font may have a glyph for a (base, selector) sequence without
	// covering the bare base code-point; such families are not listed in
	// the page ranges. Variation-sequence queries scan all families instead.
	for i := 0; i < nPages; i++ {
		pageEnd := rune(i+1) << logCharsPerPage
		c.ranges[i].start = offset
		for j, fam := range c.families {
			if firstUncovered[j] < pageEnd {
				c.familyVec = append(c.familyVec, fam)
				offset++
				firstUncovered[j] = fam.Coverage().NextSetBit(pageEnd)
			}
		}
		c.ranges[i].end = offset
	}
	tracer().Debugf("font collection %d: %d families, %d pages, %d candidate slots",
		c.id, len(c.families), nPages, len(c.familyVec))
	return c, nil
}

// ID returns the collection's process-unique id.
func (c *Collection) ID() uint32 {
	return c.id
}

// BaseFont returns the default family's closest match for the given style.
func (c *Collection) BaseFont(style family.Style) family.FakedFont {
	return c.families[0].ClosestMatch(style)
}

// PurgeFontCaches drops the lazily built per-family caches of every member
// family, e.g. after a memory-pressure signal.
func (c *Collection) PurgeFontCaches() {
	c.guard.Lock()
	defer c.guard.Unlock()
	for _, fam := range c.families {
		fam.PurgeCacheLocked()
	}
}

// Close releases the collection's shared ownership of its families. The
// collection must not be used afterwards.
func (c *Collection) Close() {
	c.guard.Lock()
	defer c.guard.Unlock()
	for _, fam := range c.families {
		fam.ReleaseLocked()
	}
	c.families = nil
	c.familyVec = nil
	c.ranges = nil
}

// pageOf returns the candidate families for the page containing ch.
func (c *Collection) pageOf(ch rune) []*family.Family {
	r := c.ranges[ch>>logCharsPerPage]
	return c.familyVec[r.start:r.end]
}
