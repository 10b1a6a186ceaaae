/*
Package family models one member of a font collection: a named font family
with per-style typefaces, a code-point coverage set, a language tag, a UI
variant, and optional variation-sequence glyphs.

Families carry internally mutable state (shared-ownership counts, a lazily
built variation-sequence cache). All mutation goes through a [Guard], a
coarse process-wide lock shared by every collection; the methods whose names
end in “Locked” must be called with that guard held. Immutable summary data
(coverage, language, variant) may be read without the guard.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package family

import (
	"sync"

	"github.com/npillmayer/fontfallback/coverage"
	"github.com/npillmayer/fontfallback/lang"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfallback.family'
func tracer() tracing.Trace {
	return tracing.Select("fontfallback.family")
}

// A Guard is the mutual-exclusion service protecting the mutable state of
// font families. One process-wide instance ([SharedGuard]) is shared by all
// collections by default; tests may substitute their own.
type Guard struct {
	mu sync.Mutex
}

// Lock acquires the guard.
func (g *Guard) Lock() { g.mu.Lock() }

// Unlock releases the guard.
func (g *Guard) Unlock() { g.mu.Unlock() }

// SharedGuard is the default process-wide family guard.
var SharedGuard = &Guard{}

// Variant selects between UI font variants.
type Variant uint8

const (
	VariantDefault Variant = iota // wildcard: matches any requested variant
	VariantCompact
	VariantElegant
)

// Font weights on the usual 100–900 scale, divided by 100.
const (
	WeightNormal = 4
	WeightBold   = 7
)

// Style describes how a piece of text wants to be rendered: weight, slant,
// UI variant and preferred languages.
type Style struct {
	Weight   int // 1 (thin) … 10 (extra black); 0 means WeightNormal
	Italic   bool
	Variant  Variant
	LangList lang.ListID
}

// DefaultStyle is upright regular weight with no language preference.
var DefaultStyle = Style{Weight: WeightNormal}

// weight returns the effective weight, mapping the zero value to normal.
func (s Style) weight() int {
	if s.Weight == 0 {
		return WeightNormal
	}
	return s.Weight
}

// A Typeface is a resolved font resource for one concrete style. What a
// typeface is made of is none of this package's business; shaping and
// rasterization live elsewhere.
type Typeface interface {
	Name() string
}

// FakedFont is a typeface plus the synthetic adjustments needed to serve a
// requested style the typeface does not natively provide.
type FakedFont struct {
	Font       Typeface
	FakeBold   bool
	FakeItalic bool
}

// IsNull reports whether no typeface was resolved.
func (f FakedFont) IsNull() bool {
	return f.Font == nil
}

// StyledFace couples a typeface with the style it natively renders.
type StyledFace struct {
	Style Style
	Face  Typeface
}

// A Family is one prioritized member of a font collection.
type Family struct {
	name     string
	faces    []StyledFace
	cover    *coverage.Set
	language lang.Tag
	variant  Variant

	// guarded state
	refs    int
	vsCache map[uint64]bool // lazily built (base,selector) presence cache
	vsProbe func(base, selector rune) bool
}

// Option configures a family under construction.
type Option func(*Family)

// WithCoverage sets the family's code-point coverage.
func WithCoverage(s *coverage.Set) Option {
	return func(f *Family) { f.cover = s }
}

// WithLanguage sets the family's language tag.
func WithLanguage(t lang.Tag) Option {
	return func(f *Family) { f.language = t }
}

// WithVariant sets the family's UI variant.
func WithVariant(v Variant) Option {
	return func(f *Family) { f.variant = v }
}

// WithFaces sets the family's styled typefaces.
func WithFaces(faces ...StyledFace) Option {
	return func(f *Family) { f.faces = append(f.faces, faces...) }
}

// WithVariationSequences declares exact (base, selector) variation-sequence
// glyphs, keyed by base code-point. Mostly useful for synthetic families in
// tests; families loaded from real fonts probe the font's cmap instead.
func WithVariationSequences(seqs map[rune][]rune) Option {
	return func(f *Family) {
		probe := make(map[uint64]bool, len(seqs))
		for base, selectors := range seqs {
			for _, vs := range selectors {
				probe[vsKey(base, vs)] = true
			}
		}
		f.vsProbe = func(base, selector rune) bool {
			return probe[vsKey(base, selector)]
		}
	}
}

// withVariationProbe installs a live variation-sequence lookup; results are
// memoized in the guarded cache.
func withVariationProbe(probe func(base, selector rune) bool) Option {
	return func(f *Family) { f.vsProbe = probe }
}

// New creates a font family. A family with no faces or no coverage is legal
// here but will be dropped when a collection is built from it.
func New(name string, opts ...Option) *Family {
	f := &Family{name: name}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the family name.
func (f *Family) Name() string { return f.name }

// Language returns the family's language tag.
func (f *Family) Language() lang.Tag { return f.language }

// Variant returns the family's UI variant.
func (f *Family) Variant() Variant { return f.variant }

// Coverage returns the family's code-point coverage, or nil if the family
// has none.
func (f *Family) Coverage() *coverage.Set { return f.cover }

// DefaultTypeface resolves the typeface serving the default style, or nil.
func (f *Family) DefaultTypeface() Typeface {
	return f.ClosestMatch(DefaultStyle).Font
}

// ClosestMatch returns the family's best typeface for the wanted style,
// together with the faking (synthetic bold/oblique) needed to serve it.
// The zero FakedFont is returned if the family has no faces at all.
func (f *Family) ClosestMatch(want Style) FakedFont {
	best := -1
	bestDist := 0
	for i, sf := range f.faces {
		d := styleDistance(want, sf.Style)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return FakedFont{}
	}
	have := f.faces[best].Style
	return FakedFont{
		Font:       f.faces[best].Face,
		FakeBold:   want.weight() >= WeightBold-1 && want.weight()-have.weight() >= 2,
		FakeItalic: want.Italic && !have.Italic,
	}
}

// styleDistance is the match metric for closest-style lookup: weight
// difference, plus a penalty of 2 for a slant mismatch.
func styleDistance(a, b Style) int {
	d := a.weight() - b.weight()
	if d < 0 {
		d = -d
	}
	if a.Italic != b.Italic {
		d += 2
	}
	return d
}

// HasVariationSelectorLocked reports whether the family has a glyph for the
// exact (base, selector) variation sequence. Results are cached per family.
// The caller must hold the collection's guard: the probe may lazily build
// font-internal lookup state.
func (f *Family) HasVariationSelectorLocked(base, selector rune) bool {
	if f.vsProbe == nil {
		return false
	}
	key := vsKey(base, selector)
	if ok, hit := f.vsCache[key]; hit {
		return ok
	}
	ok := f.vsProbe(base, selector)
	if f.vsCache == nil {
		f.vsCache = make(map[uint64]bool)
	}
	f.vsCache[key] = ok
	return ok
}

// RetainLocked increments the family's shared-ownership count. The caller
// must hold the collection's guard.
func (f *Family) RetainLocked() {
	f.refs++
}

// ReleaseLocked decrements the family's shared-ownership count. The caller
// must hold the collection's guard.
func (f *Family) ReleaseLocked() {
	if f.refs == 0 {
		tracer().Errorf("font family %q released more often than retained", f.name)
		return
	}
	f.refs--
}

// PurgeCacheLocked drops the family's lazily built variation-sequence cache.
// The caller must hold the collection's guard.
func (f *Family) PurgeCacheLocked() {
	f.vsCache = nil
}

func vsKey(base, selector rune) uint64 {
	return uint64(uint32(base))<<32 | uint64(uint32(selector))
}
