package family

import (
	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontfallback/coverage"
)

// OpenTypeFace is a Typeface backed by a parsed OpenType font.
type OpenTypeFace struct {
	name string
	face *font.Face
}

// Name returns the face's display name.
func (o *OpenTypeFace) Name() string { return o.name }

// Face returns the underlying typesetting face, for shaping or rasterizing
// downstream.
func (o *OpenTypeFace) Face() *font.Face { return o.face }

// FromFont creates a single-face family from a parsed OpenType font. The
// family's coverage is read from the font's cmap, and variation sequences
// are answered by probing the font's format-14 cmap subtable.
//
// The face is registered under the given style; additional styled faces may
// be attached via WithFaces.
func FromFont(name string, style Style, face *font.Face, opts ...Option) *Family {
	tf := &OpenTypeFace{name: name, face: face}
	base := []Option{
		WithFaces(StyledFace{Style: style, Face: tf}),
		WithCoverage(coverageFromCmap(face.Font.Cmap)),
		withVariationProbe(func(b, sel rune) bool {
			_, ok := face.VariationGlyph(b, sel)
			return ok
		}),
	}
	f := New(name, append(base, opts...)...)
	tracer().Debugf("font family %q covers %d code-points", name, f.cover.Count())
	return f
}

// coverageFromCmap collects a font cmap into a coverage set, using the
// range-based fast path when the cmap provides one.
func coverageFromCmap(cmap font.Cmap) *coverage.Set {
	set := &coverage.Set{}
	if cmap == nil {
		return set
	}
	if ranger, ok := cmap.(font.CmapRuneRanger); ok {
		for _, ra := range ranger.RuneRanges(nil) {
			set.AddRange(ra[0], ra[1])
		}
		return set
	}
	iter := cmap.Iter()
	for iter.Next() {
		r, _ := iter.Char()
		set.Add(r)
	}
	return set
}
