/*
Package fontfallback selects, for every code-point of a text run, the font
family that should render it, and splits text into contiguous runs per
resolved font.

A [Collection] is built once from a prioritized list of font families
(see [New]). Construction builds a compact range index mapping 256-code-point
pages to the families covering them, so per-character resolution only ever
inspects the families that can possibly match. The first family of a
collection is privileged: whenever it supports a character (or requested
variation sequence) it wins outright, regardless of language or variant
scores.

[Collection.Itemize] is the primary entry point for layout engines: it walks
a UTF-16 string once and emits ordered, non-overlapping runs whose union is
exactly the input, each tagged with a resolved (possibly faked) font.
Resolution never fails for in-range characters: layered fallbacks (dropping
the variation selector, canonical decomposition, the default family) always
produce something renderable.

This package decides which font to ask; it does not shape, rasterize, or
classify scripts. Shaping belongs to a sister package down the pipeline.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontfallback

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontfallback/family"
	"github.com/npillmayer/fontfallback/internal/fontload"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfallback'
func tracer() tracing.Trace {
	return tracing.Select("fontfallback")
}

// errCollection wraps a message as a user-facing collection error.
func errCollection(format string, args ...interface{}) error {
	return fmt.Errorf("font collection: "+format, args...)
}

// LoadFamily loads an OpenType font file (TTF or OTF) and wraps it as a
// single-face font family. The family name is taken from the font's `name`
// table; the face is registered under the given style.
//
// This is a convenience API for the common case of one file per family.
// Clients assembling multi-face families should parse fonts themselves and
// use family.FromFont plus family.WithFaces.
func LoadFamily(path string, style family.Style, opts ...family.Option) (*family.Family, error) {
	sf, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, err
	}
	face, err := font.ParseTTF(bytes.NewReader(sf.Binary))
	if err != nil {
		return nil, err
	}
	name := sf.Fontname
	if name == "" {
		name = path
	}
	tracer().Infof("loaded font family %q from %s", name, path)
	return family.FromFont(name, style, face, opts...), nil
}
