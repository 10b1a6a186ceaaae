package fontfallback

import (
	"unicode/utf8"

	"github.com/npillmayer/fontfallback/family"
	"github.com/npillmayer/fontfallback/lang"
	"golang.org/x/text/unicode/norm"
)

// Scoring rules for picking the best-match family, in the order they are
// applied:
//
//  1. If the collection's first family supports the character (or the
//     complete variation sequence, when a selector is given), it wins
//     outright. This is the default-family rule; it is checked before any
//     scoring happens and must stay that way.
//  2. A family matching the requested language scores 2.
//  3. Matching the requested UI variant (or declaring the wildcard variant)
//     adds 1.
//  4. A glyph for the complete variation sequence adds 8.
//  5. Without such a glyph, an emoji-presentation selector (U+FE0F) on an
//     emoji family, or a text-presentation selector (U+FE0E) on a non-emoji
//     family, adds 4, provided the bare base character is covered.
//  6. The highest score wins; ties resolve to the earliest family.
const (
	scoreLanguageWeight = 2
	scoreVariant        = 1
	scoreVSGlyph        = 8
	scorePresentation   = 4
)

// Unicode variation selectors: VS1–VS16 and VS17–VS256.
const (
	selEmojiPresentation = 0xFE0F
	selTextPresentation  = 0xFE0E
)

// IsVariationSelector reports whether c lies in one of the two reserved
// Unicode variation-selector ranges.
func IsVariationSelector(c rune) bool {
	return (0xFE00 <= c && c <= 0xFE0F) || (0xE0100 <= c && c <= 0xE01EF)
}

// ResolveFamily returns the family that should render ch, optionally
// combined with the variation selector vs (0 for none), preferring the
// languages behind listID and the given UI variant.
//
// Resolution cannot fail for a character below the collection's coverage
// bound: if scoring finds no match, ResolveFamily retries without the
// variation selector, then walks the character's canonical decomposition,
// and finally settles on the default family. Only a character at or beyond
// every family's coverage yields nil, which callers treat as "use your own
// default", not as an error.
func (c *Collection) ResolveFamily(ch, vs rune, listID lang.ListID, variant family.Variant) *family.Family {
	if ch >= c.maxChar {
		return nil
	}
	if fam := c.scoreCandidates(ch, vs, listID, variant); fam != nil {
		return fam
	}
	// Fallback chain, tried strictly in this order. Reordering changes
	// which family wins in ambiguous cases.
	if vs != 0 {
		// Drop the variation requirement and match the bare base character.
		if fam := c.scoreCandidates(ch, 0, listID, variant); fam != nil {
			return fam
		}
	}
	// Walk the canonical decomposition, matching each replacement base
	// character in turn. Decomposition chains are short; the depth bound
	// exists so that table anomalies cannot loop us.
	cur := ch
	for depth := 0; depth < maxDecomposeDepth; depth++ {
		base, ok := canonicalBase(cur)
		if !ok || base >= c.maxChar {
			break
		}
		if fam := c.scoreCandidates(base, vs, listID, variant); fam != nil {
			return fam
		}
		if vs != 0 {
			if fam := c.scoreCandidates(base, 0, listID, variant); fam != nil {
				return fam
			}
		}
		cur = base
	}
	return c.families[0]
}

const maxDecomposeDepth = 4

// scoreCandidates runs one scoring pass over the candidate families for
// (ch, vs) and returns the best-scoring family, or nil if none supports the
// character. It implements the default-family rule as an early return.
func (c *Collection) scoreCandidates(ch, vs rune, listID lang.ListID, variant family.Variant) *family.Family {
	// Only the first entry of the language list takes part in matching.
	// Known limitation, kept bug-compatible with layout results upstream.
	var effLang lang.Tag
	if langs := lang.ListByID(listID); len(langs) > 0 {
		effLang = langs[0]
	}

	// Default-family rule: checked before scoring. With a selector present
	// the default must have the exact sequence glyph; bare coverage is not
	// enough and falls through to scoring like everyone else.
	def := c.families[0]
	if vs == 0 {
		if def.Coverage().Contains(ch) {
			return def
		}
	} else if c.familyHasSequence(def, ch, vs) {
		return def
	}

	// The range index does not know about variation sequences, so a
	// selector forces a scan over the full family list.
	candidates := c.pageOf(ch)
	if vs != 0 {
		candidates = c.families
	}

	var best *family.Family
	bestScore := -1
	for _, fam := range candidates {
		hasVSGlyph := vs != 0 && c.familyHasSequence(fam, ch, vs)
		if !hasVSGlyph && !fam.Coverage().Contains(ch) {
			continue
		}
		score := effLang.Match(fam.Language()) * scoreLanguageWeight
		if fam.Variant() == family.VariantDefault || fam.Variant() == variant {
			score += scoreVariant
		}
		if hasVSGlyph {
			score += scoreVSGlyph
		} else if (vs == selEmojiPresentation && fam.Language().IsEmoji()) ||
			(vs == selTextPresentation && !fam.Language().IsEmoji()) {
			score += scorePresentation
		}
		if score > bestScore {
			bestScore = score
			best = fam
		}
	}
	return best
}

// familyHasSequence checks a family for an exact variation-sequence glyph
// under the shared guard; the family may lazily build lookup state.
func (c *Collection) familyHasSequence(fam *family.Family, base, vs rune) bool {
	c.guard.Lock()
	defer c.guard.Unlock()
	return fam.HasVariationSelectorLocked(base, vs)
}

// HasVariationSelector reports whether any family of the collection has a
// glyph for the exact (base, selector) variation sequence. Selectors outside
// the reserved Unicode ranges never match. The scan always walks the full
// family list: the range index does not track variation sequences.
func (c *Collection) HasVariationSelector(base, selector rune) bool {
	if !IsVariationSelector(selector) {
		return false
	}
	if base >= c.maxChar {
		return false
	}
	for _, fam := range c.families {
		if c.familyHasSequence(fam, base, selector) {
			return true
		}
	}
	return false
}

// canonicalBase returns the first code-point of ch's canonical (NFD)
// decomposition, or ok=false if ch does not decompose.
func canonicalBase(ch rune) (base rune, ok bool) {
	d := norm.NFD.PropertiesString(string(ch)).Decomposition()
	if len(d) == 0 {
		return 0, false
	}
	base, size := utf8.DecodeRune(d)
	if size == 0 || base == utf8.RuneError || base == ch {
		return 0, false
	}
	return base, true
}
