package fontfallback

import (
	"unicode/utf16"

	"github.com/npillmayer/fontfallback/family"
)

// A Run is a maximal span of text resolved to one font. Start and End are
// exclusive UTF-16 code-unit offsets into the itemized string. Font is the
// resolved family's closest match for the active style; a null Font marks
// the defensive case where resolution produced nothing.
type Run struct {
	Start, End int
	Font       family.FakedFont
}

// Characters for which the itemizer keeps extending the current run instead
// of re-resolving the fallback list, as long as the current font covers
// them. Most fonts carry these, and re-resolving would cause font switches
// in the middle of words ("foo-bar", "3:30").
var stickyWhitelist = map[rune]bool{
	'!': true, ',': true, '-': true, '.': true, ':': true, ';': true, '?': true,
	0x00A0: true, // NO-BREAK SPACE
	0x200C: true, // ZERO WIDTH NON-JOINER
	0x200D: true, // ZERO WIDTH JOINER
	keycap: true,
	0x2010: true, // HYPHEN
	0x2011: true, // NON-BREAKING HYPHEN
}

// keycap combines with a preceding digit into an emoji keycap cluster.
const keycap = 0x20E3

// endOfText flags the exhausted look-ahead; it is no valid code-point.
const endOfText rune = -1

// itemization threads the fold state of one Itemize call: the completed
// runs, the run currently being extended, and the family it resolved to.
type itemization struct {
	runs       []Run
	open       bool
	current    Run
	lastFamily *family.Family
}

// flush completes the current run.
func (it *itemization) flush() {
	if it.open {
		it.runs = append(it.runs, it.current)
		it.open = false
	}
}

// Itemize splits a UTF-16 string into font runs. The returned runs are
// contiguous, ordered, non-overlapping, and cover exactly [0, len(text)).
// Empty input yields no runs.
//
// A variation selector never starts a run of its own: it is resolved
// together with its base character (as one-code-point look-ahead) and then
// glued to that run.
func (c *Collection) Itemize(text []uint16, style family.Style) []Run {
	if len(text) == 0 {
		return nil
	}
	it := itemization{}
	prevCh := endOfText
	ch, pos := nextCodepoint(text, 0)
	chPos := 0
	for ch != endOfText {
		nextCh := endOfText
		nextPos := pos
		if pos < len(text) {
			nextCh, nextPos = nextCodepoint(text, pos)
		}

		if !it.shouldContinueRun(ch) {
			vs := rune(0)
			if IsVariationSelector(nextCh) {
				vs = nextCh
			}
			fam := c.ResolveFamily(ch, vs, style.LangList, style.Variant)
			if chPos == 0 || fam != it.lastFamily {
				start := chPos
				// Emoji keycap clusters: if the keycap resolves to a
				// different font that also covers the preceding digit,
				// pull the digit out of the run just ended and into the
				// keycap's run, so the cluster stays in one font.
				if ch == keycap && chPos != 0 && fam != nil &&
					fam.Coverage().Contains(prevCh) {
					prevLen := utf16Length(prevCh)
					it.current.End -= prevLen
					if it.current.Start == it.current.End {
						it.open = false // run became empty, drop it
					}
					start -= prevLen
				}
				it.flush()
				it.open = true
				it.current = Run{Start: start}
				if fam == nil {
					it.current.Font = family.FakedFont{}
				} else {
					it.current.Font = fam.ClosestMatch(style)
				}
				it.lastFamily = fam
			}
		}
		it.current.End = pos // exclusive

		prevCh = ch
		ch, chPos = nextCh, pos
		pos = nextPos
	}
	it.flush()
	return it.runs
}

// shouldContinueRun decides whether ch extends the current run without
// re-resolving: sticky-whitelisted characters do if the current font covers
// them, variation selectors always do.
func (it *itemization) shouldContinueRun(ch rune) bool {
	if it.lastFamily == nil {
		return false
	}
	if stickyWhitelist[ch] {
		return it.lastFamily.Coverage().Contains(ch)
	}
	return IsVariationSelector(ch)
}

// ItemizeString is a convenience wrapper itemizing UTF-8 input. Run offsets
// refer to the UTF-16 encoding of s.
func (c *Collection) ItemizeString(s string, style family.Style) []Run {
	return c.Itemize(utf16.Encode([]rune(s)), style)
}

// nextCodepoint decodes the code-point starting at pos and returns it with
// the offset just behind it. Unpaired surrogates decode to their own value,
// one unit at a time.
func nextCodepoint(s []uint16, pos int) (rune, int) {
	c := rune(s[pos])
	pos++
	if isHighSurrogate(c) && pos < len(s) && isLowSurrogate(rune(s[pos])) {
		c = utf16.DecodeRune(c, rune(s[pos]))
		pos++
	}
	return c, pos
}

func isHighSurrogate(c rune) bool { return 0xD800 <= c && c <= 0xDBFF }
func isLowSurrogate(c rune) bool  { return 0xDC00 <= c && c <= 0xDFFF }

// utf16Length returns the number of UTF-16 code units encoding c.
func utf16Length(c rune) int {
	if c > 0xFFFF {
		return 2
	}
	return 1
}
