/*
Package lang provides the language model used for font matching.

A font family carries a language tag (e.g. "ja-JP", "zh-Hans", "und-Zsye" for
emoji fonts), and a text style carries an ordered list of preferred languages.
The fallback engine scores a family's tag against the style's effective
language via [Tag.Match].

Language lists are parsed once and interned in a process-wide cache; styles
refer to them by an opaque [ListID]. ID 0 is always the empty list.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package lang

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer writes to trace with key 'fontfallback.lang'
func tracer() tracing.Trace {
	return tracing.Select("fontfallback.lang")
}

// emojiScript is the ISO 15924 code marking emoji presentation ("Zsye").
// Fonts declaring it are treated as emoji fonts by the fallback scoring.
const emojiScript = "Zsye"

// A Tag is a parsed BCP-47 language tag, reduced to the two components font
// matching cares about: the primary language and the script.
//
// The zero Tag is the unspecified language; it matches nothing.
type Tag struct {
	Primary string // primary language subtag, lowercase ("en", "zh", "und")
	Script  string // ISO 15924 script, title case ("Hans"), or "" if none given
}

// Parse parses a BCP-47 language tag. Region and variant subtags are
// accepted but discarded; only language and script survive.
func Parse(s string) (Tag, error) {
	if s == "" {
		return Tag{}, nil
	}
	t, err := language.Parse(s)
	if err != nil {
		return Tag{}, err
	}
	base, _ := t.Base()
	script, scriptConf := t.Script()
	tag := Tag{}
	// x/text infers a likely base for underspecified tags ("und-Zsye"
	// comes back as "en"); only keep the language the caller wrote down.
	lowered := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	switch first := strings.SplitN(lowered, "-", 2)[0]; {
	case first == base.String():
		tag.Primary = base.String()
	case first == "und":
		tag.Primary = "und"
	}
	// x/text infers a likely script for most languages; only keep scripts
	// the caller actually wrote down.
	if scriptConf == language.Exact &&
		strings.Contains(lowered, strings.ToLower(script.String())) {
		tag.Script = script.String()
	}
	return tag, nil
}

// MustParse is like Parse but panics on invalid input. For use in tests and
// package initialization.
func MustParse(s string) Tag {
	t, err := Parse(s)
	if err != nil {
		panic("lang: cannot parse language tag " + s)
	}
	return t
}

// IsUnspecified reports whether the tag carries no language information.
func (t Tag) IsUnspecified() bool {
	return t.Primary == "" || t.Primary == "und"
}

// IsEmoji reports whether the tag requests emoji presentation (script Zsye).
func (t Tag) IsEmoji() bool {
	return t.Script == emojiScript
}

// Match scores this tag (the requested language) against a font family's
// tag. It returns 1 for a usable match and 0 otherwise: the primary
// languages must be equal, and if both tags specify a script the scripts
// must be equal as well.
func (t Tag) Match(family Tag) int {
	if t.IsUnspecified() || family.IsUnspecified() {
		return 0
	}
	if t.Primary != family.Primary {
		return 0
	}
	if t.Script != "" && family.Script != "" && t.Script != family.Script {
		return 0
	}
	return 1
}

// String returns the tag in BCP-47 notation.
func (t Tag) String() string {
	if t.Primary == "" {
		return "und"
	}
	if t.Script == "" {
		return t.Primary
	}
	return t.Primary + "-" + t.Script
}
