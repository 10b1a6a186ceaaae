package fontfallback

import (
	"testing"
	"unicode/utf16"

	"github.com/npillmayer/fontfallback/coverage"
	"github.com/npillmayer/fontfallback/family"
	"github.com/npillmayer/fontfallback/lang"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type ItemizeTestEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestItemizeFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfallback")
	defer teardown()
	suite.Run(t, new(ItemizeTestEnviron))
}

func (env *ItemizeTestEnviron) mustCollection(families ...*family.Family) *Collection {
	coll, err := New(families, WithGuard(&family.Guard{}))
	env.Require().NoError(err)
	return coll
}

// checkRunInvariant asserts that runs are contiguous, ordered,
// non-overlapping, and cover exactly [0, length).
func (env *ItemizeTestEnviron) checkRunInvariant(runs []Run, length int) {
	env.Require().NotEmpty(runs)
	env.Equal(0, runs[0].Start)
	for i, run := range runs {
		env.Less(run.Start, run.End, "run %d must not be empty", i)
		if i > 0 {
			env.Equal(runs[i-1].End, run.Start, "run %d must abut its predecessor", i)
		}
	}
	env.Equal(length, runs[len(runs)-1].End)
}

// fontName extracts the resolved family name of a run, or "<none>".
func fontName(run Run) string {
	if run.Font.IsNull() {
		return "<none>"
	}
	return run.Font.Font.Name()
}

// --- Tests -----------------------------------------------------------------

func (env *ItemizeTestEnviron) TestEmptyInput() {
	famA := newTestFamily("A", coverage.NewSet('A'))
	coll := env.mustCollection(famA)
	env.Empty(coll.Itemize(nil, family.DefaultStyle))
	env.Empty(coll.ItemizeString("", family.DefaultStyle))
}

func (env *ItemizeTestEnviron) TestSingleFontSingleRun() {
	famA := newTestFamily("A", coverage.FromRanges([2]rune{0x20, 0x7E}))
	coll := env.mustCollection(famA)
	runs := coll.ItemizeString("hello world", family.DefaultStyle)
	env.Require().Len(runs, 1)
	env.Equal(0, runs[0].Start)
	env.Equal(11, runs[0].End)
	env.Equal("A", fontName(runs[0]))
}

func (env *ItemizeTestEnviron) TestStickyWhitelistAvoidsFontSwitch() {
	// FamilyA is the default and covers letters plus '!'; FamilyB covers
	// everything. "AB!" must stay a single FamilyA run: the '!' is
	// whitelisted and the current font covers it.
	famA := newTestFamily("A", coverage.FromRanges([2]rune{'!', '!'}, [2]rune{'A', 'Z'}))
	famB := newTestFamily("B", coverage.FromRanges([2]rune{0x20, 0x2FF}))
	coll := env.mustCollection(famA, famB)

	runs := coll.ItemizeString("AB!", family.DefaultStyle)
	env.Require().Len(runs, 1)
	env.Equal(0, runs[0].Start)
	env.Equal(3, runs[0].End)
	env.Equal("A", fontName(runs[0]))
}

func (env *ItemizeTestEnviron) TestFontSwitchSplitsRuns() {
	famLatin := newTestFamily("Latin", coverage.FromRanges([2]rune{0x20, 0x7E}))
	famKana := newTestFamily("Kana", coverage.FromRanges([2]rune{0x3040, 0x30FF}))
	coll := env.mustCollection(famLatin, famKana)

	text := "abcあいうdef"
	runs := coll.ItemizeString(text, family.DefaultStyle)
	env.checkRunInvariant(runs, len(utf16.Encode([]rune(text))))
	env.Require().Len(runs, 3)
	env.Equal("Latin", fontName(runs[0]))
	env.Equal("Kana", fontName(runs[1]))
	env.Equal("Latin", fontName(runs[2]))
	env.Equal(3, runs[0].End)
	env.Equal(6, runs[1].End)
}

func (env *ItemizeTestEnviron) TestKeycapPullsDigitIntoKeycapRun() {
	// The digit resolves to the default family, the keycap only to the
	// emoji family. The keycap correction must merge both into a single
	// run in the keycap's font.
	famA := newTestFamily("A", coverage.FromRanges([2]rune{'0', '9'}))
	famB := newTestFamily("B", coverage.FromRanges([2]rune{'0', '9'}, [2]rune{0x20E3, 0x20E3}))
	coll := env.mustCollection(famA, famB)

	runs := coll.ItemizeString("1⃣", family.DefaultStyle)
	env.Require().Len(runs, 1)
	env.Equal(0, runs[0].Start)
	env.Equal(2, runs[0].End)
	env.Equal("B", fontName(runs[0]))
}

func (env *ItemizeTestEnviron) TestKeycapCorrectionKeepsPrecedingRun() {
	famA := newTestFamily("A", coverage.FromRanges([2]rune{'0', '9'}, [2]rune{'a', 'z'}))
	famB := newTestFamily("B", coverage.FromRanges([2]rune{'0', '9'}, [2]rune{0x20E3, 0x20E3}))
	coll := env.mustCollection(famA, famB)

	// "ab1⃣": the letters stay with A, digit+keycap move to B.
	runs := coll.ItemizeString("ab1⃣", family.DefaultStyle)
	env.checkRunInvariant(runs, 4)
	env.Require().Len(runs, 2)
	env.Equal("A", fontName(runs[0]))
	env.Equal(2, runs[0].End)
	env.Equal("B", fontName(runs[1]))
	env.Equal(2, runs[1].Start)
}

func (env *ItemizeTestEnviron) TestVariationSelectorContinuesRun() {
	famText := newTestFamily("Text", coverage.NewSet(0x2764, 'a'))
	famEmoji := newTestFamily("Emoji", coverage.NewSet(0x2764),
		family.WithLanguage(lang.MustParse("und-Zsye")),
		family.WithVariationSequences(map[rune][]rune{0x2764: {0xFE0F}}))
	coll := env.mustCollection(famText, famEmoji)

	// The heart resolves with the selector as look-ahead, lands in the
	// emoji family, and the selector itself extends that run.
	runs := coll.ItemizeString("a❤️", family.DefaultStyle)
	env.checkRunInvariant(runs, 3)
	env.Require().Len(runs, 2)
	env.Equal("Text", fontName(runs[0]))
	env.Equal("Emoji", fontName(runs[1]))
	env.Equal(1, runs[1].Start)
	env.Equal(3, runs[1].End)
}

func (env *ItemizeTestEnviron) TestSurrogatePairsStayWhole() {
	famText := newTestFamily("Text", coverage.FromRanges([2]rune{0x20, 0x7E}))
	famEmoji := newTestFamily("Emoji", coverage.FromRanges([2]rune{0x1F600, 0x1F64F}),
		family.WithLanguage(lang.MustParse("und-Zsye")))
	coll := env.mustCollection(famText, famEmoji)

	text := "hi\U0001F600!"
	units := utf16.Encode([]rune(text)) // 5 code units, emoji takes two
	runs := coll.Itemize(units, family.DefaultStyle)
	env.checkRunInvariant(runs, 5)
	env.Require().Len(runs, 3)
	env.Equal("Emoji", fontName(runs[1]))
	env.Equal(2, runs[1].Start)
	env.Equal(4, runs[1].End)
}

func (env *ItemizeTestEnviron) TestUncoveredCharacterFallsBackToDefault() {
	famA := newTestFamily("A", coverage.FromRanges([2]rune{0x20, 0x7E}))
	famHigh := newTestFamily("High", coverage.NewSet(0x1000))
	coll := env.mustCollection(famA, famHigh)

	// U+0F00 is covered by nobody; resolution degrades to the default
	// family and itemization continues in one run.
	runs := coll.ItemizeString("aༀb", family.DefaultStyle)
	env.checkRunInvariant(runs, 3)
	env.Require().Len(runs, 1)
	env.Equal("A", fontName(runs[0]))
}

func (env *ItemizeTestEnviron) TestRunInvariantOnMixedText() {
	famLatin := newTestFamily("Latin", coverage.FromRanges([2]rune{0x20, 0x7E}))
	famKana := newTestFamily("Kana", coverage.FromRanges([2]rune{0x3040, 0x30FF}))
	famEmoji := newTestFamily("Emoji", coverage.FromRanges([2]rune{0x1F300, 0x1FAFF}),
		family.WithLanguage(lang.MustParse("und-Zsye")))
	coll := env.mustCollection(famLatin, famKana, famEmoji)

	samples := []string{
		"a",
		"a-b, c: d; e!",
		"日本語テキスト", // partially uncovered
		"mixed あい \U0001F9E9 text?",
		"\U0001F600\U0001F601",
		"あ",
	}
	for _, text := range samples {
		units := utf16.Encode([]rune(text))
		runs := coll.Itemize(units, family.DefaultStyle)
		env.checkRunInvariant(runs, len(units))
	}
}
