package family

import (
	"testing"

	"github.com/npillmayer/fontfallback/coverage"
	"github.com/npillmayer/fontfallback/lang"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type FamilyTestEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestFamilyFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfallback.family")
	defer teardown()
	suite.Run(t, new(FamilyTestEnviron))
}

// --- Helpers ---------------------------------------------------------------

type face struct {
	name string
}

func (f *face) Name() string { return f.name }

func styled(name string, weight int, italic bool) StyledFace {
	return StyledFace{
		Style: Style{Weight: weight, Italic: italic},
		Face:  &face{name: name},
	}
}

// --- Tests -----------------------------------------------------------------

func (env *FamilyTestEnviron) TestClosestMatchPicksNearestWeight() {
	fam := New("Test",
		WithFaces(styled("regular", WeightNormal, false),
			styled("bold", WeightBold, false),
			styled("italic", WeightNormal, true)))

	cases := []struct {
		want Style
		face string
	}{
		{Style{Weight: WeightNormal}, "regular"},
		{Style{Weight: WeightBold}, "bold"},
		{Style{Weight: 8}, "bold"},
		{Style{Weight: WeightNormal, Italic: true}, "italic"},
		{Style{Weight: WeightBold, Italic: true}, "bold"},
	}
	for _, c := range cases {
		got := fam.ClosestMatch(c.want)
		env.Require().False(got.IsNull())
		env.Equal(c.face, got.Font.Name(), "style %+v", c.want)
	}
}

func (env *FamilyTestEnviron) TestClosestMatchFaking() {
	fam := New("Test", WithFaces(styled("regular", WeightNormal, false)))

	bold := fam.ClosestMatch(Style{Weight: WeightBold})
	env.True(bold.FakeBold, "a much bolder request on a regular face fakes bold")
	env.False(bold.FakeItalic)

	italic := fam.ClosestMatch(Style{Weight: WeightNormal, Italic: true})
	env.True(italic.FakeItalic, "an italic request on an upright face fakes italic")
	env.False(italic.FakeBold)

	regular := fam.ClosestMatch(DefaultStyle)
	env.False(regular.FakeBold)
	env.False(regular.FakeItalic)
}

func (env *FamilyTestEnviron) TestClosestMatchWithoutFaces() {
	fam := New("Empty", WithCoverage(coverage.NewSet('x')))
	env.True(fam.ClosestMatch(DefaultStyle).IsNull())
	env.Nil(fam.DefaultTypeface())
}

func (env *FamilyTestEnviron) TestVariationSequences() {
	fam := New("Emoji",
		WithCoverage(coverage.NewSet(0x2764)),
		WithVariationSequences(map[rune][]rune{
			0x2764: {0xFE0F},
			0x0030: {0xFE0E, 0xFE0F},
		}))
	g := &Guard{}
	g.Lock()
	defer g.Unlock()
	env.True(fam.HasVariationSelectorLocked(0x2764, 0xFE0F))
	env.False(fam.HasVariationSelectorLocked(0x2764, 0xFE0E))
	env.True(fam.HasVariationSelectorLocked(0x0030, 0xFE0E))
	env.False(fam.HasVariationSelectorLocked(0x0031, 0xFE0E))

	// cached answers survive a purge (the probe is re-run)
	fam.PurgeCacheLocked()
	env.True(fam.HasVariationSelectorLocked(0x2764, 0xFE0F))
}

func (env *FamilyTestEnviron) TestRetainRelease() {
	fam := New("Test", WithFaces(styled("regular", WeightNormal, false)))
	g := &Guard{}
	g.Lock()
	fam.RetainLocked()
	fam.RetainLocked()
	fam.ReleaseLocked()
	fam.ReleaseLocked()
	fam.ReleaseLocked() // over-release must not underflow
	g.Unlock()
	env.Equal(0, fam.refs)
}

func (env *FamilyTestEnviron) TestFamilyAccessors() {
	fam := New("Kana",
		WithCoverage(coverage.FromRanges([2]rune{0x3040, 0x30FF})),
		WithLanguage(lang.MustParse("ja")),
		WithVariant(VariantElegant))
	env.Equal("Kana", fam.Name())
	env.Equal("ja", fam.Language().String())
	env.Equal(VariantElegant, fam.Variant())
	env.True(fam.Coverage().Contains(0x3042))
}
