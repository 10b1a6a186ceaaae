// Package fontload reads OpenType font files and extracts the naming
// information the fallback engine needs for family identification.
package fontload

import (
	"os"

	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
// The raw bytes are kept around because downstream consumers (cmap coverage,
// variation probing) parse them with their own readers.
type ScalableFont struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return ParseOpenTypeFont(bytez)
}

// ParseOpenTypeFont parses an OpenType font (TTF or OTF) from memory. The
// font name is taken from the `name` table, preferring the full font name
// and falling back to the family name.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	f := &ScalableFont{Binary: fbytes}
	var err error
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFamily)
	}
	return f, nil
}
