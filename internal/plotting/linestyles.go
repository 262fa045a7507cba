package plotting

import (
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Style fixes how one algorithm is drawn: a full-strength color for the
// frontier curve, a faded variant for the raw overlay, and a marker.
type Style struct {
	Color  color.Color
	Faded  color.Color
	Glyph  draw.GlyphDrawer
	Dashes []vg.Length
}

var glyphs = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.TriangleGlyph{},
	draw.CrossGlyph{},
	draw.PlusGlyph{},
	draw.RingGlyph{},
}

// Styles assigns a deterministic style per algorithm name. Callers pass
// the names sorted so the same algorithm keeps its color across charts.
func Styles(names []string) map[string]Style {
	colors := paletteColors(len(names))

	styles := make(map[string]Style, len(names))
	for i, name := range names {
		c := colors[i%len(colors)]
		styles[name] = Style{
			Color: c,
			Faded: fade(c),
			Glyph: glyphs[i%len(glyphs)],
		}
	}
	return styles
}

func paletteColors(n int) []color.Color {
	// Brewer qualitative palettes exist for 3..12 classes; clamp and
	// cycle outside that range.
	classes := n
	if classes < 3 {
		classes = 3
	}
	if classes > 12 {
		classes = 12
	}

	p, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", classes)
	if err != nil {
		return []color.Color{color.Black}
	}
	return p.Colors()
}

func fade(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: 96,
	}
}
