package image

import (
	"slices"
	"sort"
)

const (
	PresetHero      = "hero"
	PresetPoster    = "poster"
	PresetThumbnail = "thumbnail"
)

// Preset bundles base dimensions, srcset widths and a sizes hint for one
// artwork slot.
type Preset struct {
	Name    string
	Width   int
	Height  int
	Widths  []int
	Sizes   string
	Quality int
}

var presets = map[string]Preset{
	PresetHero: {
		Name:    PresetHero,
		Width:   1200,
		Height:  675,
		Widths:  []int{640, 800, 1200, 1600},
		Sizes:   "(max-width: 640px) 100vw, (max-width: 768px) 90vw, (max-width: 1024px) 80vw, 1200px",
		Quality: 75,
	},
	PresetPoster: {
		Name:    PresetPoster,
		Width:   320,
		Height:  480,
		Widths:  []int{160, 240, 320, 480},
		Sizes:   "(max-width: 640px) 45vw, (max-width: 768px) 22vw, (max-width: 1024px) 18vw, 320px",
		Quality: 80,
	},
	PresetThumbnail: {
		Name:    PresetThumbnail,
		Width:   300,
		Height:  450,
		Widths:  []int{150, 300, 450},
		Sizes:   "(max-width: 640px) 45vw, (max-width: 768px) 22vw, (max-width: 1024px) 18vw, 300px",
		Quality: 80,
	},
}

// LookupPreset returns a copy of the named preset.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, false
	}
	p.Widths = slices.Clone(p.Widths)
	return p, true
}

// PresetNames lists the available presets in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options returns the base transformation for the preset.
func (p Preset) Options() Options {
	return Options{
		Width:   p.Width,
		Height:  p.Height,
		Quality: Int(p.Quality),
	}
}

// Picture is everything a template needs to render a responsive image.
type Picture struct {
	Src    string `json:"src"`
	SrcSet string `json:"srcset,omitempty"`
	Sizes  string `json:"sizes,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Picture renders src with preset p. It reports false when src is empty.
func (b *Builder) Picture(p Preset, src string) (Picture, bool) {
	base := p.Options()
	u, ok := b.URL(src, base)
	if !ok {
		return Picture{}, false
	}
	pic := Picture{Src: u, Width: p.Width, Height: p.Height}
	if variants := b.SrcSet(src, base, p.Widths); len(variants) > 0 {
		pic.SrcSet = SrcSetAttr(variants)
		pic.Sizes = p.Sizes
	}
	return pic, true
}
