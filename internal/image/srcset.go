package image

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Variant describes one explicit srcset candidate. Options, when set,
// replaces the base options for this candidate.
type Variant struct {
	Width      int
	Height     int
	DPR        float64
	Descriptor string
	Options    *Options
}

// VariantURL is one generated srcset candidate.
type VariantURL struct {
	URL        string `json:"url"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Descriptor string `json:"descriptor"`
}

// SrcSet builds width-described candidates for src. Widths are deduplicated
// and sorted ascending and each height follows the aspect ratio of the base
// dimensions. It returns nil when the base has no dimensions, no widths are
// given or src is empty.
func (b *Builder) SrcSet(src string, base Options, widths []int) []VariantURL {
	if base.Width <= 0 || base.Height <= 0 {
		return nil
	}
	widths = uniqueWidths(widths)
	if len(widths) == 0 {
		return nil
	}

	aspect := aspectRatio(base.Width, base.Height)
	out := make([]VariantURL, 0, len(widths))
	for _, w := range widths {
		o := base
		o.Width = w
		o.Height = heightFor(w, aspect)
		u, ok := b.URL(src, o)
		if !ok {
			return nil
		}
		out = append(out, VariantURL{
			URL:        u,
			Width:      o.Width,
			Height:     o.Height,
			Descriptor: strconv.Itoa(w) + "w",
		})
	}
	return out
}

// Variants builds candidates from an explicit list, keeping its order. A
// variant without a descriptor, a width or a DPR is dropped, as is a later
// variant repeating an earlier descriptor.
func (b *Builder) Variants(src string, base Options, variants []Variant) []VariantURL {
	if base.Width <= 0 || base.Height <= 0 || len(variants) == 0 {
		return nil
	}

	aspect := aspectRatio(base.Width, base.Height)
	seen := make(map[string]struct{}, len(variants))
	out := make([]VariantURL, 0, len(variants))
	for _, v := range variants {
		descriptor := v.Descriptor
		if descriptor == "" {
			switch {
			case v.Width > 0:
				descriptor = strconv.Itoa(v.Width) + "w"
			case v.DPR > 0:
				descriptor = formatFloat(v.DPR) + "x"
			default:
				continue
			}
		}
		if _, dup := seen[descriptor]; dup {
			continue
		}

		o := base
		if v.Options != nil {
			o = *v.Options
		}
		switch {
		case v.Width > 0:
			o.Width = v.Width
			o.Height = v.Height
			if o.Height <= 0 {
				o.Height = heightFor(v.Width, aspect)
			}
		case v.Height > 0:
			o.Height = v.Height
		}
		if v.DPR > 0 {
			o.DPR = v.DPR
		}

		u, ok := b.URL(src, o)
		if !ok {
			return nil
		}
		seen[descriptor] = struct{}{}
		out = append(out, VariantURL{
			URL:        u,
			Width:      o.Width,
			Height:     o.Height,
			Descriptor: descriptor,
		})
	}
	return out
}

// SrcSetAttr renders candidates as the value of a srcset attribute.
func SrcSetAttr(variants []VariantURL) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, v.URL+" "+v.Descriptor)
	}
	return strings.Join(parts, ", ")
}

func uniqueWidths(widths []int) []int {
	set := make(map[int]struct{}, len(widths))
	out := make([]int, 0, len(widths))
	for _, w := range widths {
		if w <= 0 {
			continue
		}
		if _, ok := set[w]; ok {
			continue
		}
		set[w] = struct{}{}
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

func aspectRatio(width, height int) float64 {
	return float64(width) / float64(height)
}

func heightFor(width int, aspect float64) int {
	return int(math.Round(float64(width) / aspect))
}
