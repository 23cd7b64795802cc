package image

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

type param struct {
	key   string
	value string
}

// paramTable maps option fields to proxy query keys. The order of this table
// is the order of the encoded query string.
var paramTable = []struct {
	key   string
	value func(o *Options) (string, bool)
}{
	{"w", func(o *Options) (string, bool) { return positiveInt(o.Width) }},
	{"h", func(o *Options) (string, bool) { return positiveInt(o.Height) }},
	{"dpr", func(o *Options) (string, bool) { return positiveFloat(o.DPR) }},
	{"fit", func(o *Options) (string, bool) { return str(o.Fit) }},
	{"cbg", func(o *Options) (string, bool) { return str(o.ContainBackground) }},
	{"we", func(o *Options) (string, bool) { return flag(o.WithoutEnlargement) }},
	{"a", func(o *Options) (string, bool) { return str(o.Align) }},
	{"crop", func(o *Options) (string, bool) { return str(o.Crop) }},
	{"precrop", func(o *Options) (string, bool) { return flag(o.Precrop) }},
	{"trim", func(o *Options) (string, bool) { return intPtr(o.Trim) }},
	{"mask", func(o *Options) (string, bool) { return str(o.Mask) }},
	{"mtrim", func(o *Options) (string, bool) { return flag(o.MaskTrim) }},
	{"mbg", func(o *Options) (string, bool) { return str(o.MaskBackground) }},
	{"flip", func(o *Options) (string, bool) { return flag(o.Flip) }},
	{"flop", func(o *Options) (string, bool) { return flag(o.Flop) }},
	{"ro", func(o *Options) (string, bool) { return intPtr(o.Rotate) }},
	{"rbg", func(o *Options) (string, bool) { return str(o.RotateBackground) }},
	{"bg", func(o *Options) (string, bool) { return str(o.Background) }},
	{"blur", func(o *Options) (string, bool) { return floatPtr(o.Blur) }},
	{"sharp", func(o *Options) (string, bool) { return floatPtr(o.Sharpen) }},
	{"con", func(o *Options) (string, bool) { return floatPtr(o.Contrast) }},
	{"filt", func(o *Options) (string, bool) { return str(o.Filter) }},
	{"gam", func(o *Options) (string, bool) { return floatPtr(o.Gamma) }},
	{"mod", func(o *Options) (string, bool) { return floatPtr(o.Modulate) }},
	{"sat", func(o *Options) (string, bool) { return floatPtr(o.Saturation) }},
	{"hue", func(o *Options) (string, bool) { return intPtr(o.Hue) }},
	{"tint", func(o *Options) (string, bool) { return str(o.Tint) }},
	{"af", func(o *Options) (string, bool) { return flag(o.AdaptiveFilter) }},
	{"output", func(o *Options) (string, bool) { return str(o.Output) }},
	{"q", func(o *Options) (string, bool) { return intPtr(o.Quality) }},
	{"maxage", func(o *Options) (string, bool) { return str(o.MaxAge) }},
	{"l", func(o *Options) (string, bool) { return intPtr(o.Compression) }},
	{"ll", func(o *Options) (string, bool) { return flag(o.Lossless) }},
	{"default", func(o *Options) (string, bool) { return str(o.Default) }},
	{"filename", func(o *Options) (string, bool) { return str(o.Filename) }},
	{"il", func(o *Options) (string, bool) { return flag(o.Interlace) }},
	{"n", func(o *Options) (string, bool) { return intPtr(o.Pages) }},
	{"page", func(o *Options) (string, bool) { return intPtr(o.Page) }},
}

// Keys returns the query keys the proxy recognises, in encoding order.
func Keys() []string {
	keys := make([]string, len(paramTable))
	for i, p := range paramTable {
		keys[i] = p.key
	}
	return keys
}

// EncodeParams returns the canonical query string for o, without a leading
// separator. Known keys come first in table order. Extra keys that match a
// known key replace its value in place; the rest follow sorted by key.
// Extras with an empty key or value are omitted.
func EncodeParams(o Options) string {
	params := make([]param, 0, len(paramTable)+len(o.Extra))
	index := make(map[string]int, len(paramTable))
	for _, p := range paramTable {
		if v, ok := p.value(&o); ok {
			index[p.key] = len(params)
			params = append(params, param{key: p.key, value: v})
		}
	}

	extraKeys := make([]string, 0, len(o.Extra))
	for k, v := range o.Extra {
		if k != "" && v != "" {
			extraKeys = append(extraKeys, k)
		}
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if i, ok := index[k]; ok {
			params[i].value = o.Extra[k]
			continue
		}
		index[k] = len(params)
		params = append(params, param{key: k, value: o.Extra[k]})
	}

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func str(v string) (string, bool) { return v, v != "" }

func flag(v bool) (string, bool) {
	if !v {
		return "", false
	}
	return "true", true
}

func positiveInt(v int) (string, bool) {
	if v <= 0 {
		return "", false
	}
	return strconv.Itoa(v), true
}

func positiveFloat(v float64) (string, bool) {
	if v <= 0 {
		return "", false
	}
	return formatFloat(v), true
}

func intPtr(v *int) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.Itoa(*v), true
}

func floatPtr(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	return formatFloat(*v), true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
