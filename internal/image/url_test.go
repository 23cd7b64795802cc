package image

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderURLEndToEnd(t *testing.T) {
	b := NewBuilder("", "https://phimimg.com/")

	got, ok := b.URL("/upload/film.jpg", Options{
		Width:   320,
		Height:  480,
		Quality: Int(80),
		Output:  FormatWebP,
	})

	require.True(t, ok)
	assert.Equal(t,
		"https://wsrv.nl/?url=https%3A%2F%2Fphimimg.com%2Fupload%2Ffilm.jpg&w=320&h=480&fit=cover&output=webp&q=80",
		got)
}

func TestBuilderURLIsDeterministic(t *testing.T) {
	b := NewBuilder("", "")
	o := Options{
		Width:      640,
		Blur:       Float(1.5),
		Saturation: Float(0.8),
		Extra:      map[string]string{"zz": "1", "aa": "2", "mm": "3"},
	}

	first, _ := b.URL("upload/a.jpg", o)
	for i := 0; i < 20; i++ {
		again, _ := b.URL("upload/a.jpg", o)
		assert.Equal(t, first, again)
	}
	assert.True(t, strings.HasSuffix(first, "&aa=2&mm=3&zz=1"), first)
}

func TestBuilderURLEmptySource(t *testing.T) {
	got, ok := NewBuilder("", "").URL("", Options{Width: 100})
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestBuilderURLSeparator(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		wantPref string
	}{
		{name: "base with query", baseURL: "https://wsrv.nl/?url=", wantPref: "https://wsrv.nl/?url=https%3A%2F%2Fa.b%2Fc.jpg&w=10"},
		{name: "base without query", baseURL: "https://proxy.example/img/", wantPref: "https://proxy.example/img/https%3A%2F%2Fa.b%2Fc.jpg?w=10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewBuilder(tt.baseURL, "").URL("https://a.b/c.jpg", Options{Width: 10})
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(got, tt.wantPref), got)
		})
	}
}

func TestBuilderURLEscapesLikeEncodeURIComponent(t *testing.T) {
	got, _ := NewBuilder("", "").URL("https://a.b/it's (1)*!~ x.jpg", Options{})
	assert.True(t, strings.HasPrefix(got, "https://wsrv.nl/?url=https%3A%2F%2Fa.b%2Fit's%20(1)*!~%20x.jpg&"), got)
}

func TestEncodeParamsBooleans(t *testing.T) {
	off := EncodeParams(Options{Flip: false, Lossless: false, Interlace: false})
	assert.Empty(t, off)

	on := EncodeParams(Options{Flip: true, Flop: true, Lossless: true, WithoutEnlargement: true, Interlace: true, AdaptiveFilter: true, Precrop: true, MaskTrim: true})
	values, err := url.ParseQuery(on)
	require.NoError(t, err)
	for _, key := range []string{"flip", "flop", "ll", "we", "il", "af", "precrop", "mtrim"} {
		assert.Equal(t, "true", values.Get(key), key)
	}
}

func TestEncodeParamsOmitsAbsent(t *testing.T) {
	assert.Equal(t, "", EncodeParams(Options{}))
	assert.Equal(t, "q=0&l=0", EncodeParams(Options{Quality: Int(0), Compression: Int(0)}))
	assert.Equal(t, "hue=0&page=2", EncodeParams(Options{Hue: Int(0), Page: Int(2)}))
}

func TestEncodeParamsTableOrder(t *testing.T) {
	o := Options{
		Width:              100,
		Height:             200,
		DPR:                2,
		Fit:                FitContain,
		ContainBackground:  "000",
		WithoutEnlargement: true,
		Align:              "top",
		Crop:               "10,10,100,100",
		Precrop:            true,
		Trim:               Int(10),
		Mask:               "circle",
		MaskTrim:           true,
		MaskBackground:     "fff",
		Flip:               true,
		Flop:               true,
		Rotate:             Int(90),
		RotateBackground:   "white",
		Background:         "black",
		Blur:               Float(2),
		Sharpen:            Float(1),
		Contrast:           Float(10),
		Filter:             "greyscale",
		Gamma:              Float(2.2),
		Modulate:           Float(1.2),
		Saturation:         Float(0.5),
		Hue:                Int(90),
		Tint:               "red",
		AdaptiveFilter:     true,
		Output:             FormatAVIF,
		Quality:            Int(70),
		MaxAge:             "7d",
		Compression:        Int(6),
		Lossless:           true,
		Default:            "https://a.b/fallback.png",
		Filename:           "poster",
		Interlace:          true,
		Pages:              Int(3),
		Page:               Int(1),
	}

	var keys []string
	for _, pair := range strings.Split(EncodeParams(o), "&") {
		keys = append(keys, strings.SplitN(pair, "=", 2)[0])
	}
	assert.Equal(t, Keys(), keys)
}

func TestEncodeParamsExtraOverrides(t *testing.T) {
	got := EncodeParams(Options{Width: 10, Fit: FitCover, Extra: map[string]string{"fit": "inside", "custom": "x y"}})
	assert.Equal(t, "w=10&fit=inside&custom=x+y", got)

	b := NewBuilder("", "")
	u, _ := b.URL("a.jpg", Options{Extra: map[string]string{"q": "55", "output": "png"}})
	assert.True(t, strings.HasSuffix(u, "&fit=cover&output=png&q=55"), u)
}

func TestEncodeParamsSkipsEmptyExtras(t *testing.T) {
	got := EncodeParams(Options{Width: 10, Fit: FitCover, Extra: map[string]string{"blur": "", "fit": "", "": "x", "custom": "1"}})
	assert.Equal(t, "w=10&fit=cover&custom=1", got)
}

func TestKeysMatchProxyContract(t *testing.T) {
	want := strings.Split("w,h,dpr,fit,cbg,we,a,crop,precrop,trim,mask,mtrim,mbg,flip,flop,ro,rbg,bg,blur,sharp,con,filt,gam,mod,sat,hue,tint,af,output,q,maxage,l,ll,default,filename,il,n,page", ",")
	assert.Equal(t, want, Keys())
}
