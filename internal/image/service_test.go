package image

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOptions(t *testing.T) {
	svc := WsrvService{}

	tests := []struct {
		name       string
		in         Transform
		cfg        ServiceConfig
		wantErr    error
		wantW      int
		wantH      int
		wantQ      int
		wantFormat string
	}{
		{
			name:    "missing source",
			in:      Transform{},
			wantErr: ErrMissingSource,
		},
		{
			name:    "unsupported scheme",
			in:      Transform{Src: Source{URL: "data:image/png;base64,AAAA"}},
			wantErr: ErrUnsupportedSource,
		},
		{
			name:    "file scheme",
			in:      Transform{Src: Source{URL: "file:///etc/passwd"}},
			wantErr: ErrUnsupportedSource,
		},
		{
			name:    "ftp scheme",
			in:      Transform{Src: Source{URL: "ftp://files.example/a.png"}},
			wantErr: ErrUnsupportedSource,
		},
		{
			name:       "path with bare percent",
			in:         Transform{Src: Source{URL: "/upload/50%off.jpg"}},
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "absolute URL with invalid escape",
			in:         Transform{Src: Source{URL: "https://img.example.com/a%zz.jpg"}},
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "single letter before colon is a path",
			in:         Transform{Src: Source{URL: "a:b.jpg"}},
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "colon after a slash is a path",
			in:         Transform{Src: Source{URL: "upload/a:b.jpg"}},
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "service defaults",
			in:         Transform{Src: Source{URL: "upload/a.jpg"}, Width: 100, Height: 150},
			wantW:      100,
			wantH:      150,
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "configured defaults",
			in:         Transform{Src: Source{URL: "https://a.b/c.jpg"}},
			cfg:        ServiceConfig{DefaultQuality: 60, DefaultFormat: FormatAVIF},
			wantQ:      60,
			wantFormat: FormatAVIF,
		},
		{
			name:       "explicit values win",
			in:         Transform{Src: Source{URL: "//a.b/c.jpg", Width: 1000, Height: 500}, Width: 10, Height: 20, Quality: Int(0), Format: FormatPNG},
			cfg:        ServiceConfig{DefaultQuality: 60, DefaultFormat: FormatAVIF},
			wantW:      10,
			wantH:      20,
			wantQ:      0,
			wantFormat: FormatPNG,
		},
		{
			name:       "intrinsic dimensions",
			in:         Transform{Src: Source{URL: "a.jpg", Width: 1000, Height: 500}},
			wantW:      1000,
			wantH:      500,
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
		{
			name:       "width derives height from intrinsic ratio",
			in:         Transform{Src: Source{URL: "a.jpg", Width: 1000, Height: 500}, Width: 300},
			wantW:      300,
			wantH:      150,
			wantQ:      DefaultQuality,
			wantFormat: DefaultFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateOptions(tt.in, tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				var cfgErr *ConfigurationError
				assert.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "src", cfgErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, got.Width)
			assert.Equal(t, tt.wantH, got.Height)
			require.NotNil(t, got.Quality)
			assert.Equal(t, tt.wantQ, *got.Quality)
			assert.Equal(t, tt.wantFormat, got.Format)
		})
	}
}

func TestGetURL(t *testing.T) {
	svc := WsrvService{}
	cfg := ServiceConfig{ImageOrigin: "https://phimimg.com/"}

	tr, err := svc.ValidateOptions(Transform{Src: Source{URL: "/upload/film.jpg"}, Width: 320, Height: 480}, cfg)
	require.NoError(t, err)

	assert.Equal(t,
		"https://wsrv.nl/?url=https%3A%2F%2Fphimimg.com%2Fupload%2Ffilm.jpg&w=320&h=480&fit=cover&output=webp&q=80",
		svc.GetURL(tr, cfg))

	tr.Fit = FitContain
	tr.Position = "top"
	tr.Options.Tint = "red"
	got := svc.GetURL(tr, ServiceConfig{BaseURL: "https://img.example/resize", ImageOrigin: "https://phimimg.com"})
	assert.Equal(t,
		"https://img.example/resizehttps%3A%2F%2Fphimimg.com%2Fupload%2Ffilm.jpg?w=320&h=480&fit=contain&a=top&tint=red&output=webp&q=80",
		got)
}

func TestGetHTMLAttributes(t *testing.T) {
	svc := WsrvService{}

	got := svc.GetHTMLAttributes(Transform{
		Src:        Source{URL: "a.jpg"},
		Width:      320,
		Height:     480,
		Widths:     []int{160},
		Format:     FormatWebP,
		Quality:    Int(80),
		Attributes: map[string]string{"alt": "Poster", "class": "rounded"},
	})
	assert.Equal(t, map[string]string{
		"alt":      "Poster",
		"class":    "rounded",
		"width":    "320",
		"height":   "480",
		"loading":  "lazy",
		"decoding": "async",
	}, got)

	got = svc.GetHTMLAttributes(Transform{Attributes: map[string]string{"loading": "eager", "decoding": "sync"}})
	assert.Equal(t, "eager", got["loading"])
	assert.Equal(t, "sync", got["decoding"])
	assert.NotContains(t, got, "width")
}

func TestGetSrcSet(t *testing.T) {
	svc := WsrvService{}

	assert.Empty(t, svc.GetSrcSet(Transform{Widths: []int{100}}))
	assert.Empty(t, svc.GetSrcSet(Transform{Width: 100, Height: 100}))

	entries := svc.GetSrcSet(Transform{Width: 1200, Height: 675, Format: FormatAVIF, Widths: []int{1600, 640, 1200}})
	require.Len(t, entries, 3)
	assert.Equal(t, "640w", entries[0].Descriptor)
	assert.Equal(t, 360, entries[0].Transform.Height)
	assert.Nil(t, entries[0].Transform.Widths)
	assert.Equal(t, map[string]string{"type": "image/avif"}, entries[2].Attributes)

	dense := svc.GetSrcSet(Transform{Width: 100, Height: 150, Densities: []float64{1, 2, 2, 1.5}})
	require.Len(t, dense, 3)
	assert.Equal(t, []string{"1x", "2x", "1.5x"}, []string{dense[0].Descriptor, dense[1].Descriptor, dense[2].Descriptor})
	assert.Equal(t, 200, dense[1].Transform.Width)
	assert.Equal(t, 300, dense[1].Transform.Height)
	assert.Equal(t, "image/webp", dense[0].Attributes["type"])
}

func TestRender(t *testing.T) {
	r, err := Render(WsrvService{}, Transform{
		Src:        Source{URL: "/upload/film.jpg"},
		Width:      320,
		Height:     480,
		Widths:     []int{160, 320},
		Attributes: map[string]string{"alt": "Film"},
	}, ServiceConfig{})
	require.NoError(t, err)

	assert.Contains(t, r.Src, "&w=320&h=480&")
	require.Len(t, r.Entries, 2)
	assert.Contains(t, r.Entries[0].URL, "&w=160&h=240&")
	assert.Equal(t, r.Entries[0].URL+" 160w, "+r.Entries[1].URL+" 320w", r.SrcSet)
	assert.Equal(t, "Film", r.Attributes["alt"])

	_, err = Render(WsrvService{}, Transform{}, ServiceConfig{})
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
