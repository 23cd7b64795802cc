package image

// Fit modes understood by the proxy.
const (
	FitCover   = "cover"
	FitContain = "contain"
	FitInside  = "inside"
	FitOutside = "outside"
)

// Output formats understood by the proxy.
const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatAVIF = "avif"
)

const (
	DefaultFit     = FitCover
	DefaultQuality = 80
	DefaultFormat  = FormatWebP
)

// Options is the set of transformations requested from the proxy. Every field
// is optional: zero strings, zero dimensions, false booleans and nil pointers
// are left out of the query string. Pointers are used where zero is a
// meaningful value (quality 0, hue 0, rotation 0).
type Options struct {
	Width  int
	Height int
	DPR    float64

	Fit                string
	ContainBackground  string
	WithoutEnlargement bool
	Align              string
	Crop               string
	Precrop            bool
	Trim               *int
	Mask               string
	MaskTrim           bool
	MaskBackground     string

	Flip             bool
	Flop             bool
	Rotate           *int
	RotateBackground string
	Background       string

	Blur       *float64
	Sharpen    *float64
	Contrast   *float64
	Filter     string
	Gamma      *float64
	Modulate   *float64
	Saturation *float64
	Hue        *int
	Tint       string

	AdaptiveFilter bool
	Output         string
	Quality        *int
	MaxAge         string
	Compression    *int
	Lossless       bool
	Default        string
	Filename       string
	Interlace      bool
	Pages          *int
	Page           *int

	// Extra is applied after the known keys so callers can override defaults
	// or pass keys the table does not know about.
	Extra map[string]string
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// withDefaults fills fit, quality and output when they are unset.
func (o Options) withDefaults() Options {
	if o.Fit == "" {
		o.Fit = DefaultFit
	}
	if o.Quality == nil {
		o.Quality = Int(DefaultQuality)
	}
	if o.Output == "" {
		o.Output = DefaultFormat
	}
	return o
}
