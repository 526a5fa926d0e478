package imaging

import (
	"fmt"
	"image"
	"math"
)

// Mode selects the derivative pipeline.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// Spec describes one derivative target. The two production derivatives are
// fixed: a square product tile and a wide 4:3 card image.
type Spec struct {
	Tag    string  `json:"tag"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Aspect float64 `json:"aspect"`
}

var (
	SpecSquare = Spec{Tag: "square", Width: 1024, Height: 1024, Aspect: 1.0}
	SpecWide   = Spec{Tag: "wide", Width: 1440, Height: 1080, Aspect: 4.0 / 3.0}
)

// AllSpecs is the ordered list of derivatives generated per item image.
var AllSpecs = []Spec{SpecSquare, SpecWide}

// SpecByTag looks up a derivative spec by its tag.
func SpecByTag(tag string) (Spec, bool) {
	for _, s := range AllSpecs {
		if s.Tag == tag {
			return s, true
		}
	}
	return Spec{}, false
}

func (s Spec) validate() error {
	if s.Width < 1 || s.Height < 1 || s.Aspect <= 0 {
		return fmt.Errorf("invalid derivative spec %q: %dx%d aspect %.3f",
			s.Tag, s.Width, s.Height, s.Aspect)
	}
	return nil
}

// CropBox is a crop region in normalized coordinates relative to the source
// dimensions: all fields in [0,1], X+W <= 1, Y+H <= 1.
type CropBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Validate rejects malformed boxes before any pixel work.
func (b CropBox) Validate() error {
	vals := []float64{b.X, b.Y, b.W, b.H}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return fmt.Errorf("crop box out of range: %+v", b)
		}
	}
	if b.W == 0 || b.H == 0 {
		return fmt.Errorf("crop box has zero size: %+v", b)
	}
	const eps = 1e-9
	if b.X+b.W > 1+eps || b.Y+b.H > 1+eps {
		return fmt.Errorf("crop box exceeds image bounds: %+v", b)
	}
	return nil
}

// PixelRect converts the box to pixel coordinates against a source of the
// given size, clamped so the region is at least 1x1 and fully inside.
func (b CropBox) PixelRect(srcW, srcH int) image.Rectangle {
	x0 := int(math.Round(b.X * float64(srcW)))
	y0 := int(math.Round(b.Y * float64(srcH)))
	w := int(math.Round(b.W * float64(srcW)))
	h := int(math.Round(b.H * float64(srcH)))

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if x0+w > srcW {
		x0 = srcW - w
		if x0 < 0 {
			x0 = 0
			w = srcW
		}
	}
	if y0+h > srcH {
		y0 = srcH - h
		if y0 < 0 {
			y0 = 0
			h = srcH
		}
	}
	return image.Rect(x0, y0, x0+w, y0+h)
}

// TrimInfo records what the soft-trim stage removed from the aspect-cropped
// region, in pixels, plus per-edge diagnostics when the analyzer ran.
type TrimInfo struct {
	Top     int  `json:"trim_top"`
	Bottom  int  `json:"trim_bottom"`
	Left    int  `json:"trim_left"`
	Right   int  `json:"trim_right"`
	DidTrim bool `json:"did_trim"`

	EdgeEnergy     map[string]float64 `json:"edge_energy,omitempty"`
	EdgeSaturation map[string]float64 `json:"edge_saturation,omitempty"`
}

// PipelineResult is the output of one derivative generation.
type PipelineResult struct {
	Bytes          []byte   `json:"-"`
	Trim           TrimInfo `json:"trim"`
	ModeUsed       Mode     `json:"mode_used"`
	ManualCropUsed *CropBox `json:"manual_crop_used,omitempty"`
}

// aspectRect computes a centered crop of the target aspect against the full
// source bounds: a relatively wider source loses width, a relatively taller
// one loses height.
func aspectRect(srcW, srcH int, aspect float64) image.Rectangle {
	srcAspect := float64(srcW) / float64(srcH)
	if srcAspect > aspect {
		w := int(math.Round(float64(srcH) * aspect))
		if w < 1 {
			w = 1
		}
		x0 := (srcW - w) / 2
		return image.Rect(x0, 0, x0+w, srcH)
	}
	h := int(math.Round(float64(srcW) / aspect))
	if h < 1 {
		h = 1
	}
	y0 := (srcH - h) / 2
	return image.Rect(0, y0, srcW, y0+h)
}
