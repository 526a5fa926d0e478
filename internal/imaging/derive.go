package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// minCropPx is the smallest usable crop dimension; trims that would shrink
// the region below it are discarded in favor of the pure aspect crop.
const minCropPx = 100

// jpegQuality is fixed so regenerating with identical inputs yields
// byte-identical output.
const jpegQuality = 90

// Generate produces one derivative from raw source bytes. Auto mode frames
// a centered aspect crop first and only then considers trimming empty
// margins; manual mode extracts the given normalized box as-is. Pure
// function of its inputs.
func Generate(src []byte, spec Spec, mode Mode, manualCrop *CropBox) (*PipelineResult, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	switch mode {
	case ModeManual:
		return generateManual(img, spec, manualCrop)
	case ModeAuto, "":
		return generateAuto(img, spec)
	default:
		return nil, fmt.Errorf("unknown derivative mode %q", mode)
	}
}

func generateManual(img image.Image, spec Spec, crop *CropBox) (*PipelineResult, error) {
	if crop == nil {
		return nil, errors.New("manual mode requires a crop box")
	}
	if err := crop.Validate(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	rect := crop.PixelRect(b.Dx(), b.Dy()).Add(b.Min)

	out, err := resizeEncode(extract(img, rect), spec)
	if err != nil {
		return nil, err
	}
	used := *crop
	return &PipelineResult{
		Bytes:          out,
		ModeUsed:       ModeManual,
		ManualCropUsed: &used,
	}, nil
}

func generateAuto(img image.Image, spec Spec) (*PipelineResult, error) {
	b := img.Bounds()

	// Frame first: a centered crop at the target aspect against the
	// original image establishes natural framing before any trimming.
	rect := aspectRect(b.Dx(), b.Dy(), spec.Aspect).Add(b.Min)
	region := extract(img, rect)

	trim := analyzeTrim(region)

	final := image.Rect(
		rect.Min.X+trim.Left,
		rect.Min.Y+trim.Top,
		rect.Max.X-trim.Right,
		rect.Max.Y-trim.Bottom,
	)
	if final.Dx() < minCropPx || final.Dy() < minCropPx {
		trim = TrimInfo{
			EdgeEnergy:     trim.EdgeEnergy,
			EdgeSaturation: trim.EdgeSaturation,
		}
		final = rect
	}

	cropped := region
	if trim.DidTrim {
		cropped = extract(img, final)
	}

	out, err := resizeEncode(cropped, spec)
	if err != nil {
		return nil, err
	}
	return &PipelineResult{
		Bytes:    out,
		Trim:     trim,
		ModeUsed: ModeAuto,
	}, nil
}

// extract copies a source rectangle into a fresh RGBA image.
func extract(img image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// resizeEncode scales the crop to the exact target dimensions and encodes
// it as JPEG.
func resizeEncode(img image.Image, spec Spec) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
