package imaging

import (
	"image"
	"image/color"
	"testing"
)

// gradientImage ramps gray luma left to right across the full width.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestGlobalStatsSolid(t *testing.T) {
	g := newSampleGrid(solidImage(500, 500, color.RGBA{128, 128, 128, 255}))

	meanSat, lumaVar := g.globalStats()
	if meanSat > 1 {
		t.Fatalf("gray image mean saturation = %f, want ~0", meanSat)
	}
	if lumaVar > 1 {
		t.Fatalf("solid image luma variance = %f, want ~0", lumaVar)
	}
}

func TestCircularEdgeDetection(t *testing.T) {
	// A slow horizontal ramp produces a smooth transition at every border
	// position, the same signature a plate rim leaves.
	g := newSampleGrid(gradientImage(1000, 1000))
	if !g.hasCircularEdges() {
		t.Fatalf("gradient border rows not detected as smooth")
	}

	// Hard-edged subject: border rows are flat white, no smooth steps.
	g = newSampleGrid(subjectImage(1000, 700))
	if g.hasCircularEdges() {
		t.Fatalf("flat border rows misdetected as circular")
	}
}

func TestCircularEdgesSuppressTrim(t *testing.T) {
	info := analyzeTrim(gradientImage(1000, 1000))
	if info.DidTrim || info.Left+info.Right+info.Top+info.Bottom != 0 {
		t.Fatalf("circular-edge image must not be trimmed: %+v", info)
	}
}

func TestScanEdgeEmptyRun(t *testing.T) {
	// 150px white margin on a 1000px image is roughly 9 to 10 sample strips;
	// the strip touching the subject boundary picks up gradient energy and
	// ends the run.
	g := newSampleGrid(subjectImage(1000, 700))

	for _, edge := range []string{"left", "right", "top", "bottom"} {
		scan := g.scanEdge(edge)
		if scan.emptyRun < 6 || scan.emptyRun > 10 {
			t.Fatalf("%s emptyRun = %d, want margin-sized run", edge, scan.emptyRun)
		}
	}
}

func TestScanEdgeNoMargin(t *testing.T) {
	// Subject fills the frame: border strips are saturated, run is zero.
	g := newSampleGrid(solidImage(1000, 1000, color.RGBA{220, 30, 30, 255}))

	for _, edge := range []string{"left", "right", "top", "bottom"} {
		if scan := g.scanEdge(edge); scan.emptyRun != 0 {
			t.Fatalf("%s emptyRun = %d on full-bleed subject", edge, scan.emptyRun)
		}
	}
}

func TestAnalyzeTrimSymmetry(t *testing.T) {
	info := analyzeTrim(subjectImage(1000, 700))
	if !info.DidTrim {
		t.Fatalf("expected trim: %+v", info)
	}
	if info.Left != info.Right || info.Top != info.Bottom {
		t.Fatalf("centered subject should trim symmetrically: %+v", info)
	}
	if info.Left != info.Top {
		t.Fatalf("square centered subject should trim all edges equally: %+v", info)
	}
}

func TestAnalyzeTrimRecordsDiagnostics(t *testing.T) {
	info := analyzeTrim(subjectImage(1000, 700))
	for _, edge := range []string{"left", "right", "top", "bottom"} {
		if _, ok := info.EdgeEnergy[edge]; !ok {
			t.Fatalf("missing energy diagnostic for %s", edge)
		}
		if _, ok := info.EdgeSaturation[edge]; !ok {
			t.Fatalf("missing saturation diagnostic for %s", edge)
		}
	}
}
