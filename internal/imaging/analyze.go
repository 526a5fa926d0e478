package imaging

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// The analyzer works on a fixed downsample of the aspect-cropped region.
// All thresholds below are tuned for food photography: dishes are almost
// always centered, margins that are safe to remove are flat and desaturated
// (tablecloths, trays, plain backdrops).
const (
	sampleSize = 64

	// Whole-image gates. Uniform dishes (soups, curries, sauces) and
	// low-saturation shots get no trim at all.
	minMeanSaturation = 25.0
	minLumaVariance   = 20.0

	// Circular-edge gate: fraction of border-row positions showing a
	// smooth brightness transition before the image is treated as a
	// plate/bowl shot.
	circularEdgeFraction = 0.70

	// Per-strip emptiness thresholds inside an edge band.
	maxEmptyEnergy     = 3.0
	maxEmptySaturation = 15.0

	// Each edge band covers the outer quarter of its dimension.
	bandDivisor = 4

	// An edge may suggest at most 12% of its dimension.
	maxEdgeTrimFraction = 0.12

	// All-or-nothing valve: if an axis would lose more than this, every
	// trim on the image is cancelled.
	maxAxisTrimFraction = 0.20
)

// sampleGrid holds per-pixel luma and saturation of the 64x64 downsample.
type sampleGrid struct {
	luma [sampleSize][sampleSize]float64
	sat  [sampleSize][sampleSize]float64
}

func newSampleGrid(img image.Image) *sampleGrid {
	dst := image.NewRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	g := &sampleGrid{}
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			i := dst.PixOffset(x, y)
			r := float64(dst.Pix[i])
			gr := float64(dst.Pix[i+1])
			b := float64(dst.Pix[i+2])

			g.luma[y][x] = 0.299*r + 0.587*gr + 0.114*b

			maxC := math.Max(r, math.Max(gr, b))
			minC := math.Min(r, math.Min(gr, b))
			if maxC > 0 {
				g.sat[y][x] = (maxC - minC) / maxC * 255
			}
		}
	}
	return g
}

// globalStats returns the mean saturation and luma variance over the whole
// sample.
func (g *sampleGrid) globalStats() (meanSat, lumaVar float64) {
	const n = sampleSize * sampleSize
	var satSum, lumaSum float64
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			satSum += g.sat[y][x]
			lumaSum += g.luma[y][x]
		}
	}
	meanSat = satSum / n
	meanLuma := lumaSum / n

	var varSum float64
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			d := g.luma[y][x] - meanLuma
			varSum += d * d
		}
	}
	return meanSat, varSum / n
}

// hasCircularEdges reports whether the top and bottom border rows both show
// smooth low-variance brightness transitions across most positions, the
// signature of a plate or bowl rim touching the frame. Flat rows (zero
// difference) do not count; those are handled by the variance gate.
func (g *sampleGrid) hasCircularEdges() bool {
	return g.smoothRowFraction(0) > circularEdgeFraction &&
		g.smoothRowFraction(sampleSize-1) > circularEdgeFraction
}

func (g *sampleGrid) smoothRowFraction(y int) float64 {
	smooth := 0
	for x := 0; x < sampleSize-1; x++ {
		d := math.Abs(g.luma[y][x+1] - g.luma[y][x])
		if d > 0.5 && d <= 6.0 {
			smooth++
		}
	}
	return float64(smooth) / float64(sampleSize-1)
}

// edgeScan is the per-edge result of the band analysis.
type edgeScan struct {
	emptyRun   int     // consecutive empty strips from the border inward
	energy     float64 // band-average gradient energy (diagnostic)
	saturation float64 // band-average saturation (diagnostic)
}

// stripAt returns the mean gradient energy (absolute luma difference toward
// the interior) and mean saturation of one 1-sample-deep strip. depth counts
// inward from the given edge.
func (g *sampleGrid) stripAt(edge string, depth int) (energy, sat float64) {
	var eSum, sSum float64
	switch edge {
	case "left":
		x := depth
		for y := 0; y < sampleSize; y++ {
			eSum += math.Abs(g.luma[y][x+1] - g.luma[y][x])
			sSum += g.sat[y][x]
		}
	case "right":
		x := sampleSize - 1 - depth
		for y := 0; y < sampleSize; y++ {
			eSum += math.Abs(g.luma[y][x-1] - g.luma[y][x])
			sSum += g.sat[y][x]
		}
	case "top":
		y := depth
		for x := 0; x < sampleSize; x++ {
			eSum += math.Abs(g.luma[y+1][x] - g.luma[y][x])
			sSum += g.sat[y][x]
		}
	case "bottom":
		y := sampleSize - 1 - depth
		for x := 0; x < sampleSize; x++ {
			eSum += math.Abs(g.luma[y-1][x] - g.luma[y][x])
			sSum += g.sat[y][x]
		}
	}
	return eSum / sampleSize, sSum / sampleSize
}

// scanEdge walks strips from the border inward through the outer band of the
// edge, counting how many consecutive strips are truly empty: gradient
// energy and saturation both under threshold.
func (g *sampleGrid) scanEdge(edge string) edgeScan {
	band := sampleSize / bandDivisor

	var scan edgeScan
	run := 0
	runBroken := false
	for depth := 0; depth < band; depth++ {
		e, s := g.stripAt(edge, depth)
		scan.energy += e
		scan.saturation += s
		if !runBroken && e < maxEmptyEnergy && s < maxEmptySaturation {
			run++
		} else {
			runBroken = true
		}
	}
	scan.emptyRun = run
	scan.energy /= float64(band)
	scan.saturation /= float64(band)
	return scan
}

// analyzeTrim decides how much of each edge of the aspect-cropped region is
// safe to remove. Under-cropping is correctable later; over-cropping into
// the dish is not, so every gate here prefers "no trim".
func analyzeTrim(region image.Image) TrimInfo {
	w := region.Bounds().Dx()
	h := region.Bounds().Dy()

	info := TrimInfo{
		EdgeEnergy:     make(map[string]float64, 4),
		EdgeSaturation: make(map[string]float64, 4),
	}

	g := newSampleGrid(region)

	if g.hasCircularEdges() {
		return info
	}
	meanSat, lumaVar := g.globalStats()
	if meanSat < minMeanSaturation || lumaVar < minLumaVariance {
		return info
	}

	trims := make(map[string]int, 4)
	for _, edge := range []string{"left", "right", "top", "bottom"} {
		scan := g.scanEdge(edge)
		info.EdgeEnergy[edge] = scan.energy
		info.EdgeSaturation[edge] = scan.saturation

		dim := w
		if edge == "top" || edge == "bottom" {
			dim = h
		}

		// Half the empty run, converted to pixels, capped per edge.
		px := scan.emptyRun / 2 * dim / sampleSize
		if limit := int(float64(dim) * maxEdgeTrimFraction); px > limit {
			px = limit
		}
		trims[edge] = px
	}

	if float64(trims["left"]+trims["right"]) > float64(w)*maxAxisTrimFraction ||
		float64(trims["top"]+trims["bottom"]) > float64(h)*maxAxisTrimFraction {
		// One aggressive axis cancels everything rather than risking the
		// subject.
		return info
	}

	info.Left = trims["left"]
	info.Right = trims["right"]
	info.Top = trims["top"]
	info.Bottom = trims["bottom"]
	info.DidTrim = info.Left+info.Right+info.Top+info.Bottom > 0
	return info
}
