package floats

import (
	"fmt"
	"image/color"
	"math"
	"os"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plot is the data handed to a Plotter: two 2-d operands, their difference
// and the mask of failing elements, all row-major with Rows*Cols entries.
type Plot struct {
	Rows, Cols     int
	Lhs, Rhs, Diff []float64
	Bad            []bool
}

// Plotter renders a failure plot. fileName is never empty.
type Plotter interface {
	PlotDiff(fileName string, p Plot) error
}

// PlotterFunc adapts a function to Plotter.
type PlotterFunc func(fileName string, p Plot) error

func (f PlotterFunc) PlotDiff(fileName string, p Plot) error { return f(fileName, p) }

// PNGPlotter draws a 2x3 grid of grayscale heat maps titled lhs, rhs and
// diff with gonum/plot. The top row is scaled to the lhs/rhs range and the
// bottom row to the diff range, each with its colorbar on the right. Failing
// elements are overlaid in translucent red. Row 0 is at the bottom.
type PNGPlotter struct {
	Width, Height vg.Length // default 8x4 inches
}

// badOverlay is red at 20% opacity.
var badOverlay = color.NRGBA{R: 0xff, A: 0x33}

func (p PNGPlotter) PlotDiff(fileName string, pl Plot) error {
	w, h := p.Width, p.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 4 * vg.Inch
	}

	rows := make([][]*gplot.Plot, 2)
	for j, ranges := range [][][]float64{{pl.Lhs, pl.Rhs}, {pl.Diff}} {
		lo, hi := bounds(ranges...)
		cm, err := grayMap(lo, hi)
		if err != nil {
			return fmt.Errorf("floats: plot: %w", err)
		}
		rows[j] = make([]*gplot.Plot, 4)
		for i, panel := range []struct {
			title string
			data  []float64
		}{{"lhs", pl.Lhs}, {"rhs", pl.Rhs}, {"diff", pl.Diff}} {
			rows[j][i] = heatPanel(panel.title, pl, panel.data, cm)
		}
		bar := gplot.New()
		bar.HideX()
		bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
		rows[j][3] = bar
	}

	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      4,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  vg.Millimeter,
	}
	canvases := gplot.Align(rows, tiles, dc)
	for j := range rows {
		for i := range rows[j] {
			rows[j][i].Draw(canvases[j][i])
		}
	}

	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("floats: plot: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("floats: plot: %w", err)
	}
	return f.Close()
}

func heatPanel(title string, pl Plot, data []float64, cm palette.ColorMap) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.HideAxes()

	hm := plotter.NewHeatMap(grid{rows: pl.Rows, cols: pl.Cols, z: data}, cm.Palette(256))
	hm.Min, hm.Max = cm.Min(), cm.Max()
	p.Add(hm)

	if pl.Bad != nil {
		mask := make([]float64, len(pl.Bad))
		for i, bad := range pl.Bad {
			mask[i] = math.NaN()
			if bad {
				mask[i] = 1
			}
		}
		// NaN cells use HeatMap.NaN, which is nil and leaves them undrawn.
		overlay := plotter.NewHeatMap(grid{rows: pl.Rows, cols: pl.Cols, z: mask}, colors{badOverlay})
		overlay.Min, overlay.Max = 0, 1
		p.Add(overlay)
	}
	return p
}

// grayMap maps [lo, hi] from black to white. A flat range is widened so the
// colorbar stays drawable.
func grayMap(lo, hi float64) (palette.ColorMap, error) {
	if !(hi > lo) {
		lo, hi = lo-0.5, lo+0.5
	}
	cm, err := moreland.NewLuminance([]color.Color{color.Black, color.White})
	if err != nil {
		return nil, err
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm, nil
}

// grid is a row-major array seen as a plotter.GridXYZ, row 0 at y=0.
type grid struct {
	rows, cols int
	z          []float64
}

func (g grid) Dims() (c, r int)   { return g.cols, g.rows }
func (g grid) Z(c, r int) float64 { return g.z[r*g.cols+c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

func bounds(sets ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range sets {
		for _, v := range s {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	return lo, hi
}
