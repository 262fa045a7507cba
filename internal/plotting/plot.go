package plotting

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/internal/apperr"
	"github.com/DjordjeVuckovic/ann-bench/internal/frontier"
	"github.com/DjordjeVuckovic/ann-bench/internal/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type Scale string

const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
)

type Config struct {
	Title   string
	XScale  Scale
	YScale  Scale
	ShowRaw bool
}

// Render draws one frontier curve per algorithm, with the raw point
// cloud as a faded overlay when requested, and writes the chart in the
// given image format ("png" or "svg"). It fails with apperr.ErrNoData
// when every algorithm's frontier is empty.
func Render(w io.Writer, sets []frontier.PointSet, xm, ym metrics.Metric, cfg Config, format string) error {
	p, err := build(sets, xm, ym, cfg)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(12*vg.Inch, 9*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// FormatFromPath maps a file extension to a render format, defaulting
// to png.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg"
	case ".pdf":
		return "pdf"
	default:
		return "png"
	}
}

func build(sets []frontier.PointSet, xm, ym metrics.Metric, cfg Config) (*plot.Plot, error) {
	drawable := make([]frontier.PointSet, 0, len(sets))
	for _, ps := range sets {
		if len(ps.Frontier) > 0 {
			drawable = append(drawable, ps)
		}
	}
	if len(drawable) == 0 {
		return nil, apperr.ErrNoData
	}

	// Order series by mean y so the legend roughly follows the curves
	// top to bottom.
	sort.SliceStable(drawable, func(i, j int) bool {
		return meanY(drawable[i]) > meanY(drawable[j])
	})

	names := make([]string, len(drawable))
	for i, ps := range drawable {
		names[i] = ps.Algorithm
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	styles := Styles(sorted)

	p := plot.New()
	p.Title.Text = cfg.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("%s/%s tradeoff - %s is better",
			xm.Description, ym.Description, betterDirection(xm, ym))
	}
	p.X.Label.Text = xm.Description
	p.Y.Label.Text = ym.Description
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.Add(plotter.NewGrid())

	if err := applyScale(&p.X, cfg.XScale); err != nil {
		return nil, apperr.NewValidationWrap("invalid x scale", err)
	}
	if err := applyScale(&p.Y, cfg.YScale); err != nil {
		return nil, apperr.NewValidationWrap("invalid y scale", err)
	}

	for _, ps := range drawable {
		style := styles[ps.Algorithm]

		line, points, err := plotter.NewLinePoints(toXYs(ps.Frontier))
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", ps.Algorithm, err)
		}
		line.Color = style.Color
		line.Width = vg.Points(2)
		line.Dashes = style.Dashes
		points.Color = style.Color
		points.Shape = style.Glyph
		points.Radius = vg.Points(3)

		p.Add(line, points)
		p.Legend.Add(ps.Algorithm, line, points)

		if cfg.ShowRaw && len(ps.All) > 0 {
			raw, err := plotter.NewScatter(toXYs(ps.All))
			if err != nil {
				return nil, fmt.Errorf("raw series %s: %w", ps.Algorithm, err)
			}
			raw.Color = style.Faded
			raw.Shape = style.Glyph
			raw.Radius = vg.Points(2)
			p.Add(raw)
		}
	}

	// Axis hints apply on linear scales only; a log axis picks its own
	// range.
	if len(xm.Lim) == 2 && cfg.XScale != ScaleLog {
		p.X.Min, p.X.Max = xm.Lim[0], xm.Lim[1]
	}
	if len(ym.Lim) == 2 && cfg.YScale != ScaleLog {
		p.Y.Min, p.Y.Max = ym.Lim[0], ym.Lim[1]
	}

	return p, nil
}

func applyScale(axis *plot.Axis, s Scale) error {
	switch s {
	case "", ScaleLinear:
		return nil
	case ScaleLog:
		axis.Scale = plot.LogScale{}
		axis.Tick.Marker = plot.LogTicks{Prec: -1}
		return nil
	default:
		return fmt.Errorf("unsupported scale %q", s)
	}
}

func toXYs(points []frontier.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

func meanY(ps frontier.PointSet) float64 {
	if len(ps.Frontier) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, pt := range ps.Frontier {
		sum += pt.Y
	}
	return sum / float64(len(ps.Frontier))
}

func betterDirection(xm, ym metrics.Metric) string {
	x := "right"
	if xm.Orientation == metrics.LowerIsBetter {
		x = "left"
	}
	y := "up"
	if ym.Orientation == metrics.LowerIsBetter {
		y = "down"
	}
	return y + " and to the " + x
}
