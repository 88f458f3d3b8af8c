// Package chart renders small bar, pie and line charts as inline SVG markup,
// safe to embed as is.
package chart

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
)

const (
	width   = 640
	height  = 320
	padLeft = 56
	padTop  = 40
	padBot  = 56
	padRite = 24
)

// Palette is cycled through for bars, slices and series.
var Palette = []string{"#4f46e5", "#f59e0b", "#10b981", "#ef4444", "#7c3aed", "#0ea5e9"}

type (
	Options struct {
		Title  string
		XLabel string
		YLabel string
		RTL    bool // right-to-left labels
		YMax   float64
	}

	Bar struct {
		Label string
		Value float64
	}

	Slice struct {
		Label string
		Value float64
	}

	Point struct {
		X string
		Y float64
	}

	Series struct {
		Label  string
		Points []Point
	}
)

type canvas struct {
	b    strings.Builder
	opts Options
}

func newCanvas(opts Options) *canvas {
	c := &canvas{opts: opts}
	fmt.Fprintf(&c.b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" class="chart" role="img">`, width, height)
	if opts.Title != "" {
		c.text(width/2, 24, "middle", "chart-title", opts.Title)
	}
	return c
}

func (c *canvas) text(x, y float64, anchor, class, s string) {
	dir := ""
	if c.opts.RTL {
		dir = ` direction="rtl" unicode-bidi="embed"`
	}
	fmt.Fprintf(&c.b, `<text x="%.1f" y="%.1f" text-anchor="%s" class="%s"%s>%s</text>`,
		x, y, anchor, class, dir, html.EscapeString(s))
}

func (c *canvas) axes(ymax float64) {
	x0, y0 := float64(padLeft), float64(height-padBot)
	fmt.Fprintf(&c.b, `<g class="axes" stroke="#9ca3af">`)
	fmt.Fprintf(&c.b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, x0, y0, float64(width-padRite), y0)
	fmt.Fprintf(&c.b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`, x0, y0, x0, float64(padTop))
	c.b.WriteString(`</g>`)

	for i := 0; i <= int(ymax); i++ {
		y := c.y(float64(i), ymax)
		fmt.Fprintf(&c.b, `<line class="grid" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e5e7eb" stroke-opacity="0.6"/>`,
			x0, y, float64(width-padRite), y)
		c.text(x0-8, y+4, "end", "tick", fmt.Sprint(i))
	}
	if c.opts.XLabel != "" {
		c.text(float64(padLeft+width-padRite)/2, height-10, "middle", "axis-label", c.opts.XLabel)
	}
	if c.opts.YLabel != "" {
		fmt.Fprintf(&c.b, `<g transform="translate(16 %.1f) rotate(-90)">`, float64(padTop+height-padBot)/2)
		c.text(0, 0, "middle", "axis-label", c.opts.YLabel)
		c.b.WriteString(`</g>`)
	}
}

func (c *canvas) y(v, ymax float64) float64 {
	plotH := float64(height - padTop - padBot)
	return float64(height-padBot) - v/ymax*plotH
}

// svg closes the document; every text node already went through html.EscapeString.
func (c *canvas) svg() string {
	c.b.WriteString(`</svg>`)
	return c.b.String()
}

func yMax(opts Options, values ...float64) float64 {
	if opts.YMax > 0 {
		return opts.YMax
	}
	var max float64
	for _, v := range values {
		max = math.Max(max, v)
	}
	if max <= 0 {
		return 1
	}
	return math.Ceil(max)
}

// BarChart draws one bar per entry, each labelled with its value to two decimals.
func BarChart(bars []Bar, opts Options) string {
	c := newCanvas(opts)
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}
	ymax := yMax(opts, values...)
	c.axes(ymax)

	if len(bars) > 0 {
		slot := float64(width-padLeft-padRite) / float64(len(bars))
		barW := slot * 0.6
		for i, b := range bars {
			x := float64(padLeft) + slot*float64(i) + (slot-barW)/2
			y := c.y(b.Value, ymax)
			fmt.Fprintf(&c.b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
				x, y, barW, float64(height-padBot)-y, Palette[i%len(Palette)])
			c.text(x+barW/2, y-6, "middle", "value", fmt.Sprintf("%.2f", b.Value))
			c.text(x+barW/2, float64(height-padBot)+18, "middle", "tick", b.Label)
		}
	}
	return c.svg()
}

// PieChart draws slices proportional to their values, starting at twelve
// o'clock and labelled with their share to one decimal.
func PieChart(slices []Slice, opts Options) string {
	c := newCanvas(opts)

	var total float64
	for _, s := range slices {
		total += s.Value
	}
	if total <= 0 {
		return c.svg()
	}

	cx, cy, r := float64(width)/2, float64(height+padTop)/2, float64(height-padTop-padBot/2)/2
	angle := -math.Pi / 2
	for i, s := range slices {
		share := s.Value / total
		sweep := share * 2 * math.Pi
		color := Palette[i%len(Palette)]
		if len(slices) == 1 {
			fmt.Fprintf(&c.b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`, cx, cy, r, color)
		} else {
			x1, y1 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
			x2, y2 := cx+r*math.Cos(angle+sweep), cy+r*math.Sin(angle+sweep)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			fmt.Fprintf(&c.b, `<path d="M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z" fill="%s"/>`,
				cx, cy, x1, y1, r, r, large, x2, y2, color)
		}

		mid := angle + sweep/2
		c.text(cx+r*0.6*math.Cos(mid), cy+r*0.6*math.Sin(mid), "middle", "value", fmt.Sprintf("%.1f%%", share*100))
		c.text(cx+(r+16)*math.Cos(mid), cy+(r+16)*math.Sin(mid), "middle", "tick", s.Label)
		angle += sweep
	}
	return c.svg()
}

// LineChart draws one line with markers per series. The x axis holds every
// distinct X value of all series in ascending order, and each line follows it
// left to right whatever the order of its points.
func LineChart(series []Series, opts Options) string {
	c := newCanvas(opts)

	seen := make(map[string]bool)
	var xs []string
	var values []float64
	for _, s := range series {
		for _, p := range s.Points {
			values = append(values, p.Y)
			if !seen[p.X] {
				seen[p.X] = true
				xs = append(xs, p.X)
			}
		}
	}
	sort.Strings(xs)
	ymax := yMax(opts, values...)
	c.axes(ymax)

	if len(xs) == 0 {
		return c.svg()
	}

	slot := float64(width-padLeft-padRite) / float64(len(xs))
	xpos := make(map[string]float64, len(xs))
	for i, x := range xs {
		xpos[x] = float64(padLeft) + slot*float64(i) + slot/2
		c.text(xpos[x], float64(height-padBot)+18, "middle", "tick", x)
	}

	for i, s := range series {
		color := Palette[i%len(Palette)]
		points := make([]Point, len(s.Points))
		copy(points, s.Points)
		sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })

		pts := make([]string, 0, len(points))
		for _, p := range points {
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", xpos[p.X], c.y(p.Y, ymax)))
		}
		fmt.Fprintf(&c.b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`, strings.Join(pts, " "), color)
		for _, p := range points {
			fmt.Fprintf(&c.b, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`, xpos[p.X], c.y(p.Y, ymax), color)
		}

		// legend
		ly := float64(padTop + 4 + 18*i)
		fmt.Fprintf(&c.b, `<rect x="%d" y="%.1f" width="12" height="12" fill="%s"/>`, width-padRite-12, ly, color)
		c.text(float64(width-padRite-18), ly+10, "end", "legend", s.Label)
	}
	return c.svg()
}
