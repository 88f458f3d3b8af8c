package chart

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarChart(t *testing.T) {
	svg := string(BarChart([]Bar{{Label: "ریاضی", Value: 10.0 / 3}, {Label: "علوم", Value: 2}}, Options{Title: "averages", YMax: 4}))

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 2, strings.Count(svg, "<rect"))
	assert.Contains(t, svg, ">3.33<")
	assert.Contains(t, svg, ">2.00<")
	assert.Contains(t, svg, "ریاضی")
	assert.Contains(t, svg, ">averages<")
}

func TestPieChart(t *testing.T) {
	t.Run("slices", func(t *testing.T) {
		svg := string(PieChart([]Slice{{Label: "ریاضی", Value: 2}, {Label: "علوم", Value: 1}}, Options{RTL: true}))
		assert.Equal(t, 2, strings.Count(svg, "<path"))
		assert.Contains(t, svg, ">66.7%<")
		assert.Contains(t, svg, ">33.3%<")
		assert.Contains(t, svg, `direction="rtl"`)
	})

	t.Run("single slice", func(t *testing.T) {
		svg := string(PieChart([]Slice{{Label: "ریاضی", Value: 3}}, Options{}))
		assert.Equal(t, 1, strings.Count(svg, "<circle"))
		assert.Contains(t, svg, ">100.0%<")
	})

	t.Run("empty", func(t *testing.T) {
		svg := string(PieChart(nil, Options{}))
		assert.NotContains(t, svg, "<path")
		assert.True(t, strings.HasSuffix(svg, "</svg>"))
	})
}

func TestLineChart(t *testing.T) {
	svg := string(LineChart([]Series{
		{Label: "ریاضی", Points: []Point{{X: "2024-02-20", Y: 3}, {X: "2024-01-15", Y: 4}}},
		{Label: "علوم", Points: []Point{{X: "2024-01-10", Y: 2}}},
	}, Options{YMax: 4}))

	assert.Equal(t, 2, strings.Count(svg, "<polyline"))
	assert.Equal(t, 3, strings.Count(svg, "<circle"))

	// dates are laid out in ascending order
	first := strings.Index(svg, "2024-01-10")
	second := strings.Index(svg, "2024-01-15")
	third := strings.Index(svg, "2024-02-20")
	assert.True(t, first < second && second < third)
}

func TestLineChart_earlierPointAddedLast(t *testing.T) {
	svg := LineChart([]Series{
		{Label: "ریاضی", Points: []Point{{X: "2024-01-15", Y: 4}, {X: "2024-02-20", Y: 3}, {X: "2024-01-01", Y: 2}}},
	}, Options{YMax: 4})

	m := regexp.MustCompile(`<polyline points="([^"]*)"`).FindStringSubmatch(svg)
	require.Len(t, m, 2)
	pts := strings.Fields(m[1])
	require.Len(t, pts, 3)

	prev := -1.0
	for _, pt := range pts {
		x, err := strconv.ParseFloat(strings.SplitN(pt, ",", 2)[0], 64)
		require.NoError(t, err)
		assert.Greater(t, x, prev, "polyline goes back in x: %v", pts)
		prev = x
	}
}

func TestLabelsAreEscaped(t *testing.T) {
	svg := string(BarChart([]Bar{{Label: "<script>", Value: 1}}, Options{}))
	assert.NotContains(t, svg, "<script>")
	assert.Contains(t, svg, "&lt;script&gt;")
}
