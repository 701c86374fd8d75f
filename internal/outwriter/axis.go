package outwriter

import (
	"math"
	"sort"
	"strings"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/mattn/go-runewidth"
)

// axisRow is one line of terminal cells. A wide rune takes its cell and
// leaves the following cell empty.
type axisRow []string

func newAxisRow(cols int, fill string) axisRow {
	r := make(axisRow, cols)
	for i := range r {
		r[i] = fill
	}
	return r
}

// put writes s from col when every cell it covers is blank. It reports whether s was written.
func (r axisRow) put(col int, s string) bool {
	w := runewidth.StringWidth(s)
	if w == 0 || col < 0 || col+w > len(r) {
		return false
	}
	for i := col; i < col+w; i++ {
		if r[i] != " " {
			return false
		}
	}
	i, last := col, col
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			r[last] += string(ch)
			continue
		}
		r[i], last = string(ch), i
		for k := 1; k < cw; k++ {
			r[i+k] = ""
		}
		i += cw
	}
	return true
}

func (r axisRow) String() string {
	return strings.TrimRight(strings.Join(r, ""), " ")
}

// RenderAxis draws a viewport as plain text cols cells wide.
// Event names sit above their markers, one line per declutter level, and
// tick labels sit under the axis. Labels that would overlap are dropped.
func RenderAxis(result *schema.RenderResult, cols int) []string {
	cols = max(cols, 2)
	column := func(x float64) int {
		if !(result.Width > 0) || math.IsNaN(x) {
			return 0
		}
		c := int(math.Round(x / result.Width * float64(cols-1)))
		return min(cols-1, max(0, c))
	}

	var levels []float64
	for _, ve := range result.Events {
		if i := sort.SearchFloat64s(levels, ve.Y); i == len(levels) || levels[i] != ve.Y {
			levels = append(levels, ve.Y)
			sort.Float64s(levels)
		}
	}
	rows := make([]axisRow, len(levels))
	for i := range rows {
		rows[i] = newAxisRow(cols, " ")
	}
	markers := newAxisRow(cols, " ")
	for _, ve := range result.Events {
		c := column(ve.X)
		markers[c] = "*"
		label := contract.TruncateLabel(ve.Event.Name, cols)
		start := min(c, cols-runewidth.StringWidth(label))
		rows[sort.SearchFloat64s(levels, ve.Y)].put(start, label)
	}

	axis := newAxisRow(cols, "-")
	tickLabels := newAxisRow(cols, " ")
	for _, t := range result.Ticks {
		c := column(t.Position)
		axis[c] = "+"
		label := contract.TruncateLabel(t.Label, cols)
		w := runewidth.StringWidth(label)
		tickLabels.put(min(max(0, c-w/2), cols-w), label)
	}

	var lines []string
	for i := len(rows) - 1; i >= 0; i-- {
		lines = append(lines, rows[i].String())
	}
	return append(lines, markers.String(), axis.String(), tickLabels.String())
}
