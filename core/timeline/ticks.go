package timeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// candidate is a tick proposal; lower rank wins when ticks compete for space.
type candidate struct {
	elapsed float64 // minutes before the anchor
	rank    int
	linear  bool
}

const (
	rankNow = iota
	rankDecade
	rankFive
	rankTwo
)

// subYearLadder lists the nice sub-year intervals in minutes.
var subYearLadder = []candidate{
	{elapsed: 1, rank: rankDecade},
	{elapsed: 2, rank: rankTwo},
	{elapsed: 5, rank: rankFive},
	{elapsed: 10, rank: rankDecade},
	{elapsed: 15, rank: rankTwo},
	{elapsed: 30, rank: rankFive},
	{elapsed: deeptime.MinutesPerHour, rank: rankDecade},
	{elapsed: 2 * deeptime.MinutesPerHour, rank: rankTwo},
	{elapsed: 3 * deeptime.MinutesPerHour, rank: rankTwo},
	{elapsed: 6 * deeptime.MinutesPerHour, rank: rankFive},
	{elapsed: 12 * deeptime.MinutesPerHour, rank: rankFive},
	{elapsed: deeptime.MinutesPerDay, rank: rankDecade},
	{elapsed: 2 * deeptime.MinutesPerDay, rank: rankTwo},
	{elapsed: 7 * deeptime.MinutesPerDay, rank: rankFive},
	{elapsed: 14 * deeptime.MinutesPerDay, rank: rankTwo},
	{elapsed: 30 * deeptime.MinutesPerDay, rank: rankDecade},
	{elapsed: 60 * deeptime.MinutesPerDay, rank: rankTwo},
	{elapsed: 90 * deeptime.MinutesPerDay, rank: rankFive},
	{elapsed: 180 * deeptime.MinutesPerDay, rank: rankFive},
}

// maxLadderExponent covers 1 year to 5 trillion years.
const maxLadderExponent = 12

var tickPrinter = message.NewPrinter(language.English)

// GenerateLogTicks returns at most maxTicks labelled ticks ascending by position.
// No two ticks share a rounded pixel and the result is never empty.
func (tl *LogTimeline) GenerateLogTicks(maxTicks int) []schema.Tick {
	if maxTicks < 1 {
		maxTicks = 1
	}
	anchor := tl.Anchor()
	eRight := math.Max(0, anchor.Since(tl.rightmost))
	eLeft := math.Max(eRight, anchor.Since(tl.leftmost))

	var step float64
	cands := ladderCandidates(eRight, eLeft)
	if len(cands) < 2 {
		step = linearStep(eLeft-eRight, maxTicks)
		cands = linearCandidates(eRight, eLeft, step)
	}
	if eRight < 0.5 {
		cands = append(cands, candidate{elapsed: 0, rank: rankNow})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return cands[i].elapsed < cands[j].elapsed
	})

	minSpacing := math.Max(1, tl.pixelWidth/float64(maxTicks))
	var ticks []schema.Tick
	taken := make(map[int64]struct{})
	for _, c := range cands {
		if len(ticks) == maxTicks {
			break
		}
		t, err := anchor.Subtract(deeptime.Duration{Minutes: c.elapsed})
		if err != nil {
			continue
		}
		x := tl.PixelPosition(t)
		if _, dup := taken[int64(math.Round(x))]; dup || !spaced(ticks, x, minSpacing) {
			continue
		}
		label := t.RelativeString(anchor)
		if c.linear {
			label = linearLabel(t, c.elapsed, step)
		}
		taken[int64(math.Round(x))] = struct{}{}
		ticks = append(ticks, schema.Tick{Time: t, Position: x, Label: label})
	}

	if len(ticks) == 0 {
		return []schema.Tick{{
			Time:     tl.rightmost,
			Position: tl.pixelWidth,
			Label:    tl.rightmost.RelativeString(anchor),
		}}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i].Position < ticks[j].Position })
	return ticks
}

func spaced(ticks []schema.Tick, x, minSpacing float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Position-x) < minSpacing {
			return false
		}
	}
	return true
}

// ladderCandidates returns the nice intervals inside [lo, hi] minutes.
func ladderCandidates(lo, hi float64) []candidate {
	var out []candidate
	for _, c := range subYearLadder {
		if c.elapsed >= lo && c.elapsed <= hi {
			out = append(out, c)
		}
	}
	for k := 0; k <= maxLadderExponent; k++ {
		base := math.Pow(10, float64(k)) * deeptime.MinutesPerYear
		for _, c := range []candidate{{base, rankDecade, false}, {2 * base, rankTwo, false}, {5 * base, rankFive, false}} {
			if c.elapsed >= lo && c.elapsed <= hi {
				out = append(out, c)
			}
		}
	}
	return out
}

// linearStep picks a 1/2/5 step in years for wide windows and in minutes otherwise,
// so that the window holds at most maxTicks+1 steps.
func linearStep(width float64, maxTicks int) float64 {
	target := width / float64(maxTicks)
	if !(target > 0) {
		return 1
	}
	unit := 1.0
	if target >= deeptime.MinutesPerYear {
		unit = deeptime.MinutesPerYear
	}
	return niceCeil(target/unit) * unit
}

func niceCeil(v float64) float64 {
	exp := math.Floor(math.Log10(v))
	base := math.Pow(10, exp)
	for _, m := range []float64{1, 2, 5, 10} {
		if m*base >= v*(1-1e-12) {
			return m * base
		}
	}
	return 10 * base
}

func linearCandidates(lo, hi, step float64) []candidate {
	slack := (hi - lo) * 1e-9
	first := math.Ceil((lo - slack) / step)
	last := math.Floor((hi + slack) / step)
	var out []candidate
	for k := first; k <= last; k++ {
		rank := rankTwo
		switch {
		case math.Mod(k, 10) == 0:
			rank = rankDecade
		case math.Mod(k, 5) == 0:
			rank = rankFive
		}
		out = append(out, candidate{elapsed: math.Max(0, k*step), rank: rank, linear: true})
	}
	return out
}

// linearLabel prints enough digits to tell neighbouring steps apart.
func linearLabel(t deeptime.Time, elapsed, step float64) string {
	if d, err := t.ToDate(); err == nil && step < 1000*deeptime.MinutesPerYear {
		switch {
		case step < 1:
			return d.Format("2006-01-02 15:04:05")
		case step < deeptime.MinutesPerDay:
			return d.Format("2006-01-02 15:04")
		case step < deeptime.MinutesPerYear:
			return d.Format("2006-01-02")
		}
	}
	years := elapsed / deeptime.MinutesPerYear
	stepYears := step / deeptime.MinutesPerYear
	switch {
	case years >= 1e9:
		return fmt.Sprintf("%.*f billion years ago", decimalsFor(stepYears/1e9), years/1e9)
	case years >= 1e6:
		return fmt.Sprintf("%.*f million years ago", decimalsFor(stepYears/1e6), years/1e6)
	case decimalsFor(stepYears) == 0:
		return tickPrinter.Sprintf("%d years ago", int64(math.Round(years)))
	default:
		return fmt.Sprintf("%.*f years ago", decimalsFor(stepYears), years)
	}
}

func decimalsFor(step float64) int {
	if !(step > 0) || step >= 1 {
		return 0
	}
	return int(math.Min(9, math.Ceil(-math.Log10(step)-1e-9)))
}
