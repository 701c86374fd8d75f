package spatial

// Options tunes the declutter pass. Widths are in pixels at text scale 1.
type Options struct {
	CollisionWidth float64 // labels closer than this collide
	TextScale      float64 // multiplies CollisionWidth and LeftMargin
	MaxClusterSize int     // larger clusters are left overlapping
	LeftMargin     float64 // free space required left of a cluster
	PushStep       float64 // vertical offset per rank at the tightest spacing
}

// DefaultOptions returns the standard declutter settings.
func DefaultOptions() Options {
	return Options{
		CollisionWidth: 12,
		TextScale:      1,
		MaxClusterSize: 4,
		LeftMargin:     24,
		PushStep:       14,
	}
}

// PushClustersForVisibility resets every Y to 0 and then lifts the members of small,
// isolated clusters so their labels stop overlapping. The rightmost member of a
// cluster stays on the baseline; the others rise with their rank from the right,
// scaled by how tight the cluster is. It returns the number of clusters pushed.
func PushClustersForVisibility(idx *RangeQueryableEvents, opts Options) int {
	events := idx.events
	for _, e := range events {
		e.Y = 0
	}
	scale := opts.TextScale
	if !(scale > 0) {
		scale = 1
	}
	w := opts.CollisionWidth * scale
	margin := opts.LeftMargin * scale
	if !(w > 0) || opts.MaxClusterSize < 2 {
		return 0
	}

	pushed := 0
	visited := make([]bool, len(events))
	for i, e := range events {
		if visited[i] {
			continue
		}
		if idx.CountInRange(e.X-w, e.X+w) < 2 {
			visited[i] = true
			continue
		}
		start, end := i, i
		for start > 0 && events[start].X-events[start-1].X < w {
			start--
		}
		for end+1 < len(events) && events[end+1].X-events[end].X < w {
			end++
		}
		for j := start; j <= end; j++ {
			visited[j] = true
		}

		size := end - start + 1
		if size < 2 || size > opts.MaxClusterSize {
			continue
		}
		first := events[start].X
		if idx.CountInRange(first-margin, first) != idx.CountInRange(first, first) {
			continue // something sits in the margin
		}

		minGap := w
		for j := start + 1; j <= end; j++ {
			minGap = min(minGap, events[j].X-events[j-1].X)
		}
		tightness := min(1, max(0, (w-minGap)/w))
		for j := start; j <= end; j++ {
			events[j].Y = float64(end-j) * opts.PushStep * tightness
		}
		pushed++
	}
	return pushed
}
