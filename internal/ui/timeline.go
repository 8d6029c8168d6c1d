package ui

import (
	"time"

	"github.com/ldi/huddle/internal/standup"
)

const (
	timelineEmpty  = '·'
	timelineDone   = '█'
	timelineActive = '▓'
	timelineNow    = '│'
)

// RenderTimelineBar maps a day's segments onto a fixed-width character bar
// covering the 08:00-18:00 display window. Completed blocks render solid,
// the in-progress block renders shaded, and the current time renders as a
// marker when the bar shows today.
func RenderTimelineBar(segments []standup.Segment, date, now time.Time, width int) string {
	if width <= 0 {
		return ""
	}

	bar := make([]rune, width)
	for i := range bar {
		bar[i] = timelineEmpty
	}

	for _, seg := range segments {
		left, w, ok := standup.Position(seg, date)
		if !ok {
			continue
		}
		start := int(left / 100 * float64(width))
		end := start + int(w/100*float64(width))
		if end <= start {
			end = start + 1
		}
		if end > width {
			end = width
		}
		fill := timelineDone
		if seg.Kind == standup.SegmentActive {
			fill = timelineActive
		}
		for i := start; i < end; i++ {
			bar[i] = fill
		}
	}

	if pos, visible := standup.NowMarker(date, now); visible {
		i := int(pos / 100 * float64(width))
		if i >= width {
			i = width - 1
		}
		bar[i] = timelineNow
	}

	return string(bar)
}
