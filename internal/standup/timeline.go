package standup

import (
	"time"

	"github.com/ldi/huddle/pkg/models"
)

// The timeline bar renders a fixed local display window. Events outside
// it are kept for matching but clamped away visually.
const (
	windowStartHour = 8
	windowEndHour   = 18
)

// fallbackTaskSpan is the assumed length of a task whose task_done event
// has no matching task_start. An arbitrary display heuristic, kept for
// parity with observed behavior.
const fallbackTaskSpan = 30 * time.Minute

type SegmentKind string

const (
	SegmentDone   SegmentKind = "done"
	SegmentActive SegmentKind = "active"
)

// Segment is one classified span of work on a user's day timeline. An
// active segment has no fixed end; its End is "now" at reconstruction
// time and grows on every tick.
type Segment struct {
	Start    time.Time
	End      time.Time
	Kind     SegmentKind
	TicketID string
}

// DayTimeline reconstructs a user's work segments for one calendar day
// from the activity log.
//
// Every task_done event is paired with the latest prior task_start for the
// same ticket; picking the latest avoids counting idle-then-resumed time
// as one long block. A task_done with no prior start gets a synthesized
// start thirty minutes earlier. If the user currently has an active task
// and the viewed day is today, one live segment runs from the task start
// (clamped to the window) until now.
//
// Segments may overlap; they are not merged. The caller decides z-order.
func DayTimeline(events []*models.ActivityEvent, user *models.User, date, now time.Time) []Segment {
	dayStart := midnight(date)

	var dayEvents []*models.ActivityEvent
	for _, e := range events {
		if e.UserID == user.ID && !e.Timestamp.Before(dayStart) {
			dayEvents = append(dayEvents, e)
		}
	}

	var segments []Segment
	for _, done := range dayEvents {
		if done.Type != models.ActivityTaskDone {
			continue
		}

		var matched *models.ActivityEvent
		for _, e := range dayEvents {
			if e.Type != models.ActivityTaskStart || e.TicketID != done.TicketID {
				continue
			}
			if !e.Timestamp.Before(done.Timestamp) {
				continue
			}
			if matched == nil || e.Timestamp.After(matched.Timestamp) {
				matched = e
			}
		}

		start := done.Timestamp.Add(-fallbackTaskSpan)
		if matched != nil {
			start = matched.Timestamp
		}

		segments = append(segments, Segment{
			Start:    start,
			End:      done.Timestamp,
			Kind:     SegmentDone,
			TicketID: done.TicketID,
		})
	}

	if user.CurrentTaskID != "" && user.CurrentTaskStartedAt != nil && sameDay(date, now) {
		start := *user.CurrentTaskStartedAt
		if ws := windowStart(date); start.Before(ws) {
			start = ws
		}
		segments = append(segments, Segment{
			Start:    start,
			End:      now,
			Kind:     SegmentActive,
			TicketID: user.CurrentTaskID,
		})
	}

	return segments
}

// Position maps a segment onto the display window of its day, returning
// the left edge and width as percentages of the bar. ok is false when the
// segment lies entirely outside the window; partial overlaps are clamped
// at the boundary.
func Position(seg Segment, date time.Time) (left, width float64, ok bool) {
	ws := windowStart(date)
	we := windowEnd(date)

	start := seg.Start
	end := seg.End
	if !end.After(ws) || !start.Before(we) {
		return 0, 0, false
	}
	if start.Before(ws) {
		start = ws
	}
	if end.After(we) {
		end = we
	}

	total := we.Sub(ws).Seconds()
	left = start.Sub(ws).Seconds() / total * 100
	width = end.Sub(start).Seconds() / total * 100
	return left, width, true
}

// NowMarker returns the percent position of the current time on the
// viewed day's bar. visible is false when the viewed date is not the
// current calendar date or when now falls outside the display window.
func NowMarker(date, now time.Time) (pos float64, visible bool) {
	if !sameDay(date, now) {
		return 0, false
	}
	ws := windowStart(date)
	we := windowEnd(date)
	if now.Before(ws) || now.After(we) {
		return 0, false
	}
	return now.Sub(ws).Seconds() / we.Sub(ws).Seconds() * 100, true
}

// YesterdayDone returns the task_done events for a user that fall within
// the calendar day before date. Calendar-day, not a rolling 24 hours.
func YesterdayDone(events []*models.ActivityEvent, userID string, date time.Time) []*models.ActivityEvent {
	yesterdayStart := midnight(date).AddDate(0, 0, -1)
	todayStart := midnight(date)

	var out []*models.ActivityEvent
	for _, e := range events {
		if e.UserID != userID || e.Type != models.ActivityTaskDone {
			continue
		}
		if e.Timestamp.Before(yesterdayStart) || !e.Timestamp.Before(todayStart) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func windowStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), windowStartHour, 0, 0, 0, date.Location())
}

func windowEnd(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), windowEndHour, 0, 0, 0, date.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
