package standup

import (
	"testing"
	"time"

	"github.com/ldi/huddle/pkg/models"
)

var day = time.Date(2024, 5, 14, 0, 0, 0, 0, time.Local)

func at(hour, min int) time.Time {
	return time.Date(2024, 5, 14, hour, min, 0, 0, time.Local)
}

func event(typ models.ActivityType, userID, ticketID string, ts time.Time) *models.ActivityEvent {
	return &models.ActivityEvent{
		ID:        ticketID + ts.String(),
		UserID:    userID,
		Type:      typ,
		Timestamp: ts,
		TicketID:  ticketID,
	}
}

func TestTimelinePairsStartWithDone(t *testing.T) {
	user := &models.User{ID: "u1"}
	events := []*models.ActivityEvent{
		event(models.ActivityTaskStart, "u1", "t1", at(9, 0)),
		event(models.ActivityTaskDone, "u1", "t1", at(11, 0)),
	}

	segments := DayTimeline(events, user, day, at(12, 0))
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	seg := segments[0]
	if !seg.Start.Equal(at(9, 0)) || !seg.End.Equal(at(11, 0)) {
		t.Errorf("Expected [09:00, 11:00], got [%v, %v]", seg.Start, seg.End)
	}
	if seg.Kind != SegmentDone {
		t.Errorf("Expected done segment, got %s", seg.Kind)
	}
}

func TestTimelineSynthesizesMissingStart(t *testing.T) {
	user := &models.User{ID: "u1"}
	events := []*models.ActivityEvent{
		event(models.ActivityTaskDone, "u1", "t1", at(11, 0)),
	}

	segments := DayTimeline(events, user, day, at(12, 0))
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if !segments[0].Start.Equal(at(10, 30)) {
		t.Errorf("Expected synthesized start 10:30, got %v", segments[0].Start)
	}
}

func TestTimelinePicksLatestPriorStart(t *testing.T) {
	// Two starts for the same ticket: idle-then-resumed work must not be
	// counted as one long block.
	user := &models.User{ID: "u1"}
	events := []*models.ActivityEvent{
		event(models.ActivityTaskStart, "u1", "t1", at(8, 0)),
		event(models.ActivityTaskStart, "u1", "t1", at(10, 0)),
		event(models.ActivityTaskDone, "u1", "t1", at(11, 0)),
	}

	segments := DayTimeline(events, user, day, at(12, 0))
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if !segments[0].Start.Equal(at(10, 0)) {
		t.Errorf("Expected latest prior start 10:00, got %v", segments[0].Start)
	}
}

func TestTimelineIgnoresOtherUsersAndDays(t *testing.T) {
	user := &models.User{ID: "u1"}
	events := []*models.ActivityEvent{
		event(models.ActivityTaskDone, "u2", "t1", at(11, 0)),
		event(models.ActivityTaskDone, "u1", "t2", at(11, 0).AddDate(0, 0, -1)),
	}

	if segments := DayTimeline(events, user, day, at(12, 0)); len(segments) != 0 {
		t.Errorf("Expected no segments, got %d", len(segments))
	}
}

func TestTimelineLiveSegment(t *testing.T) {
	started := at(10, 0)
	user := &models.User{ID: "u1", CurrentTaskID: "t1", CurrentTaskStartedAt: &started}

	now := at(11, 30)
	segments := DayTimeline(nil, user, day, now)
	if len(segments) != 1 {
		t.Fatalf("Expected 1 live segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.Kind != SegmentActive {
		t.Errorf("Expected active segment, got %s", seg.Kind)
	}
	if !seg.Start.Equal(started) || !seg.End.Equal(now) {
		t.Errorf("Expected [10:00, now], got [%v, %v]", seg.Start, seg.End)
	}

	// Growing on every tick
	later := at(11, 31)
	segments = DayTimeline(nil, user, day, later)
	if !segments[0].End.Equal(later) {
		t.Errorf("Expected live segment to grow to %v, got %v", later, segments[0].End)
	}

	// Start before the display window is clamped to it
	early := at(6, 0)
	user.CurrentTaskStartedAt = &early
	segments = DayTimeline(nil, user, day, now)
	if !segments[0].Start.Equal(at(8, 0)) {
		t.Errorf("Expected start clamped to 08:00, got %v", segments[0].Start)
	}

	// No live segment when viewing another day
	otherDay := day.AddDate(0, 0, -1)
	if segments := DayTimeline(nil, user, otherDay, now); len(segments) != 0 {
		t.Errorf("Expected no live segment on another day, got %d", len(segments))
	}
}

func TestPositionMapsAndClamps(t *testing.T) {
	// 1. Fully inside the 08:00-18:00 window
	left, width, ok := Position(Segment{Start: at(9, 0), End: at(11, 0)}, day)
	if !ok {
		t.Fatalf("Expected segment to be visible")
	}
	if left != 10 || width != 20 {
		t.Errorf("Expected left=10%% width=20%%, got left=%v width=%v", left, width)
	}

	// 2. Partially before the window is clamped at the boundary
	left, width, ok = Position(Segment{Start: at(7, 0), End: at(9, 0)}, day)
	if !ok {
		t.Fatalf("Expected clamped segment to be visible")
	}
	if left != 0 || width != 10 {
		t.Errorf("Expected left=0%% width=10%%, got left=%v width=%v", left, width)
	}

	// 3. Fully outside the window is dropped
	if _, _, ok := Position(Segment{Start: at(5, 0), End: at(7, 0)}, day); ok {
		t.Errorf("Expected segment outside the window to be dropped")
	}
	if _, _, ok := Position(Segment{Start: at(19, 0), End: at(20, 0)}, day); ok {
		t.Errorf("Expected segment outside the window to be dropped")
	}
}

func TestNowMarker(t *testing.T) {
	pos, visible := NowMarker(day, at(13, 0))
	if !visible {
		t.Fatalf("Expected marker to be visible on the current day")
	}
	if pos != 50 {
		t.Errorf("Expected 50%%, got %v", pos)
	}

	if _, visible := NowMarker(day.AddDate(0, 0, -1), at(13, 0)); visible {
		t.Errorf("Expected marker suppressed on another date")
	}
	if _, visible := NowMarker(day, at(19, 0)); visible {
		t.Errorf("Expected marker suppressed outside the window")
	}
}

func TestYesterdayDone(t *testing.T) {
	events := []*models.ActivityEvent{
		event(models.ActivityTaskDone, "u1", "t1", at(11, 0).AddDate(0, 0, -1)),
		event(models.ActivityTaskDone, "u1", "t2", at(11, 0)),
		event(models.ActivityTaskDone, "u1", "t3", at(11, 0).AddDate(0, 0, -2)),
		event(models.ActivityTaskStart, "u1", "t4", at(10, 0).AddDate(0, 0, -1)),
		event(models.ActivityTaskDone, "u2", "t5", at(11, 0).AddDate(0, 0, -1)),
	}

	got := YesterdayDone(events, "u1", day)
	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	if got[0].TicketID != "t1" {
		t.Errorf("Expected t1, got %s", got[0].TicketID)
	}
}
