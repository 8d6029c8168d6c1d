// Package standup holds the session state machine for running a daily
// standup (countdown, speaker rotation, frozen reports) and the
// reconstruction of per-user day timelines from the activity log.
package standup

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ldi/huddle/internal/store"
	"github.com/ldi/huddle/pkg/models"
)

// DurationSeconds is the standup time box. The countdown keeps ticking
// past zero; overtime is expected, not an error state.
const DurationSeconds = 15 * 60

type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StatePaused     State = "paused"
)

// Picker chooses a uniform random index in [0, n). Production code uses
// the math/rand implementation; tests inject a scripted sequence.
type Picker interface {
	Pick(n int) int
}

type randPicker struct {
	r *rand.Rand
}

func (p randPicker) Pick(n int) int {
	return p.r.Intn(n)
}

// NewRandomPicker returns the production Picker.
func NewRandomPicker() Picker {
	return randPicker{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Session is the ephemeral state of one standup. It reads and writes the
// store but keeps no state of its own beyond the running session; Finish
// and Cancel both reset it unconditionally.
type Session struct {
	store  *store.Store
	picker Picker
	now    func() time.Time

	state     State
	remaining int
	spoken    map[string]bool
	focused   string
}

func NewSession(st *store.Store, picker Picker) *Session {
	return &Session{
		store:  st,
		picker: picker,
		now:    time.Now,
		state:  StateNotStarted,
		spoken: make(map[string]bool),
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Session) State() State {
	return s.state
}

// Remaining returns the countdown in seconds. Negative past the time box.
func (s *Session) Remaining() int {
	return s.remaining
}

// Focused returns the ID of the highlighted speaker, if any.
func (s *Session) Focused() string {
	return s.focused
}

// Start begins the countdown. Starting an already running session is a
// no-op.
func (s *Session) Start() {
	if s.state != StateNotStarted {
		return
	}
	s.state = StateRunning
	s.remaining = DurationSeconds
}

// TogglePause flips between running and paused without resetting the
// elapsed time.
func (s *Session) TogglePause() {
	switch s.state {
	case StateRunning:
		s.state = StatePaused
	case StatePaused:
		s.state = StateRunning
	}
}

// Tick advances the countdown by one second while running. The value goes
// negative past zero; there is no terminal countdown state.
func (s *Session) Tick() {
	if s.state == StateRunning {
		s.remaining--
	}
}

// FormatRemaining renders the countdown as MM:SS, prefixed with "+" once
// the session runs over.
func (s *Session) FormatRemaining() string {
	r := s.remaining
	prefix := ""
	if r < 0 {
		prefix = "+"
		r = -r
	}
	return fmt.Sprintf("%s%02d:%02d", prefix, r/60, r%60)
}

// NextSpeaker picks one not-yet-spoken user uniformly at random, marks
// them spoken and focuses them. When everyone has spoken it clears the
// focus and returns nil.
func (s *Session) NextSpeaker(users []*models.User) *models.User {
	var unspoken []*models.User
	for _, u := range users {
		if !s.spoken[u.ID] {
			unspoken = append(unspoken, u)
		}
	}
	if len(unspoken) == 0 {
		s.focused = ""
		return nil
	}

	u := unspoken[s.picker.Pick(len(unspoken))]
	s.spoken[u.ID] = true
	s.focused = u.ID
	return u
}

// Finish freezes a report of every user's current state, stores it in
// history and resets the session. With remaining time r the recorded
// duration is the full time box minus r, so overtime yields a duration
// greater than the box. The reset happens even if persisting fails.
func (s *Session) Finish() (*models.StandupReport, error) {
	now := s.now()
	report := &models.StandupReport{
		Date:            now,
		DurationSeconds: DurationSeconds - s.remaining,
	}

	events := s.store.Activity()
	for _, u := range s.store.ListUsers() {
		snap := models.AttendeeSnapshot{
			UserID:        u.ID,
			Name:          u.Name,
			Role:          u.Role,
			Status:        u.Status,
			IsBlocked:     u.IsBlocked,
			BlockerReason: u.BlockerReason,
			Yesterday:     []models.TicketRef{},
			Today:         []models.TicketRef{},
		}

		for _, e := range YesterdayDone(events, u.ID, now) {
			snap.Yesterday = append(snap.Yesterday, s.ticketRef(e.TicketID, e.Details))
		}
		for _, t := range s.store.UserQueue(u.ID) {
			snap.Today = append(snap.Today, ticketRef(t))
		}

		report.Attendees = append(report.Attendees, snap)
	}

	err := s.store.AppendStandupReport(report)
	s.reset()
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Cancel resets the session without producing a report. The state machine
// accepts the transition unconditionally; confirmation is a UI concern.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.state = StateNotStarted
	s.remaining = 0
	s.spoken = make(map[string]bool)
	s.focused = ""
}

func (s *Session) ticketRef(ticketID, fallbackTitle string) models.TicketRef {
	if t := s.store.GetTicket(ticketID); t != nil {
		return ticketRef(t)
	}
	return models.TicketRef{ID: ticketID, Title: fallbackTitle}
}

func ticketRef(t *models.Ticket) models.TicketRef {
	return models.TicketRef{
		ID:    t.ID,
		Title: t.Title,
		Label: ticketLabel(t),
	}
}

// ticketLabel renders the short display code, e.g. "FEAT-31".
func ticketLabel(t *models.Ticket) string {
	if t.Category == "" || t.CategoryNumber == 0 {
		return ""
	}
	code := t.Category
	if len(code) > 4 {
		code = code[:4]
	}
	return fmt.Sprintf("%s-%d", strings.ToUpper(code), t.CategoryNumber)
}
