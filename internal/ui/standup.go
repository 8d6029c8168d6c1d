package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/huddle/internal/standup"
	"github.com/ldi/huddle/internal/store"
	"github.com/ldi/huddle/pkg/models"
)

var (
	standupHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	overtimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

const timelineBarWidth = 50

type standupTickMsg time.Time

func standupTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return standupTickMsg(t)
	})
}

type StandupModel struct {
	store   *store.Store
	session *standup.Session
	users   []*models.User
	report  *models.StandupReport
	err     error
}

func NewStandupModel(st *store.Store) StandupModel {
	return StandupModel{
		store:   st,
		session: standup.NewSession(st, standup.NewRandomPicker()),
		users:   st.ListUsers(),
	}
}

func (m StandupModel) Init() tea.Cmd {
	return standupTick()
}

func (m StandupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "s":
			if m.session.State() == standup.StateNotStarted {
				m.report = nil
				m.session.Start()
			}

		case " ", "p":
			m.session.TogglePause()

		case "n":
			if m.session.State() == standup.StateRunning {
				m.session.NextSpeaker(m.users)
			}

		case "f":
			if m.session.State() != standup.StateNotStarted {
				report, err := m.session.Finish()
				if err != nil {
					m.err = err
					return m, tea.Quit
				}
				m.report = report
			}

		case "c":
			m.session.Cancel()
		}

	case standupTickMsg:
		m.session.Tick()
		return m, standupTick()
	}

	return m, nil
}

func (m StandupModel) View() string {
	var s strings.Builder

	s.WriteString(standupHeaderStyle.Render("Huddle Standup"))
	s.WriteString("\n\n")

	now := time.Now()
	switch m.session.State() {
	case standup.StateNotStarted:
		if m.report != nil {
			s.WriteString(renderReport(m.report))
			s.WriteString("\n")
		} else {
			s.WriteString(fmt.Sprintf("  %d attendees ready\n\n", len(m.users)))
		}

	default:
		remaining := m.session.FormatRemaining()
		if m.session.Remaining() < 0 {
			s.WriteString("  " + overtimeStyle.Render(remaining))
		} else {
			s.WriteString("  " + clockStyle.Render(remaining))
		}
		if m.session.State() == standup.StatePaused {
			s.WriteString("  (paused)")
		}
		s.WriteString("\n\n")

		events := m.store.Activity()
		for _, u := range m.users {
			s.WriteString(m.renderAttendee(u, events, now))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.helpView()))
	s.WriteString("\n")

	return s.String()
}

func (m StandupModel) renderAttendee(u *models.User, events []*models.ActivityEvent, now time.Time) string {
	name := u.Name
	if u.ID == m.session.Focused() {
		name = speakerStyle.Render("> " + name)
	} else {
		name = "  " + name
	}

	line := fmt.Sprintf("%s [%s]", name, u.Status)
	if u.IsBlocked {
		line += " " + blockedStyle.Render("⚑ "+u.BlockerReason)
	}

	segments := standup.DayTimeline(events, u, now, now)
	bar := RenderTimelineBar(segments, now, now, timelineBarWidth)

	return fmt.Sprintf("%s\n    %s\n", line, bar)
}

func (m StandupModel) helpView() string {
	switch m.session.State() {
	case standup.StateNotStarted:
		return "'s' start • 'q' quit"
	case standup.StatePaused:
		return "'space' resume • 'f' finish • 'c' cancel • 'q' quit"
	default:
		return "'n' next speaker • 'space' pause • 'f' finish • 'c' cancel • 'q' quit"
	}
}

func renderReport(r *models.StandupReport) string {
	var s strings.Builder

	min := r.DurationSeconds / 60
	sec := r.DurationSeconds % 60
	s.WriteString(fmt.Sprintf("  Standup finished in %02d:%02d\n\n", min, sec))

	for _, a := range r.Attendees {
		s.WriteString(fmt.Sprintf("  %s (%s)\n", a.Name, a.Role))
		if a.IsBlocked {
			s.WriteString("    " + blockedStyle.Render("⚑ "+a.BlockerReason) + "\n")
		}
		for _, ref := range a.Yesterday {
			s.WriteString(fmt.Sprintf("    yesterday: [%s] %s\n", ref.Label, ref.Title))
		}
		for _, ref := range a.Today {
			s.WriteString(fmt.Sprintf("    today:     [%s] %s\n", ref.Label, ref.Title))
		}
	}

	return s.String()
}

// RenderStandupReport renders a stored report for read-only display.
func RenderStandupReport(r *models.StandupReport) string {
	header := standupHeaderStyle.Render(fmt.Sprintf("Standup %s", r.Date.Format("2006-01-02")))
	return header + "\n\n" + renderReport(r)
}

func RunStandup(st *store.Store) error {
	p := tea.NewProgram(NewStandupModel(st))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(StandupModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
