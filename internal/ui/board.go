package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/huddle/internal/store"
	"github.com/ldi/huddle/pkg/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(22)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12"))

	priorityStyles = map[models.TicketPriority]lipgloss.Style{
		models.TicketPriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		models.TicketPriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		models.TicketPriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.TicketPriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
)

// RenderBoard renders the kanban board as bordered columns, three per row.
func RenderBoard(columns []store.BoardColumn) string {
	var rendered []string
	for _, col := range columns {
		rendered = append(rendered, renderColumn(col))
	}

	var rows []string
	for i := 0; i < len(rendered); i += 3 {
		end := i + 3
		if end > len(rendered) {
			end = len(rendered)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}

	return strings.Join(rows, "\n")
}

func renderColumn(col store.BoardColumn) string {
	var s strings.Builder

	s.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tickets))))
	s.WriteString("\n")

	for _, t := range col.Tickets {
		marker := "•"
		if style, ok := priorityStyles[t.Priority]; ok {
			marker = style.Render("•")
		}
		title := t.Title
		if len(title) > 16 {
			title = title[:15] + "…"
		}
		s.WriteString(fmt.Sprintf("%s %s\n", marker, title))
	}
	if len(col.Tickets) == 0 {
		s.WriteString(helpStyle.Render("empty") + "\n")
	}

	return columnStyle.Render(s.String())
}
