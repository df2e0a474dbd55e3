package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fastygo/taskflow/domain"
)

const (
	IconTask    = "📝"
	IconDone    = "✅"
	IconOpen    = "⬜"
	IconCoin    = "🪙"
	IconStore   = "🛍️"
	IconTrophy  = "🏆"
	IconCal     = "📅"
	IconGear    = "⚙️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconOverdue = "⏰"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	Today    = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func Coins(n int) string {
	return Gold.Render(fmt.Sprintf("%s %d", IconCoin, n))
}

func PriorityText(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return Bad.Render("high")
	case domain.PriorityMedium:
		return Warn.Render("medium")
	case domain.PriorityLow:
		return Good.Render("low")
	default:
		return Muted.Render(string(p))
	}
}

// TaskLine renders one task row: check box, id, title, priority, category and due date.
func TaskLine(t domain.Task, today domain.Date) string {
	box := IconOpen
	title := t.Title
	if t.Completed {
		box = IconDone
		title = Muted.Strikethrough(true).Render(title)
	}
	parts := []string{
		box,
		Key.Render(fmt.Sprintf("#%d", t.ID)),
		title,
		PriorityText(t.Priority),
		Muted.Render(t.Category),
	}
	if t.DueDate != nil {
		due := t.DueDate.String()
		if t.IsOverdue(today) {
			due = Bad.Render(IconOverdue + " " + due)
		} else {
			due = Muted.Render(due)
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}

// ProgressBar draws a fixed-width bar for a percentage in [0,100].
func ProgressBar(percent int, width int) string {
	if width <= 0 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
