package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasktracker/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

func ok(msg string) string   { return successStyle.Render("✔ " + msg) }
func fail(msg string) string { return errorStyle.Render("✖ " + msg) }
func warn(msg string) string { return warnStyle.Render("! " + msg) }

func statusStyle(s task.Status) lipgloss.Style {
	switch s {
	case task.StatusCompleted:
		return doneStyle
	case task.StatusInProgress:
		return accentStyle
	}
	return pendingStyle
}

func daysLabel(n int) string {
	switch {
	case n == 0:
		return "due today"
	case n == -1:
		return errorStyle.Render("1 day overdue")
	case n < 0:
		return errorStyle.Render(fmt.Sprintf("%d days overdue", -n))
	case n == 1:
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", n)
}

func renderView(v task.View) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(v.ID))
	sb.WriteString("  ")
	sb.WriteString(statusStyle(v.Status).Render(v.Description))
	sb.WriteString("\n   ")
	sb.WriteString(faintStyle.Render(fmt.Sprintf("%s · %s priority · due %s · ", v.Status, v.Priority, v.DueDate)))
	sb.WriteString(daysLabel(v.DaysRemaining))
	return sb.String()
}
