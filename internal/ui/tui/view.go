package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting && !m.Done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("k3strap") + " " + subtitleStyle.Render(m.ClusterName))
	b.WriteString("\n\n")

	for _, row := range m.Rows {
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(m.footer()))
	b.WriteString("\n")

	return b.String()
}

// renderRow renders one node line with its status marker.
func renderRow(row Row) string {
	var marker, name string

	switch row.Status {
	case plan.StatusRunning:
		marker = activeStyle.Render(spinner)
		name = activeStyle.Render(row.Name)
	case plan.StatusSucceeded:
		marker = okStyle.Render(checkMark)
		name = row.Name
	case plan.StatusSkipped:
		marker = skippedStyle.Render(skipMark)
		name = dimStyle.Render(row.Name)
	case plan.StatusFailed:
		marker = failedStyle.Render(crossMark)
		name = failedStyle.Render(row.Name)
	default:
		marker = dimStyle.Render(pending)
		name = dimStyle.Render(row.Name)
	}

	line := fmt.Sprintf("  %s %s", marker, name)
	if suffix := rowSuffix(row); suffix != "" {
		line += " " + dimStyle.Render(suffix)
	}
	return line
}

// rowSuffix renders the trailing detail: duration, skip cause, or error.
func rowSuffix(row Row) string {
	switch row.Status {
	case plan.StatusSucceeded:
		if row.Duration > 0 {
			return "(" + formatDuration(row.Duration) + ")"
		}
	case plan.StatusSkipped:
		return "(" + string(row.Cause) + ")"
	case plan.StatusFailed:
		if row.Err != nil {
			return row.Err.Error()
		}
	}
	return ""
}

// footer renders the progress summary line.
func (m Model) footer() string {
	elapsed := formatDuration(time.Since(m.Started))
	if m.Done {
		if m.Err != nil {
			return failedStyle.Render(fmt.Sprintf("failed after %s: %v", elapsed, m.Err))
		}
		return okStyle.Render(fmt.Sprintf("completed in %s", elapsed))
	}
	return fmt.Sprintf("%d/%d nodes  %s  press q to detach", m.completed(), len(m.Rows), elapsed)
}

// formatDuration renders durations the way humans read them: seconds under
// a minute, then minutes and seconds, then hours and minutes.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
