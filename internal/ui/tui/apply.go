package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// Run wraps a pipeline run with the terminal UI. The run function executes
// in the background and reports through the observer it is handed; the UI
// stays up until the run finishes or the user detaches. The run's own error
// is returned after the UI shuts down.
func Run(clusterName string, nodes []*plan.Node, run func(obs plan.Observer) error) error {
	m := NewModel(clusterName, nodes)
	p := tea.NewProgram(m)

	done := make(chan error, 1)
	go func() {
		err := run(plan.ObserverFunc(func(e plan.Event) {
			p.Send(EventMsg{Event: e})
		}))
		done <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	// Detaching the UI does not cancel the pipeline; wait for the run
	// either way. The run's error, not the UI's, decides the outcome.
	return <-done
}
