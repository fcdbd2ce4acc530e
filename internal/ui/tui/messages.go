// Package tui renders pipeline progress as a Bubble Tea terminal UI.
package tui

import "github.com/sunnydmess/k3strap/internal/plan"

// EventMsg carries one executor event into the model.
type EventMsg struct {
	Event plan.Event
}

// DoneMsg signals that the run finished, successfully or not.
type DoneMsg struct {
	Err error
}
