package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunnydmess/k3strap/internal/plan"
)

// Row is the display state of one pipeline node.
type Row struct {
	Name     string
	Kind     plan.Kind
	Status   plan.Status
	Cause    plan.SkipCause
	Duration time.Duration
	Err      error
}

// Model is the Bubble Tea model for a pipeline run.
type Model struct {
	ClusterName string

	Rows  []Row
	index map[string]int

	Started time.Time
	Done    bool
	Err     error

	quitting bool
}

// NewModel builds a model listing the plan's nodes in declaration order.
func NewModel(clusterName string, nodes []*plan.Node) Model {
	m := Model{
		ClusterName: clusterName,
		index:       make(map[string]int, len(nodes)),
		Started:     time.Now(),
	}
	for i, n := range nodes {
		m.index[n.Name] = i
		m.Rows = append(m.Rows, Row{Name: n.Name, Kind: n.Kind, Status: plan.StatusPending})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case EventMsg:
		m.apply(msg.Event)
		return m, nil

	case DoneMsg:
		m.Done = true
		if m.Err == nil {
			m.Err = msg.Err
		}
		return m, tea.Quit
	}

	return m, nil
}

// apply folds one executor event into the row table.
func (m *Model) apply(e plan.Event) {
	i, ok := m.index[e.Node]
	if !ok {
		return
	}
	row := &m.Rows[i]

	switch e.Type {
	case plan.EventNodeStarted:
		row.Status = plan.StatusRunning
	case plan.EventNodeSucceeded:
		row.Status = plan.StatusSucceeded
		row.Duration = e.Duration
	case plan.EventNodeSkipped:
		row.Status = plan.StatusSkipped
		row.Cause = e.Cause
	case plan.EventNodeFailed:
		row.Status = plan.StatusFailed
		row.Duration = e.Duration
		row.Err = e.Err
	}
}

// completed counts rows that reached a terminal status.
func (m Model) completed() int {
	n := 0
	for _, row := range m.Rows {
		switch row.Status {
		case plan.StatusSucceeded, plan.StatusSkipped, plan.StatusFailed:
			n++
		}
	}
	return n
}
