package components

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents an exchange's reachability.
type ConnectionStatus struct {
	Name       string
	Connected  bool
	Latency    time.Duration
	LastUpdate time.Time
}

// StatusComponent renders connection status.
type StatusComponent struct {
	connections map[string]ConnectionStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		connections: make(map[string]ConnectionStatus),
	}
}

// Update updates a connection's status.
func (s *StatusComponent) Update(status ConnectionStatus) {
	s.connections[status.Name] = status
}

// Get returns the status for name.
func (s *StatusComponent) Get(name string) (ConnectionStatus, bool) {
	st, ok := s.connections[name]
	return st, ok
}

// View renders the status component as a single line.
func (s *StatusComponent) View() string {
	if len(s.connections) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("No exchanges contacted yet")
	}

	names := make([]string, 0, len(s.connections))
	for name := range s.connections {
		names = append(names, name)
	}
	sort.Strings(names)

	var result string
	for i, name := range names {
		conn := s.connections[name]
		status := "● " + name
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		if !conn.Connected {
			status = "○ " + name + " (unreachable)"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
		} else if conn.Latency > 0 {
			status += fmt.Sprintf(" (%dms)", conn.Latency.Milliseconds())
		}
		if i > 0 {
			result += "  │  "
		}
		result += style.Render(status)
	}
	return result
}
