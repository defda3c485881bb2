package bootstrap

import (
	"fmt"
	"io"
	"time"
)

// ComponentStatus holds the tracked status of a component.
type ComponentStatus struct {
	Name    string
	Status  string
	Healthy bool
}

// ClientInfo represents an outbound client, e.g. the selected provider.
type ClientInfo struct {
	Name   string
	Target string
	Status string
	Type   string
}

// Summary collects what was wired at startup and prints it as a tree.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []ComponentStatus
	clients         []ClientInfo
}

// NewSummary creates a new startup summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackComponent adds a component's status.
func (s *Summary) TrackComponent(name, status string, healthy bool) {
	s.components = append(s.components, ComponentStatus{Name: name, Status: status, Healthy: healthy})
}

// TrackClient records an outbound client.
func (s *Summary) TrackClient(name, target, status, clientType string) {
	s.clients = append(s.clients, ClientInfo{Name: name, Target: target, Status: status, Type: clientType})
}

// Components returns the tracked components.
func (s *Summary) Components() []ComponentStatus { return s.components }

// Clients returns the tracked clients.
func (s *Summary) Clients() []ClientInfo { return s.clients }

// Display writes the summary to w.
func (s *Summary) Display(w io.Writer) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "%s %s ready in %dms\n", s.serviceName, version, s.startupDuration.Milliseconds())

	if len(s.clients) > 0 {
		fmt.Fprintln(w, "  clients")
		for i, c := range s.clients {
			fmt.Fprintf(w, "   %s %s %s [%s] %s\n", treePrefix(i, len(s.clients)), statusIcon(c.Status, true), c.Name, c.Type, c.Target)
		}
	}

	if len(s.components) > 0 {
		fmt.Fprintln(w, "  components")
		for i, c := range s.components {
			fmt.Fprintf(w, "   %s %s %s (%s)\n", treePrefix(i, len(s.components)), statusIcon(c.Status, c.Healthy), c.Name, c.Status)
		}
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status string, healthy bool) string {
	if !healthy {
		return "❌"
	}
	switch status {
	case "active", "initialized", "connected", "healthy", "up":
		return "✅"
	case "inactive", "disabled":
		return "⏸️"
	case "error", "failed", "down":
		return "❌"
	default:
		return "⚠️"
	}
}
