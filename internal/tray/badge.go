// Package tray renders the ambient notification surfaces: the unread
// badge with its connectivity indicator, and the transient toasts for
// fresh arrivals.
package tray

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/RobertRaul/storefront-notify/internal/stream"
)

// badgeCap is the largest count the badge shows numerically.
const badgeCap = 99

var (
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")).
			Padding(0, 1).
			Bold(true)
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Badge is the unread counter plus connection state, ready to render.
type Badge struct {
	Unread int
	State  stream.State
}

// Label returns the count text: empty when nothing is unread, capped at
// "99+" above the cap.
func (b Badge) Label() string {
	switch {
	case b.Unread <= 0:
		return ""
	case b.Unread > badgeCap:
		return strconv.Itoa(badgeCap) + "+"
	default:
		return strconv.Itoa(b.Unread)
	}
}

// Indicator returns the connectivity dot.
func (b Badge) Indicator() string {
	switch b.State {
	case stream.StateConnected:
		return onlineStyle.Render("●")
	case stream.StateReconnectPending, stream.StateConnecting:
		return pendingStyle.Render("◌")
	default:
		return offlineStyle.Render("○")
	}
}

// Render returns the full badge line. With zero unread only the
// indicator shows.
func (b Badge) Render() string {
	label := b.Label()
	if label == "" {
		return b.Indicator()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, b.Indicator(), " ", badgeStyle.Render(label))
}
